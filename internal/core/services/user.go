package services

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

type IUserService interface {
	FindByID(ctx context.Context, id int64) (*domain.UserResponse, error)
	FindAll(ctx context.Context, page domain.PageRequest) (domain.PageResponse[domain.UserResponse], error)
	Update(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.UserResponse, error)
	Delete(ctx context.Context, id int64) error
}

type UserService struct {
	log      *slog.Logger
	users    domain.UserRepository
	validate *validator.Validate
}

func NewUserService(log *slog.Logger, users domain.UserRepository) *UserService {
	return &UserService{
		log:      log,
		users:    users,
		validate: validator.New(),
	}
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	resp := user.Response()
	return &resp, nil
}

func (s *UserService) FindAll(ctx context.Context, page domain.PageRequest) (domain.PageResponse[domain.UserResponse], error) {
	users, err := s.users.FindAll(ctx, page)
	if err != nil {
		return domain.PageResponse[domain.UserResponse]{}, err
	}
	return domain.MapPage(users, domain.User.Response), nil
}

func (s *UserService) Update(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.UserResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Invalid update request", err)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.users.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Username already in use")
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Email already in use")
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "hash password failed", err)
		}
		user.Password = string(hash)
	}

	updated, err := s.users.Update(ctx, *user)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("User not found")
	}
	resp := updated.Response()
	return &resp, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", slog.Int64("user_id", id))
	return nil
}
