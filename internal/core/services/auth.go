package services

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

const bcryptCost = 12

type IAuthService interface {
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.AuthResponse, error)
	SignIn(ctx context.Context, req domain.SignInRequest) (*domain.AuthResponse, error)
}

type AuthService struct {
	log      *slog.Logger
	users    domain.UserRepository
	tokens   *TokenService
	validate *validator.Validate
}

func NewAuthService(log *slog.Logger, users domain.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		log:      log,
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (s *AuthService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Invalid sign up request", err)
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Email already in use")
	}
	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Username already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "hash password failed", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user signed up", slog.Int64("user_id", user.ID))
	return s.issueTokens(user)
}

func (s *AuthService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Invalid sign in request", err)
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.BadRequest("Password does not match")
	}
	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *domain.User) (*domain.AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
	}, nil
}
