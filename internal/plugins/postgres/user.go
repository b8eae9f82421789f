package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, email, password, name, photo_url, deleted_at, created_at, updated_at
		FROM "user"
		WHERE id = $1 AND deleted_at IS NULL
	`
	exec := GetExecutor(ctx, r.db)
	return scanUser(exec.QueryRowContext(ctx, query, id))
}

func (r *UserRepo) FindAll(ctx context.Context, page domain.PageRequest) (domain.PageResponse[domain.User], error) {
	query := `
		SELECT id, username, email, password, name, photo_url, deleted_at, created_at, updated_at
		FROM "user"
		WHERE deleted_at IS NULL AND id < $1
		ORDER BY id DESC
		LIMIT $2
	`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, page.CursorOrMax(), page.Limit())
	if err != nil {
		return domain.PageResponse[domain.User]{}, apperr.Wrap(apperr.CodeInternal, "list users failed", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.Password, &u.Name,
			&u.PhotoURL, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return domain.PageResponse[domain.User]{}, apperr.Wrap(apperr.CodeInternal, "scan user failed", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return domain.PageResponse[domain.User]{}, apperr.Wrap(apperr.CodeInternal, "list users failed", err)
	}
	return pageOf(users, page, func(u domain.User) int64 { return u.ID }), nil
}

func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	query := `
		SELECT id, username, email, password, name, photo_url, deleted_at, created_at, updated_at
		FROM "user"
		WHERE (username = $1 OR email = $1) AND deleted_at IS NULL
	`
	exec := GetExecutor(ctx, r.db)
	return scanUser(exec.QueryRowContext(ctx, query, usernameOrEmail))
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(1) > 0 FROM "user" WHERE username = $1 AND deleted_at IS NULL`
	exec := GetExecutor(ctx, r.db)
	var exists bool
	if err := exec.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, apperr.Wrap(apperr.CodeInternal, "username existence check failed", err)
	}
	return exists, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT COUNT(1) > 0 FROM "user" WHERE email = $1 AND deleted_at IS NULL`
	exec := GetExecutor(ctx, r.db)
	var exists bool
	if err := exec.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, apperr.Wrap(apperr.CodeInternal, "email existence check failed", err)
	}
	return exists, nil
}

func (r *UserRepo) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	query := `
		INSERT INTO "user" (username, email, password, name, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, password, name, photo_url, deleted_at, created_at, updated_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanUser(exec.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Password, user.Name, user.PhotoURL,
	))
}

func (r *UserRepo) Update(ctx context.Context, user domain.User) (*domain.User, error) {
	query := `
		UPDATE "user"
		SET username = $1, email = $2, password = $3, name = $4, photo_url = $5, updated_at = now()
		WHERE id = $6 AND deleted_at IS NULL
		RETURNING id, username, email, password, name, photo_url, deleted_at, created_at, updated_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanUser(exec.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Password, user.Name, user.PhotoURL, user.ID,
	))
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE "user" SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, query, id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "delete user failed", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.Name,
		&u.PhotoURL, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "scan user failed", err)
	}
	return &u, nil
}

// pageOf folds rows into a keyset page: next_cursor is the last row's id.
func pageOf[T any](data []T, page domain.PageRequest, id func(T) int64) domain.PageResponse[T] {
	resp := domain.PageResponse[T]{Data: data, Size: page.Limit()}
	if len(data) > 0 {
		last := id(data[len(data)-1])
		resp.NextCursor = &last
	}
	return resp
}
