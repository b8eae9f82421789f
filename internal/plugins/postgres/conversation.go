package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) FindByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	query := `
		SELECT id, private_id, author_id, type, name, photo_url, deleted_at, created_at, updated_at
		FROM "conversation"
		WHERE id = $1 AND deleted_at IS NULL
	`
	exec := GetExecutor(ctx, r.db)
	return scanConversation(exec.QueryRowContext(ctx, query, id))
}

func (r *ConversationRepo) FindByAuthor(ctx context.Context, authorID int64, page domain.PageRequest) (domain.PageResponse[domain.Conversation], error) {
	query := `
		SELECT id, private_id, author_id, type, name, photo_url, deleted_at, created_at, updated_at
		FROM "conversation"
		WHERE deleted_at IS NULL AND author_id = $1 AND id < $2
		ORDER BY id DESC
		LIMIT $3
	`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, authorID, page.CursorOrMax(), page.Limit())
	if err != nil {
		return domain.PageResponse[domain.Conversation]{}, apperr.Wrap(apperr.CodeInternal, "list conversations failed", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(
			&c.ID, &c.PrivateID, &c.AuthorID, &c.Type, &c.Name,
			&c.PhotoURL, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return domain.PageResponse[domain.Conversation]{}, apperr.Wrap(apperr.CodeInternal, "scan conversation failed", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return domain.PageResponse[domain.Conversation]{}, apperr.Wrap(apperr.CodeInternal, "list conversations failed", err)
	}
	return pageOf(conversations, page, func(c domain.Conversation) int64 { return c.ID }), nil
}

func (r *ConversationRepo) ExistsByPrivateID(ctx context.Context, privateID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM "conversation" WHERE private_id = $1 AND deleted_at IS NULL
		)
	`
	exec := GetExecutor(ctx, r.db)
	var exists bool
	if err := exec.QueryRowContext(ctx, query, privateID).Scan(&exists); err != nil {
		return false, apperr.Wrap(apperr.CodeInternal, "private id existence check failed", err)
	}
	return exists, nil
}

func (r *ConversationRepo) Create(ctx context.Context, conversation domain.Conversation) (*domain.Conversation, error) {
	query := `
		INSERT INTO "conversation" (private_id, author_id, type, name, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, private_id, author_id, type, name, photo_url, deleted_at, created_at, updated_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanConversation(exec.QueryRowContext(ctx, query,
		conversation.PrivateID,
		conversation.AuthorID,
		string(conversation.Type),
		conversation.Name,
		conversation.PhotoURL,
	))
}

func (r *ConversationRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE "conversation" SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, query, id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "delete conversation failed", err)
	}
	return nil
}

func scanConversation(row *sql.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	err := row.Scan(
		&c.ID, &c.PrivateID, &c.AuthorID, &c.Type, &c.Name,
		&c.PhotoURL, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "scan conversation failed", err)
	}
	return &c, nil
}
