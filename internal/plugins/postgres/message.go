package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, text, deleted_at, created_at, updated_at
		FROM "message"
		WHERE id = $1 AND deleted_at IS NULL
	`
	exec := GetExecutor(ctx, r.db)
	return scanMessage(exec.QueryRowContext(ctx, query, id))
}

func (r *MessageRepo) FindByConversation(ctx context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.Message], error) {
	query := `
		SELECT id, conversation_id, sender_id, text, deleted_at, created_at, updated_at
		FROM "message"
		WHERE deleted_at IS NULL AND conversation_id = $1 AND id < $2
		ORDER BY id DESC
		LIMIT $3
	`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, conversationID, page.CursorOrMax(), page.Limit())
	if err != nil {
		return domain.PageResponse[domain.Message]{}, apperr.Wrap(apperr.CodeInternal, "list messages failed", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.Text,
			&m.DeletedAt, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return domain.PageResponse[domain.Message]{}, apperr.Wrap(apperr.CodeInternal, "scan message failed", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return domain.PageResponse[domain.Message]{}, apperr.Wrap(apperr.CodeInternal, "list messages failed", err)
	}
	return pageOf(messages, page, func(m domain.Message) int64 { return m.ID }), nil
}

func (r *MessageRepo) Create(ctx context.Context, message domain.Message) (*domain.Message, error) {
	query := `
		INSERT INTO "message" (conversation_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, sender_id, text, deleted_at, created_at, updated_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanMessage(exec.QueryRowContext(ctx, query,
		message.ConversationID, message.SenderID, message.Text,
	))
}

func (r *MessageRepo) Update(ctx context.Context, message domain.Message) (*domain.Message, error) {
	query := `
		UPDATE "message"
		SET text = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, conversation_id, sender_id, text, deleted_at, created_at, updated_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanMessage(exec.QueryRowContext(ctx, query, message.Text, message.ID))
}

func (r *MessageRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE "message" SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, query, id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "delete message failed", err)
	}
	return nil
}

func scanMessage(row *sql.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Text,
		&m.DeletedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "scan message failed", err)
	}
	return &m, nil
}
