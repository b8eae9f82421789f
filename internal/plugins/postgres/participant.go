package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

type ParticipantRepo struct {
	db *sql.DB
}

func NewParticipantRepo(db *sql.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

func (r *ParticipantRepo) FindByConversation(ctx context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.Participant], error) {
	query := `
		SELECT id, conversation_id, user_id, joined_at, roles, deleted_at, created_at
		FROM "conversation_participant"
		WHERE deleted_at IS NULL AND conversation_id = $1 AND id < $2
		ORDER BY id DESC
		LIMIT $3
	`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, conversationID, page.CursorOrMax(), page.Limit())
	if err != nil {
		return domain.PageResponse[domain.Participant]{}, apperr.Wrap(apperr.CodeInternal, "list participants failed", err)
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(
			&p.ID, &p.ConversationID, &p.UserID, &p.JoinedAt,
			&p.Roles, &p.DeletedAt, &p.CreatedAt,
		); err != nil {
			return domain.PageResponse[domain.Participant]{}, apperr.Wrap(apperr.CodeInternal, "scan participant failed", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return domain.PageResponse[domain.Participant]{}, apperr.Wrap(apperr.CodeInternal, "list participants failed", err)
	}
	return pageOf(participants, page, func(p domain.Participant) int64 { return p.ID }), nil
}

func (r *ParticipantRepo) ExistsByConversationAndUser(ctx context.Context, conversationID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM "conversation_participant"
			WHERE conversation_id = $1 AND user_id = $2 AND deleted_at IS NULL
		)
	`
	exec := GetExecutor(ctx, r.db)
	var exists bool
	if err := exec.QueryRowContext(ctx, query, conversationID, userID).Scan(&exists); err != nil {
		return false, apperr.Wrap(apperr.CodeInternal, "membership check failed", err)
	}
	return exists, nil
}

func (r *ParticipantRepo) Create(ctx context.Context, participant domain.Participant) (*domain.Participant, error) {
	query := `
		INSERT INTO "conversation_participant" (conversation_id, user_id, joined_at, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, conversation_id, user_id, joined_at, roles, deleted_at, created_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanParticipant(exec.QueryRowContext(ctx, query,
		participant.ConversationID,
		participant.UserID,
		participant.JoinedAt,
		participant.Roles,
	))
}

func (r *ParticipantRepo) UpdateRoles(ctx context.Context, id int64, roles string) (*domain.Participant, error) {
	query := `
		UPDATE "conversation_participant"
		SET roles = $1
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, conversation_id, user_id, joined_at, roles, deleted_at, created_at
	`
	exec := GetExecutor(ctx, r.db)
	return scanParticipant(exec.QueryRowContext(ctx, query, roles, id))
}

func (r *ParticipantRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE "conversation_participant" SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, query, id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "delete participant failed", err)
	}
	return nil
}

func scanParticipant(row *sql.Row) (*domain.Participant, error) {
	var p domain.Participant
	err := row.Scan(
		&p.ID, &p.ConversationID, &p.UserID, &p.JoinedAt,
		&p.Roles, &p.DeletedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "scan participant failed", err)
	}
	return &p, nil
}
