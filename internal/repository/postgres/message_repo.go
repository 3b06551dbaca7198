package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/haven/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_kind, conversation_id, sender_id, content, attachment_id, deleted, deleted_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.Conversation.Kind, msg.Conversation.ID, msg.SenderID,
		msg.Content, msg.AttachmentID, msg.Deleted, msg.DeletedReason, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	// LEFT JOIN: the sender relation is non-owning, the message outlives a
	// deleted sender account.
	query := `
		SELECT m.id, m.conversation_kind, m.conversation_id, m.sender_id,
		       m.content, m.attachment_id, m.deleted, m.deleted_reason, m.created_at,
		       u.username, u.display_name
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.id = $1`

	var msg domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.Conversation.Kind, &msg.Conversation.ID, &msg.SenderID,
		&msg.Content, &msg.AttachmentID, &msg.Deleted, &msg.DeletedReason, &msg.CreatedAt,
		&msg.SenderUsername, &msg.SenderDisplayName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conv domain.ConversationRef) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.conversation_kind, m.conversation_id, m.sender_id,
		       m.content, m.attachment_id, m.deleted, m.deleted_reason, m.created_at,
		       u.username, u.display_name
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_kind = $1 AND m.conversation_id = $2
		ORDER BY m.created_at, m.id`

	rows, err := r.pool.Query(ctx, query, conv.Kind, conv.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.Conversation.Kind, &msg.Conversation.ID, &msg.SenderID,
			&msg.Content, &msg.AttachmentID, &msg.Deleted, &msg.DeletedReason, &msg.CreatedAt,
			&msg.SenderUsername, &msg.SenderDisplayName,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) MarkDeleted(ctx context.Context, id uuid.UUID, reason *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET deleted = TRUE, deleted_reason = $1 WHERE id = $2`, reason, id)
	return err
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
