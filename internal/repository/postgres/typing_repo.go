package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/haven/internal/domain"
)

type TypingRepo struct {
	pool *pgxpool.Pool
}

func NewTypingRepo(pool *pgxpool.Pool) *TypingRepo {
	return &TypingRepo{pool: pool}
}

// Upsert rides the unique key: a losing concurrent insert turns into an
// expiry update instead of a constraint error. (xmax <> 0) reports whether
// the row pre-existed.
func (r *TypingRepo) Upsert(ctx context.Context, ind *domain.TypingIndicator) (bool, error) {
	query := `
		INSERT INTO typing_indicators (id, user_id, conversation_kind, conversation_id, expire_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, conversation_kind, conversation_id)
		DO UPDATE SET expire_at = EXCLUDED.expire_at
		RETURNING id, (xmax <> 0)`

	var existed bool
	err := r.pool.QueryRow(ctx, query,
		ind.ID, ind.UserID, ind.Conversation.Kind, ind.Conversation.ID, ind.ExpireAt,
	).Scan(&ind.ID, &existed)
	return existed, err
}

func (r *TypingRepo) GetByUserAndConversation(ctx context.Context, userID uuid.UUID, conv domain.ConversationRef) (*domain.TypingIndicator, error) {
	// (user_id, conversation_kind, conversation_id) is unique, at most one
	// live indicator per user and conversation.
	query := `
		SELECT id, user_id, conversation_kind, conversation_id, expire_at
		FROM typing_indicators
		WHERE user_id = $1 AND conversation_kind = $2 AND conversation_id = $3`

	var ind domain.TypingIndicator
	err := r.pool.QueryRow(ctx, query, userID, conv.Kind, conv.ID).Scan(
		&ind.ID, &ind.UserID, &ind.Conversation.Kind, &ind.Conversation.ID, &ind.ExpireAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ind, nil
}

func (r *TypingRepo) ListByConversation(ctx context.Context, conv domain.ConversationRef) ([]domain.TypingIndicator, error) {
	query := `
		SELECT id, user_id, conversation_kind, conversation_id, expire_at
		FROM typing_indicators
		WHERE conversation_kind = $1 AND conversation_id = $2`

	rows, err := r.pool.Query(ctx, query, conv.Kind, conv.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indicators []domain.TypingIndicator
	for rows.Next() {
		var ind domain.TypingIndicator
		if err := rows.Scan(
			&ind.ID, &ind.UserID, &ind.Conversation.Kind, &ind.Conversation.ID, &ind.ExpireAt,
		); err != nil {
			return nil, err
		}
		indicators = append(indicators, ind)
	}
	return indicators, rows.Err()
}

func (r *TypingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM typing_indicators WHERE id = $1`, id)
	return err
}
