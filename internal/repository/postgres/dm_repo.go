package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/haven/internal/domain"
)

type DMRepo struct {
	pool *pgxpool.Pool
}

func NewDMRepo(pool *pgxpool.Pool) *DMRepo {
	return &DMRepo{pool: pool}
}

func (r *DMRepo) CreateConversation(ctx context.Context, conv *domain.DMConversation) error {
	query := `
		INSERT INTO dm_conversations (id, user1_id, user2_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, conv.ID, conv.User1ID, conv.User2ID, conv.CreatedAt)
	return err
}

func (r *DMRepo) GetConversationByID(ctx context.Context, id uuid.UUID) (*domain.DMConversation, error) {
	query := `SELECT id, user1_id, user2_id, created_at FROM dm_conversations WHERE id = $1`

	var conv domain.DMConversation
	err := r.pool.QueryRow(ctx, query, id).Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *DMRepo) GetConversationByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.DMConversation, error) {
	query := `SELECT id, user1_id, user2_id, created_at FROM dm_conversations WHERE user1_id = $1 AND user2_id = $2`

	var conv domain.DMConversation
	err := r.pool.QueryRow(ctx, query, user1ID, user2ID).Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *DMRepo) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error) {
	query := `
		SELECT c.id, c.user1_id, c.user2_id, c.created_at,
		       u.id, u.username, u.display_name
		FROM dm_conversations c
		JOIN users u ON u.id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
		WHERE c.user1_id = $1 OR c.user2_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.DMConversation
	for rows.Next() {
		var conv domain.DMConversation
		if err := rows.Scan(
			&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt,
			&conv.OtherUserID, &conv.OtherUserUsername, &conv.OtherUserDisplayName,
		); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}
