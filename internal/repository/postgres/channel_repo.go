package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

func (r *ChannelRepo) Create(ctx context.Context, channel *domain.Channel) error {
	query := `
		INSERT INTO channels (id, server_id, name, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, channel.ID, channel.ServerID, channel.Name, channel.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// channels_server_id_name_key: another create won the name.
		return repository.ErrConflict
	}
	return err
}

func (r *ChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	query := `SELECT id, server_id, name, created_at FROM channels WHERE id = $1`

	var ch domain.Channel
	err := r.pool.QueryRow(ctx, query, id).Scan(&ch.ID, &ch.ServerID, &ch.Name, &ch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChannelRepo) GetByServerAndName(ctx context.Context, serverID uuid.UUID, name string) (*domain.Channel, error) {
	query := `SELECT id, server_id, name, created_at FROM channels WHERE server_id = $1 AND name = $2`

	var ch domain.Channel
	err := r.pool.QueryRow(ctx, query, serverID, name).Scan(&ch.ID, &ch.ServerID, &ch.Name, &ch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChannelRepo) ListByServer(ctx context.Context, serverID uuid.UUID) ([]domain.Channel, error) {
	query := `SELECT id, server_id, name, created_at FROM channels WHERE server_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(&ch.ID, &ch.ServerID, &ch.Name, &ch.CreatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (r *ChannelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Messages and typing indicators of the channel are left in place; reads
	// tolerate dangling conversation references.
	_, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	return err
}
