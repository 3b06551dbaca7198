package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/haven/internal/domain"
)

type InviteRepo struct {
	pool *pgxpool.Pool
}

func NewInviteRepo(pool *pgxpool.Pool) *InviteRepo {
	return &InviteRepo{pool: pool}
}

func (r *InviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (id, server_id, created_by, max_uses, uses, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.ServerID, inv.CreatedBy, inv.MaxUses, inv.Uses, inv.ExpiresAt, inv.CreatedAt,
	)
	return err
}

func (r *InviteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error) {
	query := `
		SELECT id, server_id, created_by, max_uses, uses, expires_at, created_at
		FROM invites
		WHERE id = $1`

	var inv domain.Invite
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.ServerID, &inv.CreatedBy, &inv.MaxUses, &inv.Uses, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InviteRepo) ListByServer(ctx context.Context, serverID uuid.UUID) ([]domain.Invite, error) {
	query := `
		SELECT id, server_id, created_by, max_uses, uses, expires_at, created_at
		FROM invites
		WHERE server_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(
			&inv.ID, &inv.ServerID, &inv.CreatedBy, &inv.MaxUses, &inv.Uses, &inv.ExpiresAt, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// ConsumeUse relies on the database serializing the guarded UPDATE: the row
// is only touched while uses is still below max_uses, so concurrent
// redemptions cannot overshoot the limit.
func (r *InviteRepo) ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE invites
		SET uses = uses + 1
		WHERE id = $1 AND (max_uses = 0 OR uses < max_uses)`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
