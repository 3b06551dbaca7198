package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/haven/internal/domain"
)

type ServerRepo struct {
	pool *pgxpool.Pool
}

func NewServerRepo(pool *pgxpool.Pool) *ServerRepo {
	return &ServerRepo{pool: pool}
}

func (r *ServerRepo) Create(ctx context.Context, server *domain.Server) error {
	query := `
		INSERT INTO servers (id, name, owner_id, default_channel_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		server.ID, server.Name, server.OwnerID, server.DefaultChannelID, server.CreatedAt,
	)
	return err
}

func (r *ServerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Server, error) {
	query := `
		SELECT id, name, owner_id, default_channel_id, created_at
		FROM servers
		WHERE id = $1`

	var s domain.Server
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.OwnerID, &s.DefaultChannelID, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServerRepo) SetDefaultChannel(ctx context.Context, serverID, channelID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE servers SET default_channel_id = $1 WHERE id = $2`, channelID, serverID)
	return err
}

func (r *ServerRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Server, error) {
	query := `
		SELECT s.id, s.name, s.owner_id, s.default_channel_id, s.created_at
		FROM servers s
		JOIN server_members m ON m.server_id = s.id
		WHERE m.user_id = $1
		ORDER BY s.created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var servers []domain.Server
	for rows.Next() {
		var s domain.Server
		if err := rows.Scan(&s.ID, &s.Name, &s.OwnerID, &s.DefaultChannelID, &s.CreatedAt); err != nil {
			return nil, err
		}
		servers = append(servers, s)
	}
	return servers, rows.Err()
}

func (r *ServerRepo) AddMember(ctx context.Context, member *domain.ServerMember) error {
	query := `
		INSERT INTO server_members (server_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (server_id, user_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, member.ServerID, member.UserID, member.JoinedAt)
	return err
}

func (r *ServerRepo) GetMember(ctx context.Context, serverID, userID uuid.UUID) (*domain.ServerMember, error) {
	query := `
		SELECT server_id, user_id, joined_at
		FROM server_members
		WHERE server_id = $1 AND user_id = $2`

	var m domain.ServerMember
	err := r.pool.QueryRow(ctx, query, serverID, userID).Scan(&m.ServerID, &m.UserID, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ServerRepo) ListMembers(ctx context.Context, serverID uuid.UUID) ([]domain.ServerMember, error) {
	query := `
		SELECT m.server_id, m.user_id, m.joined_at, u.username, u.display_name
		FROM server_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.server_id = $1
		ORDER BY m.joined_at`

	rows, err := r.pool.Query(ctx, query, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.ServerMember
	for rows.Next() {
		var m domain.ServerMember
		if err := rows.Scan(&m.ServerID, &m.UserID, &m.JoinedAt, &m.Username, &m.DisplayName); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
