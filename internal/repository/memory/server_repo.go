package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vedran77/haven/internal/domain"
)

type memberKey struct {
	serverID uuid.UUID
	userID   uuid.UUID
}

type ServerRepo struct {
	mu      sync.RWMutex
	servers map[uuid.UUID]domain.Server
	members map[memberKey]domain.ServerMember
}

func NewServerRepo() *ServerRepo {
	return &ServerRepo{
		servers: make(map[uuid.UUID]domain.Server),
		members: make(map[memberKey]domain.ServerMember),
	}
}

func (r *ServerRepo) Create(_ context.Context, server *domain.Server) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[server.ID] = *server
	return nil
}

func (r *ServerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.servers[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *ServerRepo) SetDefaultChannel(_ context.Context, serverID, channelID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.servers[serverID]
	if !ok {
		return nil
	}
	s.DefaultChannelID = channelID
	r.servers[serverID] = s
	return nil
}

func (r *ServerRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var servers []domain.Server
	for key, m := range r.members {
		if m.UserID != userID {
			continue
		}
		if s, ok := r.servers[key.serverID]; ok {
			servers = append(servers, s)
		}
	}
	return servers, nil
}

func (r *ServerRepo) AddMember(_ context.Context, member *domain.ServerMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memberKey{serverID: member.ServerID, userID: member.UserID}
	if _, exists := r.members[key]; exists {
		return nil
	}
	r.members[key] = *member
	return nil
}

func (r *ServerRepo) GetMember(_ context.Context, serverID, userID uuid.UUID) (*domain.ServerMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.members[memberKey{serverID: serverID, userID: userID}]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *ServerRepo) ListMembers(_ context.Context, serverID uuid.UUID) ([]domain.ServerMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := lo.Filter(lo.Values(r.members), func(m domain.ServerMember, _ int) bool {
		return m.ServerID == serverID
	})
	return members, nil
}
