package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
)

type ChannelRepo struct {
	mu       sync.RWMutex
	channels map[uuid.UUID]domain.Channel
}

func NewChannelRepo() *ChannelRepo {
	return &ChannelRepo{channels: make(map[uuid.UUID]domain.Channel)}
}

// Create enforces the (server, name) unique key under the lock, matching
// the database constraint.
func (r *ChannelRepo) Create(_ context.Context, channel *domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.channels {
		if ch.ServerID == channel.ServerID && ch.Name == channel.Name {
			return repository.ErrConflict
		}
	}
	r.channels[channel.ID] = *channel
	return nil
}

func (r *ChannelRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ch, ok := r.channels[id]; ok {
		return &ch, nil
	}
	return nil, nil
}

func (r *ChannelRepo) GetByServerAndName(_ context.Context, serverID uuid.UUID, name string) (*domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ch := range r.channels {
		if ch.ServerID == serverID && ch.Name == name {
			out := ch
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ChannelRepo) ListByServer(_ context.Context, serverID uuid.UUID) ([]domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var channels []domain.Channel
	for _, ch := range r.channels {
		if ch.ServerID == serverID {
			channels = append(channels, ch)
		}
	}
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].CreatedAt.Before(channels[j].CreatedAt)
	})
	return channels, nil
}

func (r *ChannelRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, id)
	return nil
}
