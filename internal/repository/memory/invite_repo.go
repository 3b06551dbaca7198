package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vedran77/haven/internal/domain"
)

type InviteRepo struct {
	mu      sync.Mutex
	invites map[uuid.UUID]domain.Invite
}

func NewInviteRepo() *InviteRepo {
	return &InviteRepo{invites: make(map[uuid.UUID]domain.Invite)}
}

func (r *InviteRepo) Create(_ context.Context, inv *domain.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites[inv.ID] = *inv
	return nil
}

func (r *InviteRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invites[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (r *InviteRepo) ListByServer(_ context.Context, serverID uuid.UUID) ([]domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invites := lo.Filter(lo.Values(r.invites), func(inv domain.Invite, _ int) bool {
		return inv.ServerID == serverID
	})
	return invites, nil
}

// ConsumeUse performs the exhaustion check and the increment under one lock,
// the in-memory equivalent of the guarded UPDATE in the postgres repo.
func (r *InviteRepo) ConsumeUse(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok {
		return false, nil
	}
	if inv.MaxUses != 0 && inv.Uses >= inv.MaxUses {
		return false, nil
	}
	inv.Uses++
	r.invites[id] = inv
	return true, nil
}
