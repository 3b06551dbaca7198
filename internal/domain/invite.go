package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a redeemable token granting membership to a server.
// Exhaustion is a logical state: invites are never deleted by normal flow.
type Invite struct {
	ID        uuid.UUID  `json:"id"`
	ServerID  uuid.UUID  `json:"server_id"`
	CreatedBy uuid.UUID  `json:"created_by"`
	MaxUses   int        `json:"max_uses"` // 0 = unlimited
	Uses      int        `json:"uses"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil = never
	CreatedAt time.Time  `json:"created_at"`
}

// Usable reports whether the invite can still be redeemed at t.
func (i *Invite) Usable(t time.Time) bool {
	if i.ExpiresAt != nil && !t.Before(*i.ExpiresAt) {
		return false
	}
	return i.MaxUses == 0 || i.Uses < i.MaxUses
}
