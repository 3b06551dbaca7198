package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a named sub-conversation scoped to one server.
// (ServerID, Name) is unique, case-sensitive.
type Channel struct {
	ID        uuid.UUID `json:"id"`
	ServerID  uuid.UUID `json:"server_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
