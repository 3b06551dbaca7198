package domain

import (
	"time"

	"github.com/google/uuid"
)

type Server struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
	// DefaultChannelID always references a live channel of this server.
	// The default channel cannot be deleted while it holds this role.
	DefaultChannelID uuid.UUID `json:"default_channel_id"`
	CreatedAt        time.Time `json:"created_at"`
}

type ServerMember struct {
	ServerID uuid.UUID `json:"server_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
	// Joined fields
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}
