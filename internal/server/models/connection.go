package models

import "time"

// Connection roles as reported by Zoom.
const (
	ConnectionRoleHost     = "host"
	ConnectionRoleAttendee = "attendee"
)

// Connection records that a user linked a Zoom identity. Rows are never
// deleted; disconnecting only clears IsActive.
type Connection struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"display_name"`
	Role            string     `json:"role,omitempty"`
	AccountID       string     `json:"account_id,omitempty"`
	IsActive        bool       `json:"is_active"`
	LastConnectedAt time.Time  `json:"last_connected_at"`
	DisconnectedAt  *time.Time `json:"disconnected_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ConnectionState summarizes a user's connection history.
type ConnectionState string

const (
	StateUnconnected  ConnectionState = "unconnected"
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
)
