package api

import (
	"time"

	"github.com/centrinote/centrinote/internal/server/zoom"
)

// CreateMeetingRequest is the body of POST /api/v1/meetings.
type CreateMeetingRequest struct {
	Topic     string                `json:"topic"`
	StartTime *time.Time            `json:"start_time,omitempty"`
	Duration  int                   `json:"duration,omitempty"`
	Timezone  string                `json:"timezone,omitempty"`
	Password  string                `json:"password,omitempty"`
	Agenda    string                `json:"agenda,omitempty"`
	Settings  *zoom.MeetingSettings `json:"settings,omitempty"`
}

// ConnectRequest is the body of POST /api/v1/zoom/connection.
type ConnectRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
}

type DeleteResult struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	RemoteError string `json:"remote_error,omitempty"`
}

type BulkDeleteReport struct {
	Results      []DeleteResult `json:"results"`
	SuccessCount int            `json:"success_count"`
	ErrorCount   int            `json:"error_count"`
}

type Signature struct {
	Signature     string    `json:"signature"`
	SDKKey        string    `json:"sdk_key"`
	MeetingNumber string    `json:"meeting_number"`
	Role          zoom.Role `json:"role"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type PresignedURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type ZoomConfig struct {
	SDKConfigured bool   `json:"sdk_configured"`
	APIConfigured bool   `json:"api_configured"`
	APIMode       string `json:"api_mode"`
}
