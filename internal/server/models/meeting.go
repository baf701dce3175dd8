package models

import "time"

// MeetingSource tells whether a meeting was created through the Zoom API
// or synthesized locally after the API was unavailable.
type MeetingSource string

const (
	SourceReal     MeetingSource = "real"
	SourceFallback MeetingSource = "fallback"
)

// Meeting status values.
const (
	MeetingStatusScheduled = "scheduled"
	MeetingStatusStarted   = "started"
	MeetingStatusEnded     = "ended"
	MeetingStatusCancelled = "cancelled"
)

// Meeting is a persisted meeting record owned by a single user.
type Meeting struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	// ExternalID is the Zoom meeting id for real meetings and empty for fallback ones.
	ExternalID    string    `json:"external_id,omitempty"`
	MeetingNumber string    `json:"meeting_number"`
	Topic         string    `json:"topic"`
	Agenda        string    `json:"agenda,omitempty"`
	StartTime     time.Time `json:"start_time"`
	// Duration is in minutes.
	Duration         int           `json:"duration"`
	Timezone         string        `json:"timezone,omitempty"`
	JoinURL          string        `json:"join_url"`
	StartURL         string        `json:"start_url,omitempty"`
	Password         string        `json:"password,omitempty"`
	Status           string        `json:"status"`
	RecordingEnabled bool          `json:"recording_enabled"`
	RecordingKey     string        `json:"recording_key,omitempty"`
	Source           MeetingSource `json:"source"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IsFallback reports whether the meeting was synthesized locally.
func (m *Meeting) IsFallback() bool {
	return m.Source == SourceFallback
}
