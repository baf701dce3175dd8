package zoom

import (
	"fmt"
	"time"

	"github.com/centrinote/centrinote/internal/common"
)

// MeetingTypeScheduled is the Zoom meeting type for a meeting with a fixed start time.
const MeetingTypeScheduled = 2

// MeetingSettings is the subset of Zoom meeting settings Centrinote exposes.
type MeetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	WaitingRoom      bool   `json:"waiting_room"`
	AutoRecording    string `json:"auto_recording,omitempty"`
}

// RecordingEnabled reports whether Zoom will record the meeting automatically.
func (s *MeetingSettings) RecordingEnabled() bool {
	return s != nil && (s.AutoRecording == "local" || s.AutoRecording == "cloud")
}

// CreateMeetingRequest is the body of POST /users/{userId}/meetings.
type CreateMeetingRequest struct {
	Topic     string           `json:"topic"`
	Type      int              `json:"type"`
	StartTime string           `json:"start_time,omitempty"`
	Duration  int              `json:"duration"`
	Timezone  string           `json:"timezone,omitempty"`
	Password  string           `json:"password,omitempty"`
	Agenda    string           `json:"agenda,omitempty"`
	Settings  *MeetingSettings `json:"settings,omitempty"`
}

// APIMeeting is a meeting as returned by the Zoom REST API.
type APIMeeting struct {
	ID        int64           `json:"id"`
	UUID      string          `json:"uuid"`
	HostID    string          `json:"host_id"`
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	Status    string          `json:"status"`
	StartTime time.Time       `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Agenda    string          `json:"agenda"`
	CreatedAt time.Time       `json:"created_at"`
	StartURL  string          `json:"start_url"`
	JoinURL   string          `json:"join_url"`
	Password  string          `json:"password"`
	Settings  MeetingSettings `json:"settings"`
}

// User is the Zoom account profile returned by GET /users/{userId}.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Type        int    `json:"type"`
	AccountID   string `json:"account_id"`
	Status      string `json:"status"`
}

// APIError is a non-2xx response from the Zoom API. It matches
// common.ErrRemoteAPI with errors.Is.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("zoom api: http %d", e.Status)
	}
	return fmt.Sprintf("zoom api: http %d (code %d): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return common.ErrRemoteAPI
}
