// Package services contains server-side business logic: meeting lifecycle,
// Zoom connection state and recording storage.
package services

import (
	"context"

	"github.com/centrinote/centrinote/internal/server/zoom"
)

// ZoomAPI is the part of the Zoom REST client the services use. A nil
// ZoomAPI means no API credentials are configured.
type ZoomAPI interface {
	CreateMeeting(ctx context.Context, userID string, req zoom.CreateMeetingRequest) (*zoom.APIMeeting, error)
	DeleteMeeting(ctx context.Context, meetingID string) error
	GetUser(ctx context.Context, userID string) (*zoom.User, error)
}
