package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/netx"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

// MeetingsAPI is the part of api.Client the meeting workflows use.
type MeetingsAPI interface {
	GetMeeting(ctx context.Context, id string) (*models.Meeting, error)
	RecordingUploadURL(ctx context.Context, meetingID string) (*api.PresignedURL, error)
}

// MeetingService runs multi-step meeting workflows for the CLI.
type MeetingService struct {
	api      MeetingsAPI
	uploader *http.Client
}

// NewMeetingService uses uploader for storage PUTs; nil means a client
// without timeout, since recordings can be large.
func NewMeetingService(a MeetingsAPI, uploader *http.Client) *MeetingService {
	if uploader == nil {
		uploader = &http.Client{}
	}
	return &MeetingService{api: a, uploader: uploader}
}

// UploadRecording reserves a storage key for the meeting and uploads the
// file at path to it. It returns the storage key.
func (s *MeetingService) UploadRecording(ctx context.Context, meetingID, path string) (string, error) {
	if _, err := s.api.GetMeeting(ctx, meetingID); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	target, err := s.api.RecordingUploadURL(ctx, meetingID)
	if err != nil {
		return "", err
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if err := netx.UploadToPresignedURL(ctx, s.uploader, target.URL, contentType, f); err != nil {
		return "", err
	}
	return target.Key, nil
}

// LocalSignature generates a Meeting SDK signature without the server,
// using the SDK credentials from the CLI config.
func LocalSignature(key, secret, meetingNumber string, role zoom.Role, now func() time.Time) (string, *zoom.Claims, error) {
	opts := []zoom.SignerOption{}
	if now != nil {
		opts = append(opts, zoom.WithClock(now))
	}
	sig, err := zoom.NewSigner(key, secret, opts...).MeetingSignature(meetingNumber, role)
	if err != nil {
		return "", nil, err
	}
	claims, err := zoom.DecodeClaims(sig)
	if err != nil {
		return "", nil, err
	}
	return sig, claims, nil
}
