package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/logging"
	"github.com/centrinote/centrinote/internal/server/config"
	"github.com/centrinote/centrinote/internal/server/metrics"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/repositories/repomanager"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"github.com/google/uuid"
)

const (
	DefaultMeetingDuration = 60
	MaxMeetingDuration     = 24 * 60
	maxPasswordLength      = 10
	zoomTimeLayout         = "2006-01-02T15:04:05Z"
)

// CreateMeetingInput describes a meeting to schedule.
type CreateMeetingInput struct {
	Topic     string                `json:"topic"`
	StartTime *time.Time            `json:"start_time,omitempty"`
	Duration  int                   `json:"duration"`
	Timezone  string                `json:"timezone,omitempty"`
	Password  string                `json:"password,omitempty"`
	Agenda    string                `json:"agenda,omitempty"`
	Settings  *zoom.MeetingSettings `json:"settings,omitempty"`
}

// DeleteStatus is the outcome of deleting one meeting.
type DeleteStatus string

const (
	DeleteSuccess DeleteStatus = "success"
	DeleteError   DeleteStatus = "error"
)

// DeleteResult reports one item of a bulk delete. RemoteError is set when
// the Zoom-side delete failed but the local record was still removed.
type DeleteResult struct {
	ID          string       `json:"id"`
	Status      DeleteStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	RemoteError string       `json:"remote_error,omitempty"`
}

// BulkDeleteReport aggregates a bulk delete. SuccessCount+ErrorCount always
// equals len(Results).
type BulkDeleteReport struct {
	Results      []DeleteResult `json:"results"`
	SuccessCount int            `json:"success_count"`
	ErrorCount   int            `json:"error_count"`
}

// JoinSignature is what a client needs to join or host through the Meeting SDK.
type JoinSignature struct {
	Signature     string    `json:"signature"`
	SDKKey        string    `json:"sdk_key"`
	MeetingNumber string    `json:"meeting_number"`
	Role          zoom.Role `json:"role"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// MeetingService schedules, lists and deletes meetings. When the Zoom API
// is unavailable it falls back to locally synthesized meetings marked with
// models.SourceFallback.
type MeetingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	api         ZoomAPI
	signer      *zoom.Signer
	webBaseURL  string
	logger      logging.Logger
	now         func() time.Time
}

// NewMeetingService wires a MeetingService. api and signer may be nil when
// the corresponding credentials are not configured.
func NewMeetingService(db *sql.DB, rm repomanager.RepositoryManager, api ZoomAPI, signer *zoom.Signer,
	cfg *config.Config, logger logging.Logger) *MeetingService {
	return &MeetingService{
		db:          db,
		repomanager: rm,
		api:         api,
		signer:      signer,
		webBaseURL:  cfg.ZoomWebBaseURL,
		logger:      logger.With("module", "meetings"),
		now:         time.Now,
	}
}

func (s *MeetingService) normalize(in CreateMeetingInput) (CreateMeetingInput, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return in, fmt.Errorf("%w: topic is required", common.ErrorValidation)
	}
	if in.Duration == 0 {
		in.Duration = DefaultMeetingDuration
	}
	if in.Duration < 1 || in.Duration > MaxMeetingDuration {
		return in, fmt.Errorf("%w: duration must be between 1 and %d minutes", common.ErrorValidation, MaxMeetingDuration)
	}
	if len(in.Password) > maxPasswordLength {
		return in, fmt.Errorf("%w: password must be at most %d characters", common.ErrorValidation, maxPasswordLength)
	}
	if in.StartTime == nil || in.StartTime.IsZero() {
		now := s.now()
		in.StartTime = &now
	}
	return in, nil
}

// Create schedules a meeting for userID and persists it. A failing or
// unconfigured Zoom API never fails the call; a failing database always does.
func (s *MeetingService) Create(ctx context.Context, userID string, in CreateMeetingInput) (*models.Meeting, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	var meeting *models.Meeting
	if s.api == nil {
		meeting, err = s.fallbackMeeting(ctx, in, metrics.ReasonNotConfigured, nil)
	} else {
		apiMeeting, apiErr := s.api.CreateMeeting(ctx, "me", toCreateRequest(in))
		if apiErr != nil {
			meeting, err = s.fallbackMeeting(ctx, in, metrics.ReasonRemoteError, apiErr)
		} else {
			meeting = fromAPIMeeting(apiMeeting, in)
		}
	}
	if err != nil {
		return nil, err
	}

	meeting.ID = uuid.NewString()
	meeting.UserID = userID

	if err := s.repomanager.Meetings(s.db).Create(ctx, meeting); err != nil {
		s.logger.Error(ctx, "failed to save meeting",
			"user_id", userID, "external_id", meeting.ExternalID,
			"meeting_number", meeting.MeetingNumber, "source", meeting.Source, "error", err)
		return nil, fmt.Errorf("%w: save meeting: %v", common.ErrPersistence, err)
	}

	metrics.RecordMeetingCreated(string(meeting.Source))
	s.logger.Info(ctx, "meeting created",
		"user_id", userID, "meeting_id", meeting.ID, "meeting_number", meeting.MeetingNumber, "source", meeting.Source)
	return meeting, nil
}

func (s *MeetingService) fallbackMeeting(ctx context.Context, in CreateMeetingInput, reason string, cause error) (*models.Meeting, error) {
	number, err := zoom.NewMeetingNumber()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	args := []any{"reason", reason, "meeting_number", number}
	if cause != nil {
		args = append(args, "error", cause)
	}
	s.logger.Warn(ctx, "zoom api unavailable, using fallback meeting", args...)
	metrics.RecordFallback(reason)

	return &models.Meeting{
		MeetingNumber:    number,
		Topic:            in.Topic,
		Agenda:           in.Agenda,
		StartTime:        in.StartTime.UTC(),
		Duration:         in.Duration,
		Timezone:         in.Timezone,
		JoinURL:          zoom.JoinURL(s.webBaseURL, number, in.Password),
		StartURL:         zoom.HostURL(s.webBaseURL, number),
		Password:         in.Password,
		Status:           models.MeetingStatusScheduled,
		RecordingEnabled: in.Settings.RecordingEnabled(),
		Source:           models.SourceFallback,
	}, nil
}

func toCreateRequest(in CreateMeetingInput) zoom.CreateMeetingRequest {
	return zoom.CreateMeetingRequest{
		Topic:     in.Topic,
		Type:      zoom.MeetingTypeScheduled,
		StartTime: in.StartTime.UTC().Format(zoomTimeLayout),
		Duration:  in.Duration,
		Timezone:  in.Timezone,
		Password:  in.Password,
		Agenda:    in.Agenda,
		Settings:  in.Settings,
	}
}

func fromAPIMeeting(a *zoom.APIMeeting, in CreateMeetingInput) *models.Meeting {
	id := strconv.FormatInt(a.ID, 10)
	m := &models.Meeting{
		ExternalID:       id,
		MeetingNumber:    id,
		Topic:            a.Topic,
		Agenda:           a.Agenda,
		StartTime:        a.StartTime,
		Duration:         a.Duration,
		Timezone:         a.Timezone,
		JoinURL:          a.JoinURL,
		StartURL:         a.StartURL,
		Password:         a.Password,
		Status:           meetingStatus(a.Status),
		RecordingEnabled: a.Settings.RecordingEnabled(),
		Source:           models.SourceReal,
	}
	if m.Topic == "" {
		m.Topic = in.Topic
	}
	if m.StartTime.IsZero() {
		m.StartTime = in.StartTime.UTC()
	}
	if m.Duration == 0 {
		m.Duration = in.Duration
	}
	return m
}

// meetingStatus maps a Zoom meeting status onto the stored status set.
func meetingStatus(zoomStatus string) string {
	switch strings.ToLower(zoomStatus) {
	case "started":
		return models.MeetingStatusStarted
	case "finished", "ended":
		return models.MeetingStatusEnded
	case "cancelled", "canceled", "deleted":
		return models.MeetingStatusCancelled
	default:
		return models.MeetingStatusScheduled
	}
}

// List returns the user's meetings ordered by start time, newest first.
func (s *MeetingService) List(ctx context.Context, userID string) ([]*models.Meeting, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	list, err := s.repomanager.Meetings(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list meetings: %v", common.ErrPersistence, err)
	}
	return list, nil
}

// Get returns one meeting owned by userID.
func (s *MeetingService) Get(ctx context.Context, userID, id string) (*models.Meeting, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	// Meeting ids are UUIDs; anything else cannot name a stored meeting.
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("meeting %q: %w", id, common.ErrorNotFound)
	}
	m, err := s.repomanager.Meetings(s.db).Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get meeting: %v", common.ErrPersistence, err)
	}
	return m, nil
}

// Delete removes a meeting. Real meetings are deleted on Zoom first on a
// best-effort basis; the local record is removed regardless.
func (s *MeetingService) Delete(ctx context.Context, userID, id string) error {
	_, err := s.deleteOne(ctx, userID, id)
	return err
}

func (s *MeetingService) deleteOne(ctx context.Context, userID, id string) (remoteErr error, err error) {
	defer func() {
		status := string(DeleteSuccess)
		if err != nil {
			status = string(DeleteError)
		}
		metrics.RecordMeetingDeleted(status)
	}()

	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if m.Source == models.SourceReal && m.ExternalID != "" && s.api != nil {
		if remoteErr = s.api.DeleteMeeting(ctx, m.ExternalID); remoteErr != nil {
			s.logger.Warn(ctx, "zoom delete failed, removing local record anyway",
				"user_id", userID, "meeting_id", id, "external_id", m.ExternalID, "error", remoteErr)
		}
	}

	if err := s.repomanager.Meetings(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return remoteErr, err
		}
		s.logger.Error(ctx, "failed to delete meeting", "user_id", userID, "meeting_id", id, "error", err)
		return remoteErr, fmt.Errorf("%w: delete meeting: %v", common.ErrPersistence, err)
	}

	s.logger.Info(ctx, "meeting deleted", "user_id", userID, "meeting_id", id, "source", m.Source)
	return remoteErr, nil
}

// BulkDelete deletes each id independently, in order. A failing item never
// stops the remaining ones.
func (s *MeetingService) BulkDelete(ctx context.Context, userID string, ids []string) *BulkDeleteReport {
	report := &BulkDeleteReport{Results: make([]DeleteResult, 0, len(ids))}

	for _, id := range ids {
		res := DeleteResult{ID: id, Status: DeleteSuccess}

		remoteErr, err := s.deleteOne(ctx, userID, id)
		if remoteErr != nil {
			res.RemoteError = remoteErr.Error()
		}
		if err != nil {
			res.Status = DeleteError
			res.Error = err.Error()
			report.ErrorCount++
		} else {
			report.SuccessCount++
		}
		report.Results = append(report.Results, res)
	}

	s.logger.Info(ctx, "bulk delete finished",
		"user_id", userID, "requested", len(ids), "succeeded", report.SuccessCount, "failed", report.ErrorCount)
	return report
}

// JoinSignature signs a Meeting SDK token for the given meeting and role.
func (s *MeetingService) JoinSignature(ctx context.Context, userID, meetingNumber string, role zoom.Role) (*JoinSignature, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	if s.signer == nil {
		return nil, fmt.Errorf("meeting sdk: %w", common.ErrNotConfigured)
	}

	sig, err := s.signer.MeetingSignature(strings.TrimSpace(meetingNumber), role)
	if err != nil {
		return nil, err
	}
	claims, err := zoom.DecodeClaims(sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	roleName := "participant"
	if role == zoom.RoleHost {
		roleName = "host"
	}
	metrics.RecordSignatureIssued(roleName)
	s.logger.Debug(ctx, "meeting signature issued", "user_id", userID, "meeting_number", claims.MeetingNumber, "role", roleName)

	return &JoinSignature{
		Signature:     sig,
		SDKKey:        s.signer.Key(),
		MeetingNumber: claims.MeetingNumber,
		Role:          role,
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}

// SDKConfigured reports whether JoinSignature can succeed.
func (s *MeetingService) SDKConfigured() bool {
	return s.signer != nil
}

// APIConfigured reports whether Create will try the Zoom API.
func (s *MeetingService) APIConfigured() bool {
	return s.api != nil
}
