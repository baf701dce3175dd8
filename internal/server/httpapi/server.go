// Package httpapi exposes the meeting, connection and recording services
// over a JSON HTTP API, together with health, readiness, metrics and a
// key-protected debug status endpoint.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/centrinote/centrinote/internal/logging"
	"github.com/centrinote/centrinote/internal/server/auth"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/services"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

// MeetingService is the part of services.MeetingService the API uses.
type MeetingService interface {
	Create(ctx context.Context, userID string, in services.CreateMeetingInput) (*models.Meeting, error)
	List(ctx context.Context, userID string) ([]*models.Meeting, error)
	Get(ctx context.Context, userID, id string) (*models.Meeting, error)
	Delete(ctx context.Context, userID, id string) error
	BulkDelete(ctx context.Context, userID string, ids []string) *services.BulkDeleteReport
	JoinSignature(ctx context.Context, userID, meetingNumber string, role zoom.Role) (*services.JoinSignature, error)
	SDKConfigured() bool
	APIConfigured() bool
}

// ConnectionService is the part of services.ConnectionService the API uses.
type ConnectionService interface {
	Connect(ctx context.Context, userID string, in services.ConnectInput) (*models.Connection, error)
	Disconnect(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*models.Connection, error)
	State(ctx context.Context, userID string) (models.ConnectionState, error)
}

// RecordingService is the part of services.RecordingService the API uses.
type RecordingService interface {
	UploadURL(ctx context.Context, userID, meetingID string) (*services.PresignedURL, error)
	DownloadURL(ctx context.Context, userID, meetingID string) (*services.PresignedURL, error)
}

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the settings the HTTP layer needs from config.Config.
type Options struct {
	Address            string
	APIMode            string
	StorageConfigured  bool
	AdminKeyHash       string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	Version            string
}

// Server is the HTTP front of the application.
type Server struct {
	meetings    MeetingService
	connections ConnectionService
	recordings  RecordingService
	db          Pinger
	verifier    *auth.SessionVerifier
	opts        Options
	logger      logging.Logger
	limiter     *userLimiter
	started     time.Time
}

func NewServer(opts Options, l logging.Logger, db Pinger, verifier *auth.SessionVerifier,
	ms MeetingService, cs ConnectionService, rs RecordingService) *Server {
	return &Server{
		meetings:    ms,
		connections: cs,
		recordings:  rs,
		db:          db,
		verifier:    verifier,
		opts:        opts,
		logger:      l.With("module", "http_server"),
		limiter:     newUserLimiter(opts.RateLimitPerMinute),
		started:     time.Now(),
	}
}

// Run serves HTTP on opts.Address until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
