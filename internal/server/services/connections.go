package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/logging"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ConnectInput is the Zoom identity a user links to their account.
type ConnectInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
}

// ConnectionService tracks whether a user has linked a Zoom identity.
type ConnectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	api         ZoomAPI
	verify      bool
	logger      logging.Logger
	now         func() time.Time
}

// NewConnectionService wires a ConnectionService. When verify is true and
// api is non-nil, Connect checks the identity against the Zoom account.
func NewConnectionService(db *sql.DB, rm repomanager.RepositoryManager, api ZoomAPI, verify bool,
	logger logging.Logger) *ConnectionService {
	return &ConnectionService{
		db:          db,
		repomanager: rm,
		api:         api,
		verify:      verify,
		logger:      logger.With("module", "connections"),
		now:         time.Now,
	}
}

func validateConnectInput(in ConnectInput) (ConnectInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	if in.Email == "" || in.DisplayName == "" {
		return in, fmt.Errorf("%w: email and display name are required", common.ErrorValidation)
	}
	if !strings.Contains(in.Email, "@") {
		return in, fmt.Errorf("%w: invalid email %q", common.ErrorValidation, in.Email)
	}
	switch in.Role {
	case "", models.ConnectionRoleHost, models.ConnectionRoleAttendee:
	default:
		return in, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, in.Role)
	}
	return in, nil
}

// Connect links (or re-links) the user's Zoom identity and marks it active.
func (s *ConnectionService) Connect(ctx context.Context, userID string, in ConnectInput) (*models.Connection, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	in, err := validateConnectInput(in)
	if err != nil {
		return nil, err
	}

	if s.verify && s.api != nil {
		u, err := s.api.GetUser(ctx, "me")
		if err != nil {
			s.logger.Warn(ctx, "zoom identity check failed", "user_id", userID, "error", err)
			return nil, err
		}
		if !strings.EqualFold(u.Email, in.Email) {
			return nil, fmt.Errorf("%w: email does not match the zoom account", common.ErrorValidation)
		}
		if in.AccountID == "" {
			in.AccountID = u.AccountID
		}
	}

	conn, err := s.repomanager.Connections(s.db).Upsert(ctx, &models.Connection{
		ID:              uuid.NewString(),
		UserID:          userID,
		Email:           in.Email,
		DisplayName:     in.DisplayName,
		Role:            in.Role,
		AccountID:       in.AccountID,
		IsActive:        true,
		LastConnectedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error(ctx, "failed to save connection", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: save connection: %v", common.ErrPersistence, err)
	}

	s.logger.Info(ctx, "zoom connected", "user_id", userID)
	return conn, nil
}

// Disconnect deactivates the user's connection. Disconnecting twice, or
// without ever connecting, is not an error.
func (s *ConnectionService) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	if err := s.repomanager.Connections(s.db).Deactivate(ctx, userID, s.now().UTC()); err != nil {
		s.logger.Error(ctx, "failed to deactivate connection", "user_id", userID, "error", err)
		return fmt.Errorf("%w: deactivate connection: %v", common.ErrPersistence, err)
	}
	s.logger.Info(ctx, "zoom disconnected", "user_id", userID)
	return nil
}

// Get returns the user's active connection, or nil when there is none.
func (s *ConnectionService) Get(ctx context.Context, userID string) (*models.Connection, error) {
	conn, err := s.lookup(ctx, userID)
	if err != nil || conn == nil || !conn.IsActive {
		return nil, err
	}
	return conn, nil
}

// State classifies the user's connection history.
func (s *ConnectionService) State(ctx context.Context, userID string) (models.ConnectionState, error) {
	conn, err := s.lookup(ctx, userID)
	switch {
	case err != nil:
		return "", err
	case conn == nil:
		return models.StateUnconnected, nil
	case conn.IsActive:
		return models.StateConnected, nil
	default:
		return models.StateDisconnected, nil
	}
}

func (s *ConnectionService) lookup(ctx context.Context, userID string) (*models.Connection, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	conn, err := s.repomanager.Connections(s.db).GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get connection: %v", common.ErrPersistence, err)
	}
	return conn, nil
}
