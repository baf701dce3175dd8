package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/auth"
	"github.com/centrinote/centrinote/internal/server/services"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", common.ErrorValidation, err)
	}
	return nil
}

// userID is safe to call behind authenticate.
func userID(r *http.Request) string {
	sess, _ := auth.SessionFromContext(r.Context())
	if sess == nil {
		return ""
	}
	return sess.UserID
}

// --- probes ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) pingDB(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database: %w", common.ErrNotConfigured)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.pingDB(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"ready": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// DebugStatus is the component summary served to the debug panel.
type DebugStatus struct {
	Database          string  `json:"database"`
	SDKConfigured     bool    `json:"sdk_configured"`
	APIConfigured     bool    `json:"api_configured"`
	APIMode           string  `json:"api_mode"`
	StorageConfigured bool    `json:"storage_configured"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	Version           string  `json:"version,omitempty"`
}

func (s *Server) handleDebugStatus(w http.ResponseWriter, r *http.Request) {
	st := DebugStatus{
		Database:          "ok",
		SDKConfigured:     s.meetings.SDKConfigured(),
		APIConfigured:     s.meetings.APIConfigured(),
		APIMode:           s.opts.APIMode,
		StorageConfigured: s.opts.StorageConfigured,
		UptimeSeconds:     time.Since(s.started).Seconds(),
		Version:           s.opts.Version,
	}
	if err := s.pingDB(r.Context()); err != nil {
		st.Database = err.Error()
	}
	writeJSON(w, http.StatusOK, st)
}

// --- auth / zoom ---

// AuthStatus describes the caller's session.
type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, AuthStatus{
		Authenticated: true,
		UserID:        sess.UserID,
		Email:         sess.Email,
		ExpiresAt:     sess.ExpiresAt,
	})
}

// ZoomConfig reports which Zoom features the server can serve.
type ZoomConfig struct {
	SDKConfigured bool   `json:"sdk_configured"`
	APIConfigured bool   `json:"api_configured"`
	APIMode       string `json:"api_mode"`
}

func (s *Server) handleZoomConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ZoomConfig{
		SDKConfigured: s.meetings.SDKConfigured(),
		APIConfigured: s.meetings.APIConfigured(),
		APIMode:       s.opts.APIMode,
	})
}

// SignatureRequest asks for a Meeting SDK signature.
type SignatureRequest struct {
	MeetingNumber string    `json:"meeting_number"`
	Role          zoom.Role `json:"role"`
}

func (s *Server) handleSignature(w http.ResponseWriter, r *http.Request) {
	var req SignatureRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	sig, err := s.meetings.JoinSignature(r.Context(), userID(r), req.MeetingNumber, req.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

// --- connection ---

func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.connections.Get(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connection": conn})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var in services.ConnectInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	conn, err := s.connections.Connect(r.Context(), userID(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connection": conn})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.connections.Disconnect(r.Context(), userID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConnectionState(w http.ResponseWriter, r *http.Request) {
	state, err := s.connections.State(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state})
}

// --- meetings ---

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	list, err := s.meetings.List(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meetings": list})
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var in services.CreateMeetingInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	m, err := s.meetings.Create(r.Context(), userID(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := s.meetings.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if err := s.meetings.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteRequest lists the meeting ids to delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if req.IDs == nil {
		s.writeServiceError(w, r, fmt.Errorf("%w: ids are required", common.ErrorValidation))
		return
	}
	writeJSON(w, http.StatusOK, s.meetings.BulkDelete(r.Context(), userID(r), req.IDs))
}

// --- recordings ---

func (s *Server) handleRecordingUpload(w http.ResponseWriter, r *http.Request) {
	u, err := s.recordings.UploadURL(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleRecordingDownload(w http.ResponseWriter, r *http.Request) {
	u, err := s.recordings.DownloadURL(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
