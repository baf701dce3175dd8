package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the full route table. Request id, logging and CORS wrap
// the router itself so they also cover unmatched routes and preflights.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	debug := r.PathPrefix("/debug").Subrouter()
	debug.Use(s.requireAdminKey)
	debug.HandleFunc("/status", s.handleDebugStatus).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(s.authenticate, s.rateLimit)

	v1.HandleFunc("/auth/status", s.handleAuthStatus).Methods(http.MethodGet)

	v1.HandleFunc("/zoom/config", s.handleZoomConfig).Methods(http.MethodGet)
	v1.HandleFunc("/zoom/signature", s.handleSignature).Methods(http.MethodPost)
	v1.HandleFunc("/zoom/connection", s.handleGetConnection).Methods(http.MethodGet)
	v1.HandleFunc("/zoom/connection", s.handleConnect).Methods(http.MethodPost)
	v1.HandleFunc("/zoom/connection", s.handleDisconnect).Methods(http.MethodDelete)
	v1.HandleFunc("/zoom/connection/state", s.handleConnectionState).Methods(http.MethodGet)

	v1.HandleFunc("/meetings", s.handleListMeetings).Methods(http.MethodGet)
	v1.HandleFunc("/meetings", s.handleCreateMeeting).Methods(http.MethodPost)
	v1.HandleFunc("/meetings/bulk-delete", s.handleBulkDelete).Methods(http.MethodPost)
	v1.HandleFunc("/meetings/{id}", s.handleGetMeeting).Methods(http.MethodGet)
	v1.HandleFunc("/meetings/{id}", s.handleDeleteMeeting).Methods(http.MethodDelete)
	v1.HandleFunc("/meetings/{id}/recording/upload-url", s.handleRecordingUpload).Methods(http.MethodPost)
	v1.HandleFunc("/meetings/{id}/recording/download-url", s.handleRecordingDownload).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	return s.requestID(s.logRequests(s.cors(r)))
}
