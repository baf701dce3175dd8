package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/centrinote/centrinote/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx reply from the server.
type Error struct {
	Status  int
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap maps the status onto the shared sentinels so callers can use
// errors.Is(err, common.ErrorNotFound) and friends.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		if e.Code == "TOKEN_EXPIRED" {
			return common.ErrTokenExpired
		}
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusServiceUnavailable:
		return common.ErrNotConfigured
	case http.StatusBadGateway:
		if e.Code == "PERSISTENCE_ERROR" {
			return common.ErrPersistence
		}
		return common.ErrRemoteAPI
	default:
		return common.ErrorInternal
	}
}
