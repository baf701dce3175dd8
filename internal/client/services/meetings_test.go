package services

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeetingsAPI struct {
	meeting   *models.Meeting
	getErr    error
	upload    *api.PresignedURL
	uploadErr error

	uploadCalls int
}

func (f *fakeMeetingsAPI) GetMeeting(_ context.Context, id string) (*models.Meeting, error) {
	return f.meeting, f.getErr
}

func (f *fakeMeetingsAPI) RecordingUploadURL(_ context.Context, _ string) (*api.PresignedURL, error) {
	f.uploadCalls++
	return f.upload, f.uploadErr
}

func writeRecording(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestMeetingService_UploadRecording(t *testing.T) {
	var gotBody, gotType, gotMethod string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody, gotType, gotMethod = string(b), r.Header.Get("Content-Type"), r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	fa := &fakeMeetingsAPI{
		meeting: &models.Meeting{ID: "m1"},
		upload:  &api.PresignedURL{Key: "recordings/u1/2026/03/07/k", URL: storage.URL + "/put", Method: http.MethodPut},
	}
	svc := NewMeetingService(fa, storage.Client())

	key, err := svc.UploadRecording(context.Background(), "m1", writeRecording(t, "call.MP4", "video"))
	require.NoError(t, err)
	assert.Equal(t, "recordings/u1/2026/03/07/k", key)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "video", gotBody)
	want := mime.TypeByExtension(".mp4")
	if want == "" {
		want = "application/octet-stream"
	}
	assert.Equal(t, want, gotType)
}

func TestMeetingService_UploadRecordingErrors(t *testing.T) {
	t.Run("unknown meeting", func(t *testing.T) {
		fa := &fakeMeetingsAPI{getErr: &api.Error{Status: http.StatusNotFound, Code: "NOT_FOUND"}}
		_, err := NewMeetingService(fa, nil).UploadRecording(context.Background(), "m1", writeRecording(t, "a.mp4", "x"))
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.Zero(t, fa.uploadCalls)
	})

	t.Run("missing file", func(t *testing.T) {
		fa := &fakeMeetingsAPI{meeting: &models.Meeting{ID: "m1"}}
		_, err := NewMeetingService(fa, nil).UploadRecording(context.Background(), "m1", filepath.Join(t.TempDir(), "nope.mp4"))
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Zero(t, fa.uploadCalls)
	})

	t.Run("storage not configured", func(t *testing.T) {
		fa := &fakeMeetingsAPI{
			meeting:   &models.Meeting{ID: "m1"},
			uploadErr: &api.Error{Status: http.StatusServiceUnavailable, Code: "NOT_CONFIGURED"},
		}
		_, err := NewMeetingService(fa, nil).UploadRecording(context.Background(), "m1", writeRecording(t, "a.mp4", "x"))
		assert.ErrorIs(t, err, common.ErrNotConfigured)
	})

	t.Run("storage rejects upload", func(t *testing.T) {
		storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "SignatureDoesNotMatch", http.StatusForbidden)
		}))
		defer storage.Close()

		fa := &fakeMeetingsAPI{
			meeting: &models.Meeting{ID: "m1"},
			upload:  &api.PresignedURL{Key: "k", URL: storage.URL},
		}
		_, err := NewMeetingService(fa, storage.Client()).UploadRecording(context.Background(), "m1", writeRecording(t, "a.bin", "x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
	})
}

func TestLocalSignature(t *testing.T) {
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	sig, claims, err := LocalSignature("sdk-key", "sdk-secret", "1234567890", zoom.RoleHost, func() time.Time { return now })
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
	assert.Equal(t, "sdk-key", claims.SDKKey)
	assert.Equal(t, "1234567890", claims.MeetingNumber)
	assert.Equal(t, zoom.RoleHost, claims.Role)
	assert.Equal(t, now.Add(-30*time.Second).Add(zoom.TokenTTL).Unix(), claims.TokenExp)

	_, _, err = LocalSignature("", "", "1234567890", zoom.RoleParticipant, nil)
	assert.ErrorIs(t, err, common.ErrNotConfigured)

	_, _, err = LocalSignature("sdk-key", "sdk-secret", "12ab", zoom.RoleParticipant, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
}
