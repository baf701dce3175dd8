package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/services"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

type fakeMeetings struct {
	mu        sync.Mutex
	sdk, api  bool
	created   []services.CreateMeetingInput
	createErr error
	list      []*models.Meeting
	listErr   error
	byID      map[string]*models.Meeting
	deleteErr error
	deleted   []string
	sigErr    error
	lastUser  string
}

func (f *fakeMeetings) Create(_ context.Context, userID string, in services.CreateMeetingInput) (*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser = userID
	f.created = append(f.created, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Meeting{ID: "m-new", UserID: userID, Topic: in.Topic, MeetingNumber: "1234567890",
		Source: models.SourceFallback}, nil
}

func (f *fakeMeetings) List(_ context.Context, userID string) ([]*models.Meeting, error) {
	f.lastUser = userID
	return f.list, f.listErr
}

func (f *fakeMeetings) Get(_ context.Context, _ string, id string) (*models.Meeting, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMeetings) Delete(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeMeetings) BulkDelete(_ context.Context, _ string, ids []string) *services.BulkDeleteReport {
	rep := &services.BulkDeleteReport{Results: []services.DeleteResult{}}
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			rep.Results = append(rep.Results, services.DeleteResult{ID: id, Status: services.DeleteSuccess})
			rep.SuccessCount++
		} else {
			rep.Results = append(rep.Results, services.DeleteResult{ID: id, Status: services.DeleteError, Error: "not found"})
			rep.ErrorCount++
		}
	}
	return rep
}

func (f *fakeMeetings) JoinSignature(_ context.Context, _ string, number string, role zoom.Role) (*services.JoinSignature, error) {
	if f.sigErr != nil {
		return nil, f.sigErr
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: bad role", common.ErrorValidation)
	}
	return &services.JoinSignature{Signature: "sig", SDKKey: "key", MeetingNumber: number, Role: role,
		ExpiresAt: time.Unix(0, 0).UTC()}, nil
}

func (f *fakeMeetings) SDKConfigured() bool { return f.sdk }
func (f *fakeMeetings) APIConfigured() bool { return f.api }

type fakeConnections struct {
	conn          *models.Connection
	connectErr    error
	disconnectErr error
	state         models.ConnectionState
}

func (f *fakeConnections) Connect(_ context.Context, userID string, in services.ConnectInput) (*models.Connection, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	f.conn = &models.Connection{UserID: userID, Email: in.Email, DisplayName: in.DisplayName, IsActive: true}
	return f.conn, nil
}

func (f *fakeConnections) Disconnect(context.Context, string) error {
	if f.disconnectErr != nil {
		return f.disconnectErr
	}
	f.conn = nil
	return nil
}

func (f *fakeConnections) Get(context.Context, string) (*models.Connection, error) {
	return f.conn, nil
}

func (f *fakeConnections) State(context.Context, string) (models.ConnectionState, error) {
	return f.state, nil
}

type fakeRecordings struct {
	err error
}

func (f *fakeRecordings) UploadURL(_ context.Context, _ string, id string) (*services.PresignedURL, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.PresignedURL{Key: "recordings/" + id, URL: "https://s3.local/put", Method: "PUT"}, nil
}

func (f *fakeRecordings) DownloadURL(_ context.Context, _ string, id string) (*services.PresignedURL, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.PresignedURL{Key: "recordings/" + id, URL: "https://s3.local/get", Method: "GET"}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }
