package cli

import (
	"context"
	"sort"
	"time"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/client/prefs"
	"github.com/centrinote/centrinote/internal/client/services"
	"github.com/centrinote/centrinote/internal/client/supabase"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

type fakeSession struct {
	current  *supabase.Session
	loginErr error

	email, password string
	loggedOut       bool
}

func (f *fakeSession) Login(_ context.Context, email, password string) (*supabase.Session, error) {
	f.email, f.password = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.current = &supabase.Session{AccessToken: "at", UserID: "u1", Email: email}
	return f.current, nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.loggedOut = true
	f.current = nil
	return nil
}

func (f *fakeSession) Session(context.Context) (*supabase.Session, error) {
	if f.current == nil {
		return nil, services.ErrNotLoggedIn
	}
	return f.current, nil
}

// fakePrefs is an in-memory store over the default registry.
type fakePrefs struct {
	reg    *prefs.Registry
	values map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{reg: prefs.DefaultRegistry(), values: map[string]string{}}
}

func (f *fakePrefs) Get(_ context.Context, name string) (string, error) {
	k, err := f.reg.Lookup(name)
	if err != nil {
		return "", err
	}
	if v, ok := f.values[name]; ok {
		return v, nil
	}
	return k.Default, nil
}

func (f *fakePrefs) Set(_ context.Context, name, value string) error {
	if _, err := f.reg.Lookup(name); err != nil {
		return err
	}
	f.values[name] = value
	return nil
}

func (f *fakePrefs) Delete(_ context.Context, name string) error {
	if _, err := f.reg.Lookup(name); err != nil {
		return err
	}
	delete(f.values, name)
	return nil
}

func (f *fakePrefs) List(context.Context) ([]prefs.Entry, error) {
	var out []prefs.Entry
	for _, k := range f.reg.Keys() {
		v, ok := f.values[k.Name]
		if !ok {
			out = append(out, prefs.Entry{Key: k, Value: k.Default, IsDefault: true})
			continue
		}
		out = append(out, prefs.Entry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Name < out[j].Key.Name })
	return out, nil
}

type fakeServer struct {
	config     api.ZoomConfig
	connection *models.Connection
	state      models.ConnectionState
	meetings   []*models.Meeting
	created    *models.Meeting
	report     *api.BulkDeleteReport
	healthErr  error
	err        error

	lastCreate    api.CreateMeetingRequest
	lastConnect   api.ConnectRequest
	lastSignature struct {
		number string
		role   zoom.Role
	}
	deleted      []string
	bulkIDs      []string
	disconnected bool
}

func (f *fakeServer) Health(context.Context) error {
	return f.healthErr
}

func (f *fakeServer) AuthStatus(context.Context) (*api.AuthStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.AuthStatus{Authenticated: true, UserID: "u1", Email: "a@example.com", ExpiresAt: time.Date(2026, 3, 7, 13, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeServer) ZoomConfig(context.Context) (*api.ZoomConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.config
	return &c, nil
}

func (f *fakeServer) Signature(_ context.Context, number string, role zoom.Role) (*api.Signature, error) {
	f.lastSignature.number, f.lastSignature.role = number, role
	if f.err != nil {
		return nil, f.err
	}
	return &api.Signature{Signature: "server.sig.nature", SDKKey: "sdk-key", MeetingNumber: number, Role: role}, nil
}

func (f *fakeServer) Connection(context.Context) (*models.Connection, error) {
	return f.connection, f.err
}

func (f *fakeServer) Connect(_ context.Context, in api.ConnectRequest) (*models.Connection, error) {
	f.lastConnect = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Connection{Email: in.Email, DisplayName: in.DisplayName, Role: in.Role, IsActive: true}, nil
}

func (f *fakeServer) Disconnect(context.Context) error {
	f.disconnected = true
	return f.err
}

func (f *fakeServer) ConnectionState(context.Context) (models.ConnectionState, error) {
	return f.state, f.err
}

func (f *fakeServer) ListMeetings(context.Context) ([]*models.Meeting, error) {
	return f.meetings, f.err
}

func (f *fakeServer) CreateMeeting(_ context.Context, in api.CreateMeetingRequest) (*models.Meeting, error) {
	f.lastCreate = in
	return f.created, f.err
}

func (f *fakeServer) GetMeeting(_ context.Context, id string) (*models.Meeting, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.meetings {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, &api.Error{Status: 404, Code: "NOT_FOUND", Message: "meeting not found"}
}

func (f *fakeServer) DeleteMeeting(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeServer) BulkDeleteMeetings(_ context.Context, ids []string) (*api.BulkDeleteReport, error) {
	f.bulkIDs = ids
	return f.report, f.err
}

func (f *fakeServer) RecordingDownloadURL(_ context.Context, id string) (*api.PresignedURL, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.PresignedURL{Key: "recordings/" + id, URL: "http://storage.local/" + id, Method: "GET"}, nil
}

type fakeRecordings struct {
	meetingID, path string
	err             error
}

func (f *fakeRecordings) UploadRecording(_ context.Context, meetingID, path string) (string, error) {
	f.meetingID, f.path = meetingID, path
	return "recordings/u1/k", f.err
}

type fakeProbe struct {
	status map[string]bool
	err    error
}

func (f *fakeProbe) Serving(_ context.Context, service string) (bool, error) {
	return f.status[service], f.err
}
