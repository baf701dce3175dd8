package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/dbx"
	"github.com/centrinote/centrinote/internal/logging"
	"github.com/centrinote/centrinote/internal/server/config"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/repositories/connections"
	"github.com/centrinote/centrinote/internal/server/repositories/meetings"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

// --- meetings repo ---

type fakeMeetingsRepo struct {
	mu sync.Mutex

	rows map[string]*models.Meeting

	createErr   error
	createCalls int
	listErr     error
	getErr      error
	getCalls    int
	deleteErr   map[string]error
	deleteCalls []string
	setKeyErr   error
}

func newFakeMeetingsRepo() *fakeMeetingsRepo {
	return &fakeMeetingsRepo{rows: map[string]*models.Meeting{}, deleteErr: map[string]error{}}
}

func (f *fakeMeetingsRepo) Create(_ context.Context, m *models.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	cp := *m
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMeetingsRepo) ListByUser(_ context.Context, userID string) ([]*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Meeting, 0)
	for _, m := range f.rows {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (f *fakeMeetingsRepo) Get(_ context.Context, userID, id string) (*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.rows[id]
	if !ok || m.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMeetingsRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	m, ok := f.rows[id]
	if !ok || m.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMeetingsRepo) SetRecordingKey(_ context.Context, userID, id, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setKeyErr != nil {
		return f.setKeyErr
	}
	m, ok := f.rows[id]
	if !ok || m.UserID != userID {
		return common.ErrorNotFound
	}
	m.RecordingKey = key
	return nil
}

func (f *fakeMeetingsRepo) put(m *models.Meeting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.rows[m.ID] = &cp
}

// --- connections repo ---

type fakeConnectionsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Connection

	upsertErr     error
	deactivateErr error
	getErr        error
}

func newFakeConnectionsRepo() *fakeConnectionsRepo {
	return &fakeConnectionsRepo{rows: map[string]*models.Connection{}}
}

func (f *fakeConnectionsRepo) Upsert(_ context.Context, c *models.Connection) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	cp := *c
	if existing, ok := f.rows[c.UserID]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = c.LastConnectedAt
	}
	cp.IsActive = true
	cp.DisconnectedAt = nil
	cp.UpdatedAt = c.LastConnectedAt
	f.rows[c.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeConnectionsRepo) Deactivate(_ context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	if c, ok := f.rows[userID]; ok && c.IsActive {
		c.IsActive = false
		t := at
		c.DisconnectedAt = &t
	}
	return nil
}

func (f *fakeConnectionsRepo) GetByUser(_ context.Context, userID string) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

// --- repo manager ---

type fakeRepoManager struct {
	m *fakeMeetingsRepo
	c *fakeConnectionsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{m: newFakeMeetingsRepo(), c: newFakeConnectionsRepo()}
}

func (r *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (r *fakeRepoManager) Meetings(dbx.DBTX) meetings.Repository       { return r.m }
func (r *fakeRepoManager) Connections(dbx.DBTX) connections.Repository { return r.c }

// --- zoom api ---

type fakeZoomAPI struct {
	mu sync.Mutex

	createOut   *zoom.APIMeeting
	createErr   error
	createCalls []zoom.CreateMeetingRequest

	deleteErr   map[string]error
	deleteCalls []string

	user    *zoom.User
	userErr error
}

func (f *fakeZoomAPI) CreateMeeting(_ context.Context, _ string, req zoom.CreateMeetingRequest) (*zoom.APIMeeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeZoomAPI) DeleteMeeting(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr[id]
}

func (f *fakeZoomAPI) GetUser(context.Context, string) (*zoom.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func discardLogger() logging.Logger {
	return logging.Discard()
}
