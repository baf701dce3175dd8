package connections

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var connectionColumns = []string{
	"id", "user_id", "email", "display_name", "role", "account_id", "is_active",
	"last_connected_at", "disconnected_at", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert_ReactivatesRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO zoom_connections .* ON CONFLICT \(user_id\)\s+DO UPDATE SET .* disconnected_at = NULL`).
		WithArgs("c1", "u1", "ada@example.com", "Ada", "host", "acc", now).
		WillReturnRows(sqlmock.NewRows(connectionColumns).
			AddRow("c0", "u1", "ada@example.com", "Ada", "host", "acc", true, now, nil, now.Add(-time.Hour), now))

	got, err := repo.Upsert(context.Background(), &models.Connection{
		ID: "c1", UserID: "u1", Email: "ada@example.com", DisplayName: "Ada",
		Role: "host", AccountID: "acc", LastConnectedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "c0", got.ID, "existing row id is kept")
	assert.True(t, got.IsActive)
	assert.Nil(t, got.DisconnectedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO zoom_connections`).WillReturnError(errors.New("db is down"))

	_, err := repo.Upsert(context.Background(), &models.Connection{UserID: "u1"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db is down`, err.Error())
}

func TestDeactivate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE zoom_connections\s+SET is_active = FALSE, disconnected_at = \$2`).
		WithArgs("u1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE zoom_connections`).
		WithArgs("u1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE zoom_connections`).
		WithArgs("u1", at).
		WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Deactivate(context.Background(), "u1", at))
	require.NoError(t, repo.Deactivate(context.Background(), "u1", at), "second disconnect is a no-op")
	require.Error(t, repo.Deactivate(context.Background(), "u1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUser(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("disconnected row", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		disc := now.Add(time.Hour)
		mock.ExpectQuery(`FROM zoom_connections WHERE user_id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(connectionColumns).
				AddRow("c1", "u1", "ada@example.com", "Ada", "", "", false, now, disc, now, disc))

		got, err := repo.GetByUser(context.Background(), "u1")
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		require.NotNil(t, got.DisconnectedAt)
		assert.Equal(t, disc, *got.DisconnectedAt)
	})

	t.Run("none", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`FROM zoom_connections`).WithArgs("u1").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByUser(context.Background(), "u1")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`FROM zoom_connections`).WithArgs("u1").WillReturnError(errors.New("boom"))

		_, err := repo.GetByUser(context.Background(), "u1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db error")
	})
}
