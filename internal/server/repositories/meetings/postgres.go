// Package meetings provides a PostgreSQL-backed repository for Zoom meeting
// records, scoped per user.
package meetings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/dbx"
	"github.com/centrinote/centrinote/internal/server/models"
)

const selectColumns = `id, user_id, external_id, meeting_number, topic, agenda, start_time, duration,
	timezone, join_url, start_url, password, status, recording_enabled, recording_key, source,
	created_at, updated_at`

// PostgresRepository implements meeting storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a meeting row. CreatedAt and UpdatedAt are filled from the
// database clock.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Meeting) error {
	query := `
		INSERT INTO zoom_meetings (id, user_id, external_id, meeting_number, topic, agenda, start_time,
			duration, timezone, join_url, start_url, password, status, recording_enabled, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.UserID, m.ExternalID, m.MeetingNumber, m.Topic, m.Agenda, m.StartTime,
		m.Duration, m.Timezone, m.JoinURL, m.StartURL, m.Password, m.Status, m.RecordingEnabled,
		string(m.Source),
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns the user's meetings, most recent start time first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Meeting, error) {
	query := `SELECT ` + selectColumns + ` FROM zoom_meetings
		WHERE user_id = $1
		ORDER BY start_time DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select meetings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns a single meeting owned by userID, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Meeting, error) {
	query := `SELECT ` + selectColumns + ` FROM zoom_meetings
		WHERE id = $1 AND user_id = $2`

	m, err := scanMeeting(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Delete removes a meeting owned by userID. Deleting a row that does not
// exist returns common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM zoom_meetings WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// SetRecordingKey stores the object-storage key of the meeting recording.
func (r *PostgresRepository) SetRecordingKey(ctx context.Context, userID, id, key string) error {
	query := `
		UPDATE zoom_meetings SET recording_key = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeeting(s scanner) (*models.Meeting, error) {
	var (
		m      models.Meeting
		source string
	)
	if err := s.Scan(
		&m.ID, &m.UserID, &m.ExternalID, &m.MeetingNumber, &m.Topic, &m.Agenda, &m.StartTime, &m.Duration,
		&m.Timezone, &m.JoinURL, &m.StartURL, &m.Password, &m.Status, &m.RecordingEnabled, &m.RecordingKey,
		&source, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.Source = models.MeetingSource(source)
	return &m, nil
}
