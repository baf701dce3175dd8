// Package connections provides a PostgreSQL-backed repository for the
// per-user Zoom connection record.
package connections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/dbx"
	"github.com/centrinote/centrinote/internal/server/models"
)

const returningColumns = `id, user_id, email, display_name, role, account_id, is_active,
	last_connected_at, disconnected_at, created_at, updated_at`

// PostgresRepository implements connection storage over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert creates or reactivates the user's connection. The row is keyed on
// user_id; on conflict the identity fields are replaced, the row becomes
// active and disconnected_at is cleared.
func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Connection) (*models.Connection, error) {
	query := `
		INSERT INTO zoom_connections (id, user_id, email, display_name, role, account_id, is_active, last_connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			account_id = EXCLUDED.account_id,
			is_active = TRUE,
			last_connected_at = EXCLUDED.last_connected_at,
			disconnected_at = NULL,
			updated_at = now()
		RETURNING ` + returningColumns

	row := r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Email, c.DisplayName, c.Role, c.AccountID, c.LastConnectedAt)

	saved, err := scanConnection(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

// Deactivate marks the user's connection inactive. It is a no-op when the
// user has no row or is already disconnected.
func (r *PostgresRepository) Deactivate(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE zoom_connections
		SET is_active = FALSE, disconnected_at = $2, updated_at = now()
		WHERE user_id = $1 AND is_active
	`
	if _, err := r.db.ExecContext(ctx, query, userID, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByUser returns the user's connection row whether active or not.
// If there is none, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.Connection, error) {
	query := `SELECT ` + returningColumns + ` FROM zoom_connections WHERE user_id = $1`

	c, err := scanConnection(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func scanConnection(row *sql.Row) (*models.Connection, error) {
	var (
		c            models.Connection
		disconnected sql.NullTime
	)
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Email, &c.DisplayName, &c.Role, &c.AccountID, &c.IsActive,
		&c.LastConnectedAt, &disconnected, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if disconnected.Valid {
		t := disconnected.Time
		c.DisconnectedAt = &t
	}
	return &c, nil
}
