package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/centrinote/centrinote/internal/client/prefs/migrations"
	"github.com/centrinote/centrinote/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Entry is a registered key with its effective value.
type Entry struct {
	Key       Key
	Value     string
	IsDefault bool
}

// Store is the registry-checked preference store.
type Store struct {
	db       *sql.DB
	registry *Registry
}

// RunMigrations brings the prefs schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the sqlite file at path and migrates it.
func Open(ctx context.Context, path string, reg *Registry) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStore(db, reg), nil
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB, reg *Registry) *Store {
	return &Store{db: db, registry: reg}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) repo(db dbx.DBTX) *SQLiteRepository {
	return NewSQLiteRepository(db)
}

// Get returns the stored value of name, or its default.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	k, err := s.registry.Lookup(name)
	if err != nil {
		return "", err
	}
	v, ok, err := s.repo(s.db).Get(ctx, k.Name)
	if err != nil {
		return "", err
	}
	if !ok {
		return k.Default, nil
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, name, value string) error {
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	return s.repo(s.db).Set(ctx, name, value)
}

// SetMany writes several keys atomically. Every name must be registered.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	for name := range values {
		if _, err := s.registry.Lookup(name); err != nil {
			return err
		}
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		for name, v := range values {
			if err := r.Set(ctx, name, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	return s.repo(s.db).Delete(ctx, name)
}

// List returns every registered key with its effective value, sorted by
// name. Stray rows for unregistered keys are not reported.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	stored, err := s.repo(s.db).List(ctx)
	if err != nil {
		return nil, err
	}

	keys := s.registry.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		v, ok := stored[k.Name]
		if !ok {
			out = append(out, Entry{Key: k, Value: k.Default, IsDefault: true})
			continue
		}
		out = append(out, Entry{Key: k, Value: v})
	}
	return out, nil
}

// PurgeNamespace deletes exactly the registered keys of ns in one
// transaction and returns how many keys were targeted.
func (s *Store) PurgeNamespace(ctx context.Context, ns Namespace) (int, error) {
	keys := s.registry.InNamespace(ns)
	if len(keys) == 0 {
		return 0, fmt.Errorf("%w: unknown namespace %q", ErrUnknownKey, ns)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		for _, k := range keys {
			if err := r.Delete(ctx, k.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
