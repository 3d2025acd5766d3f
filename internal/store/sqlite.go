// Package store provides storage backends for custom quick actions.
//
// This file implements the SQLite-backed store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/artefluxo/promptstudio/internal/models"
)

// DefaultDirPermissions defines the default permissions for database
// directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is
// a file path to the SQLite database file; a missing directory is created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("SQLiteStore: failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("SQLiteStore: failed to open connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLiteStore: ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("SQLiteStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteStore: migrations applied")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveCustomAction(ctx context.Context, action *models.CustomAction) error {
	fields, err := json.Marshal(action.Fields)
	if err != nil {
		return fmt.Errorf("marshal custom action fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO custom_actions (id, title, work_type, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			work_type = excluded.work_type,
			fields = excluded.fields,
			updated_at = excluded.updated_at`,
		action.ID, action.Title, string(action.WorkType), string(fields), action.CreatedAt, action.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore.SaveCustomAction failed", "error", err, "id", action.ID)
		return fmt.Errorf("failed to save custom action %s: %w", action.ID, err)
	}
	slog.Debug("SQLiteStore.SaveCustomAction succeeded", "id", action.ID)
	return nil
}

func (s *SQLiteStore) GetCustomAction(ctx context.Context, id string) (*models.CustomAction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, work_type, fields, created_at, updated_at
		FROM custom_actions WHERE id = ?`, id)
	action, err := scanCustomActionRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore.GetCustomAction failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to get custom action %s: %w", id, err)
	}
	return action, nil
}

func (s *SQLiteStore) ListCustomActions(ctx context.Context) ([]models.CustomAction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, work_type, fields, created_at, updated_at
		FROM custom_actions ORDER BY created_at, id`)
	if err != nil {
		slog.Error("SQLiteStore.ListCustomActions query failed", "error", err)
		return nil, fmt.Errorf("failed to query custom actions: %w", err)
	}
	defer rows.Close()
	return collectCustomActions(rows)
}

func (s *SQLiteStore) DeleteCustomAction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_actions WHERE id = ?`, id)
	if err != nil {
		slog.Error("SQLiteStore.DeleteCustomAction failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete custom action %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrActionNotFound
	}
	slog.Debug("SQLiteStore.DeleteCustomAction succeeded", "id", id)
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
