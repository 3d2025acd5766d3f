// Package store provides storage backends for custom quick actions.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/artefluxo/promptstudio/internal/models"
)

// Database connection pool configuration constants.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("PostgresStore: failed to open connection", "error", err)
		return nil, err
	}
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("PostgresStore: ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("PostgresStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresStore: migrations applied")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveCustomAction(ctx context.Context, action *models.CustomAction) error {
	fields, err := json.Marshal(action.Fields)
	if err != nil {
		return fmt.Errorf("marshal custom action fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO custom_actions (id, title, work_type, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			work_type = EXCLUDED.work_type,
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at`,
		action.ID, action.Title, string(action.WorkType), string(fields), action.CreatedAt, action.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore.SaveCustomAction failed", "error", err, "id", action.ID)
		return fmt.Errorf("failed to save custom action %s: %w", action.ID, err)
	}
	slog.Debug("PostgresStore.SaveCustomAction succeeded", "id", action.ID)
	return nil
}

func (s *PostgresStore) GetCustomAction(ctx context.Context, id string) (*models.CustomAction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, work_type, fields, created_at, updated_at
		FROM custom_actions WHERE id = $1`, id)
	action, err := scanCustomActionRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore.GetCustomAction failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to get custom action %s: %w", id, err)
	}
	return action, nil
}

func (s *PostgresStore) ListCustomActions(ctx context.Context) ([]models.CustomAction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, work_type, fields, created_at, updated_at
		FROM custom_actions ORDER BY created_at, id`)
	if err != nil {
		slog.Error("PostgresStore.ListCustomActions query failed", "error", err)
		return nil, fmt.Errorf("failed to query custom actions: %w", err)
	}
	defer rows.Close()
	return collectCustomActions(rows)
}

func (s *PostgresStore) DeleteCustomAction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_actions WHERE id = $1`, id)
	if err != nil {
		slog.Error("PostgresStore.DeleteCustomAction failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete custom action %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrActionNotFound
	}
	slog.Debug("PostgresStore.DeleteCustomAction succeeded", "id", id)
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
