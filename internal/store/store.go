// Package store provides storage backends for custom quick actions.
//
// It includes SQLite and PostgreSQL stores behind a common interface, plus
// an in-memory store for tests and ephemeral runs.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/artefluxo/promptstudio/internal/models"
)

// DetectDSNType classifies a DSN as "postgres" for connection URLs and
// key/value strings, "sqlite" for plain file paths.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// Store is the persistence interface for custom action records.
// GetCustomAction returns (nil, nil) when no record exists; callers decide
// whether absence is an error.
type Store interface {
	SaveCustomAction(ctx context.Context, action *models.CustomAction) error
	GetCustomAction(ctx context.Context, id string) (*models.CustomAction, error)
	ListCustomActions(ctx context.Context) ([]models.CustomAction, error)
	DeleteCustomAction(ctx context.Context, id string) error
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	// DSN is the database connection string: a file path for SQLite, a
	// connection URL for Postgres.
	DSN string
}

// Option defines a functional option for store configuration.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// InMemoryStore keeps custom actions in a map. Used in tests and when no
// database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	actions map[string]models.CustomAction
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{actions: make(map[string]models.CustomAction)}
}

func (s *InMemoryStore) SaveCustomAction(_ context.Context, action *models.CustomAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[action.ID] = *action
	return nil
}

func (s *InMemoryStore) GetCustomAction(_ context.Context, id string) (*models.CustomAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	action, ok := s.actions[id]
	if !ok {
		return nil, nil
	}
	return &action, nil
}

func (s *InMemoryStore) ListCustomActions(_ context.Context) ([]models.CustomAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CustomAction, 0, len(s.actions))
	for _, action := range s.actions {
		out = append(out, action)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) DeleteCustomAction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actions[id]; !ok {
		return models.ErrActionNotFound
	}
	delete(s.actions, id)
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
