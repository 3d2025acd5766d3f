package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAction(id, title string, createdAt time.Time) *models.CustomAction {
	return &models.CustomAction{
		ID:       id,
		Title:    title,
		WorkType: models.WorkTypeImageGeneration,
		Fields: []models.CustomField{
			{ID: id + "-f0", Key: "field_0", Question: "Qual o tom?", Options: []models.Option{
				{Label: "Formal", Prompt: "formal tone"},
				{Label: "Descontraído"},
			}},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// storeUnderTest runs the shared behavior suite against any Store.
func storeUnderTest(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("get missing returns nil", func(t *testing.T) {
		action, err := s.GetCustomAction(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, action)
	})

	t.Run("save and get round trip", func(t *testing.T) {
		in := sampleAction("a1", "Post para padaria", base)
		require.NoError(t, s.SaveCustomAction(ctx, in))

		out, err := s.GetCustomAction(ctx, "a1")
		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, in.Title, out.Title)
		assert.Equal(t, in.WorkType, out.WorkType)
		require.Len(t, out.Fields, 1)
		assert.Equal(t, "field_0", out.Fields[0].Key)
		assert.Equal(t, in.Fields[0].Options, out.Fields[0].Options)
	})

	t.Run("save overwrites by id", func(t *testing.T) {
		updated := sampleAction("a1", "Post renovado", base)
		updated.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, s.SaveCustomAction(ctx, updated))

		out, err := s.GetCustomAction(ctx, "a1")
		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "Post renovado", out.Title)
	})

	t.Run("list ordered by creation", func(t *testing.T) {
		require.NoError(t, s.SaveCustomAction(ctx, sampleAction("a2", "Segunda", base.Add(time.Minute))))
		require.NoError(t, s.SaveCustomAction(ctx, sampleAction("a0", "Primeira", base.Add(-time.Minute))))

		actions, err := s.ListCustomActions(ctx)
		require.NoError(t, err)
		require.Len(t, actions, 3)
		assert.Equal(t, "a0", actions[0].ID)
		assert.Equal(t, "a1", actions[1].ID)
		assert.Equal(t, "a2", actions[2].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteCustomAction(ctx, "a1"))

		action, err := s.GetCustomAction(ctx, "a1")
		require.NoError(t, err)
		assert.Nil(t, action)

		assert.ErrorIs(t, s.DeleteCustomAction(ctx, "a1"), models.ErrActionNotFound)
	})
}

func TestInMemoryStore(t *testing.T) {
	storeUnderTest(t, NewInMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "data", "promptstudio.db")
	s, err := NewSQLiteStore(WithDSN(dsn))
	require.NoError(t, err)
	defer s.Close()

	storeUnderTest(t, s)
}

func TestNewSQLiteStore_RequiresDSN(t *testing.T) {
	_, err := NewSQLiteStore()
	assert.Error(t, err)
}

func TestNewPostgresStore_RequiresDSN(t *testing.T) {
	_, err := NewPostgresStore()
	assert.Error(t, err)
}
