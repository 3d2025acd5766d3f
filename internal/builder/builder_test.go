package builder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	saved   []*models.CustomAction
	byID    map[string]*models.CustomAction
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{byID: map[string]*models.CustomAction{}}
}

func (m *mockStore) SaveCustomAction(_ context.Context, action *models.CustomAction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, action)
	m.byID[action.ID] = action
	return nil
}

func (m *mockStore) GetCustomAction(_ context.Context, id string) (*models.CustomAction, error) {
	return m.byID[id], nil
}

func validRequest() models.CustomActionRequest {
	return models.CustomActionRequest{
		Title:    "  Post para padaria  ",
		WorkType: models.WorkTypeImageGeneration,
		Fields: []models.CustomFieldRequest{
			{Question: " Qual o tom? ", Options: []models.Option{
				{Label: " Formal ", Prompt: " formal tone "},
				{Label: "Descontraído"},
			}},
			{Question: "Qual produto?", Options: []models.Option{
				{Label: "Pão"}, {Label: "Bolo"}, {Label: "Torta"},
			}},
		},
	}
}

func TestCreate(t *testing.T) {
	store := newMockStore()
	b := New(store)

	action, err := b.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	assert.NotEmpty(t, action.ID)
	assert.Equal(t, "Post para padaria", action.Title, "title is trimmed")
	assert.Equal(t, models.WorkTypeImageGeneration, action.WorkType)
	assert.False(t, action.CreatedAt.IsZero())
	assert.Equal(t, action.CreatedAt, action.UpdatedAt)

	require.Len(t, action.Fields, 2)
	first := action.Fields[0]
	assert.Equal(t, "field_0", first.Key)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Qual o tom?", first.Question)
	require.Len(t, first.Options, 2)
	assert.Equal(t, models.Option{Label: "Formal", Prompt: "formal tone"}, first.Options[0])

	assert.Equal(t, "field_1", action.Fields[1].Key)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.CustomActionRequest)
		wantErr error
	}{
		{
			name:    "empty title",
			mutate:  func(r *models.CustomActionRequest) { r.Title = "   " },
			wantErr: models.ErrEmptyTitle,
		},
		{
			name:    "title too long",
			mutate:  func(r *models.CustomActionRequest) { r.Title = strings.Repeat("a", models.MaxTitleLength+1) },
			wantErr: models.ErrTitleTooLong,
		},
		{
			name:    "disabled work type",
			mutate:  func(r *models.CustomActionRequest) { r.WorkType = models.WorkTypeVoiceToText },
			wantErr: models.ErrInvalidWorkType,
		},
		{
			name:    "no fields",
			mutate:  func(r *models.CustomActionRequest) { r.Fields = nil },
			wantErr: models.ErrNoFields,
		},
		{
			name:    "empty question",
			mutate:  func(r *models.CustomActionRequest) { r.Fields[1].Question = " " },
			wantErr: models.ErrEmptyQuestion,
		},
		{
			name: "question too long",
			mutate: func(r *models.CustomActionRequest) {
				r.Fields[0].Question = strings.Repeat("q", models.MaxQuestionLength+1)
			},
			wantErr: models.ErrQuestionTooLong,
		},
		{
			name: "empty option label fails even with enough labeled options",
			mutate: func(r *models.CustomActionRequest) {
				r.Fields[0].Options = append(r.Fields[0].Options, models.Option{Label: "  "})
			},
			wantErr: models.ErrEmptyOptionLabel,
		},
		{
			name: "fewer than two options",
			mutate: func(r *models.CustomActionRequest) {
				r.Fields[0].Options = r.Fields[0].Options[:1]
			},
			wantErr: models.ErrInsufficientOptions,
		},
		{
			name: "no options at all",
			mutate: func(r *models.CustomActionRequest) {
				r.Fields[0].Options = nil
			},
			wantErr: models.ErrInsufficientOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			req := validRequest()
			tt.mutate(&req)

			_, err := New(store).Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.saved, "nothing may be persisted on validation failure")
		})
	}
}

func TestUpdate(t *testing.T) {
	store := newMockStore()
	b := New(store)

	created, err := b.Create(context.Background(), validRequest())
	require.NoError(t, err)

	b.now = func() time.Time { return created.CreatedAt.Add(time.Hour) }

	req := validRequest()
	req.Title = "Post renovado"
	req.WorkType = models.WorkTypeCopyWriting
	updated, err := b.Update(context.Background(), created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, "Post renovado", updated.Title)
	assert.Equal(t, models.WorkTypeCopyWriting, updated.WorkType)
}

func TestUpdate_NotFound(t *testing.T) {
	b := New(newMockStore())
	_, err := b.Update(context.Background(), "missing", validRequest())
	assert.ErrorIs(t, err, models.ErrActionNotFound)
}
