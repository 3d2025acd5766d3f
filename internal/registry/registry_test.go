package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/artefluxo/promptstudio/internal/catalog"
	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockActionSource struct {
	actions map[string]*models.CustomAction
	err     error
}

func (m *mockActionSource) GetCustomAction(_ context.Context, id string) (*models.CustomAction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.actions[id], nil
}

func sampleAction() models.CustomAction {
	return models.CustomAction{
		ID:       "a1b2c3",
		Title:    "Post para padaria",
		WorkType: models.WorkTypeImageGeneration,
		Fields: []models.CustomField{
			{ID: "f1", Key: "field_0", Question: "Qual o tom?", Options: []models.Option{
				{Label: "Formal"}, {Label: "Descontraído"},
			}},
			{ID: "f2", Key: "field_1", Question: "Qual produto?", Options: []models.Option{
				{Label: "Pão"}, {Label: "Bolo"},
			}},
		},
	}
}

func TestResolveBuiltin(t *testing.T) {
	reg := New(nil)

	def, err := reg.Resolve(context.Background(), models.FlowRef{Kind: models.FlowKindBuiltin, Type: models.ActionInstagramImage})
	require.NoError(t, err)
	assert.Equal(t, models.ActionInstagramImage, def.Ref.Type)
	assert.True(t, def.IsImageGeneration)

	_, err = reg.Resolve(context.Background(), models.FlowRef{Kind: models.FlowKindBuiltin, Type: models.ActionType("billboard")})
	assert.ErrorIs(t, err, models.ErrUnknownAction)
}

func TestResolveCustom(t *testing.T) {
	action := sampleAction()
	reg := New(&mockActionSource{actions: map[string]*models.CustomAction{action.ID: &action}})
	ref := models.FlowRef{Kind: models.FlowKindCustom, CustomID: action.ID}

	def, err := reg.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, ref, def.Ref)
	assert.Equal(t, "Post para padaria", def.Label)
	assert.True(t, def.IsImageGeneration)
	assert.Equal(t, catalog.WorkTypeModels[string(models.WorkTypeImageGeneration)], def.Model)

	// Fields carry over in order, then a trailing freeform description.
	require.Len(t, def.Questions, 3)
	assert.Equal(t, "field_0", def.Questions[0].Key)
	assert.Equal(t, []string{"Formal", "Descontraído"}, def.Questions[0].OptionLabels())
	assert.Equal(t, "field_1", def.Questions[1].Key)

	last := def.Questions[2]
	assert.Equal(t, catalog.DescriptionKey, last.Key)
	assert.Equal(t, catalog.DescriptionQuestions[string(models.WorkTypeImageGeneration)], last.Question)
	assert.Empty(t, last.Options)
}

func TestResolveCustom_NotFound(t *testing.T) {
	reg := New(&mockActionSource{actions: map[string]*models.CustomAction{}})

	_, err := reg.Resolve(context.Background(), models.FlowRef{Kind: models.FlowKindCustom, CustomID: "missing"})
	assert.ErrorIs(t, err, models.ErrActionNotFound)
}

func TestResolveCustom_SourceError(t *testing.T) {
	sourceErr := errors.New("db down")
	reg := New(&mockActionSource{err: sourceErr})

	_, err := reg.Resolve(context.Background(), models.FlowRef{Kind: models.FlowKindCustom, CustomID: "a1b2c3"})
	assert.ErrorIs(t, err, sourceErr)
}

func TestSynthesize_NonImageWorkType(t *testing.T) {
	action := sampleAction()
	action.WorkType = models.WorkTypeCopyWriting

	def := Synthesize(action)
	assert.False(t, def.IsImageGeneration)
	assert.Empty(t, def.Model)
	assert.Equal(t, catalog.DescriptionQuestions[string(models.WorkTypeCopyWriting)],
		def.Questions[len(def.Questions)-1].Question)
}

func TestSynthesize_UnknownWorkTypeFallsBack(t *testing.T) {
	action := sampleAction()
	action.WorkType = models.WorkType("document-analysis")

	def := Synthesize(action)
	assert.Equal(t, catalog.DefaultDescriptionQuestion, def.Questions[len(def.Questions)-1].Question)
}
