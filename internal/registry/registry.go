// Package registry resolves flow references into fully materialized flow
// definitions. Built-in definitions come from the static catalog; custom
// definitions are synthesized on demand from persisted custom action
// records.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artefluxo/promptstudio/internal/catalog"
	"github.com/artefluxo/promptstudio/internal/models"
)

// CustomActionSource provides persisted custom action records.
type CustomActionSource interface {
	GetCustomAction(ctx context.Context, id string) (*models.CustomAction, error)
}

// Registry resolves FlowRefs against the built-in catalog and a custom
// action source.
type Registry struct {
	builtins map[models.ActionType]models.FlowDefinition
	source   CustomActionSource
}

// New creates a Registry over the built-in catalog definitions and the
// given custom action source. A nil source disables custom flow
// resolution.
func New(source CustomActionSource) *Registry {
	builtins := make(map[models.ActionType]models.FlowDefinition, len(catalog.BuiltinDefinitions))
	for _, def := range catalog.BuiltinDefinitions {
		builtins[def.Ref.Type] = def
	}
	return &Registry{builtins: builtins, source: source}
}

// Builtins returns the built-in definitions in display order.
func (r *Registry) Builtins() []models.FlowDefinition {
	return catalog.BuiltinDefinitions
}

// GetBuiltin looks up a built-in definition by action type.
func (r *Registry) GetBuiltin(t models.ActionType) (*models.FlowDefinition, bool) {
	def, ok := r.builtins[t]
	if !ok {
		return nil, false
	}
	return &def, true
}

// Resolve materializes the definition for a flow reference. Unknown
// built-in types and missing custom records resolve to an error; callers
// treat that as "flow does not exist" rather than a fault.
func (r *Registry) Resolve(ctx context.Context, ref models.FlowRef) (*models.FlowDefinition, error) {
	switch ref.Kind {
	case models.FlowKindBuiltin:
		def, ok := r.GetBuiltin(ref.Type)
		if !ok {
			slog.Debug("Registry.Resolve: unknown builtin action", "type", ref.Type)
			return nil, fmt.Errorf("resolve flow %q: %w", ref.Type, models.ErrUnknownAction)
		}
		return def, nil
	case models.FlowKindCustom:
		if r.source == nil {
			return nil, fmt.Errorf("resolve custom flow %q: %w", ref.CustomID, models.ErrActionNotFound)
		}
		action, err := r.source.GetCustomAction(ctx, ref.CustomID)
		if err != nil {
			slog.Error("Registry.Resolve: failed to load custom action", "id", ref.CustomID, "error", err)
			return nil, fmt.Errorf("resolve custom flow %q: %w", ref.CustomID, err)
		}
		if action == nil {
			slog.Debug("Registry.Resolve: custom action not found", "id", ref.CustomID)
			return nil, fmt.Errorf("resolve custom flow %q: %w", ref.CustomID, models.ErrActionNotFound)
		}
		return Synthesize(*action), nil
	default:
		return nil, fmt.Errorf("resolve flow: %w", models.ErrUnknownAction)
	}
}

// Synthesize converts a stored custom action into a flow definition: each
// field becomes a question with its options copied verbatim, and a trailing
// freeform description question is always appended, worded per work type.
// The backing model comes from the work-type table; absence means the flow
// routes to the text generation path.
func Synthesize(action models.CustomAction) *models.FlowDefinition {
	questions := make([]models.Question, 0, len(action.Fields)+1)
	for _, field := range action.Fields {
		questions = append(questions, models.Question{
			Key:      field.Key,
			Question: field.Question,
			Options:  field.Options,
		})
	}
	questions = append(questions, models.Question{
		Key: catalog.DescriptionKey,
		Question: catalog.LookupOr(
			catalog.DescriptionQuestions, string(action.WorkType), catalog.DefaultDescriptionQuestion),
	})

	return &models.FlowDefinition{
		Ref:               models.FlowRef{Kind: models.FlowKindCustom, CustomID: action.ID},
		Label:             action.Title,
		Model:             catalog.LookupOr(catalog.WorkTypeModels, string(action.WorkType), ""),
		Questions:         questions,
		IsImageGeneration: action.WorkType == models.WorkTypeImageGeneration,
		WorkType:          action.WorkType,
	}
}
