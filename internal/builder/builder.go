// Package builder validates and persists user-authored quick actions.
package builder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artefluxo/promptstudio/internal/models"
)

// Store persists custom action records.
type Store interface {
	SaveCustomAction(ctx context.Context, action *models.CustomAction) error
	GetCustomAction(ctx context.Context, id string) (*models.CustomAction, error)
}

// Builder turns creation requests into validated, persisted custom actions.
type Builder struct {
	store Store
	now   func() time.Time
}

// New creates a Builder over the given store.
func New(store Store) *Builder {
	return &Builder{store: store, now: time.Now}
}

// validate checks a request against the authoring rules. The label check
// runs over the raw option list, so an empty label is an error even when
// enough labeled options remain; the minimum count runs over the labeled
// options only.
func validate(req models.CustomActionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return models.ErrEmptyTitle
	}
	if len(strings.TrimSpace(req.Title)) > models.MaxTitleLength {
		return models.ErrTitleTooLong
	}
	if !models.IsEnabledWorkType(req.WorkType) {
		return fmt.Errorf("work type %q: %w", req.WorkType, models.ErrInvalidWorkType)
	}
	if len(req.Fields) == 0 {
		return models.ErrNoFields
	}

	for i, field := range req.Fields {
		if strings.TrimSpace(field.Question) == "" {
			return fmt.Errorf("field %d: %w", i, models.ErrEmptyQuestion)
		}
		if len(strings.TrimSpace(field.Question)) > models.MaxQuestionLength {
			return fmt.Errorf("field %d: %w", i, models.ErrQuestionTooLong)
		}
		labeled := 0
		for j, opt := range field.Options {
			if strings.TrimSpace(opt.Label) == "" {
				return fmt.Errorf("field %d option %d: %w", i, j, models.ErrEmptyOptionLabel)
			}
			labeled++
		}
		if labeled < models.MinOptionsPerField {
			return fmt.Errorf("field %d: %w", i, models.ErrInsufficientOptions)
		}
	}
	return nil
}

// buildFields normalizes the authored fields: trimmed text, only labeled
// options kept, positional keys.
func buildFields(fields []models.CustomFieldRequest) []models.CustomField {
	out := make([]models.CustomField, 0, len(fields))
	for i, field := range fields {
		options := make([]models.Option, 0, len(field.Options))
		for _, opt := range field.Options {
			label := strings.TrimSpace(opt.Label)
			if label == "" {
				continue
			}
			options = append(options, models.Option{
				Label:  label,
				Prompt: strings.TrimSpace(opt.Prompt),
			})
		}
		out = append(out, models.CustomField{
			ID:       uuid.New().String(),
			Key:      fmt.Sprintf("field_%d", i),
			Question: strings.TrimSpace(field.Question),
			Options:  options,
		})
	}
	return out
}

// Create validates the request and persists a new custom action.
func (b *Builder) Create(ctx context.Context, req models.CustomActionRequest) (*models.CustomAction, error) {
	if err := validate(req); err != nil {
		return nil, fmt.Errorf("create custom action: %w", err)
	}

	now := b.now()
	action := &models.CustomAction{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(req.Title),
		WorkType:  req.WorkType,
		Fields:    buildFields(req.Fields),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.store.SaveCustomAction(ctx, action); err != nil {
		return nil, fmt.Errorf("save custom action: %w", err)
	}
	return action, nil
}

// Update revalidates the request and overwrites the existing action,
// preserving its identity and creation time.
func (b *Builder) Update(ctx context.Context, id string, req models.CustomActionRequest) (*models.CustomAction, error) {
	if err := validate(req); err != nil {
		return nil, fmt.Errorf("update custom action: %w", err)
	}

	existing, err := b.store.GetCustomAction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load custom action %q: %w", id, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("update custom action %q: %w", id, models.ErrActionNotFound)
	}

	action := &models.CustomAction{
		ID:        existing.ID,
		Title:     strings.TrimSpace(req.Title),
		WorkType:  req.WorkType,
		Fields:    buildFields(req.Fields),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: b.now(),
	}
	if err := b.store.SaveCustomAction(ctx, action); err != nil {
		return nil, fmt.Errorf("save custom action: %w", err)
	}
	return action, nil
}
