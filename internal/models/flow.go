// Package models defines flow definition structures shared by the registry,
// engine, and dispatcher.
package models

import "time"

// Option is a selectable answer on a multiple-choice question. Label is the
// user-visible text; Prompt is the fragment substituted for the label when a
// custom flow composes its final prompt. Built-in flows look labels up in
// the prompt catalog instead.
type Option struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt,omitempty"`
}

// Question is a single step of a guided flow. An empty Options slice means
// the engine expects freeform text.
type Question struct {
	Key      string   `json:"key"`
	Question string   `json:"question"`
	Options  []Option `json:"options,omitempty"`
}

// OptionLabels returns the user-visible labels of the question's options.
func (q Question) OptionLabels() []string {
	if len(q.Options) == 0 {
		return nil
	}
	labels := make([]string, len(q.Options))
	for i, opt := range q.Options {
		labels[i] = opt.Label
	}
	return labels
}

// PromptFor returns the prompt fragment declared for the given answer label,
// or the answer itself when the question declares none.
func (q Question) PromptFor(answer string) string {
	for _, opt := range q.Options {
		if opt.Label == answer && opt.Prompt != "" {
			return opt.Prompt
		}
	}
	return answer
}

// FlowDefinition describes a quick action flow: its identity, display label,
// optional backing model, ordered questions, and generation routing tags.
// Definitions are immutable once created.
type FlowDefinition struct {
	Ref               FlowRef    `json:"ref"`
	Label             string     `json:"label"`
	Model             string     `json:"model,omitempty"`
	Questions         []Question `json:"questions"`
	IsImageGeneration bool       `json:"is_image_generation"`
	WorkType          WorkType   `json:"work_type,omitempty"`
}

// QuestionAt returns the question at the given zero-based step, or nil when
// the step is out of range.
func (d *FlowDefinition) QuestionAt(step int) *Question {
	if d == nil || step < 0 || step >= len(d.Questions) {
		return nil
	}
	return &d.Questions[step]
}

// CustomField is a persisted user-authored question with its options.
type CustomField struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// CustomAction is a persisted user-authored quick action. Fields keep their
// authored order; Key values are positional (field_0, field_1, ...).
type CustomAction struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	WorkType  WorkType      `json:"work_type"`
	Fields    []CustomField `json:"fields"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
