// Package flow implements the guided quick-action state machine: one
// active flow at a time, advancing through its questions, collecting
// responses, and tracking the generation lifecycle.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/artefluxo/promptstudio/internal/catalog"
	"github.com/artefluxo/promptstudio/internal/models"
)

// Resolver materializes flow definitions from flow refs.
type Resolver interface {
	Resolve(ctx context.Context, ref models.FlowRef) (*models.FlowDefinition, error)
}

// State is an immutable snapshot of the engine. Responses is a copy; callers
// may retain snapshots freely.
type State struct {
	ActiveFlow        *models.FlowRef        `json:"active_flow,omitempty"`
	Definition        *models.FlowDefinition `json:"definition,omitempty"`
	Responses         map[string]string      `json:"responses"`
	CurrentStep       int                    `json:"current_step"`
	IsGenerating      bool                   `json:"is_generating"`
	GeneratedImageURL string                 `json:"generated_image_url,omitempty"`
	Error             string                 `json:"error,omitempty"`
}

// Engine is the single-session flow state machine. All mutation goes through
// its methods; reads go through Snapshot. Generation outcomes carry a token
// so that a result from a superseded generation never lands on newer state.
type Engine struct {
	mu       sync.Mutex
	resolver Resolver

	activeFlow        *models.FlowRef
	definition        *models.FlowDefinition
	responses         map[string]string
	currentStep       int
	isGenerating      bool
	generatedImageURL string
	lastError         string
	genToken          uint64

	subs      map[uint64]func(State)
	nextSubID uint64
}

// NewEngine creates an Engine backed by the given resolver.
func NewEngine(resolver Resolver) *Engine {
	return &Engine{
		resolver:  resolver,
		responses: make(map[string]string),
		subs:      make(map[uint64]func(State)),
	}
}

// Subscribe registers a listener that receives a state snapshot after every
// mutation. The returned function unsubscribes. Listeners run outside the
// engine lock and may call back into the engine.
func (e *Engine) Subscribe(fn func(State)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSubID++
	id := e.nextSubID
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) notify() {
	st := e.Snapshot()
	e.mu.Lock()
	listeners := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}

// StartFlow resolves the ref and activates it, discarding any previous flow
// state. Definitions without questions cannot be started: those actions have
// no guided path.
func (e *Engine) StartFlow(ctx context.Context, ref models.FlowRef) (*models.FlowDefinition, error) {
	def, err := e.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("start flow: %w", err)
	}
	if len(def.Questions) == 0 {
		slog.Debug("Engine.StartFlow: action has no guided questions", "flow", ref.String())
		return nil, fmt.Errorf("start flow %q: %w", ref.String(), models.ErrUnknownAction)
	}

	e.mu.Lock()
	e.activeFlow = &def.Ref
	e.definition = def
	e.responses = make(map[string]string)
	e.currentStep = 0
	e.isGenerating = false
	e.generatedImageURL = ""
	e.lastError = ""
	e.mu.Unlock()
	e.notify()
	slog.Info("Engine.StartFlow: flow started", "flow", def.Ref.String(), "questions", len(def.Questions))
	return def, nil
}

// AddResponse records the answer for a question key, overwriting any earlier
// answer. Answers are stored as given; validation against the option list is
// deliberately absent so freeform input always works.
func (e *Engine) AddResponse(key, value string) error {
	e.mu.Lock()
	if e.activeFlow == nil {
		e.mu.Unlock()
		return models.ErrNoActiveFlow
	}
	e.responses[key] = value
	e.mu.Unlock()
	e.notify()
	return nil
}

// NextStep advances the flow by one question. It advances unconditionally;
// completion is a derived property, not a separate state.
func (e *Engine) NextStep() error {
	e.mu.Lock()
	if e.activeFlow == nil {
		e.mu.Unlock()
		return models.ErrNoActiveFlow
	}
	e.currentStep++
	e.mu.Unlock()
	e.notify()
	return nil
}

// CurrentQuestion returns the question at the current step, or nil once the
// flow is complete or when no flow is active.
func (e *Engine) CurrentQuestion() *models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.definition == nil {
		return nil
	}
	return e.definition.QuestionAt(e.currentStep)
}

// CurrentOptions returns the selectable labels for the current question, nil
// for freeform questions and completed flows.
func (e *Engine) CurrentOptions() []string {
	q := e.CurrentQuestion()
	if q == nil {
		return nil
	}
	return q.OptionLabels()
}

// IsComplete reports whether every question of the active flow has been
// stepped past.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.definition != nil && e.currentStep >= len(e.definition.Questions)
}

// BuiltPrompt composes the prompt from the collected responses. It is a pure
// read: calling it repeatedly yields the same string.
func (e *Engine) BuiltPrompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeFlow == nil {
		return ""
	}
	return catalog.BuildPrompt(*e.activeFlow, e.definition, e.responses)
}

// BeginGeneration marks the engine as generating and returns a token that
// must accompany the outcome. Starting a new generation invalidates tokens
// handed out earlier.
func (e *Engine) BeginGeneration() uint64 {
	e.mu.Lock()
	e.genToken++
	token := e.genToken
	e.isGenerating = true
	e.lastError = ""
	e.mu.Unlock()
	e.notify()
	return token
}

// FinishGeneration records a successful image outcome. Stale tokens are
// dropped silently: the flow they belonged to no longer exists.
func (e *Engine) FinishGeneration(token uint64, imageURL string) {
	e.mu.Lock()
	if token != e.genToken {
		slog.Debug("Engine.FinishGeneration: stale token ignored", "token", token, "current", e.genToken)
		e.mu.Unlock()
		return
	}
	e.isGenerating = false
	e.generatedImageURL = imageURL
	e.mu.Unlock()
	e.notify()
}

// FailGeneration records a failed outcome under the same staleness rule.
func (e *Engine) FailGeneration(token uint64, message string) {
	e.mu.Lock()
	if token != e.genToken {
		slog.Debug("Engine.FailGeneration: stale token ignored", "token", token, "current", e.genToken)
		e.mu.Unlock()
		return
	}
	e.isGenerating = false
	e.lastError = message
	e.mu.Unlock()
	e.notify()
}

// SetGeneratedImage overwrites the generated image URL outside the token
// protocol. Used by modification passes that regenerate in place.
func (e *Engine) SetGeneratedImage(imageURL string) {
	e.mu.Lock()
	e.isGenerating = false
	e.generatedImageURL = imageURL
	e.mu.Unlock()
	e.notify()
}

// Reset clears all flow state. Any in-flight generation becomes stale.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.activeFlow = nil
	e.definition = nil
	e.responses = make(map[string]string)
	e.currentStep = 0
	e.isGenerating = false
	e.generatedImageURL = ""
	e.lastError = ""
	e.genToken++
	e.mu.Unlock()
	e.notify()
	slog.Info("Engine.Reset: flow state cleared")
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	responses := make(map[string]string, len(e.responses))
	for k, v := range e.responses {
		responses[k] = v
	}
	return State{
		ActiveFlow:        e.activeFlow,
		Definition:        e.definition,
		Responses:         responses,
		CurrentStep:       e.currentStep,
		IsGenerating:      e.isGenerating,
		GeneratedImageURL: e.generatedImageURL,
		Error:             e.lastError,
	}
}
