// Package dispatch routes completed flows to their generation backend and
// handles follow-up modification requests, keeping the transcript and flow
// state consistent across the generation lifecycle.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artefluxo/promptstudio/internal/catalog"
	"github.com/artefluxo/promptstudio/internal/flow"
	"github.com/artefluxo/promptstudio/internal/messages"
	"github.com/artefluxo/promptstudio/internal/models"
)

// Transcript texts. Placeholders are retracted by exact content match once
// the generation settles, so they must stay byte-identical everywhere.
const (
	ImagePlaceholder    = "Gerando sua imagem..."
	CopyPlaceholder     = "Gerando seu copy..."
	ImageGeneratedLabel = "Imagem gerada"
)

// maxModificationContext caps how many recent transcript messages ride
// along on a copy modification request.
const maxModificationContext = 4

// ImageGenerator produces an image for a generation request.
type ImageGenerator interface {
	Generate(ctx context.Context, req models.ImageGenerateRequest) (*models.ImageGenerateResponse, error)
}

// TextStreamer streams a text generation, reporting accumulated text while
// it runs and the final text once on success.
type TextStreamer interface {
	Send(ctx context.Context, req models.ChatRequest, onStream, onFinish func(text string)) error
}

// Dispatcher connects the flow engine, the transcript, and the generation
// backends.
type Dispatcher struct {
	engine  *flow.Engine
	history *messages.History
	images  ImageGenerator
	text    TextStreamer
}

// New creates a Dispatcher.
func New(engine *flow.Engine, history *messages.History, images ImageGenerator, text TextStreamer) *Dispatcher {
	return &Dispatcher{engine: engine, history: history, images: images, text: text}
}

// GenerateFromFlow runs the generation for the active flow's collected
// responses. Image flows call the image backend; copy-writing flows stream
// text. The transcript gets a placeholder while the generation is in
// flight, replaced by the outcome.
func (d *Dispatcher) GenerateFromFlow(ctx context.Context) error {
	state := d.engine.Snapshot()
	if state.ActiveFlow == nil {
		return models.ErrNoActiveFlow
	}
	if len(state.Responses) == 0 {
		return models.ErrNoResponses
	}

	switch {
	case state.Definition != nil && state.Definition.IsImageGeneration:
		return d.generateImage(ctx, state)
	case state.Definition != nil && state.Definition.WorkType == models.WorkTypeCopyWriting:
		return d.generateCopy(ctx, state)
	default:
		return fmt.Errorf("flow %q has no generation backend: %w", state.ActiveFlow.String(), models.ErrUnknownAction)
	}
}

// imageRequest assembles the generation request from flow state. Custom
// flows carry their configured model explicitly; built-in flows let the
// backend resolve it from the action type.
func imageRequest(state flow.State, prompt string) models.ImageGenerateRequest {
	req := models.ImageGenerateRequest{
		Prompt:         prompt,
		ActionType:     state.ActiveFlow.String(),
		TipoPublicacao: state.Responses["tipo_publicacao"],
	}
	if state.ActiveFlow.Kind == models.FlowKindCustom && state.Definition != nil {
		req.Model = state.Definition.Model
	}
	return req
}

func (d *Dispatcher) generateImage(ctx context.Context, state flow.State) error {
	prompt := d.engine.BuiltPrompt()
	if prompt == "" {
		return models.ErrNoResponses
	}

	token := d.engine.BeginGeneration()
	d.history.AddAssistant(ImagePlaceholder)
	slog.Info("Dispatcher.generateImage: generation started", "flow", state.ActiveFlow.String())

	resp, err := d.images.Generate(ctx, imageRequest(state, prompt))
	d.history.RemoveByContent(ImagePlaceholder)
	if err != nil {
		d.engine.FailGeneration(token, err.Error())
		d.history.AddAssistant("Erro ao gerar imagem: " + err.Error())
		slog.Error("Dispatcher.generateImage: generation failed", "flow", state.ActiveFlow.String(), "error", err)
		return fmt.Errorf("generate image: %w", err)
	}

	d.engine.FinishGeneration(token, resp.ImageURL)
	d.history.AddImage(ImageGeneratedLabel, resp.ImageURL)
	slog.Info("Dispatcher.generateImage: image generated", "flow", state.ActiveFlow.String(), "request_id", resp.RequestID)
	return nil
}

func (d *Dispatcher) generateCopy(ctx context.Context, state flow.State) error {
	prompt := d.engine.BuiltPrompt()
	if prompt == "" {
		return models.ErrNoResponses
	}

	token := d.engine.BeginGeneration()
	placeholder := d.history.AddAssistant(CopyPlaceholder)
	slog.Info("Dispatcher.generateCopy: generation started", "flow", state.ActiveFlow.String())

	req := models.ChatRequest{Message: catalog.WrapCopywritingPrompt(prompt)}
	err := d.text.Send(ctx, req,
		func(text string) { d.history.EditByID(placeholder.ID, text) },
		func(text string) { d.history.EditByID(placeholder.ID, text) },
	)
	if err != nil {
		d.engine.FailGeneration(token, err.Error())
		d.history.EditByID(placeholder.ID, "Erro ao gerar copy: "+err.Error())
		slog.Error("Dispatcher.generateCopy: generation failed", "flow", state.ActiveFlow.String(), "error", err)
		return fmt.Errorf("generate copy: %w", err)
	}

	d.engine.FinishGeneration(token, "")
	return nil
}

// HandleMessage processes a free chat message sent while a flow is active,
// after its first generation. It records the user message and routes it as
// a modification request against the flow's last output.
func (d *Dispatcher) HandleMessage(ctx context.Context, content string) error {
	if content == "" {
		return models.ErrEmptyMessage
	}
	state := d.engine.Snapshot()
	if state.ActiveFlow == nil {
		return models.ErrNoActiveFlow
	}

	// Export the context window before recording the request: the request
	// itself rides in the message field, never in the history.
	recent := d.history.Conversation(maxModificationContext, CopyPlaceholder, ImagePlaceholder)
	d.history.AddUser(content)

	switch {
	case state.Definition != nil && state.Definition.IsImageGeneration:
		return d.modifyImage(ctx, content)
	case state.Definition != nil && state.Definition.WorkType == models.WorkTypeCopyWriting:
		return d.modifyCopy(ctx, content, recent)
	default:
		return fmt.Errorf("flow %q has no generation backend: %w", state.ActiveFlow.String(), models.ErrUnknownAction)
	}
}

// modifyImage folds the modification request into the stored description
// and regenerates. The accumulated description keeps every prior request,
// so successive tweaks compose.
func (d *Dispatcher) modifyImage(ctx context.Context, request string) error {
	state := d.engine.Snapshot()
	description := state.Responses[catalog.DescriptionKey]
	if description != "" {
		description = description + ". " + request
	} else {
		description = request
	}
	if err := d.engine.AddResponse(catalog.DescriptionKey, description); err != nil {
		return err
	}
	return d.generateImage(ctx, d.engine.Snapshot())
}

// modifyCopy asks the text backend to adjust the previously generated copy.
// The original copy rides in a system instruction; recent holds the context
// window exported before the request was recorded, so the request appears
// only as the message.
func (d *Dispatcher) modifyCopy(ctx context.Context, request string, recent []models.ConversationMessage) error {
	original, ok := d.history.FirstAssistant(CopyPlaceholder, ImagePlaceholder)
	if !ok {
		return fmt.Errorf("modify copy: %w", models.ErrNoResponses)
	}

	conversation := []models.ConversationMessage{
		{Role: "system", Content: catalog.BuildCopyModificationInstruction(original.Content)},
	}
	conversation = append(conversation, recent...)

	token := d.engine.BeginGeneration()
	placeholder := d.history.AddAssistant(CopyPlaceholder)

	req := models.ChatRequest{Message: request, ConversationHistory: conversation}
	err := d.text.Send(ctx, req,
		func(text string) { d.history.EditByID(placeholder.ID, text) },
		func(text string) { d.history.EditByID(placeholder.ID, text) },
	)
	if err != nil {
		d.engine.FailGeneration(token, err.Error())
		d.history.EditByID(placeholder.ID, "Erro ao gerar copy: "+err.Error())
		return fmt.Errorf("modify copy: %w", err)
	}

	d.engine.FinishGeneration(token, "")
	return nil
}
