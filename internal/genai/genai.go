// Package genai wraps the OpenAI-compatible chat completion API used for
// text generation, exposing a streaming interface that reports deltas as
// they arrive.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/artefluxo/promptstudio/internal/models"
)

// DefaultModel is used when neither the request nor the client options name
// a model.
const DefaultModel = "gpt-4o-mini"

// Opts holds configuration for the client.
type Opts struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Option configures Opts.
type Option func(*Opts)

// WithAPIKey sets the API key explicitly instead of reading the
// OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL points the client at an alternative OpenAI-compatible
// endpoint.
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Opts) { o.Temperature = &t }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(o *Opts) { o.MaxTokens = n }
}

// Client generates text through the chat completion API.
type Client struct {
	api  openai.Client
	opts Opts
}

// NewClient builds a Client from options. The API key falls back to
// OPENAI_API_KEY; a missing key is an error since every call would fail.
func NewClient(opts ...Option) (*Client, error) {
	var o Opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.APIKey == "" {
		o.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if o.APIKey == "" {
		return nil, fmt.Errorf("genai.NewClient: no API key provided and OPENAI_API_KEY not set")
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(o.APIKey)}
	if o.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.BaseURL))
	}
	return &Client{api: openai.NewClient(reqOpts...), opts: o}, nil
}

// buildParams translates a chat request into completion params: prior
// history in order, then the new user message. Request fields override the
// client defaults.
func (c *Client) buildParams(req models.ChatRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.ConversationHistory)+1)
	for _, msg := range req.ConversationHistory {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Message))

	model := c.opts.Model
	if req.Model != "" {
		model = req.Model
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	} else if c.opts.Temperature != nil {
		params.Temperature = openai.Float(*c.opts.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	} else if c.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.opts.MaxTokens))
	}
	return params
}

// Stream runs a streaming chat completion, invoking onChunk with each
// non-empty content delta in order, and returns the full accumulated text.
// onChunk may be nil.
func (c *Client) Stream(ctx context.Context, req models.ChatRequest, onChunk func(delta string)) (string, error) {
	if req.Message == "" {
		return "", models.ErrEmptyMessage
	}

	stream := c.api.Chat.Completions.NewStreaming(ctx, c.buildParams(req))
	defer stream.Close()

	var full string
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full += delta
		if onChunk != nil {
			onChunk(delta)
		}
	}
	if err := stream.Err(); err != nil {
		slog.Error("Client.Stream: streaming completion failed", "error", err)
		return full, fmt.Errorf("streaming completion: %w", err)
	}
	slog.Debug("Client.Stream: completion finished", "chars", len(full))
	return full, nil
}
