// Package imagegen talks to image generation backends. Provider calls a
// fal-compatible upstream directly; Client consumes the module's own
// generation endpoint contract, for deployments where the image API runs as
// a separate service.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/artefluxo/promptstudio/internal/catalog"
	"github.com/artefluxo/promptstudio/internal/models"
)

// DefaultBaseURL is the synchronous fal execution endpoint.
const DefaultBaseURL = "https://fal.run"

const defaultTimeout = 120 * time.Second

// Opts holds configuration shared by Provider and Client.
type Opts struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Option configures Opts.
type Option func(*Opts)

// WithAPIKey sets the upstream API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL overrides the endpoint base URL.
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = c }
}

func buildOpts(opts []Option) Opts {
	var o Opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return o
}

// falResult is the relevant subset of the fal image result payload.
type falResult struct {
	Images []struct {
		URL         string `json:"url"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ContentType string `json:"content_type"`
	} `json:"images"`
	Timings map[string]any `json:"timings"`
}

// Provider generates images against a fal-compatible upstream.
type Provider struct {
	opts Opts
}

// NewProvider builds a Provider. A missing API key is an error since the
// upstream rejects unauthenticated calls.
func NewProvider(opts ...Option) (*Provider, error) {
	o := buildOpts(opts)
	if o.APIKey == "" {
		return nil, fmt.Errorf("imagegen.NewProvider: no API key provided")
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	return &Provider{opts: o}, nil
}

// resolveModel picks the backing model for a request: an explicit model
// wins, otherwise the built-in action's configured model.
func resolveModel(req models.ImageGenerateRequest) (string, error) {
	if req.Model != "" {
		return req.Model, nil
	}
	model := catalog.LookupOr(catalog.ActionModels, req.ActionType, "")
	if model == "" {
		return "", fmt.Errorf("no model configured for action %q: %w", req.ActionType, models.ErrUnknownAction)
	}
	return model, nil
}

// buildInput shapes the upstream payload per model family: gpt-image models
// take a flat size string, everything else the structured image_size form.
func buildInput(model, prompt string, dims models.ImageDimensions) map[string]any {
	if strings.Contains(model, "gpt-image") {
		return map[string]any{
			"prompt": prompt,
			"size":   fmt.Sprintf("%dx%d", dims.Width, dims.Height),
		}
	}
	return map[string]any{
		"prompt": prompt,
		"image_size": map[string]int{
			"width":  dims.Width,
			"height": dims.Height,
		},
		"num_images":            1,
		"enable_safety_checker": true,
		"negative_prompt":       catalog.NegativePrompt,
	}
}

// Generate runs one synchronous image generation.
func (p *Provider) Generate(ctx context.Context, req models.ImageGenerateRequest) (*models.ImageGenerateResponse, error) {
	if req.Prompt == "" {
		return nil, models.ErrEmptyPrompt
	}
	if req.ActionType == "" {
		return nil, models.ErrUnknownAction
	}
	model, err := resolveModel(req)
	if err != nil {
		return nil, err
	}

	ref := models.ParseFlowRef(req.ActionType)
	dims := catalog.GetImageDimensions(ref.Type, req.TipoPublicacao)

	body, err := json.Marshal(buildInput(model, req.Prompt, dims))
	if err != nil {
		return nil, fmt.Errorf("marshal generation input: %w", err)
	}

	url := strings.TrimSuffix(p.opts.BaseURL, "/") + "/" + model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+p.opts.APIKey)

	slog.Debug("Provider.Generate: calling upstream", "model", model, "width", dims.Width, "height", dims.Height)
	resp, err := p.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readErrorMessage(resp.Body)
		slog.Error("Provider.Generate: upstream error", "status", resp.StatusCode, "error", msg)
		return nil, fmt.Errorf("image generation failed (status %d): %s", resp.StatusCode, msg)
	}

	var result falResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode generation result: %w", err)
	}
	if len(result.Images) == 0 {
		return nil, fmt.Errorf("no image was generated")
	}

	return &models.ImageGenerateResponse{
		ImageURL:   result.Images[0].URL,
		RequestID:  resp.Header.Get("X-Fal-Request-Id"),
		Timings:    result.Timings,
		Dimensions: &dims,
	}, nil
}

// Client consumes the module's own image generation endpoint contract.
type Client struct {
	opts Opts
}

// NewClient builds a Client against the given endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	o := buildOpts(opts)
	o.BaseURL = endpoint
	return &Client{opts: o}
}

// Generate posts a generation request to the endpoint and decodes the
// result. Non-2xx responses surface the endpoint's error message when one is
// present.
func (c *Client) Generate(ctx context.Context, req models.ImageGenerateRequest) (*models.ImageGenerateResponse, error) {
	if req.Prompt == "" {
		return nil, models.ErrEmptyPrompt
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image generation failed: %s", readErrorMessage(resp.Body))
	}

	var out models.ImageGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	return &out, nil
}

// readErrorMessage extracts the error field from a JSON error body, falling
// back to a generic message when the body is not in that shape.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 8192))
	if err != nil || len(data) == 0 {
		return "erro ao gerar imagem"
	}
	var eb models.ErrorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	return "erro ao gerar imagem"
}
