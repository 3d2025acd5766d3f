// Package chatapi is the client side of the plain-text streaming chat
// endpoint. The endpoint streams raw accumulated text, not SSE frames, so
// the client reads the body incrementally and reports the growing text as
// it arrives.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/artefluxo/promptstudio/internal/models"
)

// genericSendError is surfaced when an error response carries no usable
// message.
const genericSendError = "Erro ao enviar mensagem"

// Client posts chat requests and consumes the streamed response body.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Client for the given chat endpoint URL. A nil
// httpClient falls back to http.DefaultClient; streaming responses have no
// natural deadline, so cancellation rides on the request context.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Send posts the request and streams the response. onStream receives the
// accumulated text so far after every read, so each call sees a string that
// extends the previous one. onFinish receives the final text exactly once
// on success. Both callbacks may be nil.
func (c *Client) Send(ctx context.Context, req models.ChatRequest, onStream, onFinish func(text string)) error {
	if req.Message == "" {
		return models.ErrEmptyMessage
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readErrorMessage(resp.Body)
		slog.Error("Client.Send: chat endpoint error", "status", resp.StatusCode, "error", msg)
		return fmt.Errorf("chat request failed (status %d): %s", resp.StatusCode, msg)
	}

	var accumulated []byte
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			accumulated = append(accumulated, buf[:n]...)
			if onStream != nil {
				onStream(string(accumulated))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read chat stream: %w", readErr)
		}
	}

	if onFinish != nil {
		onFinish(string(accumulated))
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 8192))
	if err != nil || len(data) == 0 {
		return genericSendError
	}
	var eb models.ErrorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	return genericSendError
}
