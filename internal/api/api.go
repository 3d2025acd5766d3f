// Package api provides the HTTP surface of PromptStudio.
//
// It exposes the streaming chat proxy, the image generation endpoint, CRUD
// for custom quick actions, and the guided flow session endpoints. The
// generation endpoints keep their own wire contracts; everything else uses
// the shared JSON envelope.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/artefluxo/promptstudio/internal/builder"
	"github.com/artefluxo/promptstudio/internal/dispatch"
	"github.com/artefluxo/promptstudio/internal/flow"
	"github.com/artefluxo/promptstudio/internal/messages"
	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/artefluxo/promptstudio/internal/registry"
	"github.com/artefluxo/promptstudio/internal/store"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// ChatService streams text completions for the chat proxy endpoint.
type ChatService interface {
	Stream(ctx context.Context, req models.ChatRequest, onChunk func(delta string)) (string, error)
}

// Opts holds server configuration.
type Opts struct {
	Addr string
}

// Option configures Opts.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the HTTP handlers to the session state and the generation
// backends. One server carries one live flow session.
type Server struct {
	addr string
	mux  *http.ServeMux

	chat       ChatService
	images     dispatch.ImageGenerator
	st         store.Store
	registry   *registry.Registry
	engine     *flow.Engine
	history    *messages.History
	dispatcher *dispatch.Dispatcher
	builder    *builder.Builder
}

// NewServer builds a Server over the given backends. The text streamer used
// by the dispatcher rides on the same ChatService through a local adapter,
// so copy generation and the chat proxy share one upstream.
func NewServer(chat ChatService, images dispatch.ImageGenerator, st store.Store, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := registry.New(st)
	engine := flow.NewEngine(reg)
	history := messages.NewHistory()

	s := &Server{
		addr:       cfg.Addr,
		mux:        http.NewServeMux(),
		chat:       chat,
		images:     images,
		st:         st,
		registry:   reg,
		engine:     engine,
		history:    history,
		dispatcher: dispatch.New(engine, history, images, chatStreamerAdapter{chat}),
		builder:    builder.New(st),
	}
	s.routes()
	return s
}

// chatStreamerAdapter exposes a ChatService as the dispatcher's
// TextStreamer: accumulated text on every chunk, final text once.
type chatStreamerAdapter struct {
	chat ChatService
}

func (a chatStreamerAdapter) Send(ctx context.Context, req models.ChatRequest, onStream, onFinish func(text string)) error {
	var accumulated string
	full, err := a.chat.Stream(ctx, req, func(delta string) {
		accumulated += delta
		if onStream != nil {
			onStream(accumulated)
		}
	})
	if err != nil {
		return err
	}
	if onFinish != nil {
		onFinish(full)
	}
	return nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/chat", s.chatHandler)
	s.mux.HandleFunc("/api/fal/generate", s.imageGenerateHandler)
	s.mux.HandleFunc("/api/actions", s.actionsHandler)
	s.mux.HandleFunc("/api/actions/", s.actionByIDHandler)
	s.mux.HandleFunc("/api/flow", s.flowStateHandler)
	s.mux.HandleFunc("/api/flow/start", s.flowStartHandler)
	s.mux.HandleFunc("/api/flow/respond", s.flowRespondHandler)
	s.mux.HandleFunc("/api/flow/generate", s.flowGenerateHandler)
	s.mux.HandleFunc("/api/flow/message", s.flowMessageHandler)
	s.mux.HandleFunc("/api/flow/reset", s.flowResetHandler)
	s.mux.HandleFunc("/api/messages", s.messagesHandler)
	s.mux.HandleFunc("/health", s.healthHandler)
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server.Run: shutdown failed", "error", err)
			return err
		}
		slog.Info("Server.Run: shut down")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "healthy"}))
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrActionNotFound), errors.Is(err, models.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoActiveFlow),
		errors.Is(err, models.ErrNoResponses),
		errors.Is(err, models.ErrEmptyMessage),
		errors.Is(err, models.ErrEmptyPrompt),
		errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrTitleTooLong),
		errors.Is(err, models.ErrInvalidWorkType),
		errors.Is(err, models.ErrNoFields),
		errors.Is(err, models.ErrEmptyQuestion),
		errors.Is(err, models.ErrQuestionTooLong),
		errors.Is(err, models.ErrEmptyOptionLabel),
		errors.Is(err, models.ErrInsufficientOptions):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
