// Package api provides the generation endpoint handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artefluxo/promptstudio/internal/models"
)

// chatHandler proxies a chat request to the text backend and streams the
// response as plain text, flushing each delta so clients see the text grow.
// Failures before the first byte return {"error": ...}; once streaming has
// begun the body simply ends where the upstream stopped.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeErrorBody(w, http.StatusBadRequest, "Formato JSON inválido")
		return
	}
	if req.Message == "" {
		writeErrorBody(w, http.StatusBadRequest, "Mensagem é obrigatória")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.Error("Server.chatHandler: response writer does not support flushing")
		writeErrorBody(w, http.StatusInternalServerError, "Streaming não suportado")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	started := false
	_, err := s.chat.Stream(r.Context(), req, func(delta string) {
		started = true
		if _, writeErr := w.Write([]byte(delta)); writeErr != nil {
			slog.Warn("Server.chatHandler: client write failed", "error", writeErr)
			return
		}
		flusher.Flush()
	})
	if err != nil {
		slog.Error("Server.chatHandler: streaming failed", "error", err, "started", started)
		if !started {
			writeErrorBody(w, http.StatusInternalServerError, "Erro ao enviar mensagem")
		}
		return
	}
}

// imageGenerateHandler runs one image generation. Success returns the
// generation result; failures return {"error": ...} in the same shape the
// upstream produces.
func (s *Server) imageGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.ImageGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.imageGenerateHandler: failed to decode JSON", "error", err)
		writeErrorBody(w, http.StatusBadRequest, "Formato JSON inválido")
		return
	}
	if req.Prompt == "" || req.ActionType == "" {
		writeErrorBody(w, http.StatusBadRequest, "Prompt e tipo de ação são obrigatórios")
		return
	}

	resp, err := s.images.Generate(r.Context(), req)
	if err != nil {
		slog.Error("Server.imageGenerateHandler: generation failed", "error", err, "action", req.ActionType)
		writeErrorBody(w, statusForError(err), err.Error())
		return
	}

	slog.Info("Server.imageGenerateHandler: image generated", "action", req.ActionType, "request_id", resp.RequestID)
	writeJSONResponse(w, http.StatusOK, resp)
}
