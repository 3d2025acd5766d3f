// Package api provides the guided flow session handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artefluxo/promptstudio/internal/models"
)

// flowStateView is the wire representation of the flow session returned by
// every flow endpoint.
type flowStateView struct {
	ActiveFlow        string            `json:"active_flow,omitempty"`
	Label             string            `json:"label,omitempty"`
	Responses         map[string]string `json:"responses"`
	CurrentStep       int               `json:"current_step"`
	CurrentQuestion   *models.Question  `json:"current_question,omitempty"`
	Options           []string          `json:"options,omitempty"`
	IsComplete        bool              `json:"is_complete"`
	IsGenerating      bool              `json:"is_generating"`
	GeneratedImageURL string            `json:"generated_image_url,omitempty"`
	Error             string            `json:"error,omitempty"`
}

func (s *Server) flowView() flowStateView {
	state := s.engine.Snapshot()
	view := flowStateView{
		Responses:         state.Responses,
		CurrentStep:       state.CurrentStep,
		IsGenerating:      state.IsGenerating,
		GeneratedImageURL: state.GeneratedImageURL,
		Error:             state.Error,
	}
	if state.ActiveFlow != nil {
		view.ActiveFlow = state.ActiveFlow.String()
	}
	if state.Definition != nil {
		view.Label = state.Definition.Label
		view.IsComplete = state.CurrentStep >= len(state.Definition.Questions)
	}
	if q := s.engine.CurrentQuestion(); q != nil {
		view.CurrentQuestion = q
		view.Options = q.OptionLabels()
	}
	return view
}

// recordQuestion appends the current question to the transcript as a system
// message carrying the selectable options and the step index.
func (s *Server) recordQuestion() {
	q := s.engine.CurrentQuestion()
	if q == nil {
		return
	}
	step := s.engine.Snapshot().CurrentStep
	s.history.AddSystem(q.Question, q.OptionLabels(), &step)
}

func (s *Server) flowStateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.flowView()))
}

func (s *Server) flowStartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.FlowStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.flowStartHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Type == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Tipo de ação é obrigatório"))
		return
	}

	ref := models.ParseFlowRef(req.Type)
	if _, err := s.engine.StartFlow(r.Context(), ref); err != nil {
		slog.Warn("Server.flowStartHandler: start failed", "type", req.Type, "error", err)
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}

	s.recordQuestion()
	slog.Info("Server.flowStartHandler: flow started", "type", req.Type)
	writeJSONResponse(w, http.StatusOK, models.Success(s.flowView()))
}

func (s *Server) flowRespondHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.FlowRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.flowRespondHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Value == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Resposta é obrigatória"))
		return
	}

	q := s.engine.CurrentQuestion()
	if q == nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrNoActiveFlow.Error()))
		return
	}

	s.history.AddUser(req.Value)
	if err := s.engine.AddResponse(q.Key, req.Value); err != nil {
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}
	if err := s.engine.NextStep(); err != nil {
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}
	s.recordQuestion()

	writeJSONResponse(w, http.StatusOK, models.Success(s.flowView()))
}

func (s *Server) flowGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.dispatcher.GenerateFromFlow(r.Context()); err != nil {
		slog.Error("Server.flowGenerateHandler: generation failed", "error", err)
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.flowView()))
}

func (s *Server) flowMessageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.FlowMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.flowMessageHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	if err := s.dispatcher.HandleMessage(r.Context(), req.Content); err != nil {
		slog.Error("Server.flowMessageHandler: message handling failed", "error", err)
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.flowView()))
}

func (s *Server) flowResetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.engine.Reset()
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Flow reset", s.flowView()))
}

func (s *Server) messagesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSONResponse(w, http.StatusOK, models.Success(s.history.All()))
	case http.MethodDelete:
		s.history.Clear()
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Messages cleared", nil))
	default:
		w.Header().Set("Allow", "GET, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
