// Package api provides the quick action management handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/artefluxo/promptstudio/internal/models"
)

// actionListResult is the result shape of GET /api/actions: the static
// built-in actions plus the user-authored ones.
type actionListResult struct {
	Builtin []models.FlowDefinition `json:"builtin"`
	Custom  []models.CustomAction   `json:"custom"`
}

func (s *Server) actionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	switch r.Method {
	case http.MethodGet:
		s.listActionsHandler(w, r)
	case http.MethodPost:
		s.createActionHandler(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listActionsHandler(w http.ResponseWriter, r *http.Request) {
	custom, err := s.st.ListCustomActions(r.Context())
	if err != nil {
		slog.Error("Server.listActionsHandler: list failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list custom actions"))
		return
	}
	if custom == nil {
		custom = []models.CustomAction{}
	}
	writeJSONResponse(w, http.StatusOK, models.Success(actionListResult{
		Builtin: s.registry.Builtins(),
		Custom:  custom,
	}))
}

func (s *Server) createActionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CustomActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createActionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	action, err := s.builder.Create(r.Context(), req)
	if err != nil {
		slog.Warn("Server.createActionHandler: creation failed", "error", err)
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}

	slog.Info("Server.createActionHandler: custom action created", "id", action.ID, "title", action.Title)
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Custom action created", action))
}

func (s *Server) actionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/actions/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Custom action not found"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getActionHandler(w, r, id)
	case http.MethodPut:
		s.updateActionHandler(w, r, id)
	case http.MethodDelete:
		s.deleteActionHandler(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) getActionHandler(w http.ResponseWriter, r *http.Request, id string) {
	action, err := s.st.GetCustomAction(r.Context(), id)
	if err != nil {
		slog.Error("Server.getActionHandler: lookup failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load custom action"))
		return
	}
	if action == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Custom action not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(action))
}

func (s *Server) updateActionHandler(w http.ResponseWriter, r *http.Request, id string) {
	var req models.CustomActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.updateActionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	action, err := s.builder.Update(r.Context(), id, req)
	if err != nil {
		slog.Warn("Server.updateActionHandler: update failed", "error", err, "id", id)
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Custom action updated", action))
}

func (s *Server) deleteActionHandler(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.st.DeleteCustomAction(r.Context(), id); err != nil {
		slog.Warn("Server.deleteActionHandler: delete failed", "error", err, "id", id)
		writeJSONResponse(w, statusForError(err), models.Error(err.Error()))
		return
	}
	slog.Info("Server.deleteActionHandler: custom action deleted", "id", id)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Custom action deleted", nil))
}
