package handler

import (
	"errors"
	"log"
	"net/http"

	"netcommand/internal/command"
	"netcommand/internal/domain"
	"netcommand/internal/service"
)

// CommandHandler serves the plugin description and runs commands
type CommandHandler struct {
	system   *service.SystemService
	requests *service.RequestService
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(system *service.SystemService, requests *service.RequestService) *CommandHandler {
	return &CommandHandler{
		system:   system,
		requests: requests,
	}
}

// GetSystem handles GET /api/system
func (h *CommandHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, h.system.Describe(), http.StatusOK)
}

// ListCommands handles GET /api/commands
func (h *CommandHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, h.system.Commands(), http.StatusOK)
}

// GetCommand handles GET /api/commands/{name}
func (h *CommandHandler) GetCommand(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	info, ok := h.system.Command(name)
	if !ok {
		writeError(w, r, "Command not found", name, http.StatusNotFound)
		return
	}
	writeData(w, r, info, http.StatusOK)
}

// ExecuteCommand handles POST /api/commands/{name}. The recorded request is
// returned for failed commands too, with a status code matching its error
// class.
func (h *CommandHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	params, err := decodeParams(w, r)
	if err != nil {
		switch {
		case errors.Is(err, errUnsupportedMediaType):
			writeError(w, r, "Unsupported content type", err.Error(), http.StatusUnsupportedMediaType)
			return
		case errors.Is(err, errBodyTooLarge):
			writeError(w, r, "Request body too large", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	req, err := h.requests.Execute(r.Context(), name, params)
	if err != nil {
		var unknown *command.UnknownCommandError
		if errors.As(err, &unknown) {
			writeError(w, r, "Command not found", name, http.StatusNotFound)
			return
		}
		log.Printf("Failed to execute %s: %v", name, err)
		writeError(w, r, "Failed to execute command", err.Error(), http.StatusInternalServerError)
		return
	}

	writeData(w, r, req, statusFor(req))
}

// statusFor maps a completed request onto an HTTP status code
func statusFor(req *domain.Request) int {
	if req.Status == domain.RequestStatusSuccess {
		return http.StatusOK
	}
	switch req.ErrorClass {
	case service.ErrorClassValidation:
		return http.StatusBadRequest
	case "StateError":
		return http.StatusConflict
	case "NotImplemented":
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}
