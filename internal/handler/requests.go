package handler

import (
	"log"
	"net/http"
	"strconv"

	"netcommand/internal/domain"
	"netcommand/internal/repository"
	"netcommand/internal/service"
)

// RequestHandler serves the request history
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// ListRequests handles GET /api/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.RequestFilter{
		Command: q.Get("command"),
		Status:  domain.RequestStatus(q.Get("status")),
	}

	if status := filter.Status; status != "" {
		switch status {
		case domain.RequestStatusCreated, domain.RequestStatusInProgress,
			domain.RequestStatusSuccess, domain.RequestStatusError:
		default:
			writeError(w, r, "Invalid status", string(status), http.StatusBadRequest)
			return
		}
	}

	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeError(w, r, "Invalid limit", limit, http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}

	reqs, err := h.requests.ListRequests(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to list requests: %v", err)
		writeError(w, r, "Failed to list requests", err.Error(), http.StatusInternalServerError)
		return
	}
	writeData(w, r, reqs, http.StatusOK)
}

// GetRequest handles GET /api/requests/{id}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, err := h.requests.GetRequest(r.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			writeError(w, r, "Request not found", id, http.StatusNotFound)
			return
		}
		log.Printf("Failed to get request %s: %v", id, err)
		writeError(w, r, "Failed to get request", err.Error(), http.StatusInternalServerError)
		return
	}
	writeData(w, r, req, http.StatusOK)
}
