package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ClareAI/astra-sales-console/internal/domain"
	"github.com/ClareAI/astra-sales-console/internal/repository"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
)

// DiscoveryCallHandler handles HTTP requests for the discovery call log.
type DiscoveryCallHandler struct {
	repo repository.DiscoveryCallRepository
}

// NewDiscoveryCallHandler creates a new discovery call handler
func NewDiscoveryCallHandler(repo repository.DiscoveryCallRepository) *DiscoveryCallHandler {
	return &DiscoveryCallHandler{repo: repo}
}

type updateCallStatusRequest struct {
	Status string `json:"status"`
}

// ListCalls returns the organization's calls, newest scheduled first. Optional
// query filters: status, scheduled_from, scheduled_to (RFC 3339).
func (h *DiscoveryCallHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	organizationID := mux.Vars(r)["organization_id"]

	filter := &domain.ListDiscoveryCallsFilter{}
	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		if !domain.ValidDiscoveryCallStatus(status) {
			http.Error(w, "unknown status: "+status, http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	for param, dst := range map[string]**time.Time{
		"scheduled_from": &filter.ScheduledFrom,
		"scheduled_to":   &filter.ScheduledTo,
	} {
		if raw := q.Get(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				http.Error(w, param+" must be RFC 3339", http.StatusBadRequest)
				return
			}
			*dst = &t
		}
	}

	calls, err := h.repo.ListByOrganization(r.Context(), organizationID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(calls)
}

// CreateCall records a scheduled call.
func (h *DiscoveryCallHandler) CreateCall(w http.ResponseWriter, r *http.Request) {
	organizationID := mux.Vars(r)["organization_id"]

	var req domain.CreateDiscoveryCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ScheduledAt.IsZero() {
		http.Error(w, "scheduled_at is required", http.StatusBadRequest)
		return
	}

	call, err := h.repo.Create(r.Context(), organizationID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(call)
}

// GetCall returns a single call record.
func (h *DiscoveryCallHandler) GetCall(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	call, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Discovery call not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(call)
}

// UpdateCallStatus moves a call to a new status.
func (h *DiscoveryCallHandler) UpdateCallStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateCallStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !domain.ValidDiscoveryCallStatus(req.Status) {
		http.Error(w, "unknown status: "+req.Status, http.StatusBadRequest)
		return
	}

	call, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Discovery call not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(call)
}

// SetupDiscoveryCallRoutes sets up discovery call routes
func (h *DiscoveryCallHandler) SetupDiscoveryCallRoutes(router *mux.Router) {
	router.HandleFunc("/organizations/{organization_id}/discovery-calls", h.ListCalls).Methods("GET")
	router.HandleFunc("/organizations/{organization_id}/discovery-calls", h.CreateCall).Methods("POST")
	router.HandleFunc("/discovery-calls/{id}", h.GetCall).Methods("GET")
	router.HandleFunc("/discovery-calls/{id}/status", h.UpdateCallStatus).Methods("PATCH")

	logger.Base().Info("discovery call routes registered")
}
