package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ClareAI/astra-sales-console/internal/domain"
	"github.com/ClareAI/astra-sales-console/internal/store"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
)

// ConfigHandler handles HTTP requests for sales agent configuration
type ConfigHandler struct {
	store *store.ConfigStore
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(configStore *store.ConfigStore) *ConfigHandler {
	return &ConfigHandler{store: configStore}
}

// GetConfig returns the materialized configuration for an organization. A
// first-time organization gets the default document, not a 404.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID := vars["organization_id"]

	doc, err := h.store.Fetch(r.Context(), organizationID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// SaveConfig replaces the whole configuration document for an organization.
func (h *ConfigHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID := vars["organization_id"]

	var req domain.SaveSalesConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Config == nil {
		http.Error(w, "config is required", http.StatusBadRequest)
		return
	}

	doc, err := h.store.Save(r.Context(), organizationID, req.Config)
	if err != nil {
		// Validation failures are the caller's to fix; everything else is on us.
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// SetupConfigRoutes sets up configuration routes
func (h *ConfigHandler) SetupConfigRoutes(router *mux.Router) {
	router.HandleFunc("/organizations/{organization_id}/sales-config", h.GetConfig).Methods("GET")
	router.HandleFunc("/organizations/{organization_id}/sales-config", h.SaveConfig).Methods("PUT")

	logger.Base().Info("sales config routes registered")
}
