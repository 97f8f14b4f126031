package handlers

import (
	"encoding/json"
	"net/http"
)

// getConfig returns the dashboard filter bounds, seeding the singleton
// with defaults on first call.
func (r *Router) getConfig(w http.ResponseWriter, req *http.Request) {
	cfg, err := r.loadConfig()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load config")
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// updateConfig replaces the filter bounds in place. The row keeps ID 1 no
// matter what the payload claims.
func (r *Router) updateConfig(w http.ResponseWriter, req *http.Request) {
	cfg, err := r.loadConfig()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load config")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	cfg.ID = 1

	if cfg.MinScore > cfg.MaxScore || cfg.MinPrice > cfg.MaxPrice {
		respondError(w, http.StatusBadRequest, "Filter bounds are inverted")
		return
	}

	if err := r.db.Save(&cfg).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save config")
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}
