// Package handlers exposes the dashboard HTTP API: the listing working
// set, market analytics, the config singleton, the catalog file and the
// import-cost calculator.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keymarket/pianoscout/internal/database"
	"github.com/keymarket/pianoscout/internal/store"
)

// Router wraps the mux router together with its collaborators.
type Router struct {
	*mux.Router
	db          *database.DB
	store       store.ListingStore
	catalogPath string
}

// NewRouter creates the HTTP router with all routes.
func NewRouter(db *database.DB, st store.ListingStore, catalogPath string) *Router {
	r := &Router{
		Router:      mux.NewRouter(),
		db:          db,
		store:       st,
		catalogPath: catalogPath,
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/listings", r.listListings).Methods("GET")
	api.HandleFunc("/listings/{id}/active", r.setListingActive).Methods("PATCH")
	api.HandleFunc("/listings/status-sync", r.syncStatuses).Methods("POST")

	api.HandleFunc("/market/stats", r.marketStats).Methods("GET")
	api.HandleFunc("/market/best", r.marketBest).Methods("GET")

	api.HandleFunc("/config", r.getConfig).Methods("GET")
	api.HandleFunc("/config", r.updateConfig).Methods("PUT")

	api.HandleFunc("/catalog", r.getCatalog).Methods("GET")
	api.HandleFunc("/catalog", r.updateCatalog).Methods("PUT")

	api.HandleFunc("/import-cost", r.importCost).Methods("POST")

	return r
}

// healthCheck returns the health status of the API.
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	count, err := r.store.Count()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database unreachable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"listings": count,
	})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
