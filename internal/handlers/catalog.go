package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/keymarket/pianoscout/internal/catalog"
)

// getCatalog returns the curated target-model list.
func (r *Router) getCatalog(w http.ResponseWriter, req *http.Request) {
	targetModels, err := catalog.Load(r.catalogPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load catalog")
		return
	}
	respondJSON(w, http.StatusOK, targetModels)
}

// updateCatalog replaces the whole catalog file. The scout picks the new
// list up on its next cycle; no restart needed.
func (r *Router) updateCatalog(w http.ResponseWriter, req *http.Request) {
	var targetModels []catalog.TargetModel
	if err := json.NewDecoder(req.Body).Decode(&targetModels); err != nil {
		respondError(w, http.StatusBadRequest, "Payload must be a list of catalog models")
		return
	}
	if len(targetModels) == 0 {
		respondError(w, http.StatusBadRequest, "Refusing to write an empty catalog")
		return
	}
	for _, m := range targetModels {
		if m.Model == "" {
			respondError(w, http.StatusBadRequest, "Catalog model with empty name")
			return
		}
	}

	if err := catalog.Save(r.catalogPath, targetModels); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save catalog")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"models": len(targetModels)})
}
