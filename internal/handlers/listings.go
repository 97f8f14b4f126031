package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/keymarket/pianoscout/internal/store"
)

// listListings returns the monitored listings. ?active=true narrows the
// response to the working set; ?active=false to the retired rows.
func (r *Router) listListings(w http.ResponseWriter, req *http.Request) {
	var (
		listings interface{}
		err      error
	)

	switch req.URL.Query().Get("active") {
	case "":
		listings, err = r.store.All()
	case "true":
		listings, err = r.store.Active()
	case "false":
		all, e := r.store.All()
		if e != nil {
			err = e
			break
		}
		inactive := all[:0:0]
		for _, l := range all {
			if !l.Active {
				inactive = append(inactive, l)
			}
		}
		listings = inactive
	default:
		respondError(w, http.StatusBadRequest, "active must be true or false")
		return
	}

	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	respondJSON(w, http.StatusOK, listings)
}

// setListingActive flips the active flag of one listing. The payload must
// carry a real JSON boolean; "0", "sim" and friends are rejected by the
// decoder before they reach the database.
func (r *Router) setListingActive(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid listing id")
		return
	}

	var payload struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil || payload.Active == nil {
		respondError(w, http.StatusBadRequest, "Payload must be {\"active\": true|false}")
		return
	}

	if err := r.store.SetActive(uint(id), *payload.Active); err != nil {
		if store.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Listing not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"active": *payload.Active,
	})
}

// syncStatuses applies a batch of active-flag edits coming back from the
// dashboard grid. Updates are independent; the first failure stops the
// sweep and reports how far it got.
func (r *Router) syncStatuses(w http.ResponseWriter, req *http.Request) {
	var edits []store.StatusEdit
	if err := json.NewDecoder(req.Body).Decode(&edits); err != nil {
		respondError(w, http.StatusBadRequest, "Payload must be a list of {id, active}")
		return
	}
	if len(edits) == 0 {
		respondJSON(w, http.StatusOK, map[string]int{"updated": 0})
		return
	}

	if err := r.store.SyncActiveStatuses(edits); err != nil {
		respondError(w, http.StatusInternalServerError, "Status sync failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": len(edits)})
}
