package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/keymarket/pianoscout/internal/importcost"
)

// importCost itemizes the landed cost in BRL of an instrument bought
// abroad.
func (r *Router) importCost(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		PriceUSD   float64 `json:"price_usd"`
		FreightUSD float64 `json:"freight_usd"`
		Certified  bool    `json:"certified"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if payload.PriceUSD < 0 || payload.FreightUSD < 0 {
		respondError(w, http.StatusBadRequest, "Amounts must be non-negative")
		return
	}

	respondJSON(w, http.StatusOK, importcost.Calculate(payload.PriceUSD, payload.FreightUSD, payload.Certified))
}
