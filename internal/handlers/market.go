package handlers

import (
	"net/http"
	"sort"

	"github.com/keymarket/pianoscout/internal/catalog"
	"github.com/keymarket/pianoscout/internal/market"
	"github.com/keymarket/pianoscout/internal/models"
)

// marketStats returns per-model price statistics over the active set,
// recomputed on every call.
func (r *Router) marketStats(w http.ResponseWriter, req *http.Request) {
	active, err := r.store.Active()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}

	stats := market.Aggregate(active)
	if len(stats) == 0 {
		respondError(w, http.StatusNotFound, "No data yet. Run the scout first.")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// BestOffer is one row of the buying table: the cheapest active listing of
// a model, joined with the catalog's quality scores.
type BestOffer struct {
	Model          string  `json:"model"`
	OverallScore   float64 `json:"overall_score"`
	Mechanics      int     `json:"mechanics"`
	SoundPolyphony int     `json:"sound_polyphony"`
	Customization  int     `json:"customization"`
	Price          float64 `json:"price"`
	RepairCost     float64 `json:"repair_cost"`
	TotalCost      float64 `json:"total_cost"`
	Condition      string  `json:"condition"`
	Store          string  `json:"store"`
	Link           string  `json:"link"`
	ListingID      uint    `json:"listing_id"`
}

// marketBest returns the best active offer per catalog model, filtered by
// the dashboard config's score and price windows, best score first.
func (r *Router) marketBest(w http.ResponseWriter, req *http.Request) {
	active, err := r.store.Active()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}

	best := market.BestPerProduct(active)
	if len(best) == 0 {
		respondError(w, http.StatusNotFound, "No data yet. Run the scout first.")
		return
	}

	targetModels, err := catalog.Load(r.catalogPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load catalog")
		return
	}

	cfg, err := r.loadConfig()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load config")
		return
	}

	var offers []BestOffer
	for _, m := range targetModels {
		l, ok := best[m.Key()]
		if !ok {
			continue
		}
		if m.OverallScore < float64(cfg.MinScore) || m.OverallScore > float64(cfg.MaxScore) {
			continue
		}
		if l.TotalCost() < cfg.MinPrice || l.TotalCost() > cfg.MaxPrice {
			continue
		}
		offers = append(offers, BestOffer{
			Model:          m.Model,
			OverallScore:   m.OverallScore,
			Mechanics:      m.Mechanics,
			SoundPolyphony: m.SoundPolyphony,
			Customization:  m.Customization,
			Price:          l.Price,
			RepairCost:     l.RepairCost,
			TotalCost:      l.TotalCost(),
			Condition:      l.Condition,
			Store:          l.Store,
			Link:           l.Link,
			ListingID:      l.ID,
		})
	}

	if len(offers) == 0 {
		respondError(w, http.StatusNotFound, "No offers inside the configured filters")
		return
	}

	sort.Slice(offers, func(i, j int) bool {
		if offers[i].OverallScore != offers[j].OverallScore {
			return offers[i].OverallScore > offers[j].OverallScore
		}
		return offers[i].TotalCost < offers[j].TotalCost
	})
	respondJSON(w, http.StatusOK, offers)
}

// loadConfig fetches the config singleton, creating it with defaults on
// first use.
func (r *Router) loadConfig() (models.DashboardConfig, error) {
	cfg := models.DefaultDashboardConfig()
	err := r.db.Where("id = ?", cfg.ID).FirstOrCreate(&cfg).Error
	return cfg, err
}
