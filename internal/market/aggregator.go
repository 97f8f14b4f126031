// Package market reduces the active listing population to per-model summary
// statistics and selects the best offer per model. Everything here is
// recomputed from the live active set on each call; nothing is cached or
// persisted.
package market

import (
	"math"

	"github.com/keymarket/pianoscout/internal/models"
)

// Stats summarizes the total-cost distribution of one model's active listings.
type Stats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	GeoMean float64 `json:"geo_mean"`
	Count   int     `json:"count"`
}

// GeometricMean returns exp(mean(log(v))) over the strictly positive values
// of vs. Price distributions are right-skewed, so the geometric mean is the
// representative center. An input with no positive values yields 0.
func GeometricMean(vs []float64) float64 {
	var sum float64
	var n int
	for _, v := range vs {
		if v > 0 {
			sum += math.Log(v)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Exp(sum / float64(n))
}

// Aggregate groups the active listings by model key and computes count, min,
// max and geometric mean of total cost per group. Inactive listings are
// ignored regardless of what the caller passes in.
func Aggregate(listings []models.Listing) map[string]Stats {
	costs := make(map[string][]float64)
	for _, l := range listings {
		if !l.Active {
			continue
		}
		costs[l.ModelKey] = append(costs[l.ModelKey], l.TotalCost())
	}

	stats := make(map[string]Stats, len(costs))
	for key, vs := range costs {
		s := Stats{Min: vs[0], Max: vs[0], Count: len(vs)}
		for _, v := range vs[1:] {
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.GeoMean = GeometricMean(vs)
		stats[key] = s
	}
	return stats
}

// BestPerProduct selects, for each model key, the active listing with the
// lowest total cost. Ties are broken by the lowest listing ID so the
// selection stays deterministic across runs regardless of input order.
func BestPerProduct(listings []models.Listing) map[string]models.Listing {
	best := make(map[string]models.Listing)
	for _, l := range listings {
		if !l.Active {
			continue
		}
		cur, ok := best[l.ModelKey]
		if !ok {
			best[l.ModelKey] = l
			continue
		}
		if l.TotalCost() < cur.TotalCost() ||
			(l.TotalCost() == cur.TotalCost() && l.ID < cur.ID) {
			best[l.ModelKey] = l
		}
	}
	return best
}
