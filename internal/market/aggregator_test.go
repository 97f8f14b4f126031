package market

import (
	"math"
	"testing"

	"github.com/keymarket/pianoscout/internal/models"
)

func listing(id uint, key string, price, repair float64, active bool) models.Listing {
	return models.Listing{
		ID:         id,
		Model:      key,
		ModelKey:   key,
		Price:      price,
		RepairCost: repair,
		Active:     active,
	}
}

func TestTotalCost(t *testing.T) {
	l := listing(1, "ROLANDFP30X", 3000, 450, true)
	if got := l.TotalCost(); got != 3450 {
		t.Errorf("TotalCost = %v, want 3450", got)
	}

	noRepair := listing(2, "ROLANDFP30X", 3000, 0, true)
	if got := noRepair.TotalCost(); got != 3000 {
		t.Errorf("TotalCost without repair = %v, want price 3000", got)
	}
}

func TestGeometricMean(t *testing.T) {
	got := GeometricMean([]float64{1000, 2000, 4000})
	if math.Abs(got-2000) > 0.001 {
		t.Errorf("GeometricMean([1000 2000 4000]) = %v, want 2000", got)
	}
}

func TestGeometricMeanSkipsNonPositive(t *testing.T) {
	// Zeros must be filtered out, not fed to log.
	got := GeometricMean([]float64{0, 1000, 0, 4000})
	if math.Abs(got-2000) > 0.001 {
		t.Errorf("GeometricMean with zeros = %v, want 2000", got)
	}
}

func TestGeometricMeanEmptyAndAllZero(t *testing.T) {
	if got := GeometricMean(nil); got != 0 {
		t.Errorf("GeometricMean(nil) = %v, want 0", got)
	}
	if got := GeometricMean([]float64{0, 0, 0}); got != 0 {
		t.Errorf("GeometricMean(all zero) = %v, want 0", got)
	}
}

func TestAggregate(t *testing.T) {
	listings := []models.Listing{
		listing(1, "ROLANDFP30X", 1000, 0, true),
		listing(2, "ROLANDFP30X", 1800, 200, true),
		listing(3, "ROLANDFP30X", 4000, 0, true),
		listing(4, "KAWAIES120", 3200, 0, true),
	}

	stats := Aggregate(listings)
	if len(stats) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(stats))
	}

	fp := stats["ROLANDFP30X"]
	if fp.Count != 3 {
		t.Errorf("count = %d, want 3", fp.Count)
	}
	if fp.Min != 1000 {
		t.Errorf("min = %v, want 1000", fp.Min)
	}
	if fp.Max != 4000 {
		t.Errorf("max = %v, want 4000", fp.Max)
	}
	if math.Abs(fp.GeoMean-2000) > 0.001 {
		t.Errorf("geo mean = %v, want 2000", fp.GeoMean)
	}

	kawai := stats["KAWAIES120"]
	if kawai.Count != 1 || kawai.Min != 3200 || kawai.Max != 3200 {
		t.Errorf("single-listing group stats wrong: %+v", kawai)
	}
}

func TestAggregateIgnoresInactive(t *testing.T) {
	listings := []models.Listing{
		listing(1, "ROLANDFP30X", 1000, 0, true),
		listing(2, "ROLANDFP30X", 500, 0, false),
		listing(3, "KAWAIES120", 3200, 0, true),
	}

	stats := Aggregate(listings)
	if stats["ROLANDFP30X"].Count != 1 {
		t.Errorf("inactive listing counted: %+v", stats["ROLANDFP30X"])
	}
	if stats["ROLANDFP30X"].Min != 1000 {
		t.Errorf("inactive listing affected min: %+v", stats["ROLANDFP30X"])
	}
	// Other model untouched.
	if stats["KAWAIES120"].Count != 1 {
		t.Errorf("unrelated group affected: %+v", stats["KAWAIES120"])
	}
}

func TestBestPerProduct(t *testing.T) {
	listings := []models.Listing{
		listing(1, "ROLANDFP30X", 3800, 0, true),
		listing(2, "ROLANDFP30X", 3000, 500, true), // total 3500, the best
		listing(3, "ROLANDFP30X", 4100, 0, true),
	}

	best := BestPerProduct(listings)
	got, ok := best["ROLANDFP30X"]
	if !ok {
		t.Fatal("no selection for ROLANDFP30X")
	}
	if got.ID != 2 {
		t.Errorf("best listing id = %d, want 2 (total cost 3500)", got.ID)
	}
}

func TestBestPerProductTieBreaksOnLowestID(t *testing.T) {
	listings := []models.Listing{
		listing(7, "ROLANDFP30X", 3500, 0, true),
		listing(3, "ROLANDFP30X", 3500, 0, true),
		listing(9, "ROLANDFP30X", 3500, 0, true),
	}

	best := BestPerProduct(listings)
	if best["ROLANDFP30X"].ID != 3 {
		t.Errorf("tie should pick lowest id, got %d", best["ROLANDFP30X"].ID)
	}

	// Order independence.
	reversed := []models.Listing{listings[2], listings[0], listings[1]}
	best = BestPerProduct(reversed)
	if best["ROLANDFP30X"].ID != 3 {
		t.Errorf("tie-break is order dependent, got %d", best["ROLANDFP30X"].ID)
	}
}

func TestBestPerProductSkipsInactive(t *testing.T) {
	listings := []models.Listing{
		listing(1, "ROLANDFP30X", 3500, 0, false),
		listing(2, "ROLANDFP30X", 3800, 0, true),
	}

	best := BestPerProduct(listings)
	if best["ROLANDFP30X"].ID != 2 {
		t.Errorf("inactive listing selected as best: %+v", best["ROLANDFP30X"])
	}
}
