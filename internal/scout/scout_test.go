package scout

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/keymarket/pianoscout/internal/catalog"
	"github.com/keymarket/pianoscout/internal/classifier"
	"github.com/keymarket/pianoscout/internal/ingest"
	"github.com/keymarket/pianoscout/internal/scraper"
	"github.com/keymarket/pianoscout/internal/store"
)

type countingSearcher struct {
	calls    int
	listings []scraper.RawListing
}

func (s *countingSearcher) Search(_ context.Context, model, _ string) ([]scraper.RawListing, error) {
	s.calls++
	out := make([]scraper.RawListing, len(s.listings))
	for i, l := range s.listings {
		l.Model = model
		out[i] = l
	}
	return out, nil
}

type acceptAll struct{ calls int }

func (c *acceptAll) Classify(_ context.Context, _ classifier.Request) (classifier.Verdict, error) {
	c.calls++
	return classifier.Verdict{Valid: true, Tier: classifier.TierFunctional}, nil
}

func newTestScout(t *testing.T) (*Scout, *store.MemoryStore, *countingSearcher, *countingSearcher, *acceptAll) {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "targets.csv")
	err := catalog.Save(catalogPath, []catalog.TargetModel{
		{Model: "Roland FP-30X", OverallScore: 82},
	})
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	marketplace := &countingSearcher{listings: []scraper.RawListing{
		{Title: "Piano Digital Roland FP-30X usado", Price: 3200,
			Link: "https://produto.mercadolivre.com.br/MLB-111?tracking_id=x"},
	}}
	stores := &countingSearcher{listings: []scraper.RawListing{
		{Title: "Roland FP-30X Preto", Price: 4100,
			Link: "https://www.teclacenter.com.br/roland-fp-30x", Store: "TeclaCenter"},
	}}

	st := store.NewMemoryStore()
	cl := &acceptAll{}
	s := New(Config{
		CatalogPath:         catalogPath,
		MarketplaceCooldown: time.Hour,
		StoresCooldown:      time.Hour,
	}, marketplace, stores, ingest.New(st, cl))
	s.sleep = func(time.Duration) {}

	return s, st, marketplace, stores, cl
}

func TestRunCycleIngestsBothSources(t *testing.T) {
	s, st, marketplace, stores, cl := newTestScout(t)

	if err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if marketplace.calls != 1 || stores.calls != 1 {
		t.Errorf("search calls = %d marketplace / %d stores, want 1 each",
			marketplace.calls, stores.calls)
	}
	// Only the marketplace listing pays for a classification.
	if cl.calls != 1 {
		t.Errorf("classifier called %d times, want 1", cl.calls)
	}

	all, err := st.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("stored %d listings, want 2", len(all))
	}
	for _, l := range all {
		if l.RunID == "" {
			t.Errorf("listing %d has no run ID", l.ID)
		}
		if l.ModelKey != "ROLANDFP30X" {
			t.Errorf("listing %d key = %q", l.ID, l.ModelKey)
		}
	}
}

func TestRunCycleHonorsCooldowns(t *testing.T) {
	s, _, marketplace, stores, _ := newTestScout(t)

	for i := 0; i < 3; i++ {
		if err := s.RunCycle(context.Background()); err != nil {
			t.Fatalf("RunCycle %d: %v", i, err)
		}
	}

	// The hour-long cooldowns admit only the first cycle's searches.
	if marketplace.calls != 1 || stores.calls != 1 {
		t.Errorf("search calls = %d marketplace / %d stores, want 1 each",
			marketplace.calls, stores.calls)
	}
}

func TestRunCycleStopsOnCancelledContext(t *testing.T) {
	s, _, marketplace, _, _ := newTestScout(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.RunCycle(ctx); err == nil {
		t.Fatal("RunCycle must report a cancelled context")
	}
	if marketplace.calls != 0 {
		t.Errorf("searched %d times under a cancelled context", marketplace.calls)
	}
}
