package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/keymarket/pianoscout/internal/classifier"
	"github.com/keymarket/pianoscout/internal/models"
	"github.com/keymarket/pianoscout/internal/scraper"
	"github.com/keymarket/pianoscout/internal/store"
)

// stubClassifier is a deterministic rule-based stand-in for the LLM so the
// suite never touches a live service. It counts calls to verify the dedup
// cost-control invariant.
type stubClassifier struct {
	calls    int
	verdicts map[string]classifier.Verdict
}

func (s *stubClassifier) Classify(ctx context.Context, req classifier.Request) (classifier.Verdict, error) {
	s.calls++
	if v, ok := s.verdicts[req.Title]; ok {
		return v, nil
	}
	return classifier.Verdict{Valid: true, Tier: classifier.TierFunctional, Rationale: "default stub"}, nil
}

// failingStore simulates an unreachable database.
type failingStore struct {
	store.ListingStore
}

func (f *failingStore) AlreadySeen(link string) (bool, error) {
	return false, errors.New("store unreachable")
}

func rawListing(title, link string, price float64) scraper.RawListing {
	return scraper.RawListing{
		Model:      "Roland FP-30X",
		SearchTerm: "FP-30X",
		Title:      title,
		Price:      price,
		Link:       link,
		Location:   "Brasília, DF",
		Store:      "Mercado Livre",
	}
}

func TestIngestStoresNewListing(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{}
	p := New(st, cl)

	raw := rawListing("Piano Digital Roland FP-30X Usado", "https://produto.mercadolivre.com.br/MLB-1", 3500)
	outcome, listing, err := p.Ingest(context.Background(), raw, "run-1")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if outcome != OutcomeStored {
		t.Fatalf("outcome = %v, want stored", outcome)
	}
	if listing.ModelKey != "ROLANDFP30X" {
		t.Errorf("model key = %q, want ROLANDFP30X", listing.ModelKey)
	}
	if listing.Condition != models.ConditionUsed {
		t.Errorf("condition = %q, want used", listing.Condition)
	}
	if !listing.Active {
		t.Error("functional listing should start active")
	}
	if listing.RunID != "run-1" {
		t.Errorf("run id = %q, want run-1", listing.RunID)
	}

	count, _ := st.Count()
	if count != 1 {
		t.Errorf("stored rows = %d, want 1", count)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{}
	p := New(st, cl)

	raw := rawListing("Piano Digital Roland FP-30X Usado", "https://produto.mercadolivre.com.br/MLB-1", 3500)

	if _, _, err := p.Ingest(context.Background(), raw, "run-1"); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	callsAfterFirst := cl.calls

	// Same listing on a later run, now with tracking params appended.
	raw.Link = "https://produto.mercadolivre.com.br/MLB-1?pdp_filters=abc&tracking=xyz"
	outcome, _, err := p.Ingest(context.Background(), raw, "run-2")
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Errorf("outcome = %v, want duplicate", outcome)
	}
	if cl.calls != callsAfterFirst {
		t.Errorf("duplicate triggered %d extra classifier calls, want 0", cl.calls-callsAfterFirst)
	}

	count, _ := st.Count()
	if count != 1 {
		t.Errorf("stored rows = %d, want exactly 1", count)
	}
}

func TestIngestNonFunctionalStartsInactive(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{verdicts: map[string]classifier.Verdict{
		"Roland FP-30X com defeito não liga": {
			Valid:      true,
			Tier:       classifier.TierNonFunctional,
			RepairCost: 900,
			Rationale:  "does not power on",
		},
	}}
	p := New(st, cl)

	raw := rawListing("Roland FP-30X com defeito não liga", "https://produto.mercadolivre.com.br/MLB-2", 1800)
	outcome, listing, err := p.Ingest(context.Background(), raw, "run-1")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if outcome != OutcomeStored {
		t.Fatalf("outcome = %v, want stored (history is kept)", outcome)
	}
	if listing.Active {
		t.Error("non-functional listing must start inactive")
	}
	if listing.RepairCost != 900 {
		t.Errorf("repair cost = %v, want 900", listing.RepairCost)
	}
	if listing.TotalCost() != 2700 {
		t.Errorf("total cost = %v, want 2700", listing.TotalCost())
	}
}

func TestIngestInvalidListingNotStored(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{verdicts: map[string]classifier.Verdict{
		"Aulas de piano Roland FP-30X online": classifier.Rejected("lessons, not an instrument"),
	}}
	p := New(st, cl)

	raw := rawListing("Aulas de piano Roland FP-30X online", "https://produto.mercadolivre.com.br/MLB-3", 2000)
	outcome, listing, err := p.Ingest(context.Background(), raw, "run-1")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if outcome != OutcomeRejected {
		t.Errorf("outcome = %v, want rejected", outcome)
	}
	if listing != nil {
		t.Error("rejected listing should produce no row")
	}

	count, _ := st.Count()
	if count != 0 {
		t.Errorf("stored rows = %d, want 0", count)
	}
}

func TestIngestPrefilterSkipsClassifier(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{}
	p := New(st, cl)

	tests := []struct {
		name string
		raw  scraper.RawListing
	}{
		{"accessory keyword", rawListing("Capa para Roland FP-30X", "https://x.mercadolivre.com.br/MLB-4", 2000)},
		{"implausible price", rawListing("Roland FP-30X", "https://x.mercadolivre.com.br/MLB-5", 300)},
		{"wrong model", rawListing("Piano Yamaha P-45 usado", "https://x.mercadolivre.com.br/MLB-6", 2500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, _, err := p.Ingest(context.Background(), tt.raw, "run-1")
			if err != nil {
				t.Fatalf("Ingest failed: %v", err)
			}
			if outcome != OutcomeFiltered {
				t.Errorf("outcome = %v, want filtered", outcome)
			}
		})
	}

	if cl.calls != 0 {
		t.Errorf("prefiltered listings made %d classifier calls, want 0", cl.calls)
	}
}

func TestIngestStoreFailurePropagates(t *testing.T) {
	p := New(&failingStore{}, &stubClassifier{})

	raw := rawListing("Piano Digital Roland FP-30X", "https://x.mercadolivre.com.br/MLB-7", 3500)
	if _, _, err := p.Ingest(context.Background(), raw, "run-1"); err == nil {
		t.Fatal("store failure must propagate, got nil error")
	}
}

func TestIngestTrusted(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{}
	p := New(st, cl)

	raw := scraper.RawListing{
		Model: "Roland FP-30X",
		Title: "Piano Digital Roland FP-30X Preto",
		Price: 4200,
		Link:  "https://www.teclacenter.com.br/piano-digital-roland-fp-30x",
		Store: "TeclaCenter",
	}

	outcome, listing, err := p.IngestTrusted(context.Background(), raw, "run-1")
	if err != nil {
		t.Fatalf("IngestTrusted failed: %v", err)
	}
	if outcome != OutcomeStored {
		t.Fatalf("outcome = %v, want stored", outcome)
	}
	if cl.calls != 0 {
		t.Errorf("trusted path made %d classifier calls, want 0", cl.calls)
	}
	if listing.Condition != models.ConditionNew || listing.ConditionTier != string(classifier.TierNew) {
		t.Errorf("trusted listing condition = %q/%q, want new/new", listing.Condition, listing.ConditionTier)
	}
	if !listing.Active {
		t.Error("trusted listing should be active")
	}

	// Dedup applies to the trusted path too.
	outcome, _, err = p.IngestTrusted(context.Background(), raw, "run-2")
	if err != nil {
		t.Fatalf("second IngestTrusted failed: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Errorf("outcome = %v, want duplicate", outcome)
	}
}

// End-to-end scenario: two observations of one link across runs store one
// row; a third, invalid listing stores nothing.
func TestIngestScenario(t *testing.T) {
	st := store.NewMemoryStore()
	cl := &stubClassifier{verdicts: map[string]classifier.Verdict{
		"Curso completo Roland FP-30X": classifier.Rejected("a course, not an instrument"),
	}}
	p := New(st, cl)
	ctx := context.Background()

	first := rawListing("Roland FP-30X seminovo", "https://produto.mercadolivre.com.br/MLB-100?src=home", 3400)
	second := rawListing("Roland FP-30X seminovo", "https://produto.mercadolivre.com.br/MLB-100?src=search", 3400)
	// Passes the cheap prefilter but the classifier sees through it.
	invalid := rawListing("Curso completo Roland FP-30X", "https://produto.mercadolivre.com.br/MLB-200", 2100)

	if outcome, _, _ := p.Ingest(ctx, first, "run-1"); outcome != OutcomeStored {
		t.Fatalf("first observation: outcome = %v, want stored", outcome)
	}
	if outcome, _, _ := p.Ingest(ctx, second, "run-2"); outcome != OutcomeDuplicate {
		t.Fatalf("second observation: outcome = %v, want duplicate", outcome)
	}
	if outcome, _, _ := p.Ingest(ctx, invalid, "run-2"); outcome == OutcomeStored {
		t.Fatal("invalid listing must not be stored")
	}

	count, _ := st.Count()
	if count != 1 {
		t.Errorf("stored rows = %d, want 1", count)
	}
}
