// Package ingest turns raw scraped listings into stored price observations.
// The pipeline order is the system's cost-control invariant: the dedup
// check always runs before the paid classification call, so each distinct
// listing is classified at most once, ever.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/keymarket/pianoscout/internal/classifier"
	"github.com/keymarket/pianoscout/internal/identity"
	"github.com/keymarket/pianoscout/internal/models"
	"github.com/keymarket/pianoscout/internal/scraper"
	"github.com/keymarket/pianoscout/internal/store"
)

// Outcome says what happened to one raw listing.
type Outcome int

const (
	// OutcomeStored: a new row was persisted.
	OutcomeStored Outcome = iota
	// OutcomeDuplicate: the canonical link is already monitored; dropped
	// before any classifier call.
	OutcomeDuplicate
	// OutcomeFiltered: the local prefilter rejected it; no classifier call.
	OutcomeFiltered
	// OutcomeRejected: the classifier judged it not the real instrument.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFiltered:
		return "filtered"
	case OutcomeRejected:
		return "rejected"
	}
	return "unknown"
}

// Pipeline wires the dedup store and the condition classifier together.
type Pipeline struct {
	store      store.ListingStore
	classifier classifier.Classifier

	// now is injectable so tests control the observation date.
	now func() time.Time
}

// New creates an ingestion pipeline. The classifier passed in should already
// be throttled; the pipeline calls it at most once per raw listing.
func New(st store.ListingStore, cl classifier.Classifier) *Pipeline {
	return &Pipeline{store: st, classifier: cl, now: time.Now}
}

// Ingest processes one second-hand marketplace listing: canonicalize the
// link, drop it if the link was ever seen, prefilter, classify, persist.
// A store failure is fatal and propagates; a classifier failure is a
// rejection and is not.
func (p *Pipeline) Ingest(ctx context.Context, raw scraper.RawListing, runID string) (Outcome, *models.Listing, error) {
	link := identity.CanonicalizeLink(raw.Link)

	seen, err := p.store.AlreadySeen(link)
	if err != nil {
		return 0, nil, fmt.Errorf("ingest %q: %w", link, err)
	}
	if seen {
		return OutcomeDuplicate, nil, nil
	}

	if reason, ok := prefilter(raw.Title, raw.Price, raw.Model); !ok {
		log.Printf("   ⏭️ Filtered (%s): %s", reason, truncateTitle(raw.Title))
		return OutcomeFiltered, nil, nil
	}

	verdict, err := p.classifier.Classify(ctx, classifier.Request{
		Title:       raw.Title,
		Price:       raw.Price,
		TargetModel: raw.Model,
	})
	if err != nil {
		// Only context cancellation reaches here; treat as rejection so
		// the batch can be re-driven safely.
		log.Printf("   ⚠️ Classification aborted: %v", err)
		return OutcomeRejected, nil, nil
	}
	if !verdict.Valid {
		log.Printf("   ❌ Rejected: %s", verdict.Rationale)
		return OutcomeRejected, nil, nil
	}

	listing := p.buildListing(raw, link, verdict, runID)
	listing.Condition = models.ConditionUsed

	if err := p.store.Insert(listing); err != nil {
		return 0, nil, fmt.Errorf("ingest %q: %w", link, err)
	}

	log.Printf("   ✅ %s: %s", verdict.Tier, truncateTitle(raw.Title))
	return OutcomeStored, listing, nil
}

// IngestTrusted processes an official-store listing. The retailer sells new
// stock, so the paid classifier is skipped; dedup still applies.
func (p *Pipeline) IngestTrusted(ctx context.Context, raw scraper.RawListing, runID string) (Outcome, *models.Listing, error) {
	link := identity.CanonicalizeLink(raw.Link)

	seen, err := p.store.AlreadySeen(link)
	if err != nil {
		return 0, nil, fmt.Errorf("ingest %q: %w", link, err)
	}
	if seen {
		return OutcomeDuplicate, nil, nil
	}

	verdict := classifier.Verdict{
		Valid:     true,
		Tier:      classifier.TierNew,
		Rationale: "trusted retailer",
	}

	listing := p.buildListing(raw, link, verdict, runID)
	listing.Condition = models.ConditionNew

	if err := p.store.Insert(listing); err != nil {
		return 0, nil, fmt.Errorf("ingest %q: %w", link, err)
	}

	return OutcomeStored, listing, nil
}

// buildListing assembles the row. Non-functional instruments are kept for
// the historical record but start inactive so they stay out of the default
// analytical view until explicitly reinstated.
func (p *Pipeline) buildListing(raw scraper.RawListing, link string, verdict classifier.Verdict, runID string) *models.Listing {
	rawVerdict, _ := json.Marshal(verdict)

	return &models.Listing{
		Date:          p.now(),
		Model:         raw.Model,
		ModelKey:      identity.NormalizeKey(raw.Model),
		Title:         raw.Title,
		Price:         raw.Price,
		RepairCost:    verdict.RepairCost,
		ConditionTier: string(verdict.Tier),
		Store:         raw.Store,
		Location:      raw.Location,
		Ships:         raw.FreeShipping,
		Link:          link,
		Analysis:      verdict.Rationale,
		Active:        verdict.Tier != classifier.TierNonFunctional,
		RawVerdict:    rawVerdict,
		RunID:         runID,
	}
}

func truncateTitle(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:40] + "..."
}
