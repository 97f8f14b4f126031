// Package scout drives the continuous monitoring loop: walk the catalog in
// random order, query each source when its cooldown allows, and hand every
// raw listing to the ingestion pipeline. All search-timer state lives in
// the Scout instance, never in package globals.
package scout

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/keymarket/pianoscout/internal/catalog"
	"github.com/keymarket/pianoscout/internal/ingest"
	"github.com/keymarket/pianoscout/internal/scraper"
)

// Source names used by the cooldown tracker.
const (
	SourceMarketplace = "mercadolivre"
	SourceStores      = "official_stores"
)

// Config holds the loop timings.
type Config struct {
	CatalogPath         string
	MarketplaceCooldown time.Duration
	StoresCooldown      time.Duration
	ModelPause          time.Duration
}

// Scout owns one monitoring loop over one shared store.
type Scout struct {
	cfg         Config
	marketplace scraper.Searcher
	stores      scraper.Searcher
	pipeline    *ingest.Pipeline
	cooldowns   *CooldownTracker

	sleep func(time.Duration)
}

// New assembles a scout.
func New(cfg Config, marketplace, stores scraper.Searcher, pipeline *ingest.Pipeline) *Scout {
	return &Scout{
		cfg:         cfg,
		marketplace: marketplace,
		stores:      stores,
		pipeline:    pipeline,
		cooldowns: NewCooldownTracker(map[string]time.Duration{
			SourceMarketplace: cfg.MarketplaceCooldown,
			SourceStores:      cfg.StoresCooldown,
		}),
		sleep: time.Sleep,
	}
}

// Run loops until the context is cancelled: each cycle reloads the catalog
// (the discovery engine and the dashboard editor may have changed it),
// shuffles it and processes every model. A crash mid-cycle is safe; the
// permanent dedup check makes re-driving the batch idempotent.
func (s *Scout) Run(ctx context.Context) error {
	log.Println("🤖 Piano scout started")

	for {
		if err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("🛑 Piano scout stopped")
				return nil
			}
			return err
		}

		log.Println("💤 Catalog cycle complete, checking timers...")
		select {
		case <-ctx.Done():
			log.Println("🛑 Piano scout stopped")
			return nil
		case <-time.After(s.cfg.ModelPause):
		}
	}
}

// RunCycle processes the whole catalog once under a fresh run ID.
func (s *Scout) RunCycle(ctx context.Context) error {
	targetModels, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return err
	}
	if len(targetModels) == 0 {
		log.Println("⚠️ Catalog is empty; nothing to monitor")
		return nil
	}

	runID := uuid.NewString()
	log.Printf("🔄 Starting catalog cycle (%d models, run %s)", len(targetModels), runID[:8])

	rand.Shuffle(len(targetModels), func(i, j int) {
		targetModels[i], targetModels[j] = targetModels[j], targetModels[i]
	})

	for i, m := range targetModels {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.processModel(ctx, m, runID); err != nil {
			return err
		}

		if i < len(targetModels)-1 {
			s.sleep(s.cfg.ModelPause)
		}
	}
	return nil
}

// processModel queries each ready source for one catalog model. Scraper
// failures are logged and skipped; store failures abort the run so a retry
// sees an honest picture of what was committed.
func (s *Scout) processModel(ctx context.Context, m catalog.TargetModel, runID string) error {
	if s.cooldowns.Ready(SourceStores) {
		log.Printf("🏬 Checking official stores: %s", m.Model)
		results, err := s.stores.Search(ctx, m.Model, m.Model)
		if err != nil {
			log.Printf("⚠️ Official stores search failed: %v", err)
		} else {
			tally := newTally()
			for _, raw := range results {
				outcome, _, err := s.pipeline.IngestTrusted(ctx, raw, runID)
				if err != nil {
					return err
				}
				tally.add(outcome)
			}
			tally.report("official stores", m.Model)
		}
		s.cooldowns.MarkRun(SourceStores)
	} else {
		log.Printf("⏩ Skipping official stores for %s (cooldown)", m.Model)
	}

	if s.cooldowns.Ready(SourceMarketplace) {
		log.Printf("📦 Checking Mercado Livre: %s", m.Model)
		results, err := s.marketplace.Search(ctx, m.Model, m.Model)
		if err != nil {
			log.Printf("⚠️ Mercado Livre search failed: %v", err)
		} else {
			tally := newTally()
			for _, raw := range results {
				outcome, _, err := s.pipeline.Ingest(ctx, raw, runID)
				if err != nil {
					return err
				}
				tally.add(outcome)
			}
			tally.report("mercado livre", m.Model)
		}
		s.cooldowns.MarkRun(SourceMarketplace)
	} else {
		log.Printf("⏩ Skipping Mercado Livre for %s (cooldown)", m.Model)
	}

	return nil
}

// tally counts ingestion outcomes for one source sweep.
type tally struct {
	counts map[ingest.Outcome]int
}

func newTally() *tally {
	return &tally{counts: make(map[ingest.Outcome]int)}
}

func (t *tally) add(o ingest.Outcome) {
	t.counts[o]++
}

func (t *tally) report(source, model string) {
	log.Printf("   %s [%s]: %d stored, %d already monitored, %d filtered, %d rejected",
		source, model,
		t.counts[ingest.OutcomeStored],
		t.counts[ingest.OutcomeDuplicate],
		t.counts[ingest.OutcomeFiltered],
		t.counts[ingest.OutcomeRejected])
}
