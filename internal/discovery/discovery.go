// Package discovery finds digital-piano models that are listed on the
// marketplace but missing from the curated catalog. It sweeps generic
// search terms, asks the language model to pull model names out of the
// listing titles, scores the unknown ones and appends the good ones to
// the catalog file for the curator to review.
package discovery

import (
	"context"
	"fmt"
	"log"

	"github.com/keymarket/pianoscout/internal/catalog"
	"github.com/keymarket/pianoscout/internal/identity"
	"github.com/keymarket/pianoscout/internal/scraper"
)

// DefaultMinScore is the overall score an unknown model must reach before
// it is added to the catalog.
const DefaultMinScore = 70.0

// defaultSweepTerms are intentionally broad: the goal is to surface models
// the catalog does not know about yet.
var defaultSweepTerms = []string{
	"piano digital 88 teclas",
	"piano digital acao martelo",
	"teclado controlador 88 teclas peso",
}

// Analyst is the language-model side of discovery.
type Analyst interface {
	// ExtractModels returns the distinct instrument model names it can
	// identify in the given listing titles.
	ExtractModels(ctx context.Context, titles []string) ([]string, error)
	// ScoreModel rates one model on the catalog's sub-scores.
	ScoreModel(ctx context.Context, model string) (catalog.TargetModel, error)
}

// Engine runs one discovery sweep against one catalog file.
type Engine struct {
	catalogPath string
	searcher    scraper.Searcher
	analyst     Analyst
	sweepTerms  []string
	minScore    float64
}

// New builds a discovery engine. A nil or empty terms slice falls back to
// the default sweep set.
func New(catalogPath string, searcher scraper.Searcher, analyst Analyst, terms []string) *Engine {
	if len(terms) == 0 {
		terms = defaultSweepTerms
	}
	return &Engine{
		catalogPath: catalogPath,
		searcher:    searcher,
		analyst:     analyst,
		sweepTerms:  terms,
		minScore:    DefaultMinScore,
	}
}

// Run performs one full sweep and returns the models it appended to the
// catalog. The catalog write happens once, at the end, so a failed sweep
// never leaves a half-updated file.
func (e *Engine) Run(ctx context.Context) ([]catalog.TargetModel, error) {
	known, err := catalog.Load(e.catalogPath)
	if err != nil {
		return nil, err
	}

	knownKeys := make(map[string]bool, len(known))
	for _, m := range known {
		knownKeys[m.Key()] = true
	}

	titles, err := e.sweep(ctx)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		log.Println("⚠️ Discovery sweep found no listings")
		return nil, nil
	}

	names, err := e.analyst.ExtractModels(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("model extraction failed: %w", err)
	}

	var added []catalog.TargetModel
	seen := make(map[string]bool)
	for _, name := range names {
		key := identity.NormalizeKey(name)
		if key == "" || knownKeys[key] || seen[key] {
			continue
		}
		seen[key] = true

		scored, err := e.analyst.ScoreModel(ctx, name)
		if err != nil {
			log.Printf("⚠️ Discovery: scoring %q failed: %v", name, err)
			continue
		}
		if scored.OverallScore < e.minScore {
			log.Printf("📉 Discovery: %s scored %.0f, below threshold", name, scored.OverallScore)
			continue
		}

		log.Printf("✨ Discovery: new model %s (score %.0f)", scored.Model, scored.OverallScore)
		added = append(added, scored)
	}

	if len(added) == 0 {
		log.Println("🔍 Discovery sweep complete, nothing new")
		return nil, nil
	}

	if err := catalog.Save(e.catalogPath, append(known, added...)); err != nil {
		return nil, fmt.Errorf("failed to append discovered models: %w", err)
	}
	log.Printf("✅ Discovery added %d model(s) to the catalog", len(added))
	return added, nil
}

// sweep collects listing titles from every sweep term. A failed term is
// logged and skipped; discovery is opportunistic.
func (e *Engine) sweep(ctx context.Context) ([]string, error) {
	var titles []string
	for _, term := range e.sweepTerms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Printf("🔍 Discovery sweep: %q", term)
		results, err := e.searcher.Search(ctx, "", term)
		if err != nil {
			log.Printf("⚠️ Discovery sweep %q failed: %v", term, err)
			continue
		}
		for _, r := range results {
			titles = append(titles, r.Title)
		}
	}
	return titles, nil
}
