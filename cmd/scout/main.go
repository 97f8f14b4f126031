package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keymarket/pianoscout/internal/classifier"
	"github.com/keymarket/pianoscout/internal/config"
	"github.com/keymarket/pianoscout/internal/database"
	"github.com/keymarket/pianoscout/internal/discovery"
	"github.com/keymarket/pianoscout/internal/ingest"
	"github.com/keymarket/pianoscout/internal/models"
	"github.com/keymarket/pianoscout/internal/scout"
	"github.com/keymarket/pianoscout/internal/scraper"
	"github.com/keymarket/pianoscout/internal/store"
)

func main() {
	once := flag.Bool("once", false, "run a single catalog cycle and exit")
	dryRun := flag.Bool("dry-run", false, "keep results in memory, do not touch the database")
	discover := flag.Bool("discover", false, "run a discovery sweep for unknown models and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Shared headless browser for all scrapers.
	allocCtx, cancelBrowser := scraper.NewBrowserContext(ctx, cfg.Scout.ChromeProfileDir)
	defer cancelBrowser()

	marketplace := scraper.NewMercadoLivre(allocCtx)

	if *discover {
		runDiscovery(ctx, cfg, marketplace)
		return
	}

	var listings store.ListingStore
	if *dryRun {
		log.Println("🧪 Dry run: results stay in memory")
		listings = store.NewMemoryStore()
	} else {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.AutoMigrate(&models.Listing{}, &models.DashboardConfig{}); err != nil {
			log.Printf("⚠️ Migration warning: %v", err)
		}
		listings = store.NewGormStore(db)
	}

	gemini, err := classifier.NewGeminiClassifier(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create classifier: %v", err)
	}
	defer gemini.Close()

	pipeline := ingest.New(listings, classifier.NewThrottled(gemini, cfg.Gemini.MinInterval))

	s := scout.New(scout.Config{
		CatalogPath:         cfg.Scout.CatalogPath,
		MarketplaceCooldown: cfg.Scout.MarketplaceCooldown,
		StoresCooldown:      cfg.Scout.StoresCooldown,
		ModelPause:          cfg.Scout.ModelPause,
	}, marketplace, scraper.NewOfficialStores(allocCtx), pipeline)

	if *once {
		if err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Cycle failed: %v", err)
		}
		return
	}

	if err := s.Run(ctx); err != nil {
		log.Fatalf("Scout failed: %v", err)
	}
}

// runDiscovery performs one sweep for catalog candidates and exits.
func runDiscovery(ctx context.Context, cfg *config.Config, marketplace scraper.Searcher) {
	analyst, err := discovery.NewGeminiAnalyst(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create discovery analyst: %v", err)
	}
	defer analyst.Close()

	engine := discovery.New(cfg.Scout.CatalogPath, marketplace, analyst, nil)
	added, err := engine.Run(ctx)
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if len(added) == 0 {
		os.Exit(0)
	}
	for _, m := range added {
		log.Printf("   + %s (score %.0f)", m.Model, m.OverallScore)
	}
}
