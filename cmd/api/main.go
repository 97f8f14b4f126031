package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keymarket/pianoscout/internal/config"
	"github.com/keymarket/pianoscout/internal/database"
	"github.com/keymarket/pianoscout/internal/handlers"
	"github.com/keymarket/pianoscout/internal/models"
	"github.com/keymarket/pianoscout/internal/store"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Auto-migrate schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Listing{},
		&models.DashboardConfig{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Seed the config singleton so the dashboard always has bounds
	seed := models.DefaultDashboardConfig()
	if err := db.Where("id = ?", seed.ID).FirstOrCreate(&seed).Error; err != nil {
		log.Printf("⚠️ Failed to seed dashboard config: %v", err)
	}

	// 5. Set up HTTP router
	router := handlers.NewRouter(db, store.NewGormStore(db), cfg.Scout.CatalogPath)

	srv := &http.Server{
		Addr:         ":" + cfg.API.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Dashboard API listening on :%s", cfg.API.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("⚠️ Database shutdown: %v", err)
	}
	log.Println("✅ Goodbye")
}
