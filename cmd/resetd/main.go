package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/KirkDiggler/ability-engine/internal/config"
	"github.com/KirkDiggler/ability-engine/internal/repositories/content"
	"github.com/KirkDiggler/ability-engine/internal/services"
)

func main() {
	once := flag.Bool("once", false, "refill every charge pool now and exit")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	storage, err := services.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			log.Printf("%v", closeErr)
		}
	}()

	catalog, err := content.DefaultCatalog()
	if err != nil {
		log.Printf("Failed to load content catalog: %v", err)
		return
	}

	provider := services.NewProvider(&services.ProviderConfig{
		Content:          content.NewInMemoryRepository(catalog),
		ActorRepository:  storage.Actors,
		LedgerRepository: storage.Ledgers,
		Rules:            &cfg.Rules,
	})

	if *once {
		report, resetErr := provider.ResetScheduler.ResetAll(ctx)
		if resetErr != nil {
			log.Printf("Reset failed: %v", resetErr)
			return
		}
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
		return
	}

	next := provider.ResetScheduler.NextBoundary(time.Now())
	fmt.Printf("Reset scheduler running, next reset at %s. Press CTRL-C to exit.\n", next.Format("2006-01-02 15:04:05 MST"))

	if err := provider.ResetScheduler.Run(ctx); err != nil {
		log.Printf("Reset scheduler stopped: %v", err)
	}

	fmt.Println("Shutting down...")
}
