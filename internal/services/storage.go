package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/ability-engine/internal/config"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/ledgers"
)

// PingTimeout bounds the Redis connectivity check at startup
const PingTimeout = 5 * time.Second

// Storage is the persistence chosen by LEDGER_BACKEND
type Storage struct {
	Ledgers ledgers.Repository
	Actors  actors.Repository

	redisClient *redis.Client
	sqlite      *ledgers.SQLiteStore
}

// OpenStorage connects the configured ledger backend. Actors share Redis when
// it is the backend and otherwise live in memory.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	switch cfg.Ledger.Backend {
	case config.BackendRedis:
		client, err := connectRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Println("Using Redis for ledger persistence")
		return &Storage{
			Ledgers:     ledgers.NewRedis(client),
			Actors:      actors.NewRedis(client),
			redisClient: client,
		}, nil

	case config.BackendSQLite:
		store, err := ledgers.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite ledger at %s: %w", cfg.SQLite.Path, err)
		}
		log.Printf("Using SQLite ledger at %s", cfg.SQLite.Path)
		return &Storage{
			Ledgers: store,
			Actors:  actors.NewInMemoryRepository(),
			sqlite:  store,
		}, nil

	default:
		log.Println("Using in-memory repositories")
		return &Storage{
			Ledgers: ledgers.NewInMemoryRepository(),
			Actors:  actors.NewInMemoryRepository(),
		}, nil
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsed
	}

	log.Printf("Connecting to Redis at: %s", opts.Addr)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Printf("Error closing Redis connection: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Successfully connected to Redis")
	return client, nil
}

// Close releases whatever connections OpenStorage made
func (s *Storage) Close() error {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			return fmt.Errorf("error closing Redis connection: %w", err)
		}
		log.Println("Closed Redis connection")
	}
	if s.sqlite != nil {
		if err := s.sqlite.Close(); err != nil {
			return fmt.Errorf("error closing sqlite ledger: %w", err)
		}
	}
	return nil
}
