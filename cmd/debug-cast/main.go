package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/KirkDiggler/ability-engine/internal/clock"
	"github.com/KirkDiggler/ability-engine/internal/config"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/content"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
	"github.com/KirkDiggler/ability-engine/internal/services"
	castService "github.com/KirkDiggler/ability-engine/internal/services/cast"
	"github.com/KirkDiggler/ability-engine/internal/services/dispatcher"
)

func main() {
	var (
		actorID   = flag.String("actor", "debug-hero", "actor id")
		abilityID = flag.String("ability", "", "ability to cast")
		classID   = flag.String("class", "mage", "class of a new actor")
		level     = flag.Int("level", 5, "level of a new actor")
		location  = flag.String("location", locations.DemoTownSquare, "starting location of a new actor")
		items     = flag.String("items", "", "comma separated item ids of a new actor")
		features  = flag.String("features", "", "comma separated feature ids of a new actor")
		direction = flag.String("direction", "", "phase walk direction")
		distance  = flag.Int("distance", 0, "phase walk distance")
		dest      = flag.String("destination", "", "teleport destination location id")
		target    = flag.String("target", "", "target id")
		inCombat  = flag.Bool("combat", false, "cast while in combat")
		at        = flag.String("at", "", "RFC3339 instant to cast at instead of now")
		repeat    = flag.Int("repeat", 1, "number of times to cast")
		list      = flag.Bool("list", false, "list reachable abilities instead of casting")
	)
	flag.Parse()

	if *abilityID == "" && !*list {
		fmt.Println("Usage: debug-cast -ability <ability-id> [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var now clock.TimeProvider = clock.System{}
	if *at != "" {
		instant, parseErr := time.Parse(time.RFC3339, *at)
		if parseErr != nil {
			log.Fatalf("Invalid -at instant: %v", parseErr)
		}
		now = &clock.Fixed{At: instant.UTC()}
	}

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

	world, secrets := locations.NewDemoWorld()
	provider := services.NewProvider(&services.ProviderConfig{
		Content:            content.NewInMemoryRepository(catalog),
		ActorRepository:    storage.Actors,
		LedgerRepository:   storage.Ledgers,
		LocationRepository: world,
		Secrets:            secrets,
		Rules:              &cfg.Rules,
		Clock:              now,
	})

	// Reuse a stored actor so cooldowns and position carry across runs
	if _, getErr := storage.Actors.Get(ctx, *actorID); dnderr.IsNotFound(getErr) {
		a := &actor.Actor{
			ID:         *actorID,
			Name:       *actorID,
			Level:      *level,
			ClassID:    *classID,
			ItemIDs:    splitList(*items),
			FeatureIDs: splitList(*features),
		}
		a.MoveTo(*location)
		if saveErr := storage.Actors.Save(ctx, a); saveErr != nil {
			log.Printf("Failed to save actor: %v", saveErr)
			return
		}
	} else if getErr != nil {
		log.Printf("Failed to load actor: %v", getErr)
		return
	}

	if *list {
		statuses, listErr := provider.CastService.ListAbilities(ctx, &castService.ListAbilitiesInput{
			ActorID:  *actorID,
			InCombat: *inCombat,
		})
		if listErr != nil {
			log.Printf("Failed to list abilities: %v", listErr)
			return
		}
		printJSON(statuses)
		return
	}

	params := map[string]any{}
	if *direction != "" {
		params[dispatcher.ParamDirection] = *direction
	}
	if *distance > 0 {
		params[dispatcher.ParamDistance] = *distance
	}
	if *dest != "" {
		params[dispatcher.ParamLocationID] = *dest
	}
	if *target != "" {
		params[dispatcher.ParamTargetID] = *target
	}

	for i := 0; i < *repeat; i++ {
		outcome, castErr := provider.CastService.Cast(ctx, &castService.CastInput{
			ActorID:   *actorID,
			AbilityID: *abilityID,
			Params:    params,
			InCombat:  *inCombat,
		})
		if castErr != nil {
			log.Printf("Cast failed: %v", castErr)
			return
		}
		printJSON(outcome)
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Failed to encode output: %v", err)
		return
	}
	fmt.Println(string(out))
}
