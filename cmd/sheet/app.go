package main

import (
	"context"
	"log/slog"

	tkdice "github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/dice"
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/migrations"
	characterorch "github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character"
	diceorch "github.com/KirkDiggler/rpg-sheet/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	equipmentrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/equipment"
	pendingroll "github.com/KirkDiggler/rpg-sheet/internal/repositories/pending_roll"
	rollhistory "github.com/KirkDiggler/rpg-sheet/internal/repositories/roll_history"
	charactersvc "github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

// app holds the wired services for one command invocation
type app struct {
	client     redisclient.Client
	migration  *migrations.RunResult
	equipment  equipmentrepo.Repository
	characters charactersvc.Service
	dice       diceorch.Service
}

// deps lets tests swap the parts that touch the outside world
type deps struct {
	roller tkdice.Roller
	idGen  idgen.Generator
	clock  clock.Clock
	open   func(ctx context.Context, cfg *Config, d *deps) (*app, error)
}

func defaultDeps() *deps {
	return &deps{
		roller: tkdice.DefaultRoller,
		idGen:  idgen.NewUUID("roll"),
		clock:  clock.New(),
		open:   openApp,
	}
}

// openApp connects to the store, brings it to the current schema version and
// wires every service. Migration always runs before any record is read.
func openApp(ctx context.Context, cfg *Config, d *deps) (*app, error) {
	client, err := redisclient.NewClientFromURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis url")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to connect to redis")
	}

	a, err := wire(ctx, client, cfg, d)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, client redisclient.Client, cfg *Config, d *deps) (*app, error) {
	charRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{
		Client: client,
		Clock:  d.clock,
	})
	if err != nil {
		return nil, err
	}

	runner, err := migrations.NewRunner(&migrations.RunnerConfig{Store: charRepo})
	if err != nil {
		return nil, err
	}
	migrated, err := runner.Run(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to migrate store")
	}

	equipRepo, err := equipmentrepo.NewRedis(&equipmentrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	imported, err := equipRepo.List(ctx, equipmentrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load imported equipment")
	}
	if len(imported.Entries) > 0 {
		cat = cat.WithEquipment(imported.Entries)
		slog.DebugContext(ctx, "Merged imported equipment", "count", len(imported.Entries))
	}

	rules, err := engine.New(&engine.Config{Catalog: cat})
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	for _, eventType := range rpgtoolkit.EventTypes {
		bus.SubscribeFunc(eventType, 0, logEvent)
	}

	characters, err := characterorch.New(&characterorch.Config{
		CharacterRepo: charRepo,
		Engine:        rules,
		EventBus:      bus,
	})
	if err != nil {
		return nil, err
	}

	rollEngine, err := dice.New(&dice.Config{
		Roller:      d.roller,
		IDGenerator: d.idGen,
		Clock:       d.clock,
		PendingTTL:  cfg.PendingTTL,
	})
	if err != nil {
		return nil, err
	}

	history, err := rollhistory.NewRedis(&rollhistory.RedisConfig{
		Client:   client,
		Capacity: cfg.HistorySize,
	})
	if err != nil {
		return nil, err
	}

	pending, err := pendingroll.NewRedisRepository(&pendingroll.Config{
		Client: client,
		Clock:  d.clock,
	})
	if err != nil {
		return nil, err
	}

	diceService, err := diceorch.NewOrchestrator(&diceorch.Config{
		Engine:      rollEngine,
		HistoryRepo: history,
		PendingRepo: pending,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		client:     client,
		migration:  migrated,
		equipment:  equipRepo,
		characters: characters,
		dice:       diceService,
	}, nil
}

func (a *app) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func logEvent(ctx context.Context, e events.Event) error {
	slog.InfoContext(ctx, "Character event",
		"event", e.Type(),
		"character_id", e.Source().GetID())
	return nil
}
