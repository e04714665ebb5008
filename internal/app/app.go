// Package app wires configuration into a ready-to-play session.
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tatianab/gacha-rooms/internal/config"
	"github.com/tatianab/gacha-rooms/internal/engine"
	"github.com/tatianab/gacha-rooms/internal/gacha"
	"github.com/tatianab/gacha-rooms/internal/hint"
	"github.com/tatianab/gacha-rooms/internal/history"
	"github.com/tatianab/gacha-rooms/internal/persistence"
)

// App owns the session engine and the resources behind it.
type App struct {
	Config  *config.Config
	Engine  *engine.Engine
	Saves   *persistence.Manager
	History *history.Store

	closers []func()
}

// New builds the engine with its save slot, draw ledger and hint provider.
// A ledger or hint provider that cannot be set up is logged and skipped.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(cfg.SlotDir(), 0755); err != nil {
		return nil, fmt.Errorf("create save slot: %w", err)
	}

	a := &App{Config: cfg}
	a.Saves = persistence.NewManager(cfg.SlotDir(),
		persistence.WithBackupLimit(cfg.BackupLimit),
		persistence.WithLogger(logger),
	)

	opts := []engine.Option{
		engine.WithStore(a.Saves),
		engine.WithLogger(logger),
		engine.WithInventoryCapacity(cfg.InventoryCapacity),
		engine.WithStartingCoins(cfg.StartingCoins),
	}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithSource(gacha.NewSource(cfg.Seed)))
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Printf("draw history disabled: %v", err)
	} else {
		a.History = store
		a.closers = append(a.closers, func() { _ = store.Close() })
		opts = append(opts, engine.WithRecorder(store))
	}

	if cfg.GeminiAPIKey != "" {
		g, err := hint.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Printf("gemini hints disabled: %v", err)
		} else {
			a.closers = append(a.closers, g.Close)
			opts = append(opts, engine.WithHints(g))
		}
	}

	a.Engine = engine.NewEngine(opts...)
	return a, nil
}

// Close releases everything New opened.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
