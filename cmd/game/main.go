package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tatianab/gacha-rooms/internal/app"
	"github.com/tatianab/gacha-rooms/internal/config"
	"github.com/tatianab/gacha-rooms/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file in the save slot.
	logger := log.Default()
	if err := os.MkdirAll(cfg.SlotDir(), 0755); err == nil {
		if f, err := os.OpenFile(filepath.Join(cfg.SlotDir(), "game.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			defer f.Close()
			logger = log.New(f, "", log.LstdFlags)
		}
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("Error creating game: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := tui.Run(a.Engine, cfg.PlayerName); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
