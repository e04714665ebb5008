package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tatianab/gacha-rooms/internal/app"
	"github.com/tatianab/gacha-rooms/internal/config"
	"github.com/tatianab/gacha-rooms/internal/tui"
)

func main() {
	if err := start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(context.Background(), cfg, log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(a.Engine, cfg.PlayerName)
}
