package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	SaveDir           string `env:"GAME_SAVE_DIR" envDefault:".saves"`
	Slot              string `env:"GAME_SLOT" envDefault:"current"`
	BackupLimit       int    `env:"GAME_BACKUP_LIMIT" envDefault:"5"`
	InventoryCapacity int    `env:"GAME_INVENTORY_CAPACITY" envDefault:"10"`
	StartingCoins     int    `env:"GAME_STARTING_COINS" envDefault:"100"`
	Seed              int64  `env:"GAME_SEED" envDefault:"0"`
	PlayerName        string `env:"GAME_PLAYER_NAME"`
	HistoryDB         string `env:"GAME_HISTORY_DB"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom is LoadConfig with an explicit .env path. A missing file
// is not an error.
func LoadConfigFrom(dotenv string) (*Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenv, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BackupLimit <= 0 {
		return nil, fmt.Errorf("GAME_BACKUP_LIMIT must be positive, got %d", cfg.BackupLimit)
	}
	if cfg.InventoryCapacity <= 0 {
		return nil, fmt.Errorf("GAME_INVENTORY_CAPACITY must be positive, got %d", cfg.InventoryCapacity)
	}
	if cfg.StartingCoins < 0 {
		return nil, fmt.Errorf("GAME_STARTING_COINS must not be negative, got %d", cfg.StartingCoins)
	}
	return &cfg, nil
}

// SlotDir is the directory of the configured save slot.
func (c *Config) SlotDir() string {
	return filepath.Join(c.SaveDir, c.Slot)
}

// HistoryPath is the draw ledger location for the configured slot.
func (c *Config) HistoryPath() string {
	if c.HistoryDB != "" {
		return c.HistoryDB
	}
	return filepath.Join(c.SlotDir(), "history.db")
}
