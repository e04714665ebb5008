package app

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/tatianab/gacha-rooms/internal/config"
)

func TestNewWiresSaveSlotAndLedger(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		SaveDir:           t.TempDir(),
		Slot:              "test",
		BackupLimit:       2,
		InventoryCapacity: 4,
		StartingCoins:     60,
		Seed:              3,
	}
	a, err := New(ctx, cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.History == nil {
		t.Fatalf("draw ledger not opened")
	}
	if a.Saves.Dir() != filepath.Join(cfg.SaveDir, "test") {
		t.Fatalf("save dir = %s", a.Saves.Dir())
	}

	e := a.Engine
	if err := e.NewGame("Ada"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if e.Player().Coins() != 60 || e.Player().Capacity() != 4 {
		t.Fatalf("player = %d coins, capacity %d", e.Player().Coins(), e.Player().Capacity())
	}
	if _, err := e.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	recent, err := e.RecentDraws(ctx, 5)
	if err != nil || len(recent) != 1 {
		t.Fatalf("RecentDraws = %v, %v", recent, err)
	}

	if err := e.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !e.SaveExists() {
		t.Fatalf("save not written to the slot")
	}
}
