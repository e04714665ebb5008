package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tatianab/gacha-rooms/internal/engine"
	"github.com/tatianab/gacha-rooms/internal/gacha"
	"github.com/tatianab/gacha-rooms/internal/gameerr"
	"github.com/tatianab/gacha-rooms/internal/models"
	"github.com/tatianab/gacha-rooms/internal/persistence"
)

const maxTurns = 200

// A scripted player that reads puzzle solutions straight from the session
// graph, draws for keys it lacks and saves after every room.
func main() {
	seed := flag.Int64("seed", 1, "random seed for the draw machines")
	coins := flag.Int("coins", 400, "starting coins")
	flag.Parse()

	dir, err := os.MkdirTemp("", "gacha-sim-*")
	if err != nil {
		log.Fatalf("Failed to create save dir: %v", err)
	}
	defer os.RemoveAll(dir)

	quiet := log.New(io.Discard, "", 0)
	saves := persistence.NewManager(dir, persistence.WithLogger(quiet))
	eng := engine.NewEngine(
		engine.WithStore(saves),
		engine.WithSource(gacha.NewSource(*seed)),
		engine.WithStartingCoins(*coins),
		engine.WithLogger(quiet),
	)
	if err := eng.NewGame("Simulator"); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	for turn := 1; turn <= maxTurns; turn++ {
		if eng.WinCondition() {
			break
		}
		room := eng.CurrentRoom()
		if room.Complete() {
			if err := eng.Save(); err != nil {
				log.Fatalf("Failed to save: %v", err)
			}
			fmt.Printf("--- Room %d (%s) complete, saved ---\n", room.Number, room.Name)
			if err := eng.MoveToNextRoom(); err != nil {
				log.Fatalf("Failed to advance: %v", err)
			}
			continue
		}
		if !step(eng) {
			fmt.Printf("Stuck in room %d with %d coins.\n", room.Number, eng.Player().Coins())
			break
		}
	}

	detail := eng.WinConditionDetail()
	fmt.Println(detail.Message)
	p := eng.Player()
	fmt.Printf("Coins=%d Draws=%d Solved=%d Rooms=%d\n", p.Coins(), p.TotalDraws(), p.PuzzlesSolved(), p.RoomsCompleted())

	if err := eng.Save(); err != nil {
		log.Fatalf("Failed final save: %v", err)
	}
	reloaded := engine.NewEngine(engine.WithStore(saves), engine.WithLogger(quiet))
	ok, err := reloaded.Load()
	if err != nil || !ok {
		log.Fatalf("Failed to reload: ok=%v err=%v", ok, err)
	}
	if reloaded.Player().Coins() != p.Coins() || reloaded.CurrentRoomIndex() != eng.CurrentRoomIndex() {
		log.Fatalf("Reloaded session differs from the saved one")
	}
	backups, _ := saves.Backups()
	fmt.Printf("Reload OK, %d backup(s) kept.\n", len(backups))
}

// step makes one move and reports whether anything happened.
func step(eng *engine.Engine) bool {
	for _, pz := range eng.AvailablePuzzles() {
		switch pz.Kind() {
		case models.KindRiddle:
			ok, _ := eng.AnswerPuzzle(pz, pz.Answer())
			fmt.Printf("Answered riddle %q: %v\n", pz.Description, ok)
			return true
		case models.KindCode:
			ok, _ := eng.AnswerPuzzle(pz, pz.Code())
			fmt.Printf("Entered code on %q: %v\n", pz.Description, ok)
			return true
		case models.KindLock:
			for _, it := range eng.Player().Inventory() {
				fits := it.Kind() == models.KindKey && (it.Master() || it.Color() == pz.Color())
				picks := it.Kind() == models.KindTool && pz.RequiredToolType != "" &&
					it.ToolType == pz.RequiredToolType && it.UsesRemaining() > 0
				if fits || picks {
					res, err := eng.ApplyItem(it, pz)
					fmt.Printf("Used %s on %q: %s %v\n", it.Name, pz.Description, res, errOrNil(err))
					return true
				}
			}
		}
	}

	if eng.Player().InventoryFull() {
		items := eng.Player().Inventory()
		_ = eng.DiscardItem(items[0])
		fmt.Printf("Discarded %s to make room\n", items[0].Name)
		return true
	}
	if !eng.CanAffordPull() {
		return false
	}
	d, err := eng.Draw()
	switch {
	case errors.Is(err, gameerr.ErrInventoryFull):
		fmt.Printf("Drew %s but the bag was full\n", d.Item.Name)
	case err != nil:
		fmt.Printf("Draw failed: %v\n", err)
		return false
	case d.Item == nil:
		return false
	default:
		forced := ""
		if d.Forced {
			forced = " (pity)"
		}
		fmt.Printf("Drew %s%s, pity now %d\n", d.Item, forced, d.PityAfter)
	}
	return true
}

func errOrNil(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
