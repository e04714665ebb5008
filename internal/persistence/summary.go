package persistence

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/tatianab/gacha-rooms/internal/engine"
	"github.com/tatianab/gacha-rooms/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Summary renders the human-readable sidecar written next to each save.
// It is derived from the session and never read back.
func Summary(state *models.GameState) string {
	var buf bytes.Buffer
	p := state.Player
	if p != nil {
		printer.Fprintf(&buf, "Player: %s\n", p.Name())
		printer.Fprintf(&buf, "Coins: %d\n", p.Coins())
		printer.Fprintf(&buf, "Draws: %d  Puzzles solved: %d  Rooms completed: %d\n",
			p.TotalDraws(), p.PuzzlesSolved(), p.RoomsCompleted())
	}
	if cur := state.Current(); cur != nil {
		fmt.Fprintf(&buf, "Current room: %d (%s)\n", cur.Number, cur.Name)
	}

	buf.WriteString("\nRooms\n")
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for i, r := range state.Rooms {
		if r == nil {
			continue
		}
		status := engine.Status(r, i == state.CurrentRoom)
		pity := 0
		if m := r.Machine(); m != nil {
			pity = m.Pity()
		}
		fmt.Fprintf(tw, "  %d.\t%s\t%s\t%d/%d solved\tpity %d\n",
			r.Number, r.Name, status, r.SolvedCount(), len(r.Puzzles()), pity)
	}
	tw.Flush()

	if p == nil {
		return buf.String()
	}
	items := p.Inventory()
	fmt.Fprintf(&buf, "\nInventory (%d/%d)\n", len(items), p.Capacity())
	byKind := map[models.ItemKind]int{}
	byRarity := map[models.Rarity]int{}
	for _, it := range items {
		byKind[it.Kind()]++
		byRarity[it.Rarity()]++
	}
	fmt.Fprintf(&buf, "  by kind:   key %d, tool %d\n", byKind[models.KindKey], byKind[models.KindTool])
	fmt.Fprintf(&buf, "  by rarity: common %d, rare %d, epic %d\n",
		byRarity[models.Common], byRarity[models.Rare], byRarity[models.Epic])
	for _, it := range items {
		fmt.Fprintf(&buf, "  - %s\n", it)
	}
	return buf.String()
}
