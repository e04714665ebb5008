package models

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func testState(t *testing.T) *GameState {
	t.Helper()
	m, err := NewDrawMachine("room-1", 20, DefaultRarityTable)
	if err != nil {
		t.Fatalf("NewDrawMachine: %v", err)
	}
	m.AddToPool(NewKey("Red Key", "red", Common, "red", false))
	m.AddToPool(NewTool("Lens", "", Rare, "lens", 2))
	m.IncrementPity()
	m.IncrementPity()

	lock := NewLock("Padlock", 30, 1, "red")
	riddle := NewRiddle("Mirror", 25, 1, "echo", "no mouth")
	riddle.SubmitAnswer("echo")
	first := NewRoom(1, "Foyer", "dusty", []*Puzzle{lock, riddle}, m)
	first.Unlock()
	second := NewRoom(2, "Library", "dark", []*Puzzle{NewCode("Safe", 40, 2, "1847")}, nil)

	p := NewPlayer("Ada", 55, 3)
	p.AddItem(NewKey("Skeleton Key", "", Epic, "", true))
	p.AddItem(NewTool("Lockpick", "", Rare, "lockpick", 3))
	p.RecordDraw()
	p.RecordPuzzleSolved()

	return &GameState{Player: p, Rooms: []*Room{first, second}, CurrentRoom: 0}
}

func TestGameSnapshotYAML(t *testing.T) {
	state := testState(t)

	data, err := yaml.Marshal(state.Snapshot())
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}

	var snap GameSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	restored, err := RestoreGameState(snap)
	if err != nil {
		t.Fatalf("RestoreGameState: %v", err)
	}

	if restored.Player.Name() != "Ada" || restored.Player.Coins() != 55 {
		t.Errorf("player = %s/%d, want Ada/55", restored.Player.Name(), restored.Player.Coins())
	}
	if restored.Player.TotalDraws() != 1 || restored.Player.PuzzlesSolved() != 1 {
		t.Errorf("counters = %d/%d, want 1/1", restored.Player.TotalDraws(), restored.Player.PuzzlesSolved())
	}
	inv := restored.Player.Inventory()
	if len(inv) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(inv))
	}
	orig := state.Player.Inventory()
	for i := range inv {
		if inv[i].Snapshot() != orig[i].Snapshot() {
			t.Errorf("item %d = %+v, want %+v", i, inv[i].Snapshot(), orig[i].Snapshot())
		}
		if inv[i] == orig[i] {
			t.Errorf("item %d shares its instance with the original", i)
		}
	}
	if !inv[0].Master() || inv[1].UsesRemaining() != 3 {
		t.Errorf("variant fields lost: master=%v uses=%d", inv[0].Master(), inv[1].UsesRemaining())
	}

	if restored.Rooms[0].Locked() || !restored.Rooms[1].Locked() {
		t.Errorf("lock states not restored")
	}
	if restored.Rooms[0].Puzzles()[0].Solved() || !restored.Rooms[0].Puzzles()[1].Solved() {
		t.Errorf("solved flags not restored")
	}
	if restored.Rooms[0].Machine().Pity() != 2 {
		t.Errorf("pity = %d, want 2", restored.Rooms[0].Machine().Pity())
	}
	if restored.Rooms[0].Machine().PoolSize() != 2 {
		t.Errorf("pool size = %d, want 2", restored.Rooms[0].Machine().PoolSize())
	}
	if restored.Rooms[1].Machine() != nil {
		t.Errorf("room without machine gained one")
	}
}

func TestRestoreGameStateRejectsBrokenSnapshots(t *testing.T) {
	good := testState(t).Snapshot()

	tests := []struct {
		name   string
		mutate func(s *GameSnapshot)
	}{
		{"no player", func(s *GameSnapshot) { s.Player = nil }},
		{"no rooms", func(s *GameSnapshot) { s.Rooms = nil }},
		{"current out of range", func(s *GameSnapshot) { s.CurrentRoom = 5 }},
		{"negative coins", func(s *GameSnapshot) { s.Player.Coins = -1 }},
		{"missing puzzle list", func(s *GameSnapshot) { s.Rooms[1].Puzzles = nil }},
		{"pity out of range", func(s *GameSnapshot) { s.Rooms[0].Machine.Pity = PityThreshold }},
		{"unknown item kind", func(s *GameSnapshot) { s.Player.Inventory[0].Kind = "sword" }},
		{"over capacity", func(s *GameSnapshot) { s.Player.Capacity = 1 }},
		{"first room locked", func(s *GameSnapshot) { s.Rooms[0].Locked = true }},
		{"room open before previous complete", func(s *GameSnapshot) { s.Rooms[1].Locked = false }},
		{"current room locked", func(s *GameSnapshot) { s.CurrentRoom = 1 }},
		{"rooms out of order", func(s *GameSnapshot) { s.Rooms[1].Number = 3 }},
		{"every room open", func(s *GameSnapshot) {
			for i := range s.Rooms {
				s.Rooms[i].Locked = false
			}
			s.CurrentRoom = len(s.Rooms) - 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := yaml.Marshal(good)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var snap GameSnapshot
			if err := yaml.Unmarshal(data, &snap); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tt.mutate(&snap)
			if _, err := RestoreGameState(snap); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestRestoreGameStateAcceptsEarnedProgress(t *testing.T) {
	snap := testState(t).Snapshot()
	snap.Rooms[0].Puzzles[0].Solved = true
	snap.Rooms[1].Locked = false
	snap.CurrentRoom = 1

	restored, err := RestoreGameState(snap)
	if err != nil {
		t.Fatalf("RestoreGameState: %v", err)
	}
	if restored.Current().Name != "Library" || restored.Current().Locked() {
		t.Fatalf("current room = %s locked=%v, want open Library", restored.Current().Name, restored.Current().Locked())
	}

	// A complete room does not open the next one by itself.
	snap.Rooms[1].Locked = true
	snap.CurrentRoom = 0
	if _, err := RestoreGameState(snap); err != nil {
		t.Fatalf("complete room with the next still locked rejected: %v", err)
	}
}

func TestVariantFieldsAreFixedAtConstruction(t *testing.T) {
	key := NewKey("Red Key", "", Rare, " RED ", false)
	if key.Kind() != KindKey || key.Rarity() != Rare || key.Color() != "red" || key.Master() {
		t.Fatalf("key = %s/%s/%q/%v", key.Kind(), key.Rarity(), key.Color(), key.Master())
	}
	tool := NewTool("Lens", "", Common, "Lens", 2)
	if tool.Kind() != KindTool || tool.Color() != "" || tool.Master() {
		t.Fatalf("tool reports key fields: %s/%q/%v", tool.Kind(), tool.Color(), tool.Master())
	}

	lock := NewLock("Door", -5, 1, " Blue")
	if lock.Kind() != KindLock || lock.Color() != "blue" || lock.Reward() != 0 {
		t.Fatalf("lock = %s/%q/%d", lock.Kind(), lock.Color(), lock.Reward())
	}
	riddle := NewRiddle("Mirror", 25, 1, "echo", "")
	if riddle.Kind() != KindRiddle || riddle.Answer() != "echo" || riddle.Code() != "" {
		t.Fatalf("riddle = %s/%q/%q", riddle.Kind(), riddle.Answer(), riddle.Code())
	}
	code := NewCode("Safe", 40, 2, " 1847 ")
	if code.Kind() != KindCode || code.Code() != "1847" || code.RevealedDigits() != "" {
		t.Fatalf("code = %s/%q/%q", code.Kind(), code.Code(), code.RevealedDigits())
	}
}

func TestReplaceWithSwapsEveryField(t *testing.T) {
	live := testState(t)
	other := &GameState{
		ID:          "other",
		Player:      NewPlayer("Bob", 5, 2),
		Rooms:       []*Room{NewRoom(1, "Only", "", []*Puzzle{}, nil)},
		CurrentRoom: 0,
	}
	live.CurrentRoom = 1
	live.ReplaceWith(other)

	if live.ID != "other" || live.Player != other.Player || live.CurrentRoom != 0 || len(live.Rooms) != 1 || live.Rooms[0] != other.Rooms[0] {
		t.Fatalf("ReplaceWith left stale fields: %+v", live)
	}
}

func TestLockPuzzle(t *testing.T) {
	t.Run("wrong color", func(t *testing.T) {
		lock := NewLock("Blue door", 30, 1, "blue")
		red := NewKey("Red Key", "", Common, "red", false)
		if got := red.Use(lock); got != ResultWrongItem {
			t.Fatalf("Use = %s, want wrong item", got)
		}
		if lock.Solved() {
			t.Fatalf("lock solved by the wrong key")
		}
	})
	t.Run("matching color ignores case", func(t *testing.T) {
		lock := NewLock("Blue door", 30, 1, "Blue")
		if got := NewKey("Blue Key", "", Common, "BLUE", false).Use(lock); got != ResultSolved {
			t.Fatalf("Use = %s, want solved", got)
		}
	})
	t.Run("master key", func(t *testing.T) {
		lock := NewLock("Blue door", 30, 1, "blue")
		if got := NewKey("Skeleton", "", Epic, "", true).Use(lock); got != ResultSolved {
			t.Fatalf("Use = %s, want solved", got)
		}
	})
	t.Run("lockpick when allowed", func(t *testing.T) {
		lock := NewLock("Padlock", 30, 1, "red")
		lock.RequiredToolType = "lockpick"
		pick := NewTool("Pick", "", Rare, "lockpick", 1)
		if got := pick.Use(lock); got != ResultSolved {
			t.Fatalf("Use = %s, want solved", got)
		}
		if pick.UsesRemaining() != 0 {
			t.Fatalf("uses = %d, want 0", pick.UsesRemaining())
		}
	})
	t.Run("tool on plain lock", func(t *testing.T) {
		lock := NewLock("Padlock", 30, 1, "red")
		pick := NewTool("Pick", "", Rare, "lockpick", 1)
		if got := pick.Use(lock); got != ResultWrongItem {
			t.Fatalf("Use = %s, want wrong item", got)
		}
		if pick.UsesRemaining() != 1 {
			t.Fatalf("failed attempt spent a use")
		}
	})
}

func TestAttemptSolveOnSolvedPuzzleHasNoEffect(t *testing.T) {
	lock := NewLock("Door", 10, 1, "red")
	key := NewKey("Red", "", Common, "red", false)
	if got := lock.AttemptSolve(key); got != ResultSolved {
		t.Fatalf("first attempt = %s", got)
	}
	if got := lock.AttemptSolve(key); got != ResultNoEffect {
		t.Fatalf("second attempt = %s, want no effect", got)
	}
	if lock.SubmitAnswer("anything") {
		t.Fatalf("answer accepted on a solved lock")
	}
	if !lock.Solved() {
		t.Fatalf("solved flag reversed")
	}
}

func TestToolRevealsProgressWithoutSolving(t *testing.T) {
	code := NewCode("Safe", 40, 2, "1847")
	code.RequiredToolType = "lens"
	lens := NewTool("Lens", "", Rare, "lens", 5)

	for i, want := range []string{"1", "18", "184"} {
		if got := lens.Use(code); got != ResultProgress {
			t.Fatalf("reveal %d = %s, want progress", i, got)
		}
		if code.RevealedDigits() != want {
			t.Fatalf("revealed = %q, want %q", code.RevealedDigits(), want)
		}
	}
	if got := lens.Use(code); got != ResultNoEffect {
		t.Fatalf("reveal past last digit = %s, want no effect", got)
	}
	if lens.UsesRemaining() != 2 {
		t.Fatalf("uses = %d, want 2", lens.UsesRemaining())
	}
	if code.Solved() {
		t.Fatalf("tool solved a code puzzle")
	}

	pick := NewTool("Pick", "", Rare, "lockpick", 1)
	if got := pick.Use(code); got != ResultWrongItem {
		t.Fatalf("wrong tool = %s, want wrong item", got)
	}
	if got := NewKey("Key", "", Common, "red", false).Use(code); got != ResultWrongItem {
		t.Fatalf("key on code = %s, want wrong item", got)
	}
}

func TestEmptyToolHasNoEffect(t *testing.T) {
	riddle := NewRiddle("Mirror", 25, 1, "echo", "no mouth")
	tool := NewTool("Lens", "", Rare, "lens", 0)
	if got := tool.Use(riddle); got != ResultNoEffect {
		t.Fatalf("Use = %s, want no effect", got)
	}
	if riddle.HintRevealed() || tool.UsesRemaining() != 0 {
		t.Fatalf("empty tool changed state")
	}
}

func TestSubmitAnswer(t *testing.T) {
	tests := []struct {
		name   string
		puzzle *Puzzle
		answer string
		want   bool
	}{
		{"riddle exact", NewRiddle("r", 1, 1, "a map", ""), "a map", true},
		{"riddle case and spacing", NewRiddle("r", 1, 1, "a map", ""), "  A   Map ", true},
		{"riddle wrong", NewRiddle("r", 1, 1, "a map", ""), "atlas", false},
		{"code exact", NewCode("c", 1, 1, "1847"), " 1847 ", true},
		{"code wrong", NewCode("c", 1, 1, "1847"), "1848", false},
		{"lock never", NewLock("l", 1, 1, "red"), "red", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.puzzle.SubmitAnswer(tt.answer); got != tt.want {
				t.Fatalf("SubmitAnswer(%q) = %v, want %v", tt.answer, got, tt.want)
			}
			if tt.puzzle.Solved() != tt.want {
				t.Fatalf("Solved = %v, want %v", tt.puzzle.Solved(), tt.want)
			}
		})
	}
}

func TestPlayerInventoryCapacity(t *testing.T) {
	p := NewPlayer("Ada", 0, 2)
	a := NewKey("A", "", Common, "red", false)
	b := NewKey("B", "", Common, "blue", false)
	c := NewKey("C", "", Common, "green", false)

	if !p.AddItem(a) || !p.AddItem(b) {
		t.Fatalf("could not fill inventory")
	}
	if p.AddItem(a) {
		t.Fatalf("same instance added twice")
	}
	if p.AddItem(c) {
		t.Fatalf("added past capacity")
	}
	if len(p.Inventory()) != 2 || !p.InventoryFull() {
		t.Fatalf("inventory = %d items, want 2 and full", len(p.Inventory()))
	}
	if !p.RemoveItem(a) || p.HasItem(a) {
		t.Fatalf("RemoveItem failed")
	}
	if found, ok := p.FindItem(b.ID()); !ok || found != b {
		t.Fatalf("FindItem did not return the held instance")
	}
}

func TestPlayerCoins(t *testing.T) {
	p := NewPlayer("Ada", 15, 1)
	if p.Spend(20) {
		t.Fatalf("spent more than the balance")
	}
	if p.Coins() != 15 {
		t.Fatalf("coins = %d after failed spend", p.Coins())
	}
	p.Earn(-5)
	p.Earn(5)
	if !p.Spend(20) || p.Coins() != 0 {
		t.Fatalf("coins = %d, want 0", p.Coins())
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"":                              DefaultPlayerName,
		"   ":                           DefaultPlayerName,
		"  Ada ":                        "Ada",
		"abcdefghijklmnopqrstuvwxyz":    "abcdefghijklmnopqrst",
		strings.Repeat("é", 25):         strings.Repeat("é", 20),
		"twenty chars exactly":          "twenty chars exactly",
		"nineteen characters plus more": "nineteen characters",
	}
	for in, want := range tests {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRarityTable(t *testing.T) {
	if err := DefaultRarityTable.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	if err := (RarityTable{Common: 0.5, Rare: 0.3, Epic: 0.1}).Validate(); err == nil {
		t.Fatalf("table summing to 0.9 accepted")
	}
	if err := (RarityTable{Common: 1.2, Rare: -0.2}).Validate(); err == nil {
		t.Fatalf("negative probability accepted")
	}

	table := RarityTable{Common: 0.7, Rare: 0.25, Epic: 0.05}
	tests := []struct {
		roll float64
		want Rarity
	}{
		{0, Common},
		{0.6999, Common},
		{0.7, Rare},
		{0.9499, Rare},
		{0.95, Epic},
		{0.9999, Epic},
	}
	for _, tt := range tests {
		if got := table.Resolve(tt.roll); got != tt.want {
			t.Errorf("Resolve(%v) = %s, want %s", tt.roll, got, tt.want)
		}
	}

	noEpic := RarityTable{Common: 0.5, Rare: 0.5}
	if got := noEpic.Resolve(0.99999999999); got != Rare {
		t.Errorf("Resolve near 1 with no epic = %s, want rare", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tool := NewTool("Lens", "", Rare, "lens", 2)
	c := tool.Clone()
	if c.ID() != tool.ID() {
		t.Fatalf("clone changed identity")
	}
	c.Use(NewRiddle("r", 1, 1, "x", "hint"))
	if tool.UsesRemaining() != 2 || c.UsesRemaining() != 1 {
		t.Fatalf("clone shares state: original %d, clone %d", tool.UsesRemaining(), c.UsesRemaining())
	}
	if tool.Instance().ID() == tool.ID() {
		t.Fatalf("Instance kept the template identity")
	}

	code := NewCode("c", 1, 1, "12")
	cc := code.Clone()
	cc.SubmitAnswer("12")
	if code.Solved() {
		t.Fatalf("puzzle clone shares solved flag")
	}
}
