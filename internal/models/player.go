package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength is the longest player name kept, in characters.
	MaxNameLength = 20
	// DefaultPlayerName replaces an empty name.
	DefaultPlayerName = "Adventurer"
	// DefaultInventoryCapacity is used when a non-positive capacity is given.
	DefaultInventoryCapacity = 10
)

// Player holds the coin balance, inventory and progress counters.
type Player struct {
	name     string
	coins    int
	capacity int
	items    []*Item

	totalDraws     int
	puzzlesSolved  int
	roomsCompleted int
}

// PlayerSnapshot is the plain-data form of a Player.
type PlayerSnapshot struct {
	Name           string         `yaml:"name"`
	Coins          int            `yaml:"coins"`
	Capacity       int            `yaml:"capacity"`
	Inventory      []ItemSnapshot `yaml:"inventory"`
	TotalDraws     int            `yaml:"total_draws"`
	PuzzlesSolved  int            `yaml:"puzzles_solved"`
	RoomsCompleted int            `yaml:"rooms_completed"`
}

// NewPlayer creates a player with a sanitized name.
func NewPlayer(name string, coins, capacity int) *Player {
	if capacity <= 0 {
		capacity = DefaultInventoryCapacity
	}
	return &Player{
		name:     SanitizeName(name),
		coins:    nonNegative(coins),
		capacity: capacity,
	}
}

// SanitizeName trims a name, truncates it to MaxNameLength characters and
// falls back to DefaultPlayerName when nothing is left.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	if name == "" {
		return DefaultPlayerName
	}
	return name
}

// RestorePlayer rebuilds a player and its inventory from a snapshot.
func RestorePlayer(s PlayerSnapshot) (*Player, error) {
	if s.Coins < 0 {
		return nil, fmt.Errorf("player %q: negative coins %d", s.Name, s.Coins)
	}
	if s.Capacity <= 0 {
		return nil, fmt.Errorf("player %q: invalid capacity %d", s.Name, s.Capacity)
	}
	if len(s.Inventory) > s.Capacity {
		return nil, fmt.Errorf("player %q: %d items exceed capacity %d", s.Name, len(s.Inventory), s.Capacity)
	}
	if s.TotalDraws < 0 || s.PuzzlesSolved < 0 || s.RoomsCompleted < 0 {
		return nil, fmt.Errorf("player %q: negative counter", s.Name)
	}
	p := &Player{
		name:           SanitizeName(s.Name),
		coins:          s.Coins,
		capacity:       s.Capacity,
		items:          make([]*Item, 0, len(s.Inventory)),
		totalDraws:     s.TotalDraws,
		puzzlesSolved:  s.PuzzlesSolved,
		roomsCompleted: s.RoomsCompleted,
	}
	seen := make(map[string]bool, len(s.Inventory))
	for i, is := range s.Inventory {
		it, err := RestoreItem(is)
		if err != nil {
			return nil, fmt.Errorf("inventory slot %d: %w", i, err)
		}
		if seen[it.ID()] {
			return nil, fmt.Errorf("inventory slot %d: duplicate item %s", i, it.ID())
		}
		seen[it.ID()] = true
		p.items = append(p.items, it)
	}
	return p, nil
}

// Snapshot returns the plain-data form of the player.
func (p *Player) Snapshot() PlayerSnapshot {
	inv := make([]ItemSnapshot, 0, len(p.items))
	for _, it := range p.items {
		inv = append(inv, it.Snapshot())
	}
	return PlayerSnapshot{
		Name:           p.name,
		Coins:          p.coins,
		Capacity:       p.capacity,
		Inventory:      inv,
		TotalDraws:     p.totalDraws,
		PuzzlesSolved:  p.puzzlesSolved,
		RoomsCompleted: p.roomsCompleted,
	}
}

func (p *Player) Name() string        { return p.name }
func (p *Player) Coins() int          { return p.coins }
func (p *Player) Capacity() int       { return p.capacity }
func (p *Player) TotalDraws() int     { return p.totalDraws }
func (p *Player) PuzzlesSolved() int  { return p.puzzlesSolved }
func (p *Player) RoomsCompleted() int { return p.roomsCompleted }

// Inventory returns the held items in order. The slice is a copy; the items
// are the live instances.
func (p *Player) Inventory() []*Item {
	out := make([]*Item, len(p.items))
	copy(out, p.items)
	return out
}

// InventoryFull reports whether no more items fit.
func (p *Player) InventoryFull() bool { return len(p.items) >= p.capacity }

// CanAfford reports whether the balance covers cost.
func (p *Player) CanAfford(cost int) bool { return cost >= 0 && p.coins >= cost }

// Earn adds coins. Negative amounts are ignored.
func (p *Player) Earn(amount int) {
	if amount > 0 {
		p.coins += amount
	}
}

// Spend removes coins, refusing to go below zero.
func (p *Player) Spend(amount int) bool {
	if amount < 0 || amount > p.coins {
		return false
	}
	p.coins -= amount
	return true
}

// AddItem appends an item unless the inventory is full or the item is
// already held.
func (p *Player) AddItem(it *Item) bool {
	if it == nil || p.InventoryFull() || p.HasItem(it) {
		return false
	}
	p.items = append(p.items, it)
	return true
}

// RemoveItem drops the given instance from the inventory.
func (p *Player) RemoveItem(it *Item) bool {
	for i, held := range p.items {
		if held == it {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// HasItem reports whether this exact instance is held.
func (p *Player) HasItem(it *Item) bool {
	for _, held := range p.items {
		if held == it {
			return true
		}
	}
	return false
}

// FindItem looks up a held item by id.
func (p *Player) FindItem(id string) (*Item, bool) {
	for _, held := range p.items {
		if held.ID() == id {
			return held, true
		}
	}
	return nil, false
}

func (p *Player) RecordDraw()          { p.totalDraws++ }
func (p *Player) RecordPuzzleSolved()  { p.puzzlesSolved++ }
func (p *Player) RecordRoomCompleted() { p.roomsCompleted++ }
