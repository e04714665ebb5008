package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ItemKind tags the closed set of item variants.
type ItemKind string

const (
	KindKey  ItemKind = "key"
	KindTool ItemKind = "tool"
)

// Item is a consumable drawn from a machine. Key fields are only meaningful
// for KindKey, tool fields for KindTool. The variant and rarity are fixed at
// construction.
type Item struct {
	id          string
	Name        string
	Description string
	rarity      Rarity
	kind        ItemKind

	// key
	color  string
	master bool

	// tool
	ToolType string
	uses     int
}

// ItemSnapshot is the plain-data form of an Item.
type ItemSnapshot struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Rarity      Rarity   `yaml:"rarity"`
	Kind        ItemKind `yaml:"kind"`
	Color       string   `yaml:"color,omitempty"`
	Master      bool     `yaml:"master,omitempty"`
	ToolType    string   `yaml:"tool_type,omitempty"`
	Uses        int      `yaml:"uses,omitempty"`
}

// NewKey creates a key item. A master key opens a lock of any color.
func NewKey(name, description string, rarity Rarity, color string, master bool) *Item {
	return &Item{
		id:          uuid.NewString(),
		Name:        name,
		Description: description,
		rarity:      rarity,
		kind:        KindKey,
		color:       strings.ToLower(strings.TrimSpace(color)),
		master:      master,
	}
}

// NewTool creates a tool item with the given number of uses.
func NewTool(name, description string, rarity Rarity, toolType string, uses int) *Item {
	if uses < 0 {
		uses = 0
	}
	return &Item{
		id:          uuid.NewString(),
		Name:        name,
		Description: description,
		rarity:      rarity,
		kind:        KindTool,
		ToolType:    strings.ToLower(strings.TrimSpace(toolType)),
		uses:        uses,
	}
}

// RestoreItem rebuilds an item from its snapshot, keeping its identity.
func RestoreItem(s ItemSnapshot) (*Item, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, fmt.Errorf("item has no name")
	}
	if s.Rarity < Common || s.Rarity > Epic {
		return nil, fmt.Errorf("item %q: invalid rarity %s", s.Name, s.Rarity)
	}
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	switch s.Kind {
	case KindKey:
		return &Item{
			id:          id,
			Name:        s.Name,
			Description: s.Description,
			rarity:      s.Rarity,
			kind:        KindKey,
			color:       s.Color,
			master:      s.Master,
		}, nil
	case KindTool:
		if s.Uses < 0 {
			return nil, fmt.Errorf("item %q: negative uses %d", s.Name, s.Uses)
		}
		return &Item{
			id:          id,
			Name:        s.Name,
			Description: s.Description,
			rarity:      s.Rarity,
			kind:        KindTool,
			ToolType:    s.ToolType,
			uses:        s.Uses,
		}, nil
	default:
		return nil, fmt.Errorf("item %q: unknown kind %q", s.Name, s.Kind)
	}
}

// ID returns the identity of this item instance.
func (it *Item) ID() string { return it.id }

// Kind returns the item variant.
func (it *Item) Kind() ItemKind { return it.kind }

// Rarity returns the rarity tier of the item.
func (it *Item) Rarity() Rarity { return it.rarity }

// Color returns the lock color a key opens. Tools report "".
func (it *Item) Color() string { return it.color }

// Master reports whether a key opens a lock of any color.
func (it *Item) Master() bool { return it.master }

// UsesRemaining returns the remaining tool uses. Keys always report zero.
func (it *Item) UsesRemaining() int { return it.uses }

// Snapshot returns the plain-data form of the item.
func (it *Item) Snapshot() ItemSnapshot {
	s := ItemSnapshot{
		ID:          it.id,
		Name:        it.Name,
		Description: it.Description,
		Rarity:      it.rarity,
		Kind:        it.kind,
	}
	switch it.kind {
	case KindKey:
		s.Color = it.color
		s.Master = it.master
	case KindTool:
		s.ToolType = it.ToolType
		s.Uses = it.uses
	}
	return s
}

// Clone returns an independent copy with the same identity.
func (it *Item) Clone() *Item {
	c := &Item{
		id:          it.id,
		Name:        it.Name,
		Description: it.Description,
		rarity:      it.rarity,
		kind:        it.kind,
	}
	switch it.kind {
	case KindKey:
		c.color = it.color
		c.master = it.master
	case KindTool:
		c.ToolType = it.ToolType
		c.uses = it.uses
	}
	return c
}

// Instance returns a fresh copy of a pool template with a new identity.
func (it *Item) Instance() *Item {
	c := it.Clone()
	c.id = uuid.NewString()
	return c
}

// Use applies the item to a puzzle. Tools spend one use only when the
// attempt had an effect; a tool with no uses left has no effect.
func (it *Item) Use(p *Puzzle) UseResult {
	switch it.kind {
	case KindKey:
		return p.AttemptSolve(it)
	case KindTool:
		if it.uses <= 0 {
			return ResultNoEffect
		}
		res := p.AttemptSolve(it)
		if res.Applied() {
			it.uses--
		}
		return res
	}
	return ResultNoEffect
}

func (it *Item) String() string {
	switch it.kind {
	case KindKey:
		if it.master {
			return fmt.Sprintf("%s [%s master key]", it.Name, it.rarity)
		}
		return fmt.Sprintf("%s [%s %s key]", it.Name, it.rarity, it.color)
	case KindTool:
		return fmt.Sprintf("%s [%s %s, %d uses]", it.Name, it.rarity, it.ToolType, it.uses)
	}
	return it.Name
}
