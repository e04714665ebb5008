package models

import "fmt"

// Room is one stage of the game. Its number is 1-based and stable.
type Room struct {
	Number      int
	Name        string
	Description string
	locked      bool
	puzzles     []*Puzzle
	machine     *DrawMachine
}

// RoomSnapshot is the plain-data form of a Room.
type RoomSnapshot struct {
	Number      int              `yaml:"number"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Locked      bool             `yaml:"locked"`
	Puzzles     []PuzzleSnapshot `yaml:"puzzles"`
	Machine     *MachineSnapshot `yaml:"machine"`
}

// NewRoom creates a locked room owning the given puzzles and machine.
func NewRoom(number int, name, description string, puzzles []*Puzzle, machine *DrawMachine) *Room {
	ps := make([]*Puzzle, 0, len(puzzles))
	for _, p := range puzzles {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Room{
		Number:      number,
		Name:        name,
		Description: description,
		locked:      true,
		puzzles:     ps,
		machine:     machine,
	}
}

// RestoreRoom rebuilds a room with its puzzles and machine.
func RestoreRoom(s RoomSnapshot) (*Room, error) {
	if s.Number < 1 {
		return nil, fmt.Errorf("room %q: invalid number %d", s.Name, s.Number)
	}
	if s.Puzzles == nil {
		return nil, fmt.Errorf("room %d: missing puzzle list", s.Number)
	}
	r := &Room{
		Number:      s.Number,
		Name:        s.Name,
		Description: s.Description,
		locked:      s.Locked,
		puzzles:     make([]*Puzzle, 0, len(s.Puzzles)),
	}
	for i, ps := range s.Puzzles {
		p, err := RestorePuzzle(ps)
		if err != nil {
			return nil, fmt.Errorf("room %d puzzle %d: %w", s.Number, i, err)
		}
		r.puzzles = append(r.puzzles, p)
	}
	if s.Machine != nil {
		m, err := RestoreDrawMachine(*s.Machine)
		if err != nil {
			return nil, fmt.Errorf("room %d: %w", s.Number, err)
		}
		r.machine = m
	}
	return r, nil
}

// Snapshot returns the plain-data form of the room.
func (r *Room) Snapshot() RoomSnapshot {
	puzzles := make([]PuzzleSnapshot, 0, len(r.puzzles))
	for _, p := range r.puzzles {
		puzzles = append(puzzles, p.Snapshot())
	}
	s := RoomSnapshot{
		Number:      r.Number,
		Name:        r.Name,
		Description: r.Description,
		Locked:      r.locked,
		Puzzles:     puzzles,
	}
	if r.machine != nil {
		ms := r.machine.Snapshot()
		s.Machine = &ms
	}
	return s
}

// ID identifies the room to its machine.
func (r *Room) ID() string { return fmt.Sprintf("room-%d", r.Number) }

func (r *Room) Locked() bool { return r.locked }
func (r *Room) Unlock()      { r.locked = false }
func (r *Room) Lock()        { r.locked = true }

// Machine returns the room's draw machine, or nil when it has none.
func (r *Room) Machine() *DrawMachine { return r.machine }

// Puzzles returns the room's puzzles in order.
func (r *Room) Puzzles() []*Puzzle {
	out := make([]*Puzzle, len(r.puzzles))
	copy(out, r.puzzles)
	return out
}

// HasPuzzleList reports whether the room was given a puzzle list at all.
func (r *Room) HasPuzzleList() bool { return r.puzzles != nil }

// HasPuzzle reports whether p belongs to this room.
func (r *Room) HasPuzzle(p *Puzzle) bool {
	for _, own := range r.puzzles {
		if own == p {
			return true
		}
	}
	return false
}

// UnsolvedPuzzles returns the puzzles still to solve, in order.
func (r *Room) UnsolvedPuzzles() []*Puzzle {
	var out []*Puzzle
	for _, p := range r.puzzles {
		if !p.Solved() {
			out = append(out, p)
		}
	}
	return out
}

// SolvedCount returns how many puzzles are solved.
func (r *Room) SolvedCount() int {
	n := 0
	for _, p := range r.puzzles {
		if p.Solved() {
			n++
		}
	}
	return n
}

// Complete reports whether every puzzle is solved. A room without puzzles
// is complete.
func (r *Room) Complete() bool {
	return r.SolvedCount() == len(r.puzzles)
}

// Progress returns solved/total, or 0 for a room without puzzles.
func (r *Room) Progress() float64 {
	if len(r.puzzles) == 0 {
		return 0
	}
	return float64(r.SolvedCount()) / float64(len(r.puzzles))
}
