// Package models holds the session graph: the player, the ordered rooms
// with their puzzles and draw machines, and the items that move between
// machines and the inventory.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GameState is the root of the session graph. ID identifies one game from
// NewGame onwards and survives save and load.
type GameState struct {
	ID          string
	Player      *Player
	Rooms       []*Room
	CurrentRoom int
}

// GameSnapshot is the plain-data form of a GameState.
type GameSnapshot struct {
	ID          string          `yaml:"id,omitempty"`
	Player      *PlayerSnapshot `yaml:"player"`
	Rooms       []RoomSnapshot  `yaml:"rooms"`
	CurrentRoom int             `yaml:"current_room"`
}

// Snapshot captures the whole graph as plain data.
func (s *GameState) Snapshot() GameSnapshot {
	out := GameSnapshot{
		ID:          s.ID,
		Rooms:       make([]RoomSnapshot, 0, len(s.Rooms)),
		CurrentRoom: s.CurrentRoom,
	}
	if s.Player != nil {
		ps := s.Player.Snapshot()
		out.Player = &ps
	}
	for _, r := range s.Rooms {
		out.Rooms = append(out.Rooms, r.Snapshot())
	}
	return out
}

// RestoreGameState builds a new, independent graph from a snapshot.
func RestoreGameState(snap GameSnapshot) (*GameState, error) {
	if snap.Player == nil {
		return nil, fmt.Errorf("snapshot has no player")
	}
	player, err := RestorePlayer(*snap.Player)
	if err != nil {
		return nil, err
	}
	if len(snap.Rooms) == 0 {
		return nil, fmt.Errorf("snapshot has no rooms")
	}
	if snap.CurrentRoom < 0 || snap.CurrentRoom >= len(snap.Rooms) {
		return nil, fmt.Errorf("current room %d out of range", snap.CurrentRoom)
	}
	rooms := make([]*Room, 0, len(snap.Rooms))
	for i, rs := range snap.Rooms {
		r, err := RestoreRoom(rs)
		if err != nil {
			return nil, fmt.Errorf("room index %d: %w", i, err)
		}
		rooms = append(rooms, r)
	}
	if issues := ProgressionIssues(rooms, snap.CurrentRoom); len(issues) > 0 {
		return nil, fmt.Errorf("room progression: %s", strings.Join(issues, "; "))
	}
	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &GameState{ID: id, Player: player, Rooms: rooms, CurrentRoom: snap.CurrentRoom}, nil
}

// ProgressionIssues reports every break in the room gating rules: rooms
// are numbered 1..n in order, the first room is open, a later room opens
// only once the room before it is complete, and the current room is open.
// Missing rooms are skipped.
func ProgressionIssues(rooms []*Room, current int) []string {
	var issues []string
	for i, r := range rooms {
		if r == nil {
			continue
		}
		if r.Number != i+1 {
			issues = append(issues, fmt.Sprintf("room at index %d is numbered %d", i, r.Number))
		}
		if r.Locked() {
			if i == 0 {
				issues = append(issues, "first room is locked")
			}
			if i == current {
				issues = append(issues, fmt.Sprintf("current room %d is locked", r.Number))
			}
			continue
		}
		if i > 0 && rooms[i-1] != nil && !rooms[i-1].Complete() {
			issues = append(issues, fmt.Sprintf("room %d is open before room %d is complete", r.Number, rooms[i-1].Number))
		}
	}
	return issues
}

// ReplaceWith swaps every field of s for the fields of other in one step.
func (s *GameState) ReplaceWith(other *GameState) {
	*s = GameState{
		ID:          other.ID,
		Player:      other.Player,
		Rooms:       other.Rooms,
		CurrentRoom: other.CurrentRoom,
	}
}

// Room returns the room at index i, or nil when out of range.
func (s *GameState) Room(i int) *Room {
	if i < 0 || i >= len(s.Rooms) {
		return nil
	}
	return s.Rooms[i]
}

// Current returns the current room, or nil when the index is out of range.
func (s *GameState) Current() *Room { return s.Room(s.CurrentRoom) }
