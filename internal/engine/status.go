package engine

import (
	"fmt"

	"github.com/tatianab/gacha-rooms/internal/models"
)

// RoomStatus classifies a room for map-style displays.
type RoomStatus int

const (
	StatusLocked RoomStatus = iota
	StatusCurrent
	StatusUnlocked
	StatusCompleted
)

func (s RoomStatus) String() string {
	switch s {
	case StatusLocked:
		return "locked"
	case StatusCurrent:
		return "current"
	case StatusUnlocked:
		return "unlocked"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Status classifies a single room against the current position.
func Status(r *models.Room, isCurrent bool) RoomStatus {
	switch {
	case r.Locked():
		return StatusLocked
	case isCurrent:
		return StatusCurrent
	case r.Complete():
		return StatusCompleted
	default:
		return StatusUnlocked
	}
}

// RoomStatuses classifies every room in order.
func (e *Engine) RoomStatuses() []RoomStatus {
	if e.state == nil {
		return nil
	}
	out := make([]RoomStatus, len(e.state.Rooms))
	for i, r := range e.state.Rooms {
		out[i] = Status(r, i == e.state.CurrentRoom)
	}
	return out
}

// WinReason says why the game is or is not won.
type WinReason string

const (
	WinAllRoomsComplete WinReason = "all_rooms_complete"
	WinRoomsRemaining   WinReason = "rooms_remaining"
	WinNoSession        WinReason = "no_session"
)

// WinDetail is the structured form of the win condition.
type WinDetail struct {
	Won            bool
	Reason         WinReason
	Message        string
	RoomsComplete  int
	TotalRooms     int
	PuzzlesSolved  int
	PuzzlesTotal   int
	RemainingRooms []string
}

// WinCondition reports whether every room is complete.
func (e *Engine) WinCondition() bool {
	return e.WinConditionDetail().Won
}

// WinConditionDetail explains the win condition.
func (e *Engine) WinConditionDetail() WinDetail {
	if e.state == nil || len(e.state.Rooms) == 0 {
		return WinDetail{Reason: WinNoSession, Message: "No game in progress."}
	}
	d := WinDetail{TotalRooms: len(e.state.Rooms)}
	for _, r := range e.state.Rooms {
		d.PuzzlesSolved += r.SolvedCount()
		d.PuzzlesTotal += len(r.Puzzles())
		if r.Complete() {
			d.RoomsComplete++
		} else {
			d.RemainingRooms = append(d.RemainingRooms, r.Name)
		}
	}
	if d.RoomsComplete == d.TotalRooms {
		d.Won = true
		d.Reason = WinAllRoomsComplete
		d.Message = fmt.Sprintf("You escaped! All %d rooms complete.", d.TotalRooms)
		return d
	}
	d.Reason = WinRoomsRemaining
	d.Message = fmt.Sprintf("%d of %d rooms complete; %d puzzle(s) left.",
		d.RoomsComplete, d.TotalRooms, d.PuzzlesTotal-d.PuzzlesSolved)
	return d
}
