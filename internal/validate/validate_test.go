package validate

import (
	"strings"
	"testing"

	"github.com/tatianab/gacha-rooms/internal/models"
)

func playable() *models.GameState {
	s := &models.GameState{
		Player: models.NewPlayer("Ada", 10, 5),
		Rooms: []*models.Room{
			models.NewRoom(1, "Foyer", "", []*models.Puzzle{models.NewCode("Safe", 1, 1, "12")}, nil),
			models.NewRoom(2, "Empty", "", []*models.Puzzle{}, nil),
		},
	}
	s.Rooms[0].Unlock()
	return s
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		state func() *models.GameState
		want  string
	}{
		{"playable", playable, ""},
		{"nil session", func() *models.GameState { return nil }, "no session"},
		{"missing player", func() *models.GameState {
			s := playable()
			s.Player = nil
			return s
		}, "missing player"},
		{"no rooms", func() *models.GameState {
			s := playable()
			s.Rooms = nil
			return s
		}, "room list is empty"},
		{"current out of range", func() *models.GameState {
			s := playable()
			s.CurrentRoom = 2
			return s
		}, "missing current room"},
		{"nil room", func() *models.GameState {
			s := playable()
			s.Rooms = append(s.Rooms, nil)
			return s
		}, "index 2 is missing"},
		{"no puzzle list", func() *models.GameState {
			s := playable()
			s.Rooms[1] = &models.Room{Number: 2, Name: "Broken"}
			return s
		}, "has no puzzle list"},
		{"first room locked", func() *models.GameState {
			s := playable()
			s.Rooms[0].Lock()
			return s
		}, "first room is locked"},
		{"room open too early", func() *models.GameState {
			s := playable()
			s.Rooms[1].Unlock()
			return s
		}, "room 2 is open before room 1 is complete"},
		{"current room locked", func() *models.GameState {
			s := playable()
			s.Rooms[0].Puzzles()[0].SubmitAnswer("12")
			s.CurrentRoom = 1
			return s
		}, "current room 2 is locked"},
		{"rooms out of order", func() *models.GameState {
			s := playable()
			s.Rooms[1].Number = 3
			return s
		}, "index 1 is numbered 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Check(tt.state())
			if tt.want == "" {
				if len(issues) != 0 {
					t.Fatalf("Check = %v, want no issues", issues)
				}
				return
			}
			if !strings.Contains(strings.Join(issues, "\n"), tt.want) {
				t.Fatalf("Check = %v, want an issue containing %q", issues, tt.want)
			}
		})
	}
}

func TestEmptyRoomIsPlayable(t *testing.T) {
	s := playable()
	s.Rooms[0].Puzzles()[0].SubmitAnswer("12")
	s.Rooms[1].Unlock()
	s.CurrentRoom = 1
	if !IsPlayable(s) {
		t.Fatalf("room with an empty puzzle list reported unplayable: %v", Check(s))
	}
}
