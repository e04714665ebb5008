// Package validate audits a session graph without changing it.
package validate

import (
	"fmt"

	"github.com/tatianab/gacha-rooms/internal/models"
)

// Check returns a human-readable line for every problem that makes the
// session unplayable. An empty result means the session is playable.
func Check(s *models.GameState) []string {
	if s == nil {
		return []string{"no session"}
	}
	var issues []string
	if s.Player == nil {
		issues = append(issues, "missing player")
	}
	if len(s.Rooms) == 0 {
		issues = append(issues, "room list is empty")
	}
	if s.Current() == nil {
		issues = append(issues, fmt.Sprintf("missing current room (index %d of %d)", s.CurrentRoom, len(s.Rooms)))
	}
	for i, r := range s.Rooms {
		if r == nil {
			issues = append(issues, fmt.Sprintf("room at index %d is missing", i))
			continue
		}
		if !r.HasPuzzleList() {
			issues = append(issues, fmt.Sprintf("room %d (%s) has no puzzle list", r.Number, r.Name))
		}
	}
	return append(issues, models.ProgressionIssues(s.Rooms, s.CurrentRoom)...)
}

// IsPlayable reports whether Check finds nothing.
func IsPlayable(s *models.GameState) bool {
	return len(Check(s)) == 0
}
