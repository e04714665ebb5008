// Package hint produces nudges for puzzles the player is stuck on.
package hint

import (
	"context"
	"fmt"
	"strings"

	"github.com/tatianab/gacha-rooms/internal/models"
)

// Provider returns a hint for an unsolved puzzle.
type Provider interface {
	Hint(ctx context.Context, p *models.Puzzle) (string, error)
}

// Static builds hints from what the puzzle itself knows.
type Static struct{}

func (Static) Hint(_ context.Context, p *models.Puzzle) (string, error) {
	if p.Solved() {
		return "Already solved.", nil
	}
	switch p.Kind() {
	case models.KindLock:
		if p.RequiredToolType != "" {
			return fmt.Sprintf("Try a %s key, or a %s.", p.Color(), p.RequiredToolType), nil
		}
		return fmt.Sprintf("Try a %s key. A master key opens anything.", p.Color()), nil
	case models.KindRiddle:
		if p.HintRevealed() {
			return p.Hint, nil
		}
		return fmt.Sprintf("The answer has %d word(s).", len(strings.Fields(p.Answer()))), nil
	case models.KindCode:
		known := p.RevealedDigits()
		missing := strings.Repeat("_", len(p.Code())-len(known))
		return fmt.Sprintf("The code looks like %s%s.", known, missing), nil
	}
	return "", fmt.Errorf("no hint for puzzle kind %q", p.Kind())
}
