package hint

import (
	"context"
	"strings"
	"testing"

	"github.com/tatianab/gacha-rooms/internal/models"
)

func TestStaticHint(t *testing.T) {
	pickable := models.NewLock("Padlock", 10, 1, "red")
	pickable.RequiredToolType = "lockpick"

	revealed := models.NewRiddle("Mirror", 10, 1, "an echo", "It answers without a mouth.")
	models.NewTool("Lens", "", models.Rare, "lens", 1).Use(revealed)

	code := models.NewCode("Safe", 10, 1, "1847")
	lens := models.NewTool("Lens", "", models.Rare, "lens", 5)
	lens.Use(code)
	lens.Use(code)

	solved := models.NewCode("Done", 10, 1, "1")
	solved.SubmitAnswer("1")

	tests := []struct {
		name   string
		puzzle *models.Puzzle
		want   string
	}{
		{"lock", models.NewLock("Door", 10, 1, "blue"), "blue key"},
		{"lock with tool", pickable, "lockpick"},
		{"riddle", models.NewRiddle("Note", 10, 1, "a map", "rivers"), "2 word(s)"},
		{"riddle revealed", revealed, "without a mouth"},
		{"code", code, "18__"},
		{"solved", solved, "Already solved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Static{}.Hint(context.Background(), tt.puzzle)
			if err != nil {
				t.Fatalf("Hint: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Fatalf("Hint = %q, want it to contain %q", got, tt.want)
			}
			if tt.puzzle.Kind() == models.KindCode && !tt.puzzle.Solved() && strings.Contains(got, tt.puzzle.Code()) {
				t.Fatalf("hint gives the code away: %q", got)
			}
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	p := models.NewCode("A four-digit safe", 40, 2, "1847")
	models.NewTool("Lens", "", models.Rare, "lens", 1).Use(p)

	got, err := renderPrompt(p)
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{"Puzzle type: code", "A four-digit safe", "Difficulty (1-5): 2", "uncovered: 1", "1847"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}
