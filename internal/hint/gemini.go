package hint

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/gacha-rooms/internal/models"
	"google.golang.org/api/option"
)

//go:embed prompts/puzzle_hint.txt
var puzzleHintPrompt string

var puzzleHintTmpl = template.Must(template.New("puzzle_hint").Parse(puzzleHintPrompt))

// Gemini asks a Gemini model for hints and falls back to Static when the
// model gives nothing usable.
type Gemini struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	fallback Static
}

// NewGemini creates a Gemini-backed provider.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Hint(ctx context.Context, p *models.Puzzle) (string, error) {
	if p.Solved() {
		return g.fallback.Hint(ctx, p)
	}

	prompt, err := renderPrompt(p)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate hint: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return g.fallback.Hint(ctx, p)
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || strings.TrimSpace(string(text)) == "" {
		return g.fallback.Hint(ctx, p)
	}
	return strings.TrimSpace(string(text)), nil
}

func renderPrompt(p *models.Puzzle) (string, error) {
	data := struct {
		Kind        models.PuzzleKind
		Description string
		Difficulty  int
		Known       string
		Answer      string
	}{
		Kind:        p.Kind(),
		Description: p.Description,
		Difficulty:  p.Difficulty,
	}
	switch p.Kind() {
	case models.KindRiddle:
		data.Answer = p.Answer()
		if p.HintRevealed() {
			data.Known = p.Hint
		}
	case models.KindCode:
		data.Answer = p.Code()
		data.Known = p.RevealedDigits()
	case models.KindLock:
		data.Known = fmt.Sprintf("the lock is %s", p.Color())
	}

	var buf bytes.Buffer
	if err := puzzleHintTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
