package models

import (
	"fmt"
	"strings"
)

// PuzzleKind tags the closed set of puzzle variants.
type PuzzleKind string

const (
	KindLock   PuzzleKind = "lock"
	KindRiddle PuzzleKind = "riddle"
	KindCode   PuzzleKind = "code"
)

// UseResult reports what applying an item to a puzzle did.
type UseResult int

const (
	ResultNoEffect UseResult = iota
	ResultWrongItem
	ResultProgress
	ResultSolved
)

func (r UseResult) String() string {
	switch r {
	case ResultNoEffect:
		return "no effect"
	case ResultWrongItem:
		return "wrong item"
	case ResultProgress:
		return "progress"
	case ResultSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// Applied reports whether the attempt changed the puzzle.
func (r UseResult) Applied() bool {
	return r == ResultProgress || r == ResultSolved
}

// Puzzle is an obstacle inside a room. Lock puzzles open with a matching
// key (or a tool of the required type); riddle and code puzzles are solved
// by answer and only accept tools as a way to reveal progress.
type Puzzle struct {
	kind             PuzzleKind
	Description      string
	reward           int
	Difficulty       int
	RequiredToolType string
	RequiresItem     bool

	// lock
	color string

	// riddle
	answer       string
	Hint         string
	hintRevealed bool

	// code
	code     string
	revealed int

	solved bool
}

// PuzzleSnapshot is the plain-data form of a Puzzle.
type PuzzleSnapshot struct {
	Kind             PuzzleKind `yaml:"kind"`
	Description      string     `yaml:"description"`
	Reward           int        `yaml:"reward"`
	Difficulty       int        `yaml:"difficulty"`
	RequiredToolType string     `yaml:"required_tool_type,omitempty"`
	RequiresItem     bool       `yaml:"requires_item,omitempty"`
	Solved           bool       `yaml:"solved"`
	Color            string     `yaml:"color,omitempty"`
	Answer           string     `yaml:"answer,omitempty"`
	Hint             string     `yaml:"hint,omitempty"`
	HintRevealed     bool       `yaml:"hint_revealed,omitempty"`
	Code             string     `yaml:"code,omitempty"`
	Revealed         int        `yaml:"revealed,omitempty"`
}

// NewLock creates a lock puzzle that opens with a key of the given color.
func NewLock(description string, reward, difficulty int, color string) *Puzzle {
	return &Puzzle{
		kind:         KindLock,
		Description:  description,
		reward:       nonNegative(reward),
		Difficulty:   difficulty,
		RequiresItem: true,
		color:        strings.ToLower(strings.TrimSpace(color)),
	}
}

// NewRiddle creates a riddle puzzle solved by answering.
func NewRiddle(description string, reward, difficulty int, answer, hint string) *Puzzle {
	return &Puzzle{
		kind:        KindRiddle,
		Description: description,
		reward:      nonNegative(reward),
		Difficulty:  difficulty,
		answer:      answer,
		Hint:        hint,
	}
}

// NewCode creates a code puzzle solved by entering the code.
func NewCode(description string, reward, difficulty int, code string) *Puzzle {
	return &Puzzle{
		kind:        KindCode,
		Description: description,
		reward:      nonNegative(reward),
		Difficulty:  difficulty,
		code:        strings.TrimSpace(code),
	}
}

// RestorePuzzle rebuilds a puzzle from its snapshot.
func RestorePuzzle(s PuzzleSnapshot) (*Puzzle, error) {
	if s.Reward < 0 {
		return nil, fmt.Errorf("puzzle %q: negative reward %d", s.Description, s.Reward)
	}
	p := &Puzzle{
		kind:             s.Kind,
		Description:      s.Description,
		reward:           s.Reward,
		Difficulty:       s.Difficulty,
		RequiredToolType: s.RequiredToolType,
		RequiresItem:     s.RequiresItem,
		solved:           s.Solved,
	}
	switch s.Kind {
	case KindLock:
		p.color = s.Color
	case KindRiddle:
		p.answer = s.Answer
		p.Hint = s.Hint
		p.hintRevealed = s.HintRevealed
	case KindCode:
		if s.Revealed < 0 || s.Revealed > len(s.Code) {
			return nil, fmt.Errorf("puzzle %q: revealed %d out of range", s.Description, s.Revealed)
		}
		p.code = s.Code
		p.revealed = s.Revealed
	default:
		return nil, fmt.Errorf("puzzle %q: unknown kind %q", s.Description, s.Kind)
	}
	return p, nil
}

// Snapshot returns the plain-data form of the puzzle.
func (p *Puzzle) Snapshot() PuzzleSnapshot {
	s := PuzzleSnapshot{
		Kind:             p.kind,
		Description:      p.Description,
		Reward:           p.reward,
		Difficulty:       p.Difficulty,
		RequiredToolType: p.RequiredToolType,
		RequiresItem:     p.RequiresItem,
		Solved:           p.solved,
	}
	switch p.kind {
	case KindLock:
		s.Color = p.color
	case KindRiddle:
		s.Answer = p.answer
		s.Hint = p.Hint
		s.HintRevealed = p.hintRevealed
	case KindCode:
		s.Code = p.code
		s.Revealed = p.revealed
	}
	return s
}

// Clone returns an independent copy of the puzzle, including its progress.
func (p *Puzzle) Clone() *Puzzle {
	c := *p
	return &c
}

// Kind returns the puzzle variant.
func (p *Puzzle) Kind() PuzzleKind { return p.kind }

// Reward returns the coins paid out when the puzzle is solved.
func (p *Puzzle) Reward() int { return p.reward }

// Color returns the key color a lock opens with.
func (p *Puzzle) Color() string { return p.color }

// Answer returns the riddle answer.
func (p *Puzzle) Answer() string { return p.answer }

// Code returns the code that solves a code puzzle.
func (p *Puzzle) Code() string { return p.code }

// Solved reports whether the puzzle has been solved. Once true it stays true.
func (p *Puzzle) Solved() bool { return p.solved }

// HintRevealed reports whether a tool has uncovered the riddle hint.
func (p *Puzzle) HintRevealed() bool { return p.hintRevealed }

// RevealedDigits returns the prefix of the code uncovered by tools.
func (p *Puzzle) RevealedDigits() string {
	if p.kind != KindCode {
		return ""
	}
	return p.code[:p.revealed]
}

// AttemptSolve tries to solve the puzzle with an item. It has no effect on
// a solved puzzle.
func (p *Puzzle) AttemptSolve(it *Item) UseResult {
	if p.solved || it == nil {
		return ResultNoEffect
	}
	switch p.kind {
	case KindLock:
		return p.attemptLock(it)
	case KindRiddle, KindCode:
		return p.attemptReveal(it)
	}
	return ResultNoEffect
}

func (p *Puzzle) attemptLock(it *Item) UseResult {
	switch it.kind {
	case KindKey:
		if it.master || strings.EqualFold(it.color, p.color) {
			p.solved = true
			return ResultSolved
		}
		return ResultWrongItem
	case KindTool:
		if p.RequiredToolType != "" && strings.EqualFold(it.ToolType, p.RequiredToolType) {
			p.solved = true
			return ResultSolved
		}
		return ResultWrongItem
	}
	return ResultWrongItem
}

func (p *Puzzle) attemptReveal(it *Item) UseResult {
	if it.kind != KindTool {
		return ResultWrongItem
	}
	if p.RequiredToolType != "" && !strings.EqualFold(it.ToolType, p.RequiredToolType) {
		return ResultWrongItem
	}
	switch p.kind {
	case KindRiddle:
		if p.hintRevealed || p.Hint == "" {
			return ResultNoEffect
		}
		p.hintRevealed = true
		return ResultProgress
	case KindCode:
		// The last digit is always left for the player.
		if p.revealed >= len(p.code)-1 {
			return ResultNoEffect
		}
		p.revealed++
		return ResultProgress
	}
	return ResultNoEffect
}

// SubmitAnswer solves a riddle or code puzzle when the answer matches.
// Lock puzzles never accept answers.
func (p *Puzzle) SubmitAnswer(answer string) bool {
	if p.solved {
		return false
	}
	var ok bool
	switch p.kind {
	case KindRiddle:
		ok = p.answer != "" && normalizeAnswer(answer) == normalizeAnswer(p.answer)
	case KindCode:
		ok = p.code != "" && strings.TrimSpace(answer) == p.code
	}
	if ok {
		p.solved = true
	}
	return ok
}

func (p *Puzzle) String() string {
	state := "unsolved"
	if p.solved {
		state = "solved"
	}
	return fmt.Sprintf("%s (%s, %d coins, %s)", p.Description, p.kind, p.reward, state)
}

func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
