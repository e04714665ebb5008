package models

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rarity classifies items. Higher values are rarer.
type Rarity int

const (
	Common Rarity = iota
	Rare
	Epic
)

// Rarities lists every rarity in draw-table order.
var Rarities = []Rarity{Common, Rare, Epic}

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	default:
		return fmt.Sprintf("rarity(%d)", int(r))
	}
}

// ParseRarity converts a persisted rarity name back into a Rarity.
func ParseRarity(s string) (Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return Common, nil
	case "rare":
		return Rare, nil
	case "epic":
		return Epic, nil
	}
	return Common, fmt.Errorf("unknown rarity %q", s)
}

// RarityTable holds the draw probability of each rarity.
type RarityTable struct {
	Common float64 `yaml:"common"`
	Rare   float64 `yaml:"rare"`
	Epic   float64 `yaml:"epic"`
}

// DefaultRarityTable is used by machines that do not set their own table.
var DefaultRarityTable = RarityTable{Common: 0.70, Rare: 0.25, Epic: 0.05}

const probabilityTolerance = 1e-9

// Probability returns the configured probability for r.
func (t RarityTable) Probability(r Rarity) float64 {
	switch r {
	case Common:
		return t.Common
	case Rare:
		return t.Rare
	case Epic:
		return t.Epic
	}
	return 0
}

// Validate checks that every probability is within [0,1] and that they sum to 1.
func (t RarityTable) Validate() error {
	sum := 0.0
	for _, r := range Rarities {
		p := t.Probability(r)
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("%s probability %v out of range", r, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("rarity probabilities sum to %v, want 1", sum)
	}
	return nil
}

// Resolve walks the table in Rarities order and returns the rarity whose
// accumulated range contains roll. roll must be in [0,1).
func (t RarityTable) Resolve(roll float64) Rarity {
	acc := 0.0
	for _, r := range Rarities {
		acc += t.Probability(r)
		if roll < acc {
			return r
		}
	}
	// Rounding can leave the sum a hair under 1; fall back to the rarest
	// rarity that can actually be drawn.
	for i := len(Rarities) - 1; i >= 0; i-- {
		if t.Probability(Rarities[i]) > 0 {
			return Rarities[i]
		}
	}
	return Common
}

// MarshalYAML stores a rarity by name.
func (r Rarity) MarshalYAML() (interface{}, error) {
	if r < Common || r > Epic {
		return nil, fmt.Errorf("cannot encode %s", r)
	}
	return r.String(), nil
}

// UnmarshalYAML reads a rarity name.
func (r *Rarity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseRarity(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
