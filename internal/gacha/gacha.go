// Package gacha implements the paid, weighted-random draw against a room's
// machine, including the pity guarantee.
package gacha

import (
	"math/rand/v2"

	"github.com/tatianab/gacha-rooms/internal/gameerr"
	"github.com/tatianab/gacha-rooms/internal/models"
)

// Source is the randomness a draw consumes. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// IntN returns a value in [0,n).
	IntN(n int) int
}

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Draw describes one completed pull.
type Draw struct {
	// Item is nil when the machine has nothing to hand out.
	Item *models.Item
	// Rarity is the rarity the roll (or pity) resolved to. The item may be
	// of another rarity when the pool had no match.
	Rarity models.Rarity
	// Forced is true when pity decided the rarity.
	Forced    bool
	Cost      int
	PityAfter int
}

// Pull charges the player and draws one item from m. An empty pool yields
// a zero Draw and changes nothing. The caller decides where the item goes.
func Pull(m *models.DrawMachine, p *models.Player, src Source) (Draw, error) {
	if m.PoolSize() == 0 {
		return Draw{}, nil
	}
	cost := m.Cost()
	if !p.Spend(cost) {
		return Draw{}, gameerr.InsufficientFunds(cost, p.Coins())
	}

	forced := m.IncrementPity()
	var rarity models.Rarity
	if forced {
		rarity = models.Epic
	} else {
		rarity = m.Table().Resolve(src.Float64())
	}

	template := pick(m, rarity, src)
	if rarity == models.Epic || template.Rarity() == models.Epic {
		m.ResetPity()
	}
	p.RecordDraw()

	return Draw{
		Item:      template.Instance(),
		Rarity:    rarity,
		Forced:    forced,
		Cost:      cost,
		PityAfter: m.Pity(),
	}, nil
}

// pick chooses uniformly among templates of rarity r, falling back to
// common templates and then to the whole pool.
func pick(m *models.DrawMachine, r models.Rarity, src Source) *models.Item {
	candidates := m.PoolByRarity(r)
	if len(candidates) == 0 {
		candidates = m.PoolByRarity(models.Common)
	}
	if len(candidates) == 0 {
		for _, rr := range models.Rarities {
			candidates = append(candidates, m.PoolByRarity(rr)...)
		}
	}
	return candidates[src.IntN(len(candidates))]
}
