package models

import "fmt"

// PityThreshold is the pity count at which a draw is forced to epic.
const PityThreshold = 10

// DrawMachine is a room's gacha machine. Pool entries are templates; a draw
// hands out a fresh instance of one of them.
type DrawMachine struct {
	roomID string
	cost   int
	pool   []*Item
	table  RarityTable
	pity   int
}

// MachineSnapshot is the plain-data form of a DrawMachine.
type MachineSnapshot struct {
	RoomID string         `yaml:"room_id"`
	Cost   int            `yaml:"cost"`
	Pool   []ItemSnapshot `yaml:"pool"`
	Table  RarityTable    `yaml:"table"`
	Pity   int            `yaml:"pity"`
}

// NewDrawMachine creates a machine with an empty pool.
func NewDrawMachine(roomID string, cost int, table RarityTable) (*DrawMachine, error) {
	if cost < 0 {
		return nil, fmt.Errorf("machine %s: negative cost %d", roomID, cost)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("machine %s: %w", roomID, err)
	}
	return &DrawMachine{roomID: roomID, cost: cost, table: table}, nil
}

// RestoreDrawMachine rebuilds a machine, its pool and pity counter.
func RestoreDrawMachine(s MachineSnapshot) (*DrawMachine, error) {
	m, err := NewDrawMachine(s.RoomID, s.Cost, s.Table)
	if err != nil {
		return nil, err
	}
	if s.Pity < 0 || s.Pity >= PityThreshold {
		return nil, fmt.Errorf("machine %s: pity %d out of range", s.RoomID, s.Pity)
	}
	m.pity = s.Pity
	for i, is := range s.Pool {
		it, err := RestoreItem(is)
		if err != nil {
			return nil, fmt.Errorf("machine %s pool entry %d: %w", s.RoomID, i, err)
		}
		m.pool = append(m.pool, it)
	}
	return m, nil
}

// Snapshot returns the plain-data form of the machine.
func (m *DrawMachine) Snapshot() MachineSnapshot {
	pool := make([]ItemSnapshot, 0, len(m.pool))
	for _, it := range m.pool {
		pool = append(pool, it.Snapshot())
	}
	return MachineSnapshot{
		RoomID: m.roomID,
		Cost:   m.cost,
		Pool:   pool,
		Table:  m.table,
		Pity:   m.pity,
	}
}

func (m *DrawMachine) RoomID() string     { return m.roomID }
func (m *DrawMachine) Cost() int          { return m.cost }
func (m *DrawMachine) Table() RarityTable { return m.table }
func (m *DrawMachine) Pity() int          { return m.pity }

// AddToPool stores an independent copy of the template.
func (m *DrawMachine) AddToPool(template *Item) {
	if template != nil {
		m.pool = append(m.pool, template.Clone())
	}
}

// PoolSize returns the number of templates in the pool.
func (m *DrawMachine) PoolSize() int { return len(m.pool) }

// PoolByRarity returns the templates of rarity r in pool order.
func (m *DrawMachine) PoolByRarity(r Rarity) []*Item {
	var out []*Item
	for _, it := range m.pool {
		if it.rarity == r {
			out = append(out, it)
		}
	}
	return out
}

// IncrementPity counts one more draw since the last epic and reports
// whether the threshold has been reached.
func (m *DrawMachine) IncrementPity() bool {
	m.pity++
	return m.pity >= PityThreshold
}

// ResetPity is called whenever an epic is produced.
func (m *DrawMachine) ResetPity() { m.pity = 0 }
