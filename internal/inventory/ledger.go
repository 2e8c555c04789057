package inventory

import (
	"strings"
	"sync"
	"time"

	"github.com/erazemk/inventario/internal/model"
)

// Ledger is the append-only movement log. Reads return movements newest first.
type Ledger struct {
	mu      sync.RWMutex
	entries []model.Movement // oldest first
	newID   func() string
	now     func() time.Time
}

// NewLedger creates an empty ledger using the given id generator and clock.
func NewLedger(newID func() string, now func() time.Time) *Ledger {
	return &Ledger{newID: newID, now: now}
}

// Append stamps each draft with an id and timestamp and records them in
// order, so the last draft becomes the newest movement. The whole batch is
// recorded under one lock.
func (l *Ledger) Append(drafts ...model.Movement) []model.Movement {
	if len(drafts) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	out := make([]model.Movement, len(drafts))
	for i, m := range drafts {
		m.ID = l.newID()
		m.CreatedAt = now
		l.entries = append(l.entries, m)
		out[i] = m
	}
	return out
}

// Len returns the number of recorded movements.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// All returns every movement, newest first.
func (l *Ledger) All() []model.Movement {
	return l.filter(func(model.Movement) bool { return true })
}

// ByEquipment returns the movements of one piece of equipment, newest first.
func (l *Ledger) ByEquipment(equipmentID string) []model.Movement {
	return l.filter(func(m model.Movement) bool { return m.EquipmentID == equipmentID })
}

// Since returns movements recorded at or after t, newest first.
func (l *Ledger) Since(t time.Time) []model.Movement {
	return l.filter(func(m model.Movement) bool { return !m.CreatedAt.Before(t) })
}

// Search returns movements whose equipment name, description or user name
// contains query, ignoring case. An empty query matches everything.
func (l *Ledger) Search(query string) []model.Movement {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return l.All()
	}
	return l.filter(func(m model.Movement) bool {
		return containsFold(m.EquipmentName, q) ||
			containsFold(m.Description, q) ||
			containsFold(m.UserName, q)
	})
}

func (l *Ledger) filter(keep func(model.Movement) bool) []model.Movement {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []model.Movement{}
	for i := len(l.entries) - 1; i >= 0; i-- {
		if keep(l.entries[i]) {
			out = append(out, l.entries[i])
		}
	}
	return out
}

// containsFold reports whether s contains the already lowercased needle.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
