package search

import "math/rand"

// tableSeed is fixed: the same assignment must hash identically across runs
// for reproducibility.
const tableSeed int64 = 0x68696461746f21

// Table memoizes assignment states whose subtrees were fully explored and
// contain no solution. It only ever prunes proven-dead states, so it can
// change the path the search takes but never its outcome. Bounded: once full,
// the oldest entry is overwritten.
type Table struct {
	zobrist [][]uint64 // [value offset][cell index]
	dead    map[uint64]bool
	ring    []uint64
	next    int
}

// NewTable builds hash material for span values over cells grid slots and a
// table bounded to maxEntries.
func NewTable(span, cells, maxEntries int) *Table {
	rng := rand.New(rand.NewSource(tableSeed))
	z := make([][]uint64, span)
	for i := range z {
		z[i] = make([]uint64, cells)
		for j := range z[i] {
			z[i][j] = rng.Uint64()
		}
	}
	return &Table{
		zobrist: z,
		dead:    make(map[uint64]bool, maxEntries),
		ring:    make([]uint64, 0, maxEntries),
	}
}

// Hash folds a canonical assignment signature (cell index per value, -1 for
// unassigned) into a single key.
func (t *Table) Hash(sig []int) uint64 {
	var h uint64
	for i, cell := range sig {
		if cell >= 0 {
			h ^= t.zobrist[i][cell]
		}
	}
	return h
}

// KnownDead reports whether this state was already proven solution-free.
func (t *Table) KnownDead(h uint64) bool { return t.dead[h] }

// MarkDead records a fully-exhausted, solution-free state.
func (t *Table) MarkDead(h uint64) {
	if t.dead[h] {
		return
	}
	if len(t.ring) < cap(t.ring) {
		t.ring = append(t.ring, h)
	} else {
		delete(t.dead, t.ring[t.next])
		t.ring[t.next] = h
		t.next = (t.next + 1) % len(t.ring)
	}
	t.dead[h] = true
}

// Len reports the current entry count.
func (t *Table) Len() int { return len(t.dead) }
