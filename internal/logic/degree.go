package logic

import (
	"fmt"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/trace"
)

// applyDegree prunes on neighbor counts. A candidate cell must offer one
// empty neighbor per still-unplaced chain link (v-1, v+1 inside the range),
// and must sit adjacent to any link already placed. Placed values whose
// remaining links can no longer be hosted strangle the whole board.
func applyDegree(m *candidates.Model, tr *trace.Recorder) int {
	changes := 0
	for _, v := range m.Remaining() {
		for _, p := range m.Candidates(v) {
			reason, bad := degreeViolation(m, v, p)
			if !bad {
				continue
			}
			before := m.CandidateCount(v)
			if m.Eliminate(v, p) {
				changes++
				tr.Add(domain.TraceEntry{
					Strategy: "degree",
					Kind:     domain.TraceEliminate,
					Value:    v,
					Position: p,
					Reason:   reason,
					Before:   before,
					After:    before - 1,
				})
			}
			if m.Contradicted() {
				return changes
			}
		}
	}
	// Placed side: a filled cell still owing links needs the neighbors to
	// host them. Endpoints owe at most one, interior values up to two.
	for _, v := range m.PlacedValues() {
		p, _ := m.PlacedPosition(v)
		needed := 0
		for _, w := range []int{v - 1, v + 1} {
			if w < m.MinValue() || w > m.MaxValue() {
				continue
			}
			if q, ok := m.PlacedPosition(w); ok {
				if !adjacent(m, p, q) {
					m.MarkContradicted()
					return changes
				}
			} else {
				needed++
			}
		}
		if m.EmptyNeighborCount(p) < needed {
			m.MarkContradicted()
			return changes
		}
	}
	return changes
}

func degreeViolation(m *candidates.Model, v int, p domain.Position) (string, bool) {
	needed := 0
	for _, w := range []int{v - 1, v + 1} {
		if w < m.MinValue() || w > m.MaxValue() {
			continue
		}
		if q, ok := m.PlacedPosition(w); ok {
			if !adjacent(m, p, q) {
				return fmt.Sprintf("placed %d not adjacent to (%d,%d)", w, p.Row, p.Col), true
			}
		} else {
			needed++
		}
	}
	if deg := m.EmptyNeighborCount(p); deg < needed {
		return fmt.Sprintf("needs %d empty neighbors, cell has %d", needed, deg), true
	}
	return "", false
}

func adjacent(m *candidates.Model, p, q domain.Position) bool {
	for _, n := range m.Neighbors(p) {
		if n == q {
			return true
		}
	}
	return false
}
