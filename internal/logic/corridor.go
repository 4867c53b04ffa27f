package logic

import (
	"fmt"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/trace"
)

// applyCorridor restricts intermediate values to the corridor between their
// placed anchors. For consecutive placed values a@pa and b@pb, a cell p can
// host w (a < w < b) only if it lies within w-a BFS steps of pa and within
// b-w steps of pb; both fields come from one breadth-first expansion per
// anchor over the currently-empty cells. Values below the lowest anchor or
// above the highest are bounded by their single anchor the same way.
func applyCorridor(m *candidates.Model, tr *trace.Recorder) int {
	placed := m.PlacedValues()
	if len(placed) == 0 {
		return 0
	}
	changes := 0
	fields := map[int]map[domain.Position]int{}
	fieldFor := func(v int) map[domain.Position]int {
		if f, ok := fields[v]; ok {
			return f
		}
		p, _ := m.PlacedPosition(v)
		f := bfsField(m, p)
		fields[v] = f
		return f
	}

	for i := 0; i+1 < len(placed); i++ {
		a, b := placed[i], placed[i+1]
		if b-a < 2 {
			continue
		}
		da, db := fieldFor(a), fieldFor(b)
		for w := a + 1; w < b; w++ {
			for _, p := range m.Candidates(w) {
				la, oka := da[p]
				lb, okb := db[p]
				if oka && la <= w-a && okb && lb <= b-w {
					continue
				}
				changes += eliminateTraced(m, tr, "corridor", w, p,
					fmt.Sprintf("outside %d..%d corridor", a, b))
				if m.Contradicted() {
					return changes
				}
			}
		}
	}

	// Open tails below the lowest and above the highest anchor.
	if lo := placed[0]; lo > m.MinValue() {
		d := fieldFor(lo)
		for w := m.MinValue(); w < lo; w++ {
			if _, isPlaced := m.PlacedPosition(w); isPlaced {
				continue
			}
			for _, p := range m.Candidates(w) {
				if l, ok := d[p]; ok && l <= lo-w {
					continue
				}
				changes += eliminateTraced(m, tr, "corridor", w, p,
					fmt.Sprintf("more than %d steps from %d", lo-w, lo))
				if m.Contradicted() {
					return changes
				}
			}
		}
	}
	if hi := placed[len(placed)-1]; hi < m.MaxValue() {
		d := fieldFor(hi)
		for w := hi + 1; w <= m.MaxValue(); w++ {
			if _, isPlaced := m.PlacedPosition(w); isPlaced {
				continue
			}
			for _, p := range m.Candidates(w) {
				if l, ok := d[p]; ok && l <= w-hi {
					continue
				}
				changes += eliminateTraced(m, tr, "corridor", w, p,
					fmt.Sprintf("more than %d steps from %d", w-hi, hi))
				if m.Contradicted() {
					return changes
				}
			}
		}
	}
	return changes
}

// bfsField returns BFS distances from src through currently-empty cells.
// Cells holding other values wall the expansion off.
func bfsField(m *candidates.Model, src domain.Position) map[domain.Position]int {
	dist := map[domain.Position]int{src: 0}
	queue := []domain.Position{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, q := range m.Neighbors(cur) {
			if !m.IsEmpty(q) {
				continue
			}
			if _, seen := dist[q]; seen {
				continue
			}
			dist[q] = dist[cur] + 1
			queue = append(queue, q)
		}
	}
	return dist
}

func eliminateTraced(m *candidates.Model, tr *trace.Recorder, strategy string, v int, p domain.Position, reason string) int {
	before := m.CandidateCount(v)
	if !m.Eliminate(v, p) {
		return 0
	}
	tr.Add(domain.TraceEntry{
		Strategy: strategy,
		Kind:     domain.TraceEliminate,
		Value:    v,
		Position: p,
		Reason:   reason,
		Before:   before,
		After:    before - 1,
	})
	return 1
}
