package logic

import (
	"fmt"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/trace"
)

// applyRegion prunes on region capacity. A maximal run of consecutive
// unplaced values can never cross a region boundary (consecutive values sit
// on adjacent empty cells, and regions are maximal components of empty
// cells), so the whole run must fit inside one region: the region needs at
// least run-length cells and, when the run is anchored by a placed value,
// the region must touch that anchor.
func applyRegion(m *candidates.Model, tr *trace.Recorder) int {
	region, sizes := labelRegions(m)
	if len(sizes) == 0 {
		return 0
	}
	changes := 0
	for _, run := range unplacedRuns(m) {
		allowed := anchorRegions(m, region, run)
		for w := run.lo; w <= run.hi; w++ {
			for _, p := range m.Candidates(w) {
				rid, ok := region[p]
				if !ok {
					continue
				}
				var reason string
				switch {
				case sizes[rid] < run.length():
					reason = fmt.Sprintf("region holds %d cells, run %d..%d needs %d", sizes[rid], run.lo, run.hi, run.length())
				case allowed != nil && !allowed[rid]:
					reason = fmt.Sprintf("region unreachable from anchors of %d..%d", run.lo, run.hi)
				default:
					continue
				}
				changes += eliminateTraced(m, tr, "region", w, p, reason)
				if m.Contradicted() {
					return changes
				}
			}
		}
	}
	return changes
}

// labelRegions flood-fills the empty cells into maximal connected components
// under the puzzle's adjacency rule. Deterministic: seeds scan row-major.
func labelRegions(m *candidates.Model) (map[domain.Position]int, []int) {
	region := make(map[domain.Position]int)
	var sizes []int
	grid := m.Grid()
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			seed := domain.Position{Row: r, Col: c}
			if !m.IsEmpty(seed) {
				continue
			}
			if _, seen := region[seed]; seen {
				continue
			}
			id := len(sizes)
			size := 0
			queue := []domain.Position{seed}
			region[seed] = id
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				size++
				for _, q := range m.Neighbors(cur) {
					if !m.IsEmpty(q) {
						continue
					}
					if _, seen := region[q]; seen {
						continue
					}
					region[q] = id
					queue = append(queue, q)
				}
			}
			sizes = append(sizes, size)
		}
	}
	return region, sizes
}

type valueRun struct {
	lo, hi int
}

func (r valueRun) length() int { return r.hi - r.lo + 1 }

// unplacedRuns groups the unplaced values into maximal consecutive runs.
func unplacedRuns(m *candidates.Model) []valueRun {
	remaining := m.Remaining()
	var runs []valueRun
	for i := 0; i < len(remaining); {
		j := i
		for j+1 < len(remaining) && remaining[j+1] == remaining[j]+1 {
			j++
		}
		runs = append(runs, valueRun{lo: remaining[i], hi: remaining[j]})
		i = j + 1
	}
	return runs
}

// anchorRegions returns the set of region ids a run may occupy given its
// placed anchors, or nil when the run is unanchored on both sides.
func anchorRegions(m *candidates.Model, region map[domain.Position]int, run valueRun) map[int]bool {
	var allowed map[int]bool
	restrict := func(anchor int) {
		q, ok := m.PlacedPosition(anchor)
		if !ok {
			return
		}
		touching := make(map[int]bool)
		for _, n := range m.Neighbors(q) {
			if rid, empty := region[n]; empty {
				touching[rid] = true
			}
		}
		if allowed == nil {
			allowed = touching
			return
		}
		for rid := range allowed {
			if !touching[rid] {
				delete(allowed, rid)
			}
		}
	}
	if run.lo > m.MinValue() {
		restrict(run.lo - 1)
	}
	if run.hi < m.MaxValue() {
		restrict(run.hi + 1)
	}
	return allowed
}
