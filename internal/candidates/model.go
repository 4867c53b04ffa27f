// Package candidates maintains the bidirectional legality tracker at the core
// of the engine: which positions can still host each unplaced value, and
// which values each empty cell can still take. The two mappings are kept in
// lockstep after every mutation.
package candidates

import (
	"sort"

	"svw.info/hidato/internal/domain"
)

// Pair is one (value, position) legality link, reported back on mutation so
// callers can trace what an assignment knocked out.
type Pair struct {
	Value    int
	Position domain.Position
}

// Model tracks value→positions and position→values candidate sets over the
// open cells of one puzzle snapshot. It is private to a single invocation;
// the caller's puzzle is copied on init and never touched again.
type Model struct {
	adjacency domain.Adjacency
	minValue  int
	maxValue  int
	grid      domain.Grid

	valuePos map[int]map[domain.Position]bool
	posVals  map[domain.Position]map[int]bool
	placed   map[int]domain.Position

	// mustFillAll is true when the value span covers every open cell, so an
	// empty cell with no remaining values is itself a contradiction.
	mustFillAll  bool
	contradicted bool
}

// InitFrom builds both mappings from scratch, respecting givens, blocked
// cells and the value range. Prefilled non-given values are treated as
// placed as well, so a partially solved board can be resumed.
func InitFrom(p *domain.Puzzle) *Model {
	m := &Model{
		adjacency: p.Adjacency,
		minValue:  p.MinValue,
		maxValue:  p.MaxValue,
		grid:      p.Grid.Clone(),
		valuePos:  make(map[int]map[domain.Position]bool),
		posVals:   make(map[domain.Position]map[int]bool),
		placed:    make(map[int]domain.Position),
	}
	m.mustFillAll = p.Span() == p.Grid.OpenCellCount()

	empty := make([]domain.Position, 0, p.Grid.Rows*p.Grid.Cols)
	for r := 0; r < m.grid.Rows; r++ {
		for c := 0; c < m.grid.Cols; c++ {
			pos := domain.Position{Row: r, Col: c}
			if m.grid.IsBlocked(pos) {
				continue
			}
			v := m.grid.ValueAt(pos)
			if v == 0 {
				empty = append(empty, pos)
				continue
			}
			if _, dup := m.placed[v]; dup || v < m.minValue || v > m.maxValue {
				m.contradicted = true
				continue
			}
			m.placed[v] = pos
		}
	}
	if m.contradicted {
		return m
	}
	for v, pos := range m.placed {
		if q, ok := m.placed[v+1]; ok && !m.chainAdjacent(pos, q) {
			m.contradicted = true
			return m
		}
	}
	for v := m.minValue; v <= m.maxValue; v++ {
		if _, ok := m.placed[v]; ok {
			continue
		}
		set := make(map[domain.Position]bool, len(empty))
		for _, pos := range empty {
			set[pos] = true
		}
		m.valuePos[v] = set
		if len(set) == 0 {
			m.contradicted = true
		}
	}
	for _, pos := range empty {
		set := make(map[int]bool)
		for v := range m.valuePos {
			set[v] = true
		}
		m.posVals[pos] = set
		if len(set) == 0 && m.mustFillAll {
			m.contradicted = true
		}
	}
	return m
}

// Clone deep-copies the model for snapshot-and-restore search.
func (m *Model) Clone() *Model {
	out := &Model{
		adjacency:    m.adjacency,
		minValue:     m.minValue,
		maxValue:     m.maxValue,
		grid:         m.grid.Clone(),
		valuePos:     make(map[int]map[domain.Position]bool, len(m.valuePos)),
		posVals:      make(map[domain.Position]map[int]bool, len(m.posVals)),
		placed:       make(map[int]domain.Position, len(m.placed)),
		mustFillAll:  m.mustFillAll,
		contradicted: m.contradicted,
	}
	for v, set := range m.valuePos {
		cp := make(map[domain.Position]bool, len(set))
		for p := range set {
			cp[p] = true
		}
		out.valuePos[v] = cp
	}
	for p, set := range m.posVals {
		cp := make(map[int]bool, len(set))
		for v := range set {
			cp[v] = true
		}
		out.posVals[p] = cp
	}
	for v, p := range m.placed {
		out.placed[v] = p
	}
	return out
}

// Contradicted reports the terminal invalid state: some candidate set
// emptied out. It is a state, not an error.
func (m *Model) Contradicted() bool { return m.contradicted }

// MarkContradicted forces the terminal state (used by strategies that detect
// impossibility outside the candidate sets, e.g. a strangled placed cell).
func (m *Model) MarkContradicted() { m.contradicted = true }

// Solved reports whether every value in range is placed.
func (m *Model) Solved() bool {
	return !m.contradicted && len(m.placed) == m.maxValue-m.minValue+1
}

func (m *Model) MinValue() int               { return m.minValue }
func (m *Model) MaxValue() int               { return m.maxValue }
func (m *Model) Adjacency() domain.Adjacency { return m.adjacency }
func (m *Model) MustFillAll() bool           { return m.mustFillAll }

// PlacedPosition returns where v sits, if placed.
func (m *Model) PlacedPosition(v int) (domain.Position, bool) {
	p, ok := m.placed[v]
	return p, ok
}

// PlacedValues returns all placed values in ascending order.
func (m *Model) PlacedValues() []int {
	out := make([]int, 0, len(m.placed))
	for v := range m.placed {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Remaining returns all unplaced values in ascending order.
func (m *Model) Remaining() []int {
	out := make([]int, 0, len(m.valuePos))
	for v := range m.valuePos {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Candidates returns v's legal positions in row-major order.
func (m *Model) Candidates(v int) []domain.Position {
	set, ok := m.valuePos[v]
	if !ok {
		return nil
	}
	out := make([]domain.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// CandidateCount returns the size of v's candidate set without sorting.
func (m *Model) CandidateCount(v int) int { return len(m.valuePos[v]) }

// ValuesFor returns the legal values of an empty position in ascending order.
func (m *Model) ValuesFor(p domain.Position) []int {
	set, ok := m.posVals[p]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Has reports whether (v,p) is still a legal pairing.
func (m *Model) Has(v int, p domain.Position) bool {
	set, ok := m.valuePos[v]
	return ok && set[p]
}

// IsEmpty reports whether p is an open, unfilled cell.
func (m *Model) IsEmpty(p domain.Position) bool {
	return m.grid.InBounds(p) && !m.grid.IsBlocked(p) && m.grid.ValueAt(p) == 0
}

// Neighbors returns p's open neighbors under the puzzle's adjacency rule,
// whether filled or not.
func (m *Model) Neighbors(p domain.Position) []domain.Position {
	return m.grid.Neighbors(m.adjacency, p)
}

// EmptyNeighborCount is the degree of p in the empty-cell graph.
func (m *Model) EmptyNeighborCount(p domain.Position) int {
	n := 0
	for _, q := range m.Neighbors(p) {
		if m.grid.ValueAt(q) == 0 {
			n++
		}
	}
	return n
}

// PlacedNeighborCount counts p's neighbors already holding a value.
func (m *Model) PlacedNeighborCount(p domain.Position) int {
	n := 0
	for _, q := range m.Neighbors(p) {
		if m.grid.ValueAt(q) != 0 {
			n++
		}
	}
	return n
}

// Assign places v at p: every other value loses p, every other value option
// of p disappears, and v/p leave the unplaced/empty books. The eliminated
// pairings are returned for tracing, in deterministic order. A placement that
// breaks the chain (a placed v-1 or v+1 not adjacent to p) contradicts the
// model instead of completing an invalid grid.
func (m *Model) Assign(v int, p domain.Position) []Pair {
	if m.contradicted {
		return nil
	}
	if set, ok := m.valuePos[v]; !ok || !set[p] {
		m.contradicted = true
		return nil
	}
	for _, w := range []int{v - 1, v + 1} {
		if q, ok := m.placed[w]; ok && !m.chainAdjacent(p, q) {
			m.contradicted = true
			return nil
		}
	}
	affected := make([]Pair, 0, 8)
	for _, w := range m.ValuesFor(p) {
		if w != v {
			affected = append(affected, Pair{Value: w, Position: p})
		}
	}
	for _, q := range m.Candidates(v) {
		if q != p {
			affected = append(affected, Pair{Value: v, Position: q})
		}
	}
	for _, pair := range affected {
		m.unlink(pair.Value, pair.Position)
	}
	delete(m.valuePos, v)
	delete(m.posVals, p)
	m.placed[v] = p
	m.grid.Values[p.Row][p.Col] = v
	m.checkEmptied(affected)
	return affected
}

// Eliminate removes the single pairing (v,p). Returns false when the pairing
// was already gone.
func (m *Model) Eliminate(v int, p domain.Position) bool {
	set, ok := m.valuePos[v]
	if !ok || !set[p] {
		return false
	}
	m.unlink(v, p)
	m.checkEmptied([]Pair{{Value: v, Position: p}})
	return true
}

func (m *Model) chainAdjacent(p, q domain.Position) bool {
	for _, n := range m.grid.Neighbors(m.adjacency, p) {
		if n == q {
			return true
		}
	}
	return false
}

func (m *Model) unlink(v int, p domain.Position) {
	if set, ok := m.valuePos[v]; ok {
		delete(set, p)
	}
	if set, ok := m.posVals[p]; ok {
		delete(set, v)
	}
}

func (m *Model) checkEmptied(pairs []Pair) {
	for _, pair := range pairs {
		if set, ok := m.valuePos[pair.Value]; ok && len(set) == 0 {
			m.contradicted = true
		}
		if set, ok := m.posVals[pair.Position]; ok && len(set) == 0 && m.mustFillAll {
			m.contradicted = true
		}
	}
}

// SingleCandidateValues returns unplaced values with exactly one legal
// position, ascending by value.
func (m *Model) SingleCandidateValues() []Pair {
	out := make([]Pair, 0, 4)
	for _, v := range m.Remaining() {
		if set := m.valuePos[v]; len(set) == 1 {
			for p := range set {
				out = append(out, Pair{Value: v, Position: p})
			}
		}
	}
	return out
}

// SingleCandidatePositions returns empty cells with exactly one legal value,
// in row-major order. Only meaningful when every open cell must be filled:
// with a shorter value span a one-value cell may simply stay empty, so no
// forced positions are reported then.
func (m *Model) SingleCandidatePositions() []Pair {
	if !m.mustFillAll {
		return nil
	}
	positions := make([]domain.Position, 0, len(m.posVals))
	for p, set := range m.posVals {
		if len(set) == 1 {
			positions = append(positions, p)
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Less(positions[j]) })
	out := make([]Pair, 0, len(positions))
	for _, p := range positions {
		for v := range m.posVals[p] {
			out = append(out, Pair{Value: v, Position: p})
		}
	}
	return out
}

// Grid returns a copy of the working grid (givens plus placements so far).
func (m *Model) Grid() domain.Grid { return m.grid.Clone() }

// AssignmentSignature canonically encodes the value→position assignment:
// one cell index per value in range, -1 for unassigned slots.
func (m *Model) AssignmentSignature() []int {
	sig := make([]int, m.maxValue-m.minValue+1)
	for i := range sig {
		sig[i] = -1
	}
	for v, p := range m.placed {
		sig[v-m.minValue] = p.Row*m.grid.Cols + p.Col
	}
	return sig
}
