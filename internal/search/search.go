// Package search implements the bounded backtracking engine. It only runs
// after the logic fixpoint reports stuck, re-invokes the fixpoint at every
// node, and enforces node/depth/time budgets cooperatively before each
// expansion, so the worst-case overrun is one node's work.
package search

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/logic"
	"svw.info/hidato/internal/trace"
)

const defaultTableEntries = 1 << 16

type outcome int

// outExhausted: subtree fully explored. outCapReached: enough distinct
// solutions collected. outBudget: a budget tripped; abort the whole search.
const (
	outExhausted outcome = iota
	outCapReached
	outBudget
)

// Searcher runs one bounded backtracking search. Not reusable across calls.
type Searcher struct {
	cfg        domain.SolveConfig
	strategies []logic.Strategy
	tr         *trace.Recorder
	table      *Table
	rng        *rand.Rand

	maxSolutions int
	deadline     time.Time
	hasDeadline  bool

	nodes     int
	depthSeen int
	limit     domain.SolveStatus

	solutions []domain.Grid
	hashes    map[uint64]bool
	seenOrder []uint64
}

// NewSearcher prepares a search with the given config and strategy set. tr
// may be nil; branch-level deductions are not usually worth tracing.
func NewSearcher(cfg domain.SolveConfig, strategies []logic.Strategy, tr *trace.Recorder) *Searcher {
	s := &Searcher{
		cfg:          cfg,
		strategies:   strategies,
		tr:           tr,
		maxSolutions: cfg.MaxSolutions,
		hashes:       make(map[uint64]bool),
	}
	if s.maxSolutions <= 0 {
		s.maxSolutions = 1
	}
	if cfg.Ordering == domain.OrderingSeeded {
		s.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return s
}

// Nodes reports how many nodes were expanded.
func (s *Searcher) Nodes() int { return s.nodes }

// MaxDepthSeen reports the deepest expansion reached.
func (s *Searcher) MaxDepthSeen() int { return s.depthSeen }

// Solutions returns the distinct solutions found, in discovery order.
func (s *Searcher) Solutions() []domain.Grid { return s.solutions }

// SolutionHash returns the fingerprint of the i-th distinct solution.
func (s *Searcher) SolutionHash(i int) uint64 {
	if i < 0 || i >= len(s.seenOrder) {
		return 0
	}
	return s.seenOrder[i]
}

// Run explores from m. The second return reports whether the search space
// was fully exhausted (true only when no budget interrupted it and the
// solution cap was not the reason for stopping).
func (s *Searcher) Run(ctx context.Context, m *candidates.Model) (domain.SolveStatus, bool) {
	if s.cfg.Transposition && s.table == nil {
		span := m.MaxValue() - m.MinValue() + 1
		g := m.Grid()
		s.table = NewTable(span, g.Rows*g.Cols, defaultTableEntries)
	}
	if timeout := s.cfg.EffectiveTimeout(); timeout > 0 {
		s.deadline = time.Now().Add(timeout)
		s.hasDeadline = true
	}
	switch s.search(ctx, m, 0) {
	case outBudget:
		return s.limit, false
	case outCapReached:
		return domain.StatusSolved, false
	default:
		if len(s.solutions) > 0 {
			return domain.StatusSolved, true
		}
		return domain.StatusUnsolvable, true
	}
}

func (s *Searcher) search(ctx context.Context, m *candidates.Model, depth int) outcome {
	switch logic.Run(m, s.strategies, s.tr) {
	case domain.StatusContradiction:
		return outExhausted
	case domain.StatusSolved:
		if s.recordSolution(m) && len(s.solutions) >= s.maxSolutions {
			return outCapReached
		}
		return outExhausted
	}

	var key uint64
	if s.table != nil {
		key = s.table.Hash(m.AssignmentSignature())
		if s.table.KnownDead(key) {
			return outExhausted
		}
	}
	solBefore := len(s.solutions)

	v, ok := s.pickValue(m)
	if !ok {
		return outExhausted
	}
	for _, p := range s.orderPositions(m, v) {
		if st, tripped := s.budgetCheck(ctx, depth); tripped {
			s.limit = st
			return outBudget
		}
		s.nodes++
		if depth+1 > s.depthSeen {
			s.depthSeen = depth + 1
		}
		child := m.Clone()
		child.Assign(v, p)
		if out := s.search(ctx, child, depth+1); out != outExhausted {
			return out
		}
	}

	if s.table != nil && len(s.solutions) == solBefore {
		s.table.MarkDead(key)
	}
	return outExhausted
}

// budgetCheck gates a node expansion. Budgets are primarily node counts so
// results are machine-speed independent; the wall clock is a safety valve
// that can only end an attempt earlier, never change which solution a
// within-budget run finds.
func (s *Searcher) budgetCheck(ctx context.Context, depth int) (domain.SolveStatus, bool) {
	if ctx.Err() != nil {
		return domain.StatusTimeout, true
	}
	if s.hasDeadline && time.Now().After(s.deadline) {
		return domain.StatusTimeout, true
	}
	if s.cfg.MaxNodes > 0 && s.nodes >= s.cfg.MaxNodes {
		return domain.StatusNodeLimit, true
	}
	if s.cfg.MaxDepth > 0 && depth >= s.cfg.MaxDepth {
		return domain.StatusDepthLimit, true
	}
	return domain.StatusSolved, false
}

// pickValue implements MRV: the unplaced value with the fewest candidate
// positions, ties broken by ascending value.
func (s *Searcher) pickValue(m *candidates.Model) (int, bool) {
	best, bestCount := 0, -1
	for _, v := range m.Remaining() {
		n := m.CandidateCount(v)
		if bestCount < 0 || n < bestCount {
			best, bestCount = v, n
		}
	}
	return best, bestCount >= 0
}

// orderPositions implements LCV with frontier bias: positions keeping more
// empty neighbors open and touching more of the built chain come first. Ties
// fall back to row-major order, or to the probe's seeded permutation.
func (s *Searcher) orderPositions(m *candidates.Model, v int) []domain.Position {
	cands := m.Candidates(v)
	scores := make(map[domain.Position]int, len(cands))
	for _, p := range cands {
		scores[p] = m.EmptyNeighborCount(p) + m.PlacedNeighborCount(p)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		si, sj := scores[cands[i]], scores[cands[j]]
		if si != sj {
			return si > sj
		}
		return cands[i].Less(cands[j])
	})
	if s.rng != nil {
		shuffleTies(cands, scores, s.rng)
	}
	return cands
}

// shuffleTies permutes each equal-score group with the probe's seeded
// generator, giving every probe a distinct but reproducible tie-break order.
func shuffleTies(cands []domain.Position, scores map[domain.Position]int, rng *rand.Rand) {
	i := 0
	for i < len(cands) {
		j := i + 1
		for j < len(cands) && scores[cands[j]] == scores[cands[i]] {
			j++
		}
		if j-i > 1 {
			group := cands[i:j]
			rng.Shuffle(len(group), func(a, b int) { group[a], group[b] = group[b], group[a] })
		}
		i = j
	}
}

// recordSolution dedupes by grid fingerprint: two search paths can reach the
// same completed assignment, which must count once.
func (s *Searcher) recordSolution(m *candidates.Model) bool {
	g := m.Grid()
	h := g.Hash()
	if s.hashes[h] {
		return false
	}
	s.hashes[h] = true
	s.seenOrder = append(s.seenOrder, h)
	s.solutions = append(s.solutions, g)
	return true
}
