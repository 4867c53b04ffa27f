package unique

import (
	"context"
	"errors"

	"github.com/crillab/gophersat/solver"
	"github.com/sirupsen/logrus"

	"svw.info/hidato/internal/domain"
)

// ErrUnsolvable reports that the SAT encoding has no model at all.
var ErrUnsolvable = errors.New("puzzle has no solution")

// SATResolver settles inconclusive uniqueness verdicts with an independent
// decision procedure: the puzzle is encoded to CNF, solved, the first model
// is blocked, and the formula is solved again. A second model means
// Non-Unique; unsatisfiability after blocking proves Unique.
type SATResolver struct {
	Log *logrus.Logger
}

// NewSATResolver wires the resolver. log may be nil.
func NewSATResolver(log *logrus.Logger) *SATResolver { return &SATResolver{Log: log} }

// Resolve implements ports.UniquenessResolver.
func (r *SATResolver) Resolve(ctx context.Context, p *domain.Puzzle) (domain.Verdict, error) {
	enc := newEncoding(p)
	clauses := enc.clauses()

	s := solver.New(solver.ParseSlice(clauses))
	if s.Solve() != solver.Sat {
		return domain.VerdictInconclusive, ErrUnsolvable
	}
	if err := ctx.Err(); err != nil {
		return domain.VerdictInconclusive, err
	}

	model := s.Model()
	blocking := make([]int, 0, enc.span)
	for i, val := range model {
		if val {
			blocking = append(blocking, -(i + 1))
		}
	}
	clauses = append(clauses, blocking)

	second := solver.New(solver.ParseSlice(clauses))
	verdict := domain.VerdictUnique
	if second.Solve() == solver.Sat {
		verdict = domain.VerdictNonUnique
	}
	if r.Log != nil {
		r.Log.WithFields(logrus.Fields{
			"verdict": verdict.String(),
			"vars":    enc.vars(),
			"clauses": len(clauses),
		}).Debug("sat resolver decided")
	}
	return verdict, nil
}

// encoding maps (value, open cell) pairs to 1-based CNF variables.
type encoding struct {
	puz      *domain.Puzzle
	cells    []domain.Position
	cellIdx  map[domain.Position]int
	span     int
	minValue int
}

func newEncoding(p *domain.Puzzle) *encoding {
	e := &encoding{
		puz:      p,
		cellIdx:  make(map[domain.Position]int),
		span:     p.Span(),
		minValue: p.MinValue,
	}
	for row := 0; row < p.Grid.Rows; row++ {
		for col := 0; col < p.Grid.Cols; col++ {
			pos := domain.Position{Row: row, Col: col}
			if p.Grid.IsBlocked(pos) {
				continue
			}
			e.cellIdx[pos] = len(e.cells)
			e.cells = append(e.cells, pos)
		}
	}
	return e
}

func (e *encoding) vars() int { return e.span * len(e.cells) }

func (e *encoding) lit(v int, cell int) int {
	return (v-e.minValue)*len(e.cells) + cell + 1
}

func (e *encoding) clauses() [][]int {
	var out [][]int

	// Prefilled cells (givens and earlier placements) are unit clauses.
	for ci, pos := range e.cells {
		if v := e.puz.Grid.ValueAt(pos); v != 0 {
			out = append(out, []int{e.lit(v, ci)})
		}
	}

	// Each value occupies exactly one cell.
	for v := e.puz.MinValue; v <= e.puz.MaxValue; v++ {
		atLeast := make([]int, len(e.cells))
		for ci := range e.cells {
			atLeast[ci] = e.lit(v, ci)
		}
		out = append(out, atLeast)
		for a := 0; a < len(e.cells); a++ {
			for b := a + 1; b < len(e.cells); b++ {
				out = append(out, []int{-e.lit(v, a), -e.lit(v, b)})
			}
		}
	}

	// Each cell takes at most one value; exactly one when the span covers
	// every open cell.
	fillAll := e.span == len(e.cells)
	for ci := range e.cells {
		if fillAll {
			atLeast := make([]int, e.span)
			for v := e.puz.MinValue; v <= e.puz.MaxValue; v++ {
				atLeast[v-e.minValue] = e.lit(v, ci)
			}
			out = append(out, atLeast)
		}
		for v := e.puz.MinValue; v <= e.puz.MaxValue; v++ {
			for w := v + 1; w <= e.puz.MaxValue; w++ {
				out = append(out, []int{-e.lit(v, ci), -e.lit(w, ci)})
			}
		}
	}

	// Chain adjacency: value v at a cell forces v+1 onto a neighbor.
	for v := e.puz.MinValue; v < e.puz.MaxValue; v++ {
		for ci, pos := range e.cells {
			clause := []int{-e.lit(v, ci)}
			for _, q := range e.puz.Grid.Neighbors(e.puz.Adjacency, pos) {
				if qi, ok := e.cellIdx[q]; ok {
					clause = append(clause, e.lit(v+1, qi))
				}
			}
			out = append(out, clause)
		}
	}
	return out
}
