package validator

import (
	"context"
	"fmt"

	"svw.info/hidato/internal/domain"
)

// Structural rejects malformed puzzles before any engine state is built:
// bad dimensions, out-of-range or duplicate values, clues on blocked cells.
// Logical solvability is the engine's business, not the validator's.
type Structural struct{}

func New() *Structural { return &Structural{} }

func (s *Structural) Validate(_ context.Context, p *domain.Puzzle) (bool, []domain.Issue, error) {
	issues := make([]domain.Issue, 0, 4)
	add := func(pos *domain.Position, format string, args ...any) {
		issues = append(issues, domain.Issue{Position: pos, Message: fmt.Sprintf(format, args...)})
	}

	g := &p.Grid
	if g.Rows < 1 || g.Cols < 1 {
		add(nil, "grid must be at least 1x1, got %dx%d", g.Rows, g.Cols)
		return false, issues, nil
	}
	if len(g.Values) != g.Rows {
		add(nil, "values has %d rows, want %d", len(g.Values), g.Rows)
		return false, issues, nil
	}
	for r, row := range g.Values {
		if len(row) != g.Cols {
			add(nil, "values row %d has %d cols, want %d", r, len(row), g.Cols)
			return false, issues, nil
		}
	}
	if g.Given != nil {
		if len(g.Given) != g.Rows {
			add(nil, "given mask has %d rows, want %d", len(g.Given), g.Rows)
			return false, issues, nil
		}
		for r, row := range g.Given {
			if len(row) != g.Cols {
				add(nil, "given mask row %d has %d cols, want %d", r, len(row), g.Cols)
				return false, issues, nil
			}
		}
	}
	if g.Blocked != nil {
		if len(g.Blocked) != g.Rows {
			add(nil, "blocked mask has %d rows, want %d", len(g.Blocked), g.Rows)
			return false, issues, nil
		}
		for r, row := range g.Blocked {
			if len(row) != g.Cols {
				add(nil, "blocked mask row %d has %d cols, want %d", r, len(row), g.Cols)
				return false, issues, nil
			}
		}
	}

	if p.MinValue > p.MaxValue {
		add(nil, "min value %d exceeds max value %d", p.MinValue, p.MaxValue)
	}
	if open := g.OpenCellCount(); p.Span() > open {
		add(nil, "value span %d exceeds %d open cells", p.Span(), open)
	}

	seen := make(map[int]domain.Position)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			pos := domain.Position{Row: r, Col: c}
			v := g.Values[r][c]
			switch {
			case g.IsBlocked(pos) && v != 0:
				pp := pos
				add(&pp, "blocked cell holds value %d", v)
			case g.IsGiven(pos) && v == 0:
				pp := pos
				add(&pp, "given flag on empty cell")
			case v != 0 && (v < p.MinValue || v > p.MaxValue):
				pp := pos
				add(&pp, "value %d outside range [%d,%d]", v, p.MinValue, p.MaxValue)
			case v != 0:
				if prev, dup := seen[v]; dup {
					pp := pos
					add(&pp, "value %d duplicated, already at (%d,%d)", v, prev.Row, prev.Col)
				} else {
					seen[v] = pos
				}
			}
		}
	}
	return len(issues) == 0, issues, nil
}
