// Package logic implements the deterministic deduction engine: a fixed
// priority list of strategies iterated to a fixed point. No guessing happens
// here; anything the fixpoint cannot settle is left to the search engine.
package logic

import (
	"fmt"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/trace"
)

// Strategy is one deduction rule. Apply returns the number of assignments
// and eliminations it performed.
type Strategy struct {
	Name  string
	Apply func(m *candidates.Model, tr *trace.Recorder) int
}

// DefaultMode is the full strategy set.
const DefaultMode = "logic_v3"

var modes = map[string][]Strategy{}

func init() {
	singles := Strategy{Name: "naked_single", Apply: applySingles}
	degree := Strategy{Name: "degree", Apply: applyDegree}
	corridor := Strategy{Name: "corridor", Apply: applyCorridor}
	region := Strategy{Name: "region", Apply: applyRegion}
	RegisterMode("logic_v0", []Strategy{singles})
	RegisterMode("logic_v1", []Strategy{singles, degree})
	RegisterMode("logic_v2", []Strategy{singles, degree, corridor})
	RegisterMode(DefaultMode, []Strategy{singles, degree, corridor, region})
}

// RegisterMode installs (or replaces) a named strategy set. New solving modes
// register here without touching any call site.
func RegisterMode(name string, set []Strategy) { modes[name] = set }

// StrategySet resolves a mode name; the empty name means DefaultMode.
func StrategySet(name string) ([]Strategy, error) {
	if name == "" {
		name = DefaultMode
	}
	set, ok := modes[name]
	if !ok {
		return nil, fmt.Errorf("unknown logic mode %q", name)
	}
	return set, nil
}

// Run applies the strategy set in order until a full pass changes nothing.
// Returns StatusSolved, StatusStuck, or StatusContradiction.
func Run(m *candidates.Model, set []Strategy, tr *trace.Recorder) domain.SolveStatus {
	for {
		if m.Contradicted() {
			return domain.StatusContradiction
		}
		if m.Solved() {
			return domain.StatusSolved
		}
		changes := 0
		for _, s := range set {
			changes += s.Apply(m, tr)
			if m.Contradicted() {
				return domain.StatusContradiction
			}
			if m.Solved() {
				return domain.StatusSolved
			}
		}
		if changes == 0 {
			return domain.StatusStuck
		}
	}
}

// applySingles places every forced move: a value with one legal position, or
// a position with one legal value. Re-derived after each placement so chains
// of singles resolve in a single call.
func applySingles(m *candidates.Model, tr *trace.Recorder) int {
	total := 0
	for {
		var pair candidates.Pair
		reason := ""
		if forced := m.SingleCandidateValues(); len(forced) > 0 {
			pair = forced[0]
			reason = fmt.Sprintf("only cell left for %d", pair.Value)
		} else if forced := m.SingleCandidatePositions(); len(forced) > 0 {
			pair = forced[0]
			reason = fmt.Sprintf("only value left for (%d,%d)", pair.Position.Row, pair.Position.Col)
		} else {
			return total
		}
		before := m.CandidateCount(pair.Value)
		affected := m.Assign(pair.Value, pair.Position)
		tr.Add(domain.TraceEntry{
			Strategy: "naked_single",
			Kind:     domain.TraceAssign,
			Value:    pair.Value,
			Position: pair.Position,
			Reason:   reason,
			Before:   before,
			After:    1,
		})
		for _, knocked := range affected {
			tr.Add(domain.TraceEntry{
				Strategy: "naked_single",
				Kind:     domain.TraceEliminate,
				Value:    knocked.Value,
				Position: knocked.Position,
				Reason:   fmt.Sprintf("displaced by %d at (%d,%d)", pair.Value, pair.Position.Row, pair.Position.Col),
				Before:   m.CandidateCount(knocked.Value) + 1,
				After:    m.CandidateCount(knocked.Value),
			})
		}
		total++
		if m.Contradicted() {
			return total
		}
	}
}
