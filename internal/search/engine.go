package search

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/logic"
	"svw.info/hidato/internal/ports"
	"svw.info/hidato/internal/trace"
)

// Engine is the ports.Solver implementation: logic fixpoint first, bounded
// backtracking only when permitted and needed. It never mutates the caller's
// puzzle; all state lives in a per-call candidate model copy.
type Engine struct {
	Log *logrus.Logger
}

// NewEngine wires a solver. log may be nil.
func NewEngine(log *logrus.Logger) *Engine { return &Engine{Log: log} }

func (e *Engine) logger() logrus.FieldLogger {
	if e.Log != nil {
		return e.Log
	}
	return nil
}

// Solve runs the fixpoint, then the search if needed, and reports a status,
// the solution when one was found, and the deduction trace.
func (e *Engine) Solve(ctx context.Context, p *domain.Puzzle, cfg domain.SolveConfig) (*domain.Result, ports.Stats, error) {
	start := time.Now()
	strategies, err := logic.StrategySet(cfg.Logic)
	if err != nil {
		return nil, ports.Stats{}, err
	}

	tr := trace.New(e.logger())
	m := candidates.InitFrom(p)
	if m.Contradicted() {
		return &domain.Result{Status: domain.StatusContradiction, Trace: tr.Entries()},
			ports.Stats{Duration: time.Since(start)}, nil
	}

	status := logic.Run(m, strategies, tr)
	if status == domain.StatusSolved {
		g := m.Grid()
		return &domain.Result{Status: status, Solution: &g, Trace: tr.Entries()},
			ports.Stats{Duration: time.Since(start)}, nil
	}
	if status == domain.StatusContradiction || cfg.Mode == domain.ModeLogicOnly {
		return &domain.Result{Status: status, Trace: tr.Entries()},
			ports.Stats{Duration: time.Since(start)}, nil
	}

	s := NewSearcher(cfg, strategies, nil)
	status, _ = s.Run(ctx, m)
	stats := ports.Stats{Nodes: s.Nodes(), Depth: s.MaxDepthSeen(), Duration: time.Since(start)}
	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{
			"status": status.String(),
			"nodes":  stats.Nodes,
			"depth":  stats.Depth,
			"dur":    stats.Duration.Round(time.Microsecond),
		}).Debug("search finished")
	}
	res := &domain.Result{Status: status, Trace: tr.Entries()}
	if status == domain.StatusSolved {
		sol := s.Solutions()[0]
		res.Solution = &sol
	}
	return res, stats, nil
}

// CountSolutions enumerates distinct solutions, stopping at cap. A count
// below cap is only a proof when the search space was exhausted; callers
// needing that distinction use the prober.
func (e *Engine) CountSolutions(ctx context.Context, p *domain.Puzzle, cap int, cfg domain.SolveConfig) (int, ports.Stats, error) {
	start := time.Now()
	if cap <= 0 {
		cap = 1
	}
	strategies, err := logic.StrategySet(cfg.Logic)
	if err != nil {
		return 0, ports.Stats{}, err
	}
	m := candidates.InitFrom(p)
	if m.Contradicted() {
		return 0, ports.Stats{Duration: time.Since(start)}, nil
	}
	cfg.Mode = domain.ModeSearch
	cfg.MaxSolutions = cap
	s := NewSearcher(cfg, strategies, nil)
	_, _ = s.Run(ctx, m)
	return len(s.Solutions()), ports.Stats{Nodes: s.Nodes(), Depth: s.MaxDepthSeen(), Duration: time.Since(start)}, nil
}
