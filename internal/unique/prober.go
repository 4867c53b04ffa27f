// Package unique classifies a puzzle as Unique, Non-Unique or Inconclusive
// by running the shared solve pipeline in anti-branch mode: the search does
// not stop at the first solution but hunts for a second one. Several probes
// with distinct seeded tie-break permutations are aggregated; evidence, not
// luck, decides the verdict.
package unique

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/logic"
	"svw.info/hidato/internal/ports"
	"svw.info/hidato/internal/search"
)

// probeSeedStride spreads probe indices across the seed space (64-bit golden
// ratio) so successive probes draw unrelated permutations.
const probeSeedStride uint64 = 0x9E3779B97F4A7C15

type tier struct {
	probes   int
	maxNodes int
	timeout  time.Duration
}

// tierFor sizes probe budgets by open-cell count.
func tierFor(cells int) tier {
	switch {
	case cells <= 25:
		return tier{probes: 2, maxNodes: 20000, timeout: 250 * time.Millisecond}
	case cells <= 64:
		return tier{probes: 3, maxNodes: 60000, timeout: 750 * time.Millisecond}
	case cells <= 100:
		return tier{probes: 3, maxNodes: 150000, timeout: 1500 * time.Millisecond}
	default:
		return tier{probes: 3, maxNodes: 400000, timeout: 4 * time.Second}
	}
}

// Prober implements ports.UniquenessChecker. An optional Resolver (e.g. the
// SAT resolver) is consulted only when probing ends inconclusive.
type Prober struct {
	Log      *logrus.Logger
	Resolver ports.UniquenessResolver
}

// NewProber wires a prober. log may be nil.
func NewProber(log *logrus.Logger) *Prober { return &Prober{Log: log} }

// WithResolver registers an independent uniqueness decision procedure.
func (pr *Prober) WithResolver(r ports.UniquenessResolver) *Prober {
	pr.Resolver = r
	return pr
}

// Check runs the size-tiered multi-probe protocol. The caller's puzzle is
// never mutated; every probe builds its own model copy.
func (pr *Prober) Check(ctx context.Context, p *domain.Puzzle, cfg domain.ProbeConfig) (*domain.UniquenessReport, ports.Stats, error) {
	start := time.Now()
	strategies, err := logic.StrategySet("")
	if err != nil {
		return nil, ports.Stats{}, err
	}

	t := tierFor(p.Grid.OpenCellCount())
	if cfg.Probes > 0 {
		t.probes = cfg.Probes
	}
	if cfg.MaxNodes > 0 {
		t.maxNodes = cfg.MaxNodes
	}
	if d := cfg.Timeout; d > 0 {
		t.timeout = d
	} else if cfg.TimeoutMs > 0 {
		t.timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}

	report := &domain.UniquenessReport{Verdict: domain.VerdictInconclusive}
	stats := ports.Stats{}
	finish := func() (*domain.UniquenessReport, ports.Stats, error) {
		stats.Duration = time.Since(start)
		if pr.Log != nil {
			pr.Log.WithFields(logrus.Fields{
				"verdict":  report.Verdict.String(),
				"probes":   len(report.Probes),
				"extended": report.ExtendedUsed,
				"resolver": report.ResolverUsed,
				"nodes":    stats.Nodes,
			}).Debug("uniqueness check finished")
		}
		return report, stats, nil
	}

	inconclusive := false
	for i := 0; i < t.probes; i++ {
		out := pr.probe(ctx, p, strategies, cfg.Seed, i, t.maxNodes, t.timeout)
		report.Probes = append(report.Probes, out)
		stats.Nodes += out.Nodes
		switch {
		case out.Class == domain.ProbeSecondFound:
			// One counterexample settles it; remaining probes are moot.
			report.Verdict = domain.VerdictNonUnique
			return finish()
		case out.Class == domain.ProbeExhausted && out.Solutions == 0:
			report.Unsolvable = true
			return finish()
		case out.Class != domain.ProbeExhausted:
			inconclusive = true
		}
	}

	if !inconclusive {
		report.Verdict = domain.VerdictUnique
		return finish()
	}

	// One extended attempt at 150% budgets before giving up.
	report.ExtendedUsed = true
	out := pr.probe(ctx, p, strategies, cfg.Seed, t.probes, t.maxNodes*3/2, t.timeout*3/2)
	report.Probes = append(report.Probes, out)
	stats.Nodes += out.Nodes
	switch {
	case out.Class == domain.ProbeSecondFound:
		report.Verdict = domain.VerdictNonUnique
		return finish()
	case out.Class == domain.ProbeExhausted && out.Solutions == 1:
		report.Verdict = domain.VerdictUnique
		return finish()
	case out.Class == domain.ProbeExhausted:
		report.Unsolvable = true
		return finish()
	}

	if pr.Resolver != nil {
		v, rerr := pr.Resolver.Resolve(ctx, p)
		if rerr == nil && v != domain.VerdictInconclusive {
			report.Verdict = v
			report.ResolverUsed = true
		} else if pr.Log != nil && rerr != nil {
			pr.Log.WithField("err", rerr).Warn("uniqueness resolver failed")
		}
	}
	return finish()
}

// probe runs one anti-branch attempt: a cheap fixpoint pre-check, then a
// cap-2 search with this probe's tie-break permutation.
func (pr *Prober) probe(ctx context.Context, p *domain.Puzzle, strategies []logic.Strategy, seed int64, idx int, maxNodes int, timeout time.Duration) domain.ProbeOutcome {
	start := time.Now()
	out := domain.ProbeOutcome{Permutation: idx}

	m := candidates.InitFrom(p)
	if m.Contradicted() {
		out.Class = domain.ProbeExhausted
		out.ElapsedMs = time.Since(start).Milliseconds()
		return out
	}
	pre := m.Clone()
	if logic.Run(pre, strategies, nil) == domain.StatusContradiction {
		out.Class = domain.ProbeExhausted
		out.ElapsedMs = time.Since(start).Milliseconds()
		return out
	}

	cfg := domain.SolveConfig{
		Mode:         domain.ModeSearch,
		Ordering:     domain.OrderingSeeded,
		Seed:         int64(uint64(seed) + uint64(idx)*probeSeedStride),
		MaxNodes:     maxNodes,
		Timeout:      timeout,
		MaxSolutions: 2,
	}
	s := search.NewSearcher(cfg, strategies, nil)
	_, exhausted := s.Run(ctx, m)
	sols := s.Solutions()

	out.Nodes = s.Nodes()
	out.Solutions = len(sols)
	out.ElapsedMs = time.Since(start).Milliseconds()
	switch {
	case len(sols) >= 2:
		out.Class = domain.ProbeSecondFound
		out.SecondHash = s.SolutionHash(1)
	case exhausted:
		out.Class = domain.ProbeExhausted
	case len(sols) == 1:
		// A solution exists but the budget ran out before the space was
		// swept for a second one.
		out.Class = domain.ProbeTimeout
	default:
		out.Class = domain.ProbeUnknown
	}
	return out
}
