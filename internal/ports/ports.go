package ports

import (
	"context"
	"time"

	"svw.info/hidato/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Depth    int
	Duration time.Duration
}

// Solver runs the deduction/search pipeline on a private copy of the puzzle.
type Solver interface {
	Solve(ctx context.Context, p *domain.Puzzle, cfg domain.SolveConfig) (*domain.Result, Stats, error)
	// CountSolutions enumerates distinct solutions, early-exiting at cap.
	CountSolutions(ctx context.Context, p *domain.Puzzle, cap int, cfg domain.SolveConfig) (int, Stats, error)
}

// Hinter returns the first forced move found by pure deduction.
type Hinter interface {
	Hint(ctx context.Context, p *domain.Puzzle) (domain.Hint, bool, error)
}

// UniquenessChecker classifies a puzzle as unique, non-unique or inconclusive.
type UniquenessChecker interface {
	Check(ctx context.Context, p *domain.Puzzle, cfg domain.ProbeConfig) (*domain.UniquenessReport, Stats, error)
}

// UniquenessResolver is an optional independent decision procedure (e.g. a
// SAT solver) consulted when probing ends inconclusive.
type UniquenessResolver interface {
	Resolve(ctx context.Context, p *domain.Puzzle) (domain.Verdict, error)
}

// Validator performs structural input checks before any engine state exists.
type Validator interface {
	Validate(ctx context.Context, p *domain.Puzzle) (ok bool, issues []domain.Issue, err error)
}

// Storage persists and retrieves puzzles as JSON. Driver-side concern only.
type Storage interface {
	Save(ctx context.Context, p *domain.StoredPuzzle) error
	Load(ctx context.Context, id string) (*domain.StoredPuzzle, error)
	List(ctx context.Context) ([]domain.PuzzleMeta, error)
}
