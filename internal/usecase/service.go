package usecase

import (
	"context"
	"errors"
	"fmt"

	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/ports"
)

// Service is the facade callers talk to: validation in front of every engine
// entry point, nil-guarded dependencies behind it.
type Service struct {
	Solver    ports.Solver
	Hinter    ports.Hinter
	Unique    ports.UniquenessChecker
	Validator ports.Validator
	Storage   ports.Storage
}

func NewService(s ports.Solver, h ports.Hinter, u ports.UniquenessChecker, v ports.Validator, st ports.Storage) *Service {
	return &Service{Solver: s, Hinter: h, Unique: u, Validator: v, Storage: st}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// InvalidPuzzleError carries the structural findings that rejected a puzzle.
type InvalidPuzzleError struct {
	Issues []domain.Issue
}

func (e *InvalidPuzzleError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid puzzle"
	}
	return fmt.Sprintf("invalid puzzle: %s (%d issues)", e.Issues[0].Message, len(e.Issues))
}

func (u *Service) checkInput(ctx context.Context, p *domain.Puzzle) error {
	if u.Validator == nil {
		return nil
	}
	ok, issues, err := u.Validator.Validate(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return &InvalidPuzzleError{Issues: issues}
	}
	return nil
}

func (u *Service) Solve(ctx context.Context, p *domain.Puzzle, cfg domain.SolveConfig) (*domain.Result, ports.Stats, error) {
	if u.Solver == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	if err := u.checkInput(ctx, p); err != nil {
		return nil, ports.Stats{}, err
	}
	return u.Solver.Solve(ctx, p, cfg)
}

func (u *Service) CountSolutions(ctx context.Context, p *domain.Puzzle, cap int, cfg domain.SolveConfig) (int, ports.Stats, error) {
	if u.Solver == nil {
		return 0, ports.Stats{}, errNotConfigured
	}
	if err := u.checkInput(ctx, p); err != nil {
		return 0, ports.Stats{}, err
	}
	return u.Solver.CountSolutions(ctx, p, cap, cfg)
}

func (u *Service) Hint(ctx context.Context, p *domain.Puzzle) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	if err := u.checkInput(ctx, p); err != nil {
		return domain.Hint{}, false, err
	}
	return u.Hinter.Hint(ctx, p)
}

func (u *Service) CheckUniqueness(ctx context.Context, p *domain.Puzzle, cfg domain.ProbeConfig) (*domain.UniquenessReport, ports.Stats, error) {
	if u.Unique == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	if err := u.checkInput(ctx, p); err != nil {
		return nil, ports.Stats{}, err
	}
	return u.Unique.Check(ctx, p, cfg)
}

func (u *Service) Validate(ctx context.Context, p *domain.Puzzle) (bool, []domain.Issue, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, p)
}

// Persistence (driver-side only; the engine never touches storage)
func (u *Service) Save(ctx context.Context, p *domain.StoredPuzzle) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	return u.Storage.Save(ctx, p)
}

func (u *Service) Load(ctx context.Context, id string) (*domain.StoredPuzzle, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
