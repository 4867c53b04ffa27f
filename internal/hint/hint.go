package hint

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"svw.info/hidato/internal/candidates"
	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/logic"
	"svw.info/hidato/internal/trace"
)

// ErrContradiction signals that the puzzle as given is structurally invalid
// (impossible adjacency, strangled clue). Distinct from "no forced move yet".
var ErrContradiction = errors.New("puzzle state is contradictory")

// Fixpoint implements ports.Hinter: it runs the logic engine only, never the
// search, and reports the first placement the fixpoint forced.
type Fixpoint struct {
	Log *logrus.Logger
}

// NewFixpoint wires a hinter. log may be nil.
func NewFixpoint(log *logrus.Logger) *Fixpoint { return &Fixpoint{Log: log} }

// Hint returns the first forced move, or ok=false when deduction alone finds
// none.
func (h *Fixpoint) Hint(_ context.Context, p *domain.Puzzle) (domain.Hint, bool, error) {
	strategies, err := logic.StrategySet("")
	if err != nil {
		return domain.Hint{}, false, err
	}
	m := candidates.InitFrom(p)
	if m.Contradicted() {
		return domain.Hint{}, false, ErrContradiction
	}
	tr := trace.New(nil)
	status := logic.Run(m, strategies, tr)
	if status == domain.StatusContradiction {
		return domain.Hint{}, false, ErrContradiction
	}
	entry, ok := tr.FirstAssignment()
	if !ok {
		return domain.Hint{}, false, nil
	}
	hint := domain.Hint{
		Position: entry.Position,
		Value:    entry.Value,
		Reason:   fmt.Sprintf("%s: %s", entry.Strategy, entry.Reason),
	}
	if h.Log != nil {
		h.Log.WithFields(logrus.Fields{
			"value": hint.Value,
			"row":   hint.Position.Row,
			"col":   hint.Position.Col,
		}).Debug("hint found")
	}
	return hint, true, nil
}
