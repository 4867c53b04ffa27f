// Package trace records every elimination and placement the engine makes so
// hints and tests can explain *why* a deduction happened, not just that it
// did. Entries are mirrored to a structured logger at debug level.
package trace

import (
	"github.com/sirupsen/logrus"

	"svw.info/hidato/internal/domain"
)

// Recorder accumulates an ordered deduction trace. A nil *Recorder is valid
// and discards everything, so hot search paths can skip recording without
// branching at every call site.
type Recorder struct {
	entries []domain.TraceEntry
	log     logrus.FieldLogger
}

// New returns a Recorder mirroring entries to log. log may be nil.
func New(log logrus.FieldLogger) *Recorder {
	return &Recorder{entries: make([]domain.TraceEntry, 0, 64), log: log}
}

// Add appends one entry.
func (r *Recorder) Add(e domain.TraceEntry) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, e)
	if r.log != nil {
		r.log.WithFields(logrus.Fields{
			"strategy": e.Strategy,
			"kind":     e.Kind,
			"value":    e.Value,
			"row":      e.Position.Row,
			"col":      e.Position.Col,
			"before":   e.Before,
			"after":    e.After,
		}).Debug(e.Reason)
	}
}

// Entries returns the recorded sequence in order.
func (r *Recorder) Entries() []domain.TraceEntry {
	if r == nil {
		return nil
	}
	return r.entries
}

// Len reports the number of recorded entries.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// FirstAssignment returns the first placement in the trace, if any.
func (r *Recorder) FirstAssignment() (domain.TraceEntry, bool) {
	if r == nil {
		return domain.TraceEntry{}, false
	}
	for _, e := range r.entries {
		if e.Kind == domain.TraceAssign {
			return e, true
		}
	}
	return domain.TraceEntry{}, false
}
