package domain

import "time"

// SolveMode chooses between pure deduction and bounded search.
type SolveMode int

const (
	ModeLogicOnly SolveMode = iota
	ModeSearch
)

func (m SolveMode) String() string {
	if m == ModeLogicOnly {
		return "logic"
	}
	return "search"
}

// Ordering names for SolveConfig.Ordering.
const (
	OrderingDefault = "default"
	OrderingSeeded  = "seeded"
)

// SolveConfig carries the knobs of one solve/search invocation.
type SolveConfig struct {
	Mode SolveMode `json:"mode"`

	// Logic names the registered strategy set (logic_v0..logic_v3).
	Logic string `json:"logic,omitempty"`

	// Ordering names the tie-break strategy for search.
	Ordering string `json:"ordering,omitempty"`

	Seed      int64         `json:"seed,omitempty"`
	MaxNodes  int           `json:"maxNodes,omitempty"`
	MaxDepth  int           `json:"maxDepth,omitempty"`
	Timeout   time.Duration `json:"-"`
	TimeoutMs int64         `json:"timeoutMs,omitempty"`

	// MaxSolutions stops the search after this many distinct solutions
	// (0 means 1). The uniqueness prober runs with 2.
	MaxSolutions int `json:"maxSolutions,omitempty"`

	// Transposition enables the bounded memo table for repeated states.
	Transposition bool `json:"transposition,omitempty"`
}

// DefaultSolveConfig returns the standard bounded-search configuration.
func DefaultSolveConfig() SolveConfig {
	return SolveConfig{
		Mode:         ModeSearch,
		Logic:        "logic_v3",
		Ordering:     OrderingDefault,
		MaxNodes:     200000,
		MaxDepth:     0, // 0 means unlimited
		Timeout:      2 * time.Second,
		MaxSolutions: 1,
	}
}

// EffectiveTimeout resolves the duration from either field.
func (c SolveConfig) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	if c.TimeoutMs > 0 {
		return time.Duration(c.TimeoutMs) * time.Millisecond
	}
	return 0
}

// ProbeConfig carries uniqueness-probe settings. Zero fields fall back to the
// size tier derived from the puzzle's cell count.
type ProbeConfig struct {
	Seed      int64         `json:"seed,omitempty"`
	Probes    int           `json:"probes,omitempty"`
	MaxNodes  int           `json:"maxNodes,omitempty"`
	Timeout   time.Duration `json:"-"`
	TimeoutMs int64         `json:"timeoutMs,omitempty"`
}
