package domain

// Adjacency selects the neighbor rule for consecutive values.
type Adjacency int

const (
	// AdjacencyOrthogonal links a cell to its 4 edge neighbors.
	AdjacencyOrthogonal Adjacency = iota
	// AdjacencyKing links a cell to all 8 surrounding cells.
	AdjacencyKing
)

var (
	orthoOffsets = []Position{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
	kingOffsets  = []Position{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// Offsets returns the neighbor offsets of the rule. Pure: the result depends
// only on the rule, never on grid contents.
func (a Adjacency) Offsets() []Position {
	if a == AdjacencyKing {
		return kingOffsets
	}
	return orthoOffsets
}

func (a Adjacency) String() string {
	if a == AdjacencyKing {
		return "king"
	}
	return "orthogonal"
}

// SolveStatus is the outcome of a solve or search run. Expected outcomes are
// values, not errors: "no solution" and "budget exhausted" are answers.
type SolveStatus int

const (
	StatusSolved SolveStatus = iota
	StatusStuck
	StatusContradiction
	StatusUnsolvable
	StatusNodeLimit
	StatusDepthLimit
	StatusTimeout
)

func (s SolveStatus) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusStuck:
		return "stuck"
	case StatusContradiction:
		return "contradiction"
	case StatusUnsolvable:
		return "unsolvable"
	case StatusNodeLimit:
		return "node_limit"
	case StatusDepthLimit:
		return "depth_limit"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Conclusive reports whether the status proves something: a solution exists,
// none exists, or the input contradicts itself. Budget statuses prove nothing.
func (s SolveStatus) Conclusive() bool {
	switch s {
	case StatusSolved, StatusUnsolvable, StatusContradiction:
		return true
	default:
		return false
	}
}

// ProbeClass classifies a single uniqueness probe.
type ProbeClass int

const (
	ProbeSecondFound ProbeClass = iota
	ProbeExhausted
	ProbeTimeout
	ProbeUnknown
)

func (c ProbeClass) String() string {
	switch c {
	case ProbeSecondFound:
		return "second_found"
	case ProbeExhausted:
		return "exhausted"
	case ProbeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Verdict is the ternary uniqueness classification. Inconclusive is always a
// rejection downstream: uniqueness is never assumed without evidence.
type Verdict int

const (
	VerdictInconclusive Verdict = iota
	VerdictUnique
	VerdictNonUnique
)

func (v Verdict) String() string {
	switch v {
	case VerdictUnique:
		return "unique"
	case VerdictNonUnique:
		return "non_unique"
	default:
		return "inconclusive"
	}
}
