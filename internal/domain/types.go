package domain

import "hash/fnv"

// Position identifies a cell on the grid. Equality and map keys are by value.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Less orders positions row-major, the canonical tie-break order everywhere.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Grid holds current values and the given/blocked masks. Value 0 means empty.
type Grid struct {
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"`
	Values  [][]int  `json:"values"`
	Given   [][]bool `json:"given,omitempty"`
	Blocked [][]bool `json:"blocked,omitempty"`
}

// NewGrid allocates an empty rows×cols grid.
func NewGrid(rows, cols int) Grid {
	g := Grid{Rows: rows, Cols: cols}
	g.Values = make([][]int, rows)
	g.Given = make([][]bool, rows)
	g.Blocked = make([][]bool, rows)
	for r := 0; r < rows; r++ {
		g.Values[r] = make([]int, cols)
		g.Given[r] = make([]bool, cols)
		g.Blocked[r] = make([]bool, cols)
	}
	return g
}

// Clone deep-copies the grid.
func (g *Grid) Clone() Grid {
	out := NewGrid(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		copy(out.Values[r], g.Values[r])
		if len(g.Given) > r {
			copy(out.Given[r], g.Given[r])
		}
		if len(g.Blocked) > r {
			copy(out.Blocked[r], g.Blocked[r])
		}
	}
	return out
}

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// IsBlocked reports whether p is a blocked (unusable) cell. Short or ragged
// masks read as unblocked rather than panicking.
func (g *Grid) IsBlocked(p Position) bool {
	return len(g.Blocked) > p.Row && len(g.Blocked[p.Row]) > p.Col && g.Blocked[p.Row][p.Col]
}

// IsGiven reports whether p holds an immutable clue.
func (g *Grid) IsGiven(p Position) bool {
	return len(g.Given) > p.Row && len(g.Given[p.Row]) > p.Col && g.Given[p.Row][p.Col]
}

// ValueAt returns the value at p, 0 when empty.
func (g *Grid) ValueAt(p Position) int { return g.Values[p.Row][p.Col] }

// Neighbors returns p's in-bounds, unblocked neighbors under rule a.
func (g *Grid) Neighbors(a Adjacency, p Position) []Position {
	out := make([]Position, 0, 8)
	for _, d := range a.Offsets() {
		q := Position{p.Row + d.Row, p.Col + d.Col}
		if g.InBounds(q) && !g.IsBlocked(q) {
			out = append(out, q)
		}
	}
	return out
}

// OpenCellCount counts unblocked cells.
func (g *Grid) OpenCellCount() int {
	n := 0
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if !g.IsBlocked(Position{r, c}) {
				n++
			}
		}
	}
	return n
}

// Hash fingerprints the full value assignment, used to tell two solutions
// apart without retaining both grids.
func (g *Grid) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := g.Values[r][c]
			buf[0], buf[1], buf[2], buf[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}

// Puzzle is the immutable input to every engine operation: geometry, givens,
// adjacency rule, and the value range the path must cover.
type Puzzle struct {
	Grid      Grid      `json:"grid"`
	Adjacency Adjacency `json:"adjacency"`
	MinValue  int       `json:"minValue"`
	MaxValue  int       `json:"maxValue"`
}

// Span is the number of values in [MinValue, MaxValue].
func (p *Puzzle) Span() int { return p.MaxValue - p.MinValue + 1 }

// Clone deep-copies the puzzle.
func (p *Puzzle) Clone() *Puzzle {
	out := *p
	out.Grid = p.Grid.Clone()
	return &out
}

// GivensHash fingerprints every given cell (position and value). Used to
// assert that no engine call mutates the caller's clues.
func (p *Puzzle) GivensHash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for r := 0; r < p.Grid.Rows; r++ {
		for c := 0; c < p.Grid.Cols; c++ {
			if p.Grid.IsGiven(Position{r, c}) {
				v := p.Grid.Values[r][c]
				buf = [8]byte{byte(r), byte(r >> 8), byte(c), byte(c >> 8), byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
				_, _ = h.Write(buf[:])
			}
		}
	}
	return h.Sum64()
}

// TraceEntry records one deduction step for explanation and test assertions.
type TraceEntry struct {
	Strategy string   `json:"strategy"`
	Kind     string   `json:"kind"`
	Value    int      `json:"value"`
	Position Position `json:"position"`
	Reason   string   `json:"reason"`
	Before   int      `json:"candidateCountBefore"`
	After    int      `json:"candidateCountAfter"`
}

const (
	TraceAssign    = "assign"
	TraceEliminate = "eliminate"
)

// Hint describes the next forced move found by pure deduction.
type Hint struct {
	Position Position `json:"position"`
	Value    int      `json:"value"`
	Reason   string   `json:"reason"`
}

// Result is the outcome of a solve call.
type Result struct {
	Status   SolveStatus  `json:"status"`
	Solution *Grid        `json:"solution,omitempty"`
	Trace    []TraceEntry `json:"trace,omitempty"`
}

// ProbeOutcome reports one uniqueness probe.
type ProbeOutcome struct {
	Class       ProbeClass `json:"class"`
	Nodes       int        `json:"nodes"`
	ElapsedMs   int64      `json:"elapsedMs"`
	Permutation int        `json:"permutation"`
	Solutions   int        `json:"solutions"`
	SecondHash  uint64     `json:"secondHash,omitempty"`
}

// UniquenessReport aggregates probe outcomes into a verdict.
type UniquenessReport struct {
	Verdict      Verdict        `json:"verdict"`
	Probes       []ProbeOutcome `json:"probes"`
	ExtendedUsed bool           `json:"extendedUsed"`
	ResolverUsed bool           `json:"resolverUsed"`
	// Unsolvable is set when a probe proved the puzzle has no solution at
	// all; the verdict stays Inconclusive so callers reject the puzzle
	// rather than read a uniqueness statement into it.
	Unsolvable bool `json:"unsolvable,omitempty"`
}

// Issue is one structural-validation finding.
type Issue struct {
	Position *Position `json:"position,omitempty"`
	Message  string    `json:"message"`
}

// StoredPuzzle is a persisted puzzle with driver-side metadata. The engine
// core never reads or writes these; only the HTTP/storage layer does.
type StoredPuzzle struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	Puzzle    Puzzle `json:"puzzle"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}
