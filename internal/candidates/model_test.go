package candidates

import (
	"testing"

	"svw.info/hidato/internal/domain"
)

func openPuzzle(rows, cols int, adj domain.Adjacency, givens map[domain.Position]int) *domain.Puzzle {
	g := domain.NewGrid(rows, cols)
	for pos, v := range givens {
		g.Values[pos.Row][pos.Col] = v
		g.Given[pos.Row][pos.Col] = true
	}
	return &domain.Puzzle{Grid: g, Adjacency: adj, MinValue: 1, MaxValue: rows * cols}
}

// checkInvariant asserts p ∈ valuePos[v] ⟺ v ∈ posVals[p] in both directions.
func checkInvariant(t *testing.T, m *Model) {
	t.Helper()
	for _, v := range m.Remaining() {
		for _, p := range m.Candidates(v) {
			found := false
			for _, w := range m.ValuesFor(p) {
				if w == v {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("value %d lists (%d,%d) but the position does not list the value", v, p.Row, p.Col)
			}
		}
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := domain.Position{Row: r, Col: c}
			for _, v := range m.ValuesFor(p) {
				if !m.Has(v, p) {
					t.Fatalf("position (%d,%d) lists %d but the value does not list the position", r, c, v)
				}
			}
		}
	}
}

func TestInitFromRespectsGivens(t *testing.T) {
	puz := openPuzzle(3, 3, domain.AdjacencyKing, map[domain.Position]int{
		{Row: 0, Col: 0}: 1,
		{Row: 2, Col: 2}: 9,
	})
	m := InitFrom(puz)
	if m.Contradicted() {
		t.Fatal("fresh model contradicted")
	}
	if p, ok := m.PlacedPosition(1); !ok || p != (domain.Position{Row: 0, Col: 0}) {
		t.Fatalf("given 1 not placed at (0,0): %v %v", p, ok)
	}
	if got := len(m.Remaining()); got != 7 {
		t.Fatalf("remaining values = %d, want 7", got)
	}
	for _, v := range m.Remaining() {
		if m.Has(v, domain.Position{Row: 0, Col: 0}) {
			t.Fatalf("value %d still lists the occupied corner", v)
		}
	}
	checkInvariant(t, m)
}

func TestInvariantHoldsAfterEveryMutation(t *testing.T) {
	puz := openPuzzle(3, 3, domain.AdjacencyKing, map[domain.Position]int{{Row: 0, Col: 0}: 1})
	m := InitFrom(puz)
	checkInvariant(t, m)

	if !m.Eliminate(5, domain.Position{Row: 2, Col: 2}) {
		t.Fatal("expected pairing (5,(2,2)) to exist")
	}
	checkInvariant(t, m)

	affected := m.Assign(5, domain.Position{Row: 1, Col: 1})
	if len(affected) == 0 {
		t.Fatal("assignment reported no affected pairings")
	}
	checkInvariant(t, m)
	if m.Has(5, domain.Position{Row: 1, Col: 2}) {
		t.Fatal("placed value still holds other candidates")
	}
	if got := m.ValuesFor(domain.Position{Row: 1, Col: 1}); got != nil {
		t.Fatalf("occupied cell still lists values %v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	puz := openPuzzle(3, 3, domain.AdjacencyKing, map[domain.Position]int{{Row: 0, Col: 0}: 1})
	m := InitFrom(puz)
	cp := m.Clone()
	cp.Assign(2, domain.Position{Row: 0, Col: 1})
	if _, ok := m.PlacedPosition(2); ok {
		t.Fatal("assignment on the clone leaked into the original")
	}
	if m.CandidateCount(2) == cp.CandidateCount(2) {
		t.Fatal("candidate sets shared between clone and original")
	}
}

func TestContradictionOnEmptiedValueSet(t *testing.T) {
	puz := openPuzzle(2, 2, domain.AdjacencyOrthogonal, map[domain.Position]int{{Row: 0, Col: 0}: 1})
	m := InitFrom(puz)
	for _, p := range m.Candidates(3) {
		m.Eliminate(3, p)
	}
	if !m.Contradicted() {
		t.Fatal("emptying a value's candidate set must mark the model contradicted")
	}
}

func TestDuplicateGivenContradicts(t *testing.T) {
	g := domain.NewGrid(1, 3)
	g.Values[0][0] = 2
	g.Values[0][2] = 2
	puz := &domain.Puzzle{Grid: g, Adjacency: domain.AdjacencyOrthogonal, MinValue: 1, MaxValue: 3}
	if m := InitFrom(puz); !m.Contradicted() {
		t.Fatal("duplicate placed value must contradict at init")
	}
}

func TestForcedMovesAreOrderStable(t *testing.T) {
	// 1x3 line with the middle given: 1 and 3 are both forced, ascending.
	g := domain.NewGrid(1, 3)
	g.Values[0][1] = 2
	g.Given[0][1] = true
	puz := &domain.Puzzle{Grid: g, Adjacency: domain.AdjacencyOrthogonal, MinValue: 1, MaxValue: 3}
	m := InitFrom(puz)
	m.Eliminate(1, domain.Position{Row: 0, Col: 2})
	m.Eliminate(3, domain.Position{Row: 0, Col: 0})
	forced := m.SingleCandidateValues()
	if len(forced) != 2 {
		t.Fatalf("forced moves = %d, want 2", len(forced))
	}
	if forced[0].Value != 1 || forced[1].Value != 3 {
		t.Fatalf("forced moves out of order: %+v", forced)
	}
}

func TestAssignBreakingChainContradicts(t *testing.T) {
	// 1 and 3 adjacent on a 1x3 line leave (0,2) as the only cell for 2,
	// but 2 there would not touch 1. Placing it must contradict instead of
	// completing an invalid grid.
	puz := openPuzzle(1, 3, domain.AdjacencyOrthogonal, map[domain.Position]int{
		{Row: 0, Col: 0}: 1,
		{Row: 0, Col: 1}: 3,
	})
	m := InitFrom(puz)
	if m.Contradicted() {
		t.Fatal("model contradicted before any assignment")
	}
	if affected := m.Assign(2, domain.Position{Row: 0, Col: 2}); affected != nil {
		t.Fatalf("chain-breaking assignment reported eliminations: %+v", affected)
	}
	if !m.Contradicted() {
		t.Fatal("placing 2 away from the placed 1 must contradict")
	}
	if m.Solved() {
		t.Fatal("broken chain reported as solved")
	}
}

func TestNonAdjacentConsecutiveGivensContradict(t *testing.T) {
	puz := openPuzzle(1, 4, domain.AdjacencyOrthogonal, map[domain.Position]int{
		{Row: 0, Col: 0}: 1,
		{Row: 0, Col: 2}: 2,
	})
	if m := InitFrom(puz); !m.Contradicted() {
		t.Fatal("consecutive givens with a gap between them must contradict at init")
	}
}

func TestPositionSinglesRequireFullCover(t *testing.T) {
	// Span 2 on a 1x3 line: both open cells list only the value 2, but one
	// of them will stay empty, so neither is a forced move.
	g := domain.NewGrid(1, 3)
	g.Values[0][0] = 1
	g.Given[0][0] = true
	puz := &domain.Puzzle{Grid: g, Adjacency: domain.AdjacencyOrthogonal, MinValue: 1, MaxValue: 2}
	m := InitFrom(puz)
	if m.MustFillAll() {
		t.Fatal("span 2 over 3 cells cannot require a full cover")
	}
	if got := m.SingleCandidatePositions(); len(got) != 0 {
		t.Fatalf("short span reported forced positions: %+v", got)
	}
}

func TestAssignmentSignatureUsesSentinel(t *testing.T) {
	puz := openPuzzle(2, 2, domain.AdjacencyKing, map[domain.Position]int{{Row: 0, Col: 0}: 1})
	m := InitFrom(puz)
	sig := m.AssignmentSignature()
	if len(sig) != 4 {
		t.Fatalf("signature length = %d, want 4", len(sig))
	}
	if sig[0] != 0 {
		t.Fatalf("placed value encodes cell %d, want 0", sig[0])
	}
	for i := 1; i < 4; i++ {
		if sig[i] != -1 {
			t.Fatalf("unassigned slot %d = %d, want -1", i, sig[i])
		}
	}
}
