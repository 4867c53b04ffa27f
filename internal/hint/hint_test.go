package hint

import (
	"context"
	"errors"
	"testing"

	"svw.info/hidato/internal/domain"
)

func puzzleWith(rows, cols int, adj domain.Adjacency, span int, givens map[domain.Position]int) *domain.Puzzle {
	g := domain.NewGrid(rows, cols)
	for pos, v := range givens {
		g.Values[pos.Row][pos.Col] = v
		g.Given[pos.Row][pos.Col] = true
	}
	return &domain.Puzzle{Grid: g, Adjacency: adj, MinValue: 1, MaxValue: span}
}

func TestForcedMoveOnLine(t *testing.T) {
	puz := puzzleWith(1, 4, domain.AdjacencyOrthogonal, 4, map[domain.Position]int{
		{Row: 0, Col: 0}: 1,
	})
	h, ok, err := NewFixpoint(nil).Hint(context.Background(), puz)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("forced line must yield a hint")
	}
	if h.Value != 2 || h.Position != (domain.Position{Row: 0, Col: 1}) {
		t.Fatalf("hint = %d at (%d,%d), want 2 at (0,1)", h.Value, h.Position.Row, h.Position.Col)
	}
	if h.Reason == "" {
		t.Fatal("hint carries no explanation")
	}
}

func TestNoForcedMoveOnOpenBoard(t *testing.T) {
	puz := puzzleWith(3, 3, domain.AdjacencyKing, 9, map[domain.Position]int{
		{Row: 0, Col: 0}: 1,
		{Row: 2, Col: 2}: 9,
	})
	_, ok, err := NewFixpoint(nil).Hint(context.Background(), puz)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("ambiguous board must not produce a forced move")
	}
}

func TestContradictoryBoardErrors(t *testing.T) {
	// 1 and 3 on opposite diagonal corners under orthogonal moves: 2 cannot
	// touch both.
	puz := puzzleWith(3, 3, domain.AdjacencyOrthogonal, 3, map[domain.Position]int{
		{Row: 0, Col: 0}: 1,
		{Row: 2, Col: 2}: 3,
	})
	_, _, err := NewFixpoint(nil).Hint(context.Background(), puz)
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("err = %v, want ErrContradiction", err)
	}
}

func TestDuplicateClueErrorsAtInit(t *testing.T) {
	g := domain.NewGrid(1, 3)
	g.Values[0][0] = 2
	g.Given[0][0] = true
	g.Values[0][2] = 2
	g.Given[0][2] = true
	puz := &domain.Puzzle{Grid: g, Adjacency: domain.AdjacencyOrthogonal, MinValue: 1, MaxValue: 3}
	_, _, err := NewFixpoint(nil).Hint(context.Background(), puz)
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("err = %v, want ErrContradiction", err)
	}
}
