package storage

import (
	"context"
	"testing"

	"svw.info/hidato/internal/domain"
)

func stored(id string, adj domain.Adjacency) *domain.StoredPuzzle {
	g := domain.NewGrid(3, 3)
	g.Values[0][0] = 1
	g.Given[0][0] = true
	return &domain.StoredPuzzle{
		ID:        id,
		Name:      "test " + id,
		CreatedAt: 1700000000,
		Puzzle:    domain.Puzzle{Grid: g, Adjacency: adj, MinValue: 1, MaxValue: 9},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	fs := NewFS(t.TempDir())
	ctx := context.Background()

	want := stored("alpha", domain.AdjacencyKing)
	if err := fs.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := fs.Load(ctx, "alpha")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.CreatedAt != want.CreatedAt {
		t.Fatalf("metadata mismatch: got %+v", got)
	}
	if got.Puzzle.Adjacency != domain.AdjacencyKing {
		t.Fatalf("adjacency = %v, want king", got.Puzzle.Adjacency)
	}
	if got.Puzzle.Grid.Values[0][0] != 1 || !got.Puzzle.Grid.IsGiven(domain.Position{Row: 0, Col: 0}) {
		t.Fatal("grid values or given mask lost in the roundtrip")
	}
}

func TestLoadSearchesBothShards(t *testing.T) {
	fs := NewFS(t.TempDir())
	ctx := context.Background()
	if err := fs.Save(ctx, stored("ortho", domain.AdjacencyOrthogonal)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(ctx, stored("kingly", domain.AdjacencyKing)); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"ortho", "kingly"} {
		if _, err := fs.Load(ctx, id); err != nil {
			t.Fatalf("Load(%q): %v", id, err)
		}
	}
}

func TestSaveRejectsMissingID(t *testing.T) {
	fs := NewFS(t.TempDir())
	if err := fs.Save(context.Background(), &domain.StoredPuzzle{ID: "  "}); err == nil {
		t.Fatal("blank ID accepted")
	}
	if err := fs.Save(context.Background(), nil); err == nil {
		t.Fatal("nil puzzle accepted")
	}
}

func TestLoadMissingPuzzle(t *testing.T) {
	fs := NewFS(t.TempDir())
	if _, err := fs.Load(context.Background(), "nope"); err == nil {
		t.Fatal("missing puzzle loaded without error")
	}
}

func TestListSortedAcrossShards(t *testing.T) {
	fs := NewFS(t.TempDir())
	ctx := context.Background()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		adj := domain.AdjacencyOrthogonal
		if id == "mid" {
			adj = domain.AdjacencyKing
		}
		if err := fs.Save(ctx, stored(id, adj)); err != nil {
			t.Fatal(err)
		}
	}
	metas, err := fs.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 3 {
		t.Fatalf("listed %d puzzles, want 3", len(metas))
	}
	for i := 1; i < len(metas); i++ {
		if metas[i-1].ID > metas[i].ID {
			t.Fatalf("listing not sorted: %q before %q", metas[i-1].ID, metas[i].ID)
		}
	}
}
