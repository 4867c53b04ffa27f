package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"svw.info/hidato/internal/domain"
)

// FS persists puzzles as JSON files, one per id, sharded by adjacency rule.
// Driver-side only; the engine never reaches in here.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func adjDir(a domain.Adjacency) string {
	if a == domain.AdjacencyKing {
		return "king"
	}
	return "orthogonal"
}

func (s *FS) pathFor(id string, a domain.Adjacency) string {
	return filepath.Join(s.dir, adjDir(a), strings.TrimSpace(id)+".json")
}

func (s *FS) Save(ctx context.Context, p *domain.StoredPuzzle) error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return errors.New("invalid puzzle: missing ID")
	}
	target := s.pathFor(p.ID, p.Puzzle.Adjacency)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.StoredPuzzle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("missing ID")
	}
	for _, sub := range []string{"orthogonal", "king"} {
		path := filepath.Join(s.dir, sub, id+".json")
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		defer f.Close()
		var p domain.StoredPuzzle
		if err := json.NewDecoder(f).Decode(&p); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, errors.New("puzzle not found: " + id)
}

func (s *FS) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	metas := make([]domain.PuzzleMeta, 0, 16)
	for _, sub := range []string{"orthogonal", "king"} {
		entries, err := os.ReadDir(filepath.Join(s.dir, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			f, err := os.Open(filepath.Join(s.dir, sub, e.Name()))
			if err != nil {
				continue
			}
			var p domain.StoredPuzzle
			if json.NewDecoder(f).Decode(&p) == nil {
				metas = append(metas, domain.PuzzleMeta{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt})
			}
			f.Close()
		}
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas, nil
}
