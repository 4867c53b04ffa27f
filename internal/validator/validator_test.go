package validator

import (
	"context"
	"strings"
	"testing"

	"svw.info/hidato/internal/domain"
)

func valid3x3() *domain.Puzzle {
	g := domain.NewGrid(3, 3)
	g.Values[0][0] = 1
	g.Given[0][0] = true
	g.Values[2][2] = 9
	g.Given[2][2] = true
	return &domain.Puzzle{Grid: g, Adjacency: domain.AdjacencyKing, MinValue: 1, MaxValue: 9}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(p *domain.Puzzle)
		wantOK  bool
		wantMsg string
	}{
		{
			name:   "well formed",
			mutate: func(p *domain.Puzzle) {},
			wantOK: true,
		},
		{
			name:    "zero rows",
			mutate:  func(p *domain.Puzzle) { p.Grid.Rows = 0 },
			wantMsg: "at least 1x1",
		},
		{
			name:    "ragged values",
			mutate:  func(p *domain.Puzzle) { p.Grid.Values[1] = p.Grid.Values[1][:2] },
			wantMsg: "cols",
		},
		{
			name:    "short given mask",
			mutate:  func(p *domain.Puzzle) { p.Grid.Given = p.Grid.Given[:2] },
			wantMsg: "given mask",
		},
		{
			name:    "ragged given mask row",
			mutate:  func(p *domain.Puzzle) { p.Grid.Given[1] = p.Grid.Given[1][:1] },
			wantMsg: "given mask row",
		},
		{
			name:    "ragged blocked mask row",
			mutate:  func(p *domain.Puzzle) { p.Grid.Blocked[1] = []bool{true} },
			wantMsg: "blocked mask row",
		},
		{
			name:    "inverted range",
			mutate:  func(p *domain.Puzzle) { p.MinValue, p.MaxValue = 9, 1 },
			wantMsg: "exceeds max",
		},
		{
			name: "span larger than board",
			mutate: func(p *domain.Puzzle) {
				p.MaxValue = 12
				p.Grid.Values[2][2] = 12
			},
			wantMsg: "open cells",
		},
		{
			name: "value on blocked cell",
			mutate: func(p *domain.Puzzle) {
				p.Grid.Blocked[0][0] = true
			},
			wantMsg: "blocked cell",
		},
		{
			name: "given flag on empty cell",
			mutate: func(p *domain.Puzzle) {
				p.Grid.Given[1][1] = true
			},
			wantMsg: "given flag",
		},
		{
			name: "value out of range",
			mutate: func(p *domain.Puzzle) {
				p.Grid.Values[1][1] = 42
			},
			wantMsg: "outside range",
		},
		{
			name: "duplicate value",
			mutate: func(p *domain.Puzzle) {
				p.Grid.Values[1][1] = 9
			},
			wantMsg: "duplicated",
		},
	}

	v := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid3x3()
			tc.mutate(p)
			ok, issues, err := v.Validate(context.Background(), p)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v (issues: %+v)", ok, tc.wantOK, issues)
			}
			if tc.wantOK {
				if len(issues) != 0 {
					t.Fatalf("valid puzzle reported issues: %+v", issues)
				}
				return
			}
			found := false
			for _, is := range issues {
				if strings.Contains(is.Message, tc.wantMsg) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("no issue mentions %q, got %+v", tc.wantMsg, issues)
			}
		})
	}
}

func TestMultipleIssuesReportedTogether(t *testing.T) {
	p := valid3x3()
	p.Grid.Values[0][1] = 9  // duplicate
	p.Grid.Values[1][1] = 99 // out of range
	ok, issues, err := New().Validate(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("broken puzzle passed validation")
	}
	if len(issues) < 2 {
		t.Fatalf("got %d issues, want both findings reported", len(issues))
	}
}
