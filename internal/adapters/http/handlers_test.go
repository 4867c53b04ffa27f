package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/hint"
	"svw.info/hidato/internal/search"
	"svw.info/hidato/internal/unique"
	"svw.info/hidato/internal/usecase"
	"svw.info/hidato/internal/validator"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	uc := usecase.NewService(search.NewEngine(nil), hint.NewFixpoint(nil), unique.NewProber(nil), validator.New(), nil)
	mux := http.NewServeMux()
	New(uc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func corners3x3() domain.Puzzle {
	g := domain.NewGrid(3, 3)
	g.Values[0][0] = 1
	g.Given[0][0] = true
	g.Values[2][2] = 9
	g.Given[2][2] = true
	return domain.Puzzle{Grid: g, Adjacency: domain.AdjacencyKing, MinValue: 1, MaxValue: 9}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSolveEndpoint(t *testing.T) {
	srv := testServer(t)
	resp := postJSON(t, srv.URL+"/api/solve", map[string]any{"puzzle": corners3x3()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Status   string       `json:"status"`
		Solution *domain.Grid `json:"solution"`
		Nodes    int          `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "solved" {
		t.Fatalf("status = %q, want solved", out.Status)
	}
	if out.Solution == nil {
		t.Fatal("response has no solution grid")
	}
	if out.Solution.Values[0][0] != 1 || out.Solution.Values[2][2] != 9 {
		t.Fatal("solution does not respect the givens")
	}
}

func TestSolveEndpointLogicMode(t *testing.T) {
	srv := testServer(t)
	resp := postJSON(t, srv.URL+"/api/solve", map[string]any{"puzzle": corners3x3(), "mode": "logic"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Status string `json:"status"`
		Nodes  int    `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "stuck" {
		t.Fatalf("status = %q, want stuck for an ambiguous board without search", out.Status)
	}
	if out.Nodes != 0 {
		t.Fatalf("logic mode expanded %d nodes, want 0", out.Nodes)
	}
}

func TestUniquenessEndpoint(t *testing.T) {
	srv := testServer(t)
	resp := postJSON(t, srv.URL+"/api/uniqueness", map[string]any{"puzzle": corners3x3()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Verdict string `json:"verdict"`
		Probes  []any  `json:"probes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Verdict != "non_unique" {
		t.Fatalf("verdict = %q, want non_unique", out.Verdict)
	}
	if len(out.Probes) == 0 {
		t.Fatal("report has no probe outcomes")
	}
}

func TestValidateEndpointFlagsDuplicates(t *testing.T) {
	srv := testServer(t)
	puz := corners3x3()
	puz.Grid.Values[1][1] = 9
	resp := postJSON(t, srv.URL+"/api/validate", map[string]any{"puzzle": puz})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		OK     bool           `json:"ok"`
		Issues []domain.Issue `json:"issues"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.OK || len(out.Issues) == 0 {
		t.Fatalf("duplicate clue not flagged: %+v", out)
	}
}

func TestSolveRejectsInvalidPuzzle(t *testing.T) {
	srv := testServer(t)
	puz := corners3x3()
	puz.Grid.Values[1][1] = 9
	resp := postJSON(t, srv.URL+"/api/solve", map[string]any{"puzzle": puz})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for a structurally invalid puzzle", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/api/solve")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestBadJSONIsBadRequest(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/api/hint", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
