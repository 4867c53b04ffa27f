package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"svw.info/hidato/internal/domain"
	"svw.info/hidato/internal/usecase"
)

// Handler exposes the engine over a small JSON API. It is a thin driver: all
// semantics live behind the usecase service.
type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/count", h.handleCount)
	mux.HandleFunc("/api/uniqueness", h.handleUniqueness)
	mux.HandleFunc("/api/validate", h.handleValidate)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var invalid *usecase.InvalidPuzzleError
	if errors.As(err, &invalid) {
		status = http.StatusUnprocessableEntity
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// ---- Solve ----

type solveReq struct {
	Puzzle domain.Puzzle      `json:"puzzle"`
	Config domain.SolveConfig `json:"config"`
	Mode   string             `json:"mode,omitempty"` // "logic" short-circuits search
	Trace  bool               `json:"trace,omitempty"`
}

type solveResp struct {
	Status     string              `json:"status"`
	Solution   *domain.Grid        `json:"solution,omitempty"`
	Trace      []domain.TraceEntry `json:"trace,omitempty"`
	Nodes      int                 `json:"nodes"`
	DurationMs int64               `json:"durationMs"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	cfg := req.Config
	if cfg.MaxNodes == 0 && cfg.Timeout == 0 && cfg.TimeoutMs == 0 {
		def := domain.DefaultSolveConfig()
		def.Logic = cfg.Logic
		def.Seed = cfg.Seed
		cfg = def
	}
	if strings.EqualFold(req.Mode, "logic") {
		cfg.Mode = domain.ModeLogicOnly
	}
	res, st, err := h.UC.Solve(r.Context(), &req.Puzzle, cfg)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	resp := solveResp{
		Status:     res.Status.String(),
		Solution:   res.Solution,
		Nodes:      st.Nodes,
		DurationMs: st.Duration.Milliseconds(),
	}
	if req.Trace {
		resp.Trace = res.Trace
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// ---- Hint ----

type hintReq struct {
	Puzzle domain.Puzzle `json:"puzzle"`
}

type hintResp struct {
	Found bool         `json:"found"`
	Hint  *domain.Hint `json:"hint,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	hint, ok, err := h.UC.Hint(r.Context(), &req.Puzzle)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	resp := hintResp{Found: ok}
	if ok {
		resp.Hint = &hint
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// ---- Count ----

type countReq struct {
	Puzzle domain.Puzzle      `json:"puzzle"`
	Cap    int                `json:"cap"`
	Config domain.SolveConfig `json:"config"`
}

type countResp struct {
	Count      int   `json:"count"`
	Nodes      int   `json:"nodes"`
	DurationMs int64 `json:"durationMs"`
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req countReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.Cap <= 0 {
		req.Cap = 2
	}
	cfg := req.Config
	if cfg.MaxNodes == 0 && cfg.Timeout == 0 && cfg.TimeoutMs == 0 {
		cfg = domain.DefaultSolveConfig()
	}
	n, st, err := h.UC.CountSolutions(r.Context(), &req.Puzzle, req.Cap, cfg)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(countResp{Count: n, Nodes: st.Nodes, DurationMs: st.Duration.Milliseconds()})
}

// ---- Uniqueness ----

type uniquenessReq struct {
	Puzzle domain.Puzzle      `json:"puzzle"`
	Config domain.ProbeConfig `json:"config"`
}

type uniquenessResp struct {
	Verdict      string                `json:"verdict"`
	Probes       []domain.ProbeOutcome `json:"probes"`
	ExtendedUsed bool                  `json:"extendedUsed"`
	ResolverUsed bool                  `json:"resolverUsed"`
	Unsolvable   bool                  `json:"unsolvable,omitempty"`
	Nodes        int                   `json:"nodes"`
	DurationMs   int64                 `json:"durationMs"`
}

func (h *Handler) handleUniqueness(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req uniquenessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	report, st, err := h.UC.CheckUniqueness(r.Context(), &req.Puzzle, req.Config)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(uniquenessResp{
		Verdict:      report.Verdict.String(),
		Probes:       report.Probes,
		ExtendedUsed: report.ExtendedUsed,
		ResolverUsed: report.ResolverUsed,
		Unsolvable:   report.Unsolvable,
		Nodes:        st.Nodes,
		DurationMs:   st.Duration.Milliseconds(),
	})
}

// ---- Validate ----

type validateReq struct {
	Puzzle domain.Puzzle `json:"puzzle"`
}

type validateResp struct {
	OK     bool           `json:"ok"`
	Issues []domain.Issue `json:"issues,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	ok, issues, err := h.UC.Validate(r.Context(), &req.Puzzle)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(validateResp{OK: ok, Issues: issues})
}

// ---- Persistence ----

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req domain.StoredPuzzle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.CreatedAt == 0 {
		req.CreatedAt = time.Now().UnixNano()
	}
	if err := h.UC.Save(r.Context(), &req); err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"id": req.ID})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeBadRequest(w, "missing id")
		return
	}
	p, err := h.UC.Load(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	metas, err := h.UC.List(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(metas)
}
