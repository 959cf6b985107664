package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dailgraph/internal/config"
	"dailgraph/internal/models"
	"dailgraph/internal/oracle"
	"dailgraph/internal/providers"
	"dailgraph/internal/review"
	"dailgraph/internal/storage"
	"dailgraph/internal/wave"
	"dailgraph/internal/workflows"

	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

// reviewQueue is the slice of the review store the read handlers consume.
type reviewQueue interface {
	ListPending(ctx context.Context, itemType string, limit int) ([]models.ReviewItem, error)
	Stats(ctx context.Context) (models.ReviewStats, error)
	ListCorrections(ctx context.Context, limit int) ([]models.CorrectionLog, error)
}

type Server struct {
	cfg        config.Config
	db         *storage.DB
	caseRepo   *storage.CaseRepo
	entityRepo *storage.EntityRepo
	reviewRepo reviewQueue
	ingestRepo *storage.IngestRepo
	graphRepo  *storage.GraphRepo
	reviews    *review.Service
	detector   *wave.Detector
	oracle     *oracle.Oracle
	temporal   tclient.Client
	llmCount   int
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg.LLMProviders)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	caseRepo := storage.NewCaseRepo(db)
	entityRepo := storage.NewEntityRepo(db)
	reviewRepo := storage.NewReviewRepo(db)
	graphRepo := storage.NewGraphRepo(db)
	// Interactive endpoints go straight to the claude provider when one is
	// configured; otherwise they share the failover chain with the workers.
	var llm providers.LLMProvider = pm.Failover()
	if p, _, ok := pm.FindLLMProviderByName("claude"); ok {
		llm = p
	}
	orc := oracle.New(llm)
	return &Server{
		cfg:        cfg,
		db:         db,
		caseRepo:   caseRepo,
		entityRepo: entityRepo,
		reviewRepo: reviewRepo,
		ingestRepo: storage.NewIngestRepo(db),
		graphRepo:  graphRepo,
		reviews:    review.NewService(reviewRepo, caseRepo, entityRepo),
		detector:   wave.NewDetector(graphRepo, orc, cfg.WaveWindowDays, cfg.WaveThreshold),
		oracle:     orc,
		temporal:   tc,
		llmCount:   pm.LLMCount(),
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/ingest/run", s.handleIngestRun)
	mux.HandleFunc("/ingest/progress", s.handleIngestProgress)
	mux.HandleFunc("/ingest/runs", s.handleIngestRuns)
	mux.HandleFunc("/ingest/staged", s.handleIngestStaged)
	mux.HandleFunc("/extract/run", s.handleExtractRun)
	mux.HandleFunc("/extract/progress", s.handleExtractProgress)
	mux.HandleFunc("/cases", s.handleCases)
	mux.HandleFunc("/cases/", s.handleCaseByID)
	mux.HandleFunc("/review/queue", s.handleReviewQueue)
	mux.HandleFunc("/review/stats", s.handleReviewStats)
	mux.HandleFunc("/review/corrections", s.handleReviewCorrections)
	mux.HandleFunc("/review/", s.handleReviewScoped)
	mux.HandleFunc("/graph/overview", s.handleGraphOverview)
	mux.HandleFunc("/graph/defendants", s.handleGraphDefendants)
	mux.HandleFunc("/graph/defendants/", s.handleDefendantCases)
	mux.HandleFunc("/graph/ai-systems", s.handleGraphAISystems)
	mux.HandleFunc("/graph/theories/", s.handleTheoryCases)
	mux.HandleFunc("/waves", s.handleWaves)
	mux.HandleFunc("/query", s.handleQuery)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "llm_providers": s.llmCount})
}

// handleIngestRun starts the feed ingest workflow under its fixed id. A
// second start while one is live returns 409.
func (s *Server) handleIngestRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	opts := tclient.StartWorkflowOptions{
		ID:                                       workflows.IngestWorkflowID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	if s.cfg.IngestCron != "" {
		opts.CronSchedule = s.cfg.IngestCron
	}
	we, err := s.temporal.ExecuteWorkflow(r.Context(), opts, workflows.CaseIngestWorkflow, workflows.CaseIngestInput{
		KeywordLimit:   s.cfg.IngestKeywordLimit,
		WindowDays:     s.cfg.IngestWindowDays,
		ConfidenceMin:  s.cfg.ConfidenceMin,
		ConfidenceAuto: s.cfg.ConfidenceAuto,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
}

func (s *Server) handleIngestProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	resp, err := s.temporal.QueryWorkflow(r.Context(), workflows.IngestWorkflowID, "", workflows.QueryGetIngestProgress)
	if err != nil {
		// No live workflow; fall back to the most recent recorded run.
		runs, rErr := s.ingestRepo.ListRuns(r.Context(), 1)
		if rErr != nil {
			writeErr(w, http.StatusInternalServerError, rErr)
			return
		}
		if len(runs) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"active": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"active": false, "last_run": runs[0]})
		return
	}
	var prog workflows.CaseIngestProgress
	if err := resp.Get(&prog); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": true, "progress": prog})
}

func (s *Server) handleIngestRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	runs, err := s.ingestRepo.ListRuns(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleIngestStaged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	staged, err := s.ingestRepo.ListStaged(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staged": staged})
}

func (s *Server) handleExtractRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       workflows.ExtractWorkflowID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.EntityExtractWorkflow, workflows.EntityExtractInput{
		BatchSize:      s.cfg.ExtractBatchSize,
		PauseEvery:     s.cfg.ExtractPauseEvery,
		PauseSeconds:   s.cfg.ExtractPauseSecs,
		ConfidenceMin:  s.cfg.ConfidenceMin,
		ConfidenceAuto: s.cfg.ConfidenceAuto,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
}

func (s *Server) handleExtractProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	resp, err := s.temporal.QueryWorkflow(r.Context(), workflows.ExtractWorkflowID, "", workflows.QueryGetExtractProgress)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	var prog workflows.EntityExtractProgress
	if err := resp.Get(&prog); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": true, "progress": prog})
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	cases, err := s.caseRepo.ListCases(r.Context(),
		r.URL.Query().Get("status"), r.URL.Query().Get("source"), queryInt(r, "limit", 100))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

func (s *Server) handleCaseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/cases/"), "/"), "/")
	if parts[0] == "" || len(parts) > 2 {
		writeErr(w, http.StatusNotFound, fmt.Errorf("case not found"))
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		switch parts[1] {
		case "neighbors":
			n, err := s.graphRepo.CaseNeighbors(r.Context(), id)
			if errors.Is(err, storage.ErrNotFound) {
				writeErr(w, http.StatusNotFound, err)
				return
			}
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, n)
		case "similar":
			similar, err := s.graphRepo.SimilarCases(r.Context(), id)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"similar": similar})
		default:
			writeErr(w, http.StatusNotFound, fmt.Errorf("unknown case endpoint"))
		}
		return
	}

	c, err := s.caseRepo.GetCase(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	items, err := s.reviewRepo.ListPending(r.Context(), r.URL.Query().Get("type"), queryInt(r, "limit", 100))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleReviewStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	stats, err := s.reviewRepo.Stats(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleReviewCorrections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	entries, err := s.reviewRepo.ListCorrections(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"corrections": entries})
}

// handleReviewScoped covers /review/{id}/approve and /review/{id}/reject.
func (s *Server) handleReviewScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/review/"), "/"), "/")
	if len(parts) != 2 {
		writeErr(w, http.StatusNotFound, fmt.Errorf("unknown review endpoint"))
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	id, action := parts[0], parts[1]

	switch action {
	case "approve":
		item, err := s.reviews.Approve(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": item.ID, "status": "approved", "case_id": item.CaseID})
	case "reject":
		var req struct {
			Correction string `json:"correction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
			return
		}
		if strings.TrimSpace(req.Correction) == "" {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("correction is required"))
			return
		}
		item, err := s.reviews.Reject(r.Context(), id, req.Correction)
		if errors.Is(err, storage.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": item.ID, "status": "rejected", "case_id": item.CaseID})
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("unknown review action"))
	}
}

func (s *Server) handleGraphOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	overview, err := s.graphRepo.Overview(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleGraphDefendants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	rankings, err := s.graphRepo.TopDefendants(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"defendants": rankings})
}

// handleDefendantCases covers /graph/defendants/{name}/cases.
func (s *Server) handleDefendantCases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/graph/defendants/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "cases" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("unknown graph endpoint"))
		return
	}
	cases, err := s.graphRepo.DefendantCases(r.Context(), parts[0])
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"defendant": parts[0], "cases": cases})
}

func (s *Server) handleGraphAISystems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	rankings, err := s.graphRepo.TopAISystems(r.Context(), queryInt(r, "limit", 15))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ai_systems": rankings})
}

// handleTheoryCases covers /graph/theories/{name}/cases.
func (s *Server) handleTheoryCases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/graph/theories/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "cases" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("unknown graph endpoint"))
		return
	}
	cases, err := s.graphRepo.CasesByTheory(r.Context(), parts[0])
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"theory": parts[0], "cases": cases})
}

func (s *Server) handleWaves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	signals, err := s.detector.Detect(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"waves": signals})
}

// handleQuery translates a research question into guarded SQL, runs it, and
// narrates the rows.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("question is required"))
		return
	}

	plan := s.oracle.QueryFromQuestion(r.Context(), req.Question)
	rows, err := s.graphRepo.RunGuardedQuery(r.Context(), plan.SQL)
	if err != nil {
		// A generated query can still be bad SQL; retry once on the
		// fallback before giving up.
		if plan.SQL != oracle.FallbackQuery {
			plan = oracle.QueryPlan{SQL: oracle.FallbackQuery, Explanation: "Fallback query; generated SQL failed to execute.", Parameters: map[string]any{}}
			rows, err = s.graphRepo.RunGuardedQuery(r.Context(), plan.SQL)
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
	}
	narrative := s.oracle.NarrateResults(r.Context(), req.Question, plan.SQL, rows)
	writeJSON(w, http.StatusOK, map[string]any{
		"sql":         plan.SQL,
		"explanation": plan.Explanation,
		"results":     rows,
		"narrative":   narrative,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "DG-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "DG-DB-5001",
				Message: "Database schema is not initialized. Restart the service to run schema setup.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "DG-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "DG-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "DG-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "DG-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "DG-API-4009"
		msg = "A run is already in progress. Check its status before starting another."
	case status == http.StatusMethodNotAllowed:
		code = "DG-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	if status >= 400 && status < 500 && err != nil {
		low := strings.ToLower(err.Error())
		switch {
		case strings.Contains(low, "correction is required"):
			msg = "A correction note is required to reject a review item."
		case strings.Contains(low, "question is required"):
			msg = "A research question is required."
		case strings.Contains(low, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
