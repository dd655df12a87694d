package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/docpixie/agent/internal/agent"
	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/storage/memory"
)

// Server exposes the orchestrator and document store over HTTP, the
// document-QA counterpart of the teacher's httpadapter.Server.
type Server struct {
	orchestrator *agent.Orchestrator
	docs         *memory.DocumentStore
}

func NewServer(orchestrator *agent.Orchestrator, docs *memory.DocumentStore) http.Handler {
	s := &Server{orchestrator: orchestrator, docs: docs}
	mux := http.NewServeMux()

	// /documents → register a document (POST), list documents (GET)
	mux.HandleFunc("/documents", s.handleDocuments)

	// /queries → run one process-query call (POST)
	mux.HandleFunc("/queries", s.handleQueries)

	return chainMiddlewares(mux, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────

type pageRequest struct {
	PageNumber  int    `json:"page_number"`
	ImagePath   string `json:"image_path,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	PageSummary string `json:"page_summary,omitempty"`
}

type registerDocumentRequest struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Summary string        `json:"summary,omitempty"`
	Pages   []pageRequest `json:"pages"`
}

type documentSummaryResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

type conversationMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type queryRequest struct {
	Query   string                       `json:"query"`
	History []conversationMessageRequest `json:"history,omitempty"`
}

type taskResultResponse struct {
	TaskName      string `json:"task_name"`
	Status        string `json:"status"`
	Analysis      string `json:"analysis"`
	PagesAnalyzed int    `json:"pages_analyzed"`
}

type queryResponse struct {
	Query             string               `json:"query"`
	ReformulatedQuery string               `json:"reformulated_query"`
	Answer            string               `json:"answer"`
	Iterations        int                  `json:"iterations"`
	TotalCost         float64              `json:"total_cost"`
	Canceled          bool                 `json:"canceled"`
	ProcessingTimeMs  int64                `json:"processing_time_ms"`
	TaskResults       []taskResultResponse `json:"task_results"`
}

// ─────────────────────────────────────────────
// Routing
// ─────────────────────────────────────────────

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleRegisterDocument(w, r)
	case http.MethodGet:
		s.handleListDocuments(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleRunQuery(w, r)
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	var req registerDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Name == "" {
		badRequest(w, "id and name are required")
		return
	}
	if len(req.Pages) == 0 {
		badRequest(w, "at least one page is required")
		return
	}

	pages := make([]domain.Page, 0, len(req.Pages))
	for _, p := range req.Pages {
		page, err := domain.NewPage(p.PageNumber, domain.ImageHandle{Path: p.ImagePath, URL: p.ImageURL})
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		page.PageSummary = p.PageSummary
		pages = append(pages, *page)
	}

	s.docs.Put(&domain.Document{ID: req.ID, Name: req.Name, Summary: req.Summary, Pages: pages})
	writeJSON(w, http.StatusCreated, documentSummaryResponse{ID: req.ID, Name: req.Name, Summary: req.Summary})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := s.docs.ListDocuments(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]documentSummaryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, documentSummaryResponse{ID: d.ID, Name: d.Name, Summary: d.Summary})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRunQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(w, "query is required")
		return
	}

	history, err := toConversationHistory(req.History)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	result, err := s.orchestrator.ProcessQuery(r.Context(), req.Query, history)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQueryResponse(result))
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toConversationHistory(reqs []conversationMessageRequest) ([]domain.ConversationMessage, error) {
	out := make([]domain.ConversationMessage, 0, len(reqs))
	for _, m := range reqs {
		msg, err := domain.NewConversationMessage(domain.ConversationRole(m.Role), m.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func toQueryResponse(r *domain.QueryResult) queryResponse {
	tasks := make([]taskResultResponse, 0, len(r.TaskResults))
	for _, tr := range r.TaskResults {
		tasks = append(tasks, taskResultResponse{
			TaskName:      tr.Task.Name,
			Status:        string(tr.Task.Status),
			Analysis:      tr.Analysis,
			PagesAnalyzed: tr.PagesAnalyzed(),
		})
	}
	return queryResponse{
		Query:             r.Query,
		ReformulatedQuery: r.ReformulatedQuery,
		Answer:            r.Answer,
		Iterations:        r.Iterations,
		TotalCost:         r.TotalCost,
		Canceled:          r.Canceled,
		ProcessingTimeMs:  r.ProcessingTime.Milliseconds(),
		TaskResults:       tasks,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
