package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/db"
	"github.com/grantscout/discovery/internal/taxonomy"
	"github.com/grantscout/discovery/internal/workflow"
)

// Executor runs one discovery session end to end.
type Executor interface {
	Execute(ctx context.Context, req *workflow.Request) (*db.DiscoverySession, error)
	ValidateRequest(req *workflow.Request) error
}

// SessionGetter reads session rows for status polling.
type SessionGetter interface {
	GetSession(ctx context.Context, sessionID string) (*db.DiscoverySession, error)
}

// DiscoveryHandler exposes the discovery trigger and session status endpoints.
// Sessions run asynchronously; the trigger returns the session id immediately
// and the caller polls the sessions endpoint for the outcome.
type DiscoveryHandler struct {
	executor   Executor
	sessions   SessionGetter
	logger     *zap.Logger
	authToken  string
	runTimeout time.Duration
}

// NewDiscoveryHandler creates a new handler.
func NewDiscoveryHandler(executor Executor, sessions SessionGetter, authToken string, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		executor:   executor,
		sessions:   sessions,
		logger:     logger,
		authToken:  authToken,
		runTimeout: 15 * time.Minute,
	}
}

// RegisterRoutes registers discovery routes on the provided mux.
func (h *DiscoveryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/discovery/search", h.handleSearch)
	mux.HandleFunc("/api/v1/discovery/sessions/", h.handleGetSession)
}

// searchRequest is the expected trigger payload.
type searchRequest struct {
	Engines            []taxonomy.Engine                    `json:"engines"`
	Categories         []taxonomy.Category                  `json:"categories"`
	Geographic         taxonomy.GeographicScope             `json:"geographic"`
	MaxResultsPerQuery int                                  `json:"max_results_per_query"`
	SessionType        string                               `json:"session_type,omitempty"`
	SourceTypes        []taxonomy.FundingSourceType         `json:"source_types,omitempty"`
	Mechanisms         []taxonomy.FundingMechanism          `json:"mechanisms,omitempty"`
	Scales             []taxonomy.ProjectScale              `json:"scales,omitempty"`
	Populations        []taxonomy.BeneficiaryPopulation     `json:"populations,omitempty"`
	OrgTypes           []taxonomy.RecipientOrganizationType `json:"org_types,omitempty"`
	Languages          []taxonomy.QueryLanguage             `json:"languages,omitempty"`
}

func (h *DiscoveryHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if !h.authorized(r) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req searchRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("search trigger decode error", zap.Error(err))
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	wfReq := &workflow.Request{
		Engines:            req.Engines,
		Categories:         req.Categories,
		Geographic:         req.Geographic,
		MaxResultsPerQuery: req.MaxResultsPerQuery,
		SessionType:        req.SessionType,
		SourceTypes:        req.SourceTypes,
		Mechanisms:         req.Mechanisms,
		Scales:             req.Scales,
		Populations:        req.Populations,
		OrgTypes:           req.OrgTypes,
		Languages:          req.Languages,
	}

	// Validate synchronously so the caller gets a 400 instead of a session
	// that was never created.
	if err := h.executor.ValidateRequest(wfReq); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
		return
	}

	sessionID := uuid.New()
	wfReq.SessionID = sessionID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()
		if _, err := h.executor.Execute(ctx, wfReq); err != nil {
			h.logger.Error("Discovery session execution failed",
				zap.String("session_id", sessionID.String()),
				zap.Error(err),
			)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID.String(),
		"status":     db.SessionStatusRunning,
	})
}

func (h *DiscoveryHandler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if !h.authorized(r) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/discovery/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, `{"error":"session id is required"}`, http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, `{"error":"invalid session id"}`, http.StatusBadRequest)
		return
	}

	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load session", zap.String("session_id", id), zap.Error(err))
		http.Error(w, `{"error":"failed to load session"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(sessionResponse(session))
}

func (h *DiscoveryHandler) authorized(r *http.Request) bool {
	if h.authToken == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == h.authToken
}

func sessionResponse(s *db.DiscoverySession) map[string]any {
	resp := map[string]any{
		"session_id":              s.SessionID.String(),
		"session_type":            s.SessionType,
		"status":                  s.Status,
		"started_at":              s.StartedAt,
		"total_queries":           s.TotalQueries,
		"total_results":           s.TotalResults,
		"invalid_urls_skipped":    s.InvalidURLsSkipped,
		"spam_skipped":            s.SpamSkipped,
		"duplicates_skipped":      s.DuplicatesSkipped,
		"blacklist_skipped":       s.BlacklistSkipped,
		"high_confidence_created": s.HighConfidenceCreated,
		"low_confidence_created":  s.LowConfidenceCreated,
		"adapters_succeeded":      s.AdaptersSucceeded,
		"adapters_failed":         s.AdaptersFailed,
	}
	if s.CompletedAt != nil {
		resp["completed_at"] = s.CompletedAt
	}
	if s.ErrorMessage != nil {
		resp["error_message"] = *s.ErrorMessage
	}
	return resp
}

// StartDiscoveryServer starts the discovery API server.
func StartDiscoveryServer(port int, authToken string, executor Executor, sessions SessionGetter, logger *zap.Logger) *http.Server {
	handler := NewDiscoveryHandler(executor, sessions, authToken, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("Starting discovery API server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Discovery API server failed", zap.Error(err))
		}
	}()
	return srv
}
