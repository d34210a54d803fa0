package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/db"
	"github.com/grantscout/discovery/internal/workflow"
)

type stubExecutor struct {
	mu          sync.Mutex
	executed    []*workflow.Request
	validateErr error
	done        chan struct{}
}

func (e *stubExecutor) Execute(ctx context.Context, req *workflow.Request) (*db.DiscoverySession, error) {
	e.mu.Lock()
	e.executed = append(e.executed, req)
	e.mu.Unlock()
	if e.done != nil {
		close(e.done)
	}
	return &db.DiscoverySession{SessionID: req.SessionID, Status: db.SessionStatusCompleted}, nil
}

func (e *stubExecutor) ValidateRequest(req *workflow.Request) error {
	return e.validateErr
}

type stubSessions struct {
	sessions map[string]*db.DiscoverySession
	err      error
}

func (s stubSessions) GetSession(ctx context.Context, sessionID string) (*db.DiscoverySession, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return session, nil
}

func newTestServer(executor Executor, sessions SessionGetter, authToken string) *httptest.Server {
	mux := http.NewServeMux()
	NewDiscoveryHandler(executor, sessions, authToken, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

const validBody = `{
	"engines": ["BRAVE"],
	"categories": ["STEM_EDUCATION"],
	"geographic": "BULGARIA",
	"max_results_per_query": 10
}`

func TestSearchTriggerAccepted(t *testing.T) {
	executor := &stubExecutor{done: make(chan struct{})}
	server := newTestServer(executor, stubSessions{}, "")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/discovery/search", "application/json", strings.NewReader(validBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, db.SessionStatusRunning, body["status"])

	returnedID, err := uuid.Parse(body["session_id"])
	require.NoError(t, err)

	// Execution happens asynchronously with the id the caller was given.
	select {
	case <-executor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("executor was never invoked")
	}
	executor.mu.Lock()
	defer executor.mu.Unlock()
	require.Len(t, executor.executed, 1)
	assert.Equal(t, returnedID, executor.executed[0].SessionID)
}

func TestSearchTriggerRejectsInvalidRequest(t *testing.T) {
	executor := &stubExecutor{validateErr: workflow.ErrInvalidRequest}
	server := newTestServer(executor, stubSessions{}, "")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/discovery/search", "application/json", strings.NewReader(validBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	executor.mu.Lock()
	defer executor.mu.Unlock()
	assert.Empty(t, executor.executed)
}

func TestSearchTriggerRejectsMalformedJSON(t *testing.T) {
	server := newTestServer(&stubExecutor{}, stubSessions{}, "")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/discovery/search", "application/json", strings.NewReader(`{"engines": [`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown fields are rejected too.
	resp, err = http.Post(server.URL+"/api/v1/discovery/search", "application/json", strings.NewReader(`{"unknown_field": 1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchTriggerAuth(t *testing.T) {
	executor := &stubExecutor{}
	server := newTestServer(executor, stubSessions{}, "secret")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/discovery/search", "application/json", strings.NewReader(validBody))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/discovery/search", strings.NewReader(validBody))
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestSearchTriggerMethodNotAllowed(t *testing.T) {
	server := newTestServer(&stubExecutor{}, stubSessions{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/discovery/search")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetSession(t *testing.T) {
	sessionID := uuid.New()
	msg := "all search units failed"
	completed := time.Now()
	sessions := stubSessions{sessions: map[string]*db.DiscoverySession{
		sessionID.String(): {
			SessionID:             sessionID,
			SessionType:           db.SessionTypeManual,
			Status:                db.SessionStatusFailed,
			StartedAt:             completed.Add(-time.Minute),
			CompletedAt:           &completed,
			TotalQueries:          6,
			TotalResults:          0,
			ErrorMessage:          &msg,
			HighConfidenceCreated: 0,
		},
	}}
	server := newTestServer(&stubExecutor{}, sessions, "")
	defer server.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/discovery/sessions/%s", server.URL, sessionID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, sessionID.String(), body["session_id"])
	assert.Equal(t, db.SessionStatusFailed, body["status"])
	assert.Equal(t, msg, body["error_message"])
	assert.Equal(t, float64(6), body["total_queries"])
}

func TestGetSessionNotFound(t *testing.T) {
	server := newTestServer(&stubExecutor{}, stubSessions{}, "")
	defer server.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/discovery/sessions/%s", server.URL, uuid.New()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSessionInvalidID(t *testing.T) {
	server := newTestServer(&stubExecutor{}, stubSessions{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/discovery/sessions/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSessionStoreError(t *testing.T) {
	server := newTestServer(&stubExecutor{}, stubSessions{err: assert.AnError}, "")
	defer server.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/discovery/sessions/%s", server.URL, uuid.New()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
