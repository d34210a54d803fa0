package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	rawDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	client := newClientForTesting(sqlx.NewDb(rawDB, "sqlmock"), zap.NewNop())
	t.Cleanup(func() {
		close(client.stopCh)
		client.workerWg.Wait()
		rawDB.Close()
	})
	return client, mock
}

func TestCreateSession(t *testing.T) {
	client, mock := newMockClient(t)

	session := &DiscoverySession{
		SessionID:   uuid.New(),
		SessionType: SessionTypeManual,
		Status:      SessionStatusRunning,
		StartedAt:   time.Now(),
	}

	mock.ExpectExec(`INSERT INTO discovery_sessions`).
		WithArgs(session.SessionID, session.SessionType, session.Status, session.StartedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, client.CreateSession(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteSessionWritesCounters(t *testing.T) {
	client, mock := newMockClient(t)

	now := time.Now()
	session := &DiscoverySession{
		SessionID:             uuid.New(),
		Status:                SessionStatusCompleted,
		CompletedAt:           &now,
		TotalQueries:          15,
		TotalResults:          120,
		InvalidURLsSkipped:    3,
		SpamSkipped:           7,
		DuplicatesSkipped:     40,
		BlacklistSkipped:      2,
		HighConfidenceCreated: 50,
		LowConfidenceCreated:  18,
		AdaptersSucceeded:     5,
	}

	mock.ExpectExec(`UPDATE discovery_sessions SET`).
		WithArgs(session.SessionID, session.Status, sqlmock.AnyArg(),
			15, 120, 3, 7, 40, 2, 50, 18, 5, 0, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, client.CompleteSession(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDomainBlacklisted(t *testing.T) {
	client, mock := newMockClient(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT blacklisted FROM domains WHERE name`).
		WithArgs("scamgrants.xyz").
		WillReturnRows(sqlmock.NewRows([]string{"blacklisted"}).AddRow(true))

	blacklisted, err := client.IsDomainBlacklisted(ctx, "scamgrants.xyz")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// Unknown domains are not blacklisted.
	mock.ExpectQuery(`SELECT blacklisted FROM domains WHERE name`).
		WithArgs("europa.eu").
		WillReturnRows(sqlmock.NewRows([]string{"blacklisted"}))

	blacklisted, err = client.IsDomainBlacklisted(ctx, "europa.eu")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCandidateAtomic(t *testing.T) {
	client, mock := newMockClient(t)

	sessionID := uuid.New()
	domain := &Domain{
		DomainID:                 uuid.New(),
		Name:                     "ngogrants.org",
		Status:                   DomainStatusHighQuality,
		FirstDiscoveredSessionID: sessionID,
		FirstDiscoveredAt:        time.Now(),
		QualityScore:             decimal.NewNullDecimal(decimal.RequireFromString("0.75")),
	}
	candidate := &FundingSourceCandidate{
		CandidateID:     uuid.New(),
		URL:             "https://ngogrants.org/open-calls",
		DomainName:      "ngogrants.org",
		Title:           "Open calls for NGO funding",
		SessionID:       sessionID,
		ConfidenceScore: decimal.RequireFromString("0.75"),
		Status:          CandidateStatusPendingCrawl,
		DiscoveredAt:    time.Now(),
		CreatedAt:       time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO domains`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO funding_source_candidates`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, client.SaveCandidate(context.Background(), domain, candidate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCandidateRetriesOnce(t *testing.T) {
	client, mock := newMockClient(t)

	sessionID := uuid.New()
	domain := &Domain{
		DomainID:                 uuid.New(),
		Name:                     "fondacija.bg",
		Status:                   DomainStatusLowQuality,
		FirstDiscoveredSessionID: sessionID,
		FirstDiscoveredAt:        time.Now(),
	}
	candidate := &FundingSourceCandidate{
		CandidateID:     uuid.New(),
		URL:             "https://fondacija.bg/programi",
		DomainName:      "fondacija.bg",
		SessionID:       sessionID,
		ConfidenceScore: decimal.RequireFromString("0.40"),
		Status:          CandidateStatusSkippedLowConfidence,
		DiscoveredAt:    time.Now(),
		CreatedAt:       time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO domains`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO domains`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO funding_source_candidates`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, client.SaveCandidate(context.Background(), domain, candidate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSearchQueriesBatch(t *testing.T) {
	client, mock := newMockClient(t)

	sessionID := uuid.New()
	queries := []SearchQuery{
		{
			QueryID:          uuid.New(),
			SessionID:        sessionID,
			QueryText:        "EU grants environmental NGOs Bulgaria",
			SearchEngine:     "BRAVE",
			Tags:             []string{"category:ENVIRONMENTAL_CONSERVATION", "geo:BULGARIA"},
			GenerationMethod: GenerationMethodAI,
			GeneratedAt:      time.Now(),
		},
		{
			QueryID:          uuid.New(),
			SessionID:        sessionID,
			QueryText:        "foundations supporting civil society Balkans",
			SearchEngine:     "TAVILY",
			Tags:             []string{"geo:BALKANS"},
			GenerationMethod: GenerationMethodFallback,
			GeneratedAt:      time.Now(),
		},
	}

	mock.ExpectBegin()
	for range queries {
		mock.ExpectExec(`INSERT INTO search_queries`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, client.SaveSearchQueries(context.Background(), queries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSessionStatistic(t *testing.T) {
	client, mock := newMockClient(t)

	errMsg := "adapter timeout"
	stat := &SearchSessionStatistic{
		SessionID:    uuid.New(),
		SearchEngine: "SERPER",
		QueryText:    "municipal grants Bulgaria",
		ResultsCount: 0,
		ZeroResult:   true,
		DurationMs:   950,
		Error:        &errMsg,
	}

	mock.ExpectExec(`INSERT INTO search_session_statistics`).
		WithArgs(stat.SessionID, stat.SearchEngine, stat.QueryText,
			0, true, int64(950), &errMsg).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, client.SaveSessionStatistic(context.Background(), stat))
	assert.NoError(t, mock.ExpectationsWereMet())
}
