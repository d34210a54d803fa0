package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Session lifecycle values.
const (
	SessionTypeManual    = "MANUAL"
	SessionTypeScheduled = "SCHEDULED"

	SessionStatusRunning   = "RUNNING"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusPartial   = "PARTIAL"
	SessionStatusFailed    = "FAILED"
)

// Domain lifecycle values.
const (
	DomainStatusDiscovered  = "DISCOVERED"
	DomainStatusHighQuality = "PROCESSED_HIGH_QUALITY"
	DomainStatusLowQuality  = "PROCESSED_LOW_QUALITY"
	DomainStatusBlacklisted = "BLACKLISTED"
)

// Candidate lifecycle values. Phase 1 only writes the first two; the rest
// belong to the downstream crawl and review workflows.
const (
	CandidateStatusPendingCrawl         = "PENDING_CRAWL"
	CandidateStatusSkippedLowConfidence = "SKIPPED_LOW_CONFIDENCE"
	CandidateStatusCrawled              = "CRAWLED"
	CandidateStatusEnhanced             = "ENHANCED"
	CandidateStatusApproved             = "APPROVED"
	CandidateStatusRejected             = "REJECTED"
)

// Query generation methods.
const (
	GenerationMethodAI       = "AI"
	GenerationMethodFallback = "FALLBACK"
	GenerationMethodCached   = "CACHED"
)

// DiscoverySession is one triggered discovery run with its aggregate counters.
type DiscoverySession struct {
	SessionID   uuid.UUID  `db:"session_id"`
	SessionType string     `db:"session_type"`
	Status      string     `db:"status"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`

	TotalQueries          int `db:"total_queries"`
	TotalResults          int `db:"total_results"`
	InvalidURLsSkipped    int `db:"invalid_urls_skipped"`
	SpamSkipped           int `db:"spam_skipped"`
	DuplicatesSkipped     int `db:"duplicates_skipped"`
	BlacklistSkipped      int `db:"blacklist_skipped"`
	HighConfidenceCreated int `db:"high_confidence_created"`
	LowConfidenceCreated  int `db:"low_confidence_created"`
	AdaptersSucceeded     int `db:"adapters_succeeded"`
	AdaptersFailed        int `db:"adapters_failed"`

	ErrorMessage *string `db:"error_message"`
}

// SearchQuery is an append-only record of a generated query, kept for
// analytics.
type SearchQuery struct {
	QueryID          uuid.UUID      `db:"query_id"`
	SessionID        uuid.UUID      `db:"session_id"`
	QueryText        string         `db:"query_text"`
	SearchEngine     string         `db:"search_engine"`
	Tags             pq.StringArray `db:"tags"`
	GenerationMethod string         `db:"generation_method"`
	AIModel          *string        `db:"ai_model"`
	GeneratedAt      time.Time      `db:"generated_at"`
}

// SearchSessionStatistic records the outcome of one (engine, query) unit.
type SearchSessionStatistic struct {
	SessionID    uuid.UUID `db:"session_id"`
	SearchEngine string    `db:"search_engine"`
	QueryText    string    `db:"query_text"`
	ResultsCount int       `db:"results_count"`
	ZeroResult   bool      `db:"zero_result"`
	DurationMs   int64     `db:"duration_ms"`
	Error        *string   `db:"error"`
}

// Domain is the registry row for a discovered domain. Name is unique and
// stored lowercase without a leading "www.".
type Domain struct {
	DomainID                 uuid.UUID           `db:"domain_id"`
	Name                     string              `db:"name"`
	Status                   string              `db:"status"`
	Blacklisted              bool                `db:"blacklisted"`
	BlacklistReason          *string             `db:"blacklist_reason"`
	FirstDiscoveredSessionID uuid.UUID           `db:"first_discovered_session_id"`
	FirstDiscoveredAt        time.Time           `db:"first_discovered_at"`
	QualityScore             decimal.NullDecimal `db:"quality_score"`
	TimesProcessed           int                 `db:"times_processed"`
	CandidatesCreated        int                 `db:"candidates_created"`
}

// FundingSourceCandidate is a URL the pipeline judged worth (or explicitly
// not worth) crawling later. Immutable after creation as far as this
// pipeline is concerned.
type FundingSourceCandidate struct {
	CandidateID        uuid.UUID       `db:"candidate_id"`
	URL                string          `db:"url"`
	DomainName         string          `db:"domain_name"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	SearchEngineSource *string         `db:"search_engine_source"`
	SessionID          uuid.UUID       `db:"session_id"`
	ConfidenceScore    decimal.Decimal `db:"confidence_score"`
	Status             string          `db:"status"`
	DiscoveredAt       time.Time       `db:"discovered_at"`
	CreatedAt          time.Time       `db:"created_at"`
}
