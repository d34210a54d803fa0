package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CreateSession inserts a new discovery session in RUNNING state.
func (c *Client) CreateSession(ctx context.Context, session *DiscoverySession) error {
	query := `
		INSERT INTO discovery_sessions (
			session_id, session_type, status, started_at
		) VALUES ($1, $2, $3, $4)`

	_, err := c.db.ExecContext(ctx, query,
		session.SessionID, session.SessionType, session.Status, session.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// CompleteSession writes the terminal status and aggregate counters.
func (c *Client) CompleteSession(ctx context.Context, session *DiscoverySession) error {
	query := `
		UPDATE discovery_sessions SET
			status = $2,
			completed_at = $3,
			total_queries = $4,
			total_results = $5,
			invalid_urls_skipped = $6,
			spam_skipped = $7,
			duplicates_skipped = $8,
			blacklist_skipped = $9,
			high_confidence_created = $10,
			low_confidence_created = $11,
			adapters_succeeded = $12,
			adapters_failed = $13,
			error_message = $14
		WHERE session_id = $1`

	_, err := c.db.ExecContext(ctx, query,
		session.SessionID,
		session.Status,
		session.CompletedAt,
		session.TotalQueries,
		session.TotalResults,
		session.InvalidURLsSkipped,
		session.SpamSkipped,
		session.DuplicatesSkipped,
		session.BlacklistSkipped,
		session.HighConfidenceCreated,
		session.LowConfidenceCreated,
		session.AdaptersSucceeded,
		session.AdaptersFailed,
		session.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	return nil
}

// GetSession loads a session by id. Returns sql.ErrNoRows when absent.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*DiscoverySession, error) {
	var session DiscoverySession
	query := `SELECT * FROM discovery_sessions WHERE session_id = $1`

	if err := c.db.GetContext(ctx, &session, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// SaveSearchQueries inserts a batch of generated queries in one transaction.
func (c *Client) SaveSearchQueries(ctx context.Context, queries []SearchQuery) error {
	if len(queries) == 0 {
		return nil
	}

	return c.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		stmt := `
			INSERT INTO search_queries (
				query_id, session_id, query_text, search_engine,
				tags, generation_method, ai_model, generated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

		for i := range queries {
			q := &queries[i]
			if _, err := tx.ExecContext(ctx, stmt,
				q.QueryID, q.SessionID, q.QueryText, q.SearchEngine,
				q.Tags, q.GenerationMethod, q.AIModel, q.GeneratedAt,
			); err != nil {
				return fmt.Errorf("failed to insert search query: %w", err)
			}
		}
		return nil
	})
}

// QueueSearchQueries persists queries asynchronously. Failures are logged by
// the write worker and never fail the caller.
func (c *Client) QueueSearchQueries(queries []SearchQuery) {
	if len(queries) == 0 {
		return
	}
	c.QueueWrite(WriteTypeSearchQueries, queries, nil)
}

// SaveSessionStatistic records the outcome of one (engine, query) search unit.
func (c *Client) SaveSessionStatistic(ctx context.Context, stat *SearchSessionStatistic) error {
	query := `
		INSERT INTO search_session_statistics (
			session_id, search_engine, query_text,
			results_count, zero_result, duration_ms, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := c.db.ExecContext(ctx, query,
		stat.SessionID, stat.SearchEngine, stat.QueryText,
		stat.ResultsCount, stat.ZeroResult, stat.DurationMs, stat.Error)
	if err != nil {
		return fmt.Errorf("failed to save session statistic: %w", err)
	}
	return nil
}

// QueueSessionStatistic persists a statistic asynchronously.
func (c *Client) QueueSessionStatistic(stat *SearchSessionStatistic) {
	c.QueueWrite(WriteTypeSessionStatistic, stat, nil)
}

// IsDomainBlacklisted checks the domain registry. An unknown domain is not
// blacklisted.
func (c *Client) IsDomainBlacklisted(ctx context.Context, name string) (bool, error) {
	var blacklisted bool
	query := `SELECT blacklisted FROM domains WHERE name = $1`

	err := c.db.GetContext(ctx, &blacklisted, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist for %s: %w", name, err)
	}
	return blacklisted, nil
}

// SaveCandidate registers (or re-sights) the candidate's domain and inserts
// the candidate row, atomically. On re-sighting, the domain keeps its original
// discovery session and timestamp while its processing counters and latest
// status advance.
func (c *Client) SaveCandidate(ctx context.Context, domain *Domain, candidate *FundingSourceCandidate) error {
	if err := c.saveCandidateOnce(ctx, domain, candidate); err != nil {
		// One retry after a short pause covers transient pool and
		// serialization hiccups without masking real failures.
		c.logger.Warn("Candidate save failed, retrying once",
			zap.String("domain", domain.Name),
			zap.Error(err),
		)
		time.Sleep(100 * time.Millisecond)
		return c.saveCandidateOnce(ctx, domain, candidate)
	}
	return nil
}

func (c *Client) saveCandidateOnce(ctx context.Context, domain *Domain, candidate *FundingSourceCandidate) error {
	return c.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		domainStmt := `
			INSERT INTO domains (
				domain_id, name, status, blacklisted,
				first_discovered_session_id, first_discovered_at,
				quality_score, times_processed, candidates_created
			) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, 1)
			ON CONFLICT (name) DO UPDATE SET
				status = EXCLUDED.status,
				quality_score = EXCLUDED.quality_score,
				times_processed = domains.times_processed + 1,
				candidates_created = domains.candidates_created + 1`

		if _, err := tx.ExecContext(ctx, domainStmt,
			domain.DomainID, domain.Name, domain.Status, domain.Blacklisted,
			domain.FirstDiscoveredSessionID, domain.FirstDiscoveredAt,
			domain.QualityScore,
		); err != nil {
			return fmt.Errorf("failed to upsert domain %s: %w", domain.Name, err)
		}

		candidateStmt := `
			INSERT INTO funding_source_candidates (
				candidate_id, url, domain_name, title, description,
				search_engine_source, session_id, confidence_score,
				status, discovered_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

		if _, err := tx.ExecContext(ctx, candidateStmt,
			candidate.CandidateID, candidate.URL, candidate.DomainName,
			candidate.Title, candidate.Description, candidate.SearchEngineSource,
			candidate.SessionID, candidate.ConfidenceScore, candidate.Status,
			candidate.DiscoveredAt, candidate.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert candidate for %s: %w", candidate.URL, err)
		}
		return nil
	})
}

// GetDomain loads a domain registry row by name.
func (c *Client) GetDomain(ctx context.Context, name string) (*Domain, error) {
	var domain Domain
	query := `SELECT * FROM domains WHERE name = $1`

	if err := c.db.GetContext(ctx, &domain, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return &domain, nil
}
