package processor

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/db"
	"github.com/grantscout/discovery/internal/metrics"
	"github.com/grantscout/discovery/internal/search"
)

// Outcome labels for processed results.
const (
	outcomeInvalidURL  = "invalid_url"
	outcomeSpam        = "spam"
	outcomeDuplicate   = "duplicate"
	outcomeBlacklisted = "blacklisted"
	outcomeHigh        = "high_confidence"
	outcomeLow         = "low_confidence"
)

// SpamFilter classifies one result as ok or spam with a reason.
type SpamFilter interface {
	Classify(domain, title, description string) (ok bool, reason string)
}

// BlacklistChecker answers domain blacklist lookups.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, name string) (bool, error)
}

// Scorer computes the confidence score of one result.
type Scorer interface {
	Score(title, description, url, domain string) decimal.Decimal
}

// CandidateStore persists a candidate together with its domain registration.
type CandidateStore interface {
	SaveCandidate(ctx context.Context, domain *db.Domain, candidate *db.FundingSourceCandidate) error
}

// Statistics are the per-session outcome counters. Every processed result
// lands in exactly one bucket, so the buckets sum to TotalResults.
type Statistics struct {
	TotalResults          int
	InvalidURLsSkipped    int
	SpamSkipped           int
	DuplicatesSkipped     int
	BlacklistSkipped      int
	HighConfidenceCreated int
	LowConfidenceCreated  int
}

// Sum adds up the outcome buckets; it equals TotalResults when the counter
// partition holds.
func (s Statistics) Sum() int {
	return s.InvalidURLsSkipped + s.SpamSkipped + s.DuplicatesSkipped +
		s.BlacklistSkipped + s.HighConfidenceCreated + s.LowConfidenceCreated
}

// SessionContext is the per-session processing state: the dedup set and the
// counters. One instance per session, never shared across sessions.
type SessionContext struct {
	SessionID   uuid.UUID
	Threshold   decimal.Decimal
	seenDomains map[string]struct{}
	Stats       Statistics
}

// NewSessionContext builds the state for one session.
func NewSessionContext(sessionID uuid.UUID, threshold decimal.Decimal) *SessionContext {
	return &SessionContext{
		SessionID:   sessionID,
		Threshold:   threshold,
		seenDomains: make(map[string]struct{}),
	}
}

// Processor walks search results through validation, spam filtering, dedup,
// blacklist checks, scoring, and candidate persistence.
type Processor struct {
	filter    SpamFilter
	blacklist BlacklistChecker
	scorer    Scorer
	store     CandidateStore
	logger    *zap.Logger
}

// New wires the processor.
func New(filter SpamFilter, blacklist BlacklistChecker, scorer Scorer, store CandidateStore, logger *zap.Logger) *Processor {
	return &Processor{
		filter:    filter,
		blacklist: blacklist,
		scorer:    scorer,
		store:     store,
		logger:    logger,
	}
}

// Process runs every result through the pipeline stages sequentially,
// mutating the session context counters. The first processed result for a
// domain wins; later sightings count as duplicates regardless of engine.
// A store write failure that survives the store's own retry aborts
// processing; results handled so far keep their counters.
func (p *Processor) Process(ctx context.Context, results []search.Result, pc *SessionContext) (Statistics, error) {
	for i := range results {
		pc.Stats.TotalResults++
		if err := p.processOne(ctx, &results[i], pc); err != nil {
			return pc.Stats, err
		}
	}
	return pc.Stats, nil
}

func (p *Processor) processOne(ctx context.Context, result *search.Result, pc *SessionContext) error {
	domain, ok := ExtractDomain(result.URL)
	if !ok {
		pc.Stats.InvalidURLsSkipped++
		metrics.ResultsProcessed.WithLabelValues(outcomeInvalidURL).Inc()
		return nil
	}

	if ok, reason := p.filter.Classify(domain, result.Title, result.Description); !ok {
		pc.Stats.SpamSkipped++
		metrics.ResultsProcessed.WithLabelValues(outcomeSpam).Inc()
		p.logger.Debug("Result rejected as spam",
			zap.String("domain", domain),
			zap.String("reason", reason),
		)
		return nil
	}

	if _, seen := pc.seenDomains[domain]; seen {
		pc.Stats.DuplicatesSkipped++
		metrics.ResultsProcessed.WithLabelValues(outcomeDuplicate).Inc()
		return nil
	}
	pc.seenDomains[domain] = struct{}{}

	blacklisted, err := p.blacklist.IsBlacklisted(ctx, domain)
	if err != nil {
		// Both cache and store are down. The result still has to land in
		// exactly one bucket, so it proceeds as not blacklisted, loudly.
		p.logger.Error("Blacklist check failed, treating domain as not blacklisted",
			zap.String("domain", domain),
			zap.Error(err),
		)
	}
	if blacklisted {
		pc.Stats.BlacklistSkipped++
		metrics.ResultsProcessed.WithLabelValues(outcomeBlacklisted).Inc()
		return nil
	}

	score := p.scorer.Score(result.Title, result.Description, result.URL, domain)

	high := score.Cmp(pc.Threshold) >= 0
	status := db.CandidateStatusPendingCrawl
	domainStatus := db.DomainStatusHighQuality
	outcome := outcomeHigh
	if !high {
		status = db.CandidateStatusSkippedLowConfidence
		domainStatus = db.DomainStatusLowQuality
		outcome = outcomeLow
	}

	saveErr := p.saveCandidate(ctx, result, pc, domain, domainStatus, status, score)

	// The classification happened either way; the bucket counters stay
	// truthful even when the write fails and the session aborts.
	if high {
		pc.Stats.HighConfidenceCreated++
	} else {
		pc.Stats.LowConfidenceCreated++
	}
	metrics.ResultsProcessed.WithLabelValues(outcome).Inc()
	if saveErr != nil {
		return fmt.Errorf("save candidate for %s: %w", domain, saveErr)
	}
	metrics.CandidatesCreated.WithLabelValues(status).Inc()
	return nil
}

func (p *Processor) saveCandidate(ctx context.Context, result *search.Result, pc *SessionContext,
	domain, domainStatus, candidateStatus string, score decimal.Decimal) error {

	now := time.Now()
	engineSource := string(result.Source)

	domainRow := &db.Domain{
		DomainID:                 uuid.New(),
		Name:                     domain,
		Status:                   domainStatus,
		FirstDiscoveredSessionID: pc.SessionID,
		FirstDiscoveredAt:        now,
		QualityScore:             decimal.NewNullDecimal(score),
	}
	candidate := &db.FundingSourceCandidate{
		CandidateID:        uuid.New(),
		URL:                result.URL,
		DomainName:         domain,
		Title:              result.Title,
		Description:        result.Description,
		SearchEngineSource: &engineSource,
		SessionID:          pc.SessionID,
		ConfidenceScore:    score,
		Status:             candidateStatus,
		DiscoveredAt:       result.DiscoveredAt,
		CreatedAt:          now,
	}

	if err := p.store.SaveCandidate(ctx, domainRow, candidate); err != nil {
		p.logger.Error("Failed to persist candidate",
			zap.String("domain", domain),
			zap.String("url", result.URL),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ExtractDomain parses the URL and returns the normalized domain: lowercased
// host with any leading "www." removed. ok is false on unparseable URLs,
// non-http(s) schemes, or an empty host.
func ExtractDomain(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	return host, true
}
