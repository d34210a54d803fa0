package querygen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/db"
	"github.com/grantscout/discovery/internal/llm"
	"github.com/grantscout/discovery/internal/metrics"
	"github.com/grantscout/discovery/internal/taxonomy"
)

var (
	// ErrInvalidRequest rejects malformed generation requests.
	ErrInvalidRequest = errors.New("invalid query generation request")
	// ErrGenerationFailed signals that neither the model nor the fallback
	// produced any queries.
	ErrGenerationFailed = errors.New("query generation failed")
)

// DefaultMaxQueries is the query count used when the caller has no opinion.
const DefaultMaxQueries = 10

// Request describes one query-generation call.
type Request struct {
	SearchEngine taxonomy.Engine
	Categories   []taxonomy.Category
	Geographic   taxonomy.GeographicScope
	MaxQueries   int
	SessionID    uuid.UUID

	// Optional narrowing dimensions.
	SourceTypes []taxonomy.FundingSourceType
	Mechanisms  []taxonomy.FundingMechanism
	Scales      []taxonomy.ProjectScale
	Populations []taxonomy.BeneficiaryPopulation
	OrgTypes    []taxonomy.RecipientOrganizationType
	Languages   []taxonomy.QueryLanguage
}

// Response carries the generated queries plus provenance.
type Response struct {
	Queries          []string
	SearchEngine     taxonomy.Engine
	FromCache        bool
	GenerationMethod string
	AIModel          string
	GeneratedAt      time.Time
	DurationMillis   int64
	CacheKey         CacheKey
}

// Completer is the model dependency: one prompt pair in, completion text out.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// QueryStore persists generated queries asynchronously for analytics.
type QueryStore interface {
	QueueSearchQueries(queries []db.SearchQuery)
}

// Service generates per-engine search queries, backed by a write-once cache
// and deterministic fallbacks when the model is unreachable.
type Service struct {
	completer Completer
	cache     *Cache
	store     QueryStore
	logger    *zap.Logger
}

// NewService wires the generation service.
func NewService(completer Completer, cache *Cache, store QueryStore, logger *zap.Logger) *Service {
	return &Service{
		completer: completer,
		cache:     cache,
		store:     store,
		logger:    logger,
	}
}

// GenerateQueries produces up to MaxQueries queries for the requested engine.
// Cache hits are answered without touching the model; on model failure the
// engine-class fallback keeps the pipeline running.
func (s *Service) GenerateQueries(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	if err := validate(req); err != nil {
		return nil, err
	}

	key := ComputeCacheKey(req)
	if cached, ok := s.cache.Get(key); ok {
		resp := *cached
		resp.FromCache = true
		resp.GenerationMethod = db.GenerationMethodCached
		resp.DurationMillis = time.Since(start).Milliseconds()
		metrics.QueriesGenerated.WithLabelValues(string(req.SearchEngine), resp.GenerationMethod).
			Add(float64(len(resp.Queries)))
		return &resp, nil
	}

	strat := strategyFor(req)
	queries, method := s.generate(ctx, req, strat)
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: engine %s produced no queries", ErrGenerationFailed, req.SearchEngine)
	}

	s.flagLengthDrift(req, strat, queries)

	resp := &Response{
		Queries:          queries,
		SearchEngine:     req.SearchEngine,
		GenerationMethod: method,
		GeneratedAt:      time.Now(),
		DurationMillis:   time.Since(start).Milliseconds(),
		CacheKey:         key,
	}
	if method == db.GenerationMethodAI {
		resp.AIModel = s.completer.Model()
	}

	s.cache.Put(key, resp)
	s.persistAsync(req, resp)

	metrics.QueriesGenerated.WithLabelValues(string(req.SearchEngine), method).
		Add(float64(len(queries)))
	metrics.QueryGenerationDuration.WithLabelValues(string(req.SearchEngine)).
		Observe(float64(resp.DurationMillis))

	return resp, nil
}

// CacheStats exposes the cache snapshot for the admin surface.
func (s *Service) CacheStats() CacheStats { return s.cache.Stats() }

func validate(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if _, err := taxonomy.ParseEngine(string(req.SearchEngine)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(req.Categories) == 0 {
		return fmt.Errorf("%w: categories must be non-empty", ErrInvalidRequest)
	}
	if req.Geographic == "" {
		return fmt.Errorf("%w: geographic scope is required", ErrInvalidRequest)
	}
	if req.MaxQueries < 1 || req.MaxQueries > 50 {
		return fmt.Errorf("%w: maxQueries %d outside [1,50]", ErrInvalidRequest, req.MaxQueries)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, req *Request, strat strategy) ([]string, string) {
	system, user := strat.buildPrompt(req)

	text, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		if !errors.Is(err, llm.ErrUnavailable) {
			s.logger.Warn("Unexpected completion error, using fallback",
				zap.String("engine", string(req.SearchEngine)),
				zap.Error(err),
			)
		}
		return strat.fallback(req), db.GenerationMethodFallback
	}

	queries := parseQueries(text, req.MaxQueries)
	if len(queries) == 0 {
		s.logger.Warn("Model output yielded no parseable queries, using fallback",
			zap.String("engine", string(req.SearchEngine)),
		)
		return strat.fallback(req), db.GenerationMethodFallback
	}
	return queries, db.GenerationMethodAI
}

// flagLengthDrift logs queries outside the engine's length class. They are
// kept: model drift is common and a slightly long keyword query still works.
func (s *Service) flagLengthDrift(req *Request, strat strategy, queries []string) {
	for _, q := range queries {
		if n := wordCount(q); n < strat.minWords() || n > strat.maxWords() {
			s.logger.Debug("Query outside engine length class",
				zap.String("engine", string(req.SearchEngine)),
				zap.String("query", q),
				zap.Int("words", n),
			)
		}
	}
}

func (s *Service) persistAsync(req *Request, resp *Response) {
	if s.store == nil {
		return
	}

	tags := buildTags(req)
	now := time.Now()

	records := make([]db.SearchQuery, 0, len(resp.Queries))
	for _, q := range resp.Queries {
		record := db.SearchQuery{
			QueryID:          uuid.New(),
			SessionID:        req.SessionID,
			QueryText:        q,
			SearchEngine:     string(req.SearchEngine),
			Tags:             tags,
			GenerationMethod: resp.GenerationMethod,
			GeneratedAt:      now,
		}
		if resp.AIModel != "" {
			model := resp.AIModel
			record.AIModel = &model
		}
		records = append(records, record)
	}
	s.store.QueueSearchQueries(records)
}

func buildTags(req *Request) []string {
	tags := make([]string, 0, len(req.Categories)+1)
	for _, c := range req.Categories {
		tags = append(tags, "CATEGORY:"+string(c))
	}
	tags = append(tags, "GEOGRAPHY:"+string(req.Geographic))
	for _, s := range req.SourceTypes {
		tags = append(tags, "SOURCE_TYPE:"+string(s))
	}
	for _, m := range req.Mechanisms {
		tags = append(tags, "MECHANISM:"+string(m))
	}
	for _, p := range req.Scales {
		tags = append(tags, "SCALE:"+string(p))
	}
	for _, b := range req.Populations {
		tags = append(tags, "POPULATION:"+string(b))
	}
	for _, o := range req.OrgTypes {
		tags = append(tags, "ORG_TYPE:"+string(o))
	}
	for _, l := range req.Languages {
		tags = append(tags, "LANGUAGE:"+string(l))
	}
	return tags
}
