package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grantscout/discovery/internal/db"
	"github.com/grantscout/discovery/internal/metrics"
	"github.com/grantscout/discovery/internal/processor"
	"github.com/grantscout/discovery/internal/querygen"
	"github.com/grantscout/discovery/internal/search"
	"github.com/grantscout/discovery/internal/taxonomy"
)

// ErrInvalidRequest rejects malformed execution requests.
var ErrInvalidRequest = errors.New("invalid search request")

// Request is the trigger input: which engines to fan out to and what to
// search for.
type Request struct {
	Engines            []taxonomy.Engine
	Categories         []taxonomy.Category
	Geographic         taxonomy.GeographicScope
	MaxResultsPerQuery int
	SessionType        string

	// SessionID, when set, is used for the session row instead of a fresh
	// one. Lets async callers hand out the id before execution starts.
	SessionID uuid.UUID

	// Optional narrowing dimensions, passed through to query generation.
	SourceTypes []taxonomy.FundingSourceType
	Mechanisms  []taxonomy.FundingMechanism
	Scales      []taxonomy.ProjectScale
	Populations []taxonomy.BeneficiaryPopulation
	OrgTypes    []taxonomy.RecipientOrganizationType
	Languages   []taxonomy.QueryLanguage
}

// SessionStore persists session lifecycle records and per-unit statistics.
type SessionStore interface {
	CreateSession(ctx context.Context, session *db.DiscoverySession) error
	CompleteSession(ctx context.Context, session *db.DiscoverySession) error
	QueueSessionStatistic(stat *db.SearchSessionStatistic)
}

// QueryGenerator produces per-engine search queries.
type QueryGenerator interface {
	GenerateQueries(ctx context.Context, req *querygen.Request) (*querygen.Response, error)
}

// ResultProcessor walks the aggregated results through the result pipeline.
// A non-nil error means a candidate write failed past its retry and the
// session must end FAILED.
type ResultProcessor interface {
	Process(ctx context.Context, results []search.Result, pc *processor.SessionContext) (processor.Statistics, error)
}

// Config bounds one workflow execution.
type Config struct {
	QueriesPerEngine int
	TotalTimeout     time.Duration
	MaxConcurrency   int
	Threshold        decimal.Decimal
}

// Orchestrator runs the discovery workflow: session bookkeeping, query
// generation, the concurrent search fan-out, and result processing.
type Orchestrator struct {
	store     SessionStore
	generator QueryGenerator
	adapters  map[taxonomy.Engine]search.Adapter
	processor ResultProcessor
	config    Config
	logger    *zap.Logger
}

// New wires the orchestrator.
func New(store SessionStore, generator QueryGenerator, adapters map[taxonomy.Engine]search.Adapter,
	resultProcessor ResultProcessor, config Config, logger *zap.Logger) *Orchestrator {

	if config.QueriesPerEngine <= 0 {
		config.QueriesPerEngine = 3
	}
	if config.TotalTimeout <= 0 {
		config.TotalTimeout = 10 * time.Minute
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 16
	}
	return &Orchestrator{
		store:     store,
		generator: generator,
		adapters:  adapters,
		processor: resultProcessor,
		config:    config,
		logger:    logger,
	}
}

// searchUnit is one (engine, query) fan-out task.
type searchUnit struct {
	engine taxonomy.Engine
	query  string
}

type unitOutcome struct {
	engine  taxonomy.Engine
	results []search.Result
	err     error
}

// Execute runs one discovery session end to end and returns the final
// session aggregate. The session row is created in RUNNING state before any
// work starts and always closed with a terminal status.
func (o *Orchestrator) Execute(ctx context.Context, req *Request) (*db.DiscoverySession, error) {
	if err := o.ValidateRequest(req); err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}
	session := &db.DiscoverySession{
		SessionID:   sessionID,
		SessionType: req.SessionType,
		Status:      db.SessionStatusRunning,
		StartedAt:   time.Now(),
	}
	if session.SessionType == "" {
		session.SessionType = db.SessionTypeManual
	}
	if err := o.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	metrics.SessionsStarted.WithLabelValues(session.SessionType).Inc()

	o.logger.Info("Discovery session started",
		zap.String("session_id", session.SessionID.String()),
		zap.Int("engines", len(req.Engines)),
	)

	runCtx, cancel := context.WithTimeout(ctx, o.config.TotalTimeout)
	defer cancel()

	units := o.generateUnits(runCtx, req, session)
	outcomes := o.fanOut(runCtx, req, session, units)

	var results []search.Result
	unitsSucceeded, unitsFailed := 0, 0
	engineFailed := make(map[taxonomy.Engine]bool)
	engineSucceeded := make(map[taxonomy.Engine]bool)
	for _, out := range outcomes {
		if out.err != nil {
			unitsFailed++
			engineFailed[out.engine] = true
			continue
		}
		unitsSucceeded++
		engineSucceeded[out.engine] = true
		results = append(results, out.results...)
	}
	session.TotalResults = len(results)

	for _, engine := range req.Engines {
		if engineSucceeded[engine] {
			session.AdaptersSucceeded++
		} else if engineFailed[engine] {
			session.AdaptersFailed++
		}
	}

	// Fan in. Processing is sequential; the dedup set is session-local.
	pc := processor.NewSessionContext(session.SessionID, o.config.Threshold)
	stats, procErr := o.processor.Process(runCtx, results, pc)
	o.applyStats(session, stats)

	switch {
	case procErr != nil:
		session.Status = db.SessionStatusFailed
		msg := procErr.Error()
		session.ErrorMessage = &msg
	case runCtx.Err() != nil:
		session.Status = db.SessionStatusFailed
		msg := runCtx.Err().Error()
		session.ErrorMessage = &msg
	case unitsSucceeded == 0:
		session.Status = db.SessionStatusFailed
		msg := "all search units failed"
		session.ErrorMessage = &msg
	case unitsFailed > 0:
		session.Status = db.SessionStatusPartial
	default:
		session.Status = db.SessionStatusCompleted
	}

	now := time.Now()
	session.CompletedAt = &now

	// Closing the session must not be lost to a cancelled request context.
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := o.store.CompleteSession(closeCtx, session); err != nil {
		o.logger.Error("Failed to close session",
			zap.String("session_id", session.SessionID.String()),
			zap.Error(err),
		)
	}

	metrics.RecordSessionMetrics(session.SessionType, session.Status, now.Sub(session.StartedAt).Seconds())

	o.logger.Info("Discovery session finished",
		zap.String("session_id", session.SessionID.String()),
		zap.String("status", session.Status),
		zap.Int("total_results", session.TotalResults),
		zap.Int("high_confidence", session.HighConfidenceCreated),
		zap.Int("low_confidence", session.LowConfidenceCreated),
	)

	return session, nil
}

// ValidateRequest rejects malformed requests without starting a session.
func (o *Orchestrator) ValidateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if len(req.Engines) == 0 {
		return fmt.Errorf("%w: engines must be non-empty", ErrInvalidRequest)
	}
	for _, engine := range req.Engines {
		if _, err := taxonomy.ParseEngine(string(engine)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if _, ok := o.adapters[engine]; !ok {
			return fmt.Errorf("%w: engine %s is not enabled", ErrInvalidRequest, engine)
		}
	}
	if len(req.Categories) == 0 {
		return fmt.Errorf("%w: categories must be non-empty", ErrInvalidRequest)
	}
	if req.Geographic == "" {
		return fmt.Errorf("%w: geographic scope is required", ErrInvalidRequest)
	}
	if req.MaxResultsPerQuery < 1 || req.MaxResultsPerQuery > 100 {
		return fmt.Errorf("%w: maxResultsPerQuery %d outside [1,100]", ErrInvalidRequest, req.MaxResultsPerQuery)
	}
	return nil
}

// generateUnits asks the generation service for up to K queries per engine.
// A generation failure marks every unit of that engine as failed without
// aborting the session.
func (o *Orchestrator) generateUnits(ctx context.Context, req *Request, session *db.DiscoverySession) []searchUnit {
	var units []searchUnit
	for _, engine := range req.Engines {
		resp, err := o.generator.GenerateQueries(ctx, &querygen.Request{
			SearchEngine: engine,
			Categories:   req.Categories,
			Geographic:   req.Geographic,
			MaxQueries:   o.config.QueriesPerEngine,
			SessionID:    session.SessionID,
			SourceTypes:  req.SourceTypes,
			Mechanisms:   req.Mechanisms,
			Scales:       req.Scales,
			Populations:  req.Populations,
			OrgTypes:     req.OrgTypes,
			Languages:    req.Languages,
		})
		if err != nil {
			o.logger.Error("Query generation failed for engine",
				zap.String("engine", string(engine)),
				zap.Error(err),
			)
			continue
		}
		for _, q := range resp.Queries {
			units = append(units, searchUnit{engine: engine, query: q})
		}
	}
	session.TotalQueries = len(units)
	return units
}

// fanOut runs every (engine, query) unit concurrently, bounded by the
// configured concurrency. Unit failures are recorded, never propagated.
func (o *Orchestrator) fanOut(ctx context.Context, req *Request, session *db.DiscoverySession, units []searchUnit) []unitOutcome {
	outcomes := make([]unitOutcome, len(units))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.MaxConcurrency)

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			start := time.Now()
			results, err := o.adapters[unit.engine].Search(gctx, unit.query, req.MaxResultsPerQuery)
			elapsed := time.Since(start)

			stat := &db.SearchSessionStatistic{
				SessionID:    session.SessionID,
				SearchEngine: string(unit.engine),
				QueryText:    unit.query,
				ResultsCount: len(results),
				ZeroResult:   err == nil && len(results) == 0,
				DurationMs:   elapsed.Milliseconds(),
			}
			if err != nil {
				msg := err.Error()
				stat.Error = &msg
				o.logger.Warn("Search unit failed",
					zap.String("engine", string(unit.engine)),
					zap.String("query", unit.query),
					zap.Error(err),
				)
			}
			o.store.QueueSessionStatistic(stat)

			mu.Lock()
			outcomes[i] = unitOutcome{engine: unit.engine, results: results, err: err}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func (o *Orchestrator) applyStats(session *db.DiscoverySession, stats processor.Statistics) {
	session.InvalidURLsSkipped = stats.InvalidURLsSkipped
	session.SpamSkipped = stats.SpamSkipped
	session.DuplicatesSkipped = stats.DuplicatesSkipped
	session.BlacklistSkipped = stats.BlacklistSkipped
	session.HighConfidenceCreated = stats.HighConfidenceCreated
	session.LowConfidenceCreated = stats.LowConfidenceCreated
}
