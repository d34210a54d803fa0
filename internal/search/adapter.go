package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/grantscout/discovery/internal/circuitbreaker"
	"github.com/grantscout/discovery/internal/config"
	"github.com/grantscout/discovery/internal/metrics"
	"github.com/grantscout/discovery/internal/taxonomy"
)

// Result is the engine-neutral shape every adapter normalizes to.
type Result struct {
	URL          string
	Title        string
	Description  string
	Source       taxonomy.Engine
	DiscoveredAt time.Time
}

// Adapter is the per-engine search capability. Search either returns a fully
// normalized list (possibly empty) or fails with an AdapterError; it never
// returns partial output.
type Adapter interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	EngineType() taxonomy.Engine
	IsAvailable(ctx context.Context) bool
}

// AdapterError tags a failure with the engine it came from.
type AdapterError struct {
	Engine taxonomy.Engine
	Cause  error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s adapter: %v", e.Engine, e.Cause)
}

func (e *AdapterError) Unwrap() error { return e.Cause }

// base carries the HTTP plumbing shared by every adapter: a circuit-broken
// client and an optional outbound rate limit.
type base struct {
	engine  taxonomy.Engine
	http    *circuitbreaker.HTTPWrapper
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

func newBase(engine taxonomy.Engine, cfg config.AdapterConfig, logger *zap.Logger) base {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return base{
		engine:  engine,
		http:    circuitbreaker.NewHTTPWrapper(&http.Client{Timeout: timeout}, strings.ToLower(string(engine)), logger),
		limiter: limiter,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

func (b *base) EngineType() taxonomy.Engine { return b.engine }

func (b *base) fail(cause error) error {
	return &AdapterError{Engine: b.engine, Cause: cause}
}

// do applies the rate limit, executes the request, and classifies non-2xx
// statuses as failures.
func (b *base) do(req *http.Request) (*http.Response, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(req.Context()); err != nil {
			return nil, b.fail(err)
		}
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, b.fail(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, b.fail(fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return resp, nil
}

// probe is the shared availability check for self-hosted engines: any
// response below 500 from the base URL counts as up.
func (b *base) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

func validateInput(query string, maxResults int) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("empty query")
	}
	if maxResults < 1 || maxResults > 100 {
		return fmt.Errorf("maxResults %d outside [1,100]", maxResults)
	}
	return nil
}

// normalize trims the vendor fields and stamps source and discovery time.
// Entries without a usable absolute http(s) URL are dropped here; deeper URL
// validation belongs to the processor.
func (b *base) normalize(rawURL, title, description string, now time.Time) (Result, bool) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{}, false
	}
	return Result{
		URL:          rawURL,
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		Source:       b.engine,
		DiscoveredAt: now,
	}, true
}

// observe records adapter metrics around one Search call.
func (b *base) observe(start time.Time, results []Result, err error) {
	engine := string(b.engine)
	metrics.AdapterSearchDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AdapterSearches.WithLabelValues(engine, "error").Inc()
		return
	}
	metrics.AdapterSearches.WithLabelValues(engine, "success").Inc()
	if len(results) == 0 {
		metrics.AdapterZeroResults.WithLabelValues(engine).Inc()
	}
}

// NewAdapter builds the adapter for an engine from its config section.
func NewAdapter(engine taxonomy.Engine, cfg config.AdapterConfig, logger *zap.Logger) (Adapter, error) {
	switch engine {
	case taxonomy.EngineSearxng:
		return NewSearxngAdapter(cfg, logger), nil
	case taxonomy.EngineBrave:
		return NewBraveAdapter(cfg, logger), nil
	case taxonomy.EngineSerper:
		return NewSerperAdapter(cfg, logger), nil
	case taxonomy.EngineTavily:
		return NewTavilyAdapter(cfg, logger), nil
	case taxonomy.EnginePerplexica:
		return NewPerplexicaAdapter(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}
