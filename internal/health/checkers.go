package health

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/circuitbreaker"
	"github.com/grantscout/discovery/internal/search"
	"github.com/grantscout/discovery/internal/taxonomy"
)

// RedisHealthChecker checks Redis connectivity through the wrapped client.
type RedisHealthChecker struct {
	wrapper *circuitbreaker.RedisWrapper
	logger  *zap.Logger
	timeout time.Duration
}

// NewRedisHealthChecker creates a Redis health checker
func NewRedisHealthChecker(wrapper *circuitbreaker.RedisWrapper, logger *zap.Logger) *RedisHealthChecker {
	return &RedisHealthChecker{
		wrapper: wrapper,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

func (r *RedisHealthChecker) Name() string           { return "redis" }
func (r *RedisHealthChecker) IsCritical() bool       { return false } // blacklist cache falls back to the store
func (r *RedisHealthChecker) Timeout() time.Duration { return r.timeout }

func (r *RedisHealthChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Component: "redis"}

	if r.wrapper.State() == circuitbreaker.StateOpen {
		result.Status = StatusUnhealthy
		result.Error = "circuit breaker open"
		result.Message = "Redis circuit breaker is open"
		return result
	}

	err := r.wrapper.Ping(ctx).Err()
	latency := time.Since(start)

	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Message = "Redis ping failed"
		return result
	}

	if latency > 100*time.Millisecond {
		result.Status = StatusDegraded
		result.Message = "Redis responding but with high latency"
	} else {
		result.Status = StatusHealthy
		result.Message = "Redis healthy"
	}
	result.Details = map[string]interface{}{
		"latency_ms": latency.Milliseconds(),
	}
	return result
}

// DatabaseHealthChecker checks PostgreSQL connectivity.
type DatabaseHealthChecker struct {
	wrapper *circuitbreaker.DatabaseWrapper
	logger  *zap.Logger
	timeout time.Duration
}

// NewDatabaseHealthChecker creates a database health checker
func NewDatabaseHealthChecker(wrapper *circuitbreaker.DatabaseWrapper, logger *zap.Logger) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{
		wrapper: wrapper,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

func (d *DatabaseHealthChecker) Name() string           { return "database" }
func (d *DatabaseHealthChecker) IsCritical() bool       { return true }
func (d *DatabaseHealthChecker) Timeout() time.Duration { return d.timeout }

func (d *DatabaseHealthChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Component: "database"}

	if d.wrapper.State() == circuitbreaker.StateOpen {
		result.Status = StatusUnhealthy
		result.Error = "circuit breaker open"
		result.Message = "Database circuit breaker is open"
		return result
	}

	err := d.wrapper.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Message = "Database ping failed"
		return result
	}

	stats := d.wrapper.DB().Stats()
	if stats.MaxOpenConnections > 0 && stats.OpenConnections >= stats.MaxOpenConnections {
		result.Status = StatusDegraded
		result.Message = "Database connection pool exhausted"
	} else if latency > 100*time.Millisecond {
		result.Status = StatusDegraded
		result.Message = "Database responding but with high latency"
	} else {
		result.Status = StatusHealthy
		result.Message = "Database healthy"
	}
	result.Details = map[string]interface{}{
		"latency_ms":           latency.Milliseconds(),
		"open_connections":     stats.OpenConnections,
		"max_open_connections": stats.MaxOpenConnections,
		"in_use_connections":   stats.InUse,
	}
	return result
}

// LLMHealthChecker probes the LLM gateway base URL. Query generation falls
// back to deterministic templates when the gateway is down, so this check is
// never critical.
type LLMHealthChecker struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewLLMHealthChecker creates an LLM gateway health checker
func NewLLMHealthChecker(baseURL string, logger *zap.Logger) *LLMHealthChecker {
	return &LLMHealthChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

func (l *LLMHealthChecker) Name() string           { return "llm" }
func (l *LLMHealthChecker) IsCritical() bool       { return false }
func (l *LLMHealthChecker) Timeout() time.Duration { return l.timeout }

func (l *LLMHealthChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Component: "llm",
		Details:   map[string]interface{}{"base_url": l.baseURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/v1/models", nil)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		return result
	}

	resp, err := l.client.Do(req)
	result.Details["latency_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Message = "LLM gateway unreachable, query generation degrades to templates"
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		result.Status = StatusUnhealthy
		result.Message = "LLM gateway returning server errors"
	} else {
		result.Status = StatusHealthy
		result.Message = "LLM gateway healthy"
	}
	return result
}

// AdapterHealthChecker reports how many enabled search adapters answer their
// availability probe. Zero available adapters means no session can produce
// results, so the check is critical.
type AdapterHealthChecker struct {
	adapters map[taxonomy.Engine]search.Adapter
	logger   *zap.Logger
	timeout  time.Duration
}

// NewAdapterHealthChecker creates a search adapter health checker
func NewAdapterHealthChecker(adapters map[taxonomy.Engine]search.Adapter, logger *zap.Logger) *AdapterHealthChecker {
	return &AdapterHealthChecker{
		adapters: adapters,
		logger:   logger,
		timeout:  10 * time.Second,
	}
}

func (a *AdapterHealthChecker) Name() string           { return "search_adapters" }
func (a *AdapterHealthChecker) IsCritical() bool       { return true }
func (a *AdapterHealthChecker) Timeout() time.Duration { return a.timeout }

func (a *AdapterHealthChecker) Check(ctx context.Context) CheckResult {
	result := CheckResult{Component: "search_adapters"}

	available := 0
	perEngine := make(map[string]interface{}, len(a.adapters))
	for engine, adapter := range a.adapters {
		up := adapter.IsAvailable(ctx)
		perEngine[string(engine)] = up
		if up {
			available++
		}
	}
	result.Details = map[string]interface{}{
		"enabled":   len(a.adapters),
		"available": available,
		"engines":   perEngine,
	}

	switch {
	case len(a.adapters) == 0:
		result.Status = StatusUnhealthy
		result.Message = "No search adapters enabled"
	case available == 0:
		result.Status = StatusUnhealthy
		result.Message = "No search adapter available"
	case available < len(a.adapters):
		result.Status = StatusDegraded
		result.Message = "Some search adapters unavailable"
	default:
		result.Status = StatusHealthy
		result.Message = "All search adapters available"
	}
	return result
}
