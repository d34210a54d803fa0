package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
	"github.com/grantscout/discovery/internal/taxonomy"
)

// SearxngAdapter queries a self-hosted SearXNG instance over its JSON API.
type SearxngAdapter struct {
	base
}

// NewSearxngAdapter builds the adapter from its config section.
func NewSearxngAdapter(cfg config.AdapterConfig, logger *zap.Logger) *SearxngAdapter {
	return &SearxngAdapter{base: newBase(taxonomy.EngineSearxng, cfg, logger)}
}

type searxngResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search issues GET /search?q=<query>&format=json and normalizes results[].
func (a *SearxngAdapter) Search(ctx context.Context, query string, maxResults int) (results []Result, err error) {
	start := time.Now()
	defer func() { a.observe(start, results, err) }()

	if err = validateInput(query, maxResults); err != nil {
		return nil, a.fail(err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/search?%s", a.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, a.fail(err)
	}

	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed searxngResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, a.fail(fmt.Errorf("decode response: %w", err))
	}

	now := time.Now()
	results = make([]Result, 0, maxResults)
	for _, r := range parsed.Results {
		if len(results) == maxResults {
			break
		}
		if normalized, ok := a.normalize(r.URL, r.Title, r.Content, now); ok {
			results = append(results, normalized)
		}
	}
	return results, nil
}

// IsAvailable probes the instance root.
func (a *SearxngAdapter) IsAvailable(ctx context.Context) bool {
	return a.probe(ctx)
}
