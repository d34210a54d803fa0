package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
	"github.com/grantscout/discovery/internal/taxonomy"
)

// TavilyAdapter queries the Tavily AI search API.
type TavilyAdapter struct {
	base
}

// NewTavilyAdapter builds the adapter from its config section.
func NewTavilyAdapter(cfg config.AdapterConfig, logger *zap.Logger) *TavilyAdapter {
	return &TavilyAdapter{base: newBase(taxonomy.EngineTavily, cfg, logger)}
}

type tavilyResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search issues a bearer-authenticated POST and normalizes results[].
func (a *TavilyAdapter) Search(ctx context.Context, query string, maxResults int) (results []Result, err error) {
	start := time.Now()
	defer func() { a.observe(start, results, err) }()

	if err = validateInput(query, maxResults); err != nil {
		return nil, a.fail(err)
	}

	body, err := json.Marshal(map[string]interface{}{
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, a.fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, a.fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed tavilyResponse
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

// IsAvailable reports whether an API key is configured.
func (a *TavilyAdapter) IsAvailable(ctx context.Context) bool {
	return a.apiKey != ""
}
