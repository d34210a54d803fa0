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

// SerperAdapter queries the Serper Google-proxy API.
type SerperAdapter struct {
	base
}

// NewSerperAdapter builds the adapter from its config section.
func NewSerperAdapter(cfg config.AdapterConfig, logger *zap.Logger) *SerperAdapter {
	return &SerperAdapter{base: newBase(taxonomy.EngineSerper, cfg, logger)}
}

type serperResponse struct {
	Organic []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search issues POST {q, num} with the X-API-KEY header and normalizes
// organic[].
func (a *SerperAdapter) Search(ctx context.Context, query string, maxResults int) (results []Result, err error) {
	start := time.Now()
	defer func() { a.observe(start, results, err) }()

	if err = validateInput(query, maxResults); err != nil {
		return nil, a.fail(err)
	}

	body, err := json.Marshal(map[string]interface{}{
		"q":   query,
		"num": maxResults,
	})
	if err != nil {
		return nil, a.fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, a.fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", a.apiKey)

	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed serperResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, a.fail(fmt.Errorf("decode response: %w", err))
	}

	now := time.Now()
	results = make([]Result, 0, maxResults)
	for _, r := range parsed.Organic {
		if len(results) == maxResults {
			break
		}
		if normalized, ok := a.normalize(r.Link, r.Title, r.Snippet, now); ok {
			results = append(results, normalized)
		}
	}
	return results, nil
}

// IsAvailable reports whether an API key is configured.
func (a *SerperAdapter) IsAvailable(ctx context.Context) bool {
	return a.apiKey != ""
}
