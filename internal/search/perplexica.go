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

// PerplexicaAdapter queries a self-hosted Perplexica instance. Perplexica
// answers with a synthesized message plus the source pages it drew from; the
// sources are what the pipeline wants.
type PerplexicaAdapter struct {
	base
}

// NewPerplexicaAdapter builds the adapter from its config section.
func NewPerplexicaAdapter(cfg config.AdapterConfig, logger *zap.Logger) *PerplexicaAdapter {
	return &PerplexicaAdapter{base: newBase(taxonomy.EnginePerplexica, cfg, logger)}
}

type perplexicaResponse struct {
	Sources []struct {
		Metadata struct {
			URL   string `json:"url"`
			Title string `json:"title"`
		} `json:"metadata"`
		PageContent string `json:"pageContent"`
	} `json:"sources"`
}

// Search issues POST /api/search with web focus and normalizes sources[].
func (a *PerplexicaAdapter) Search(ctx context.Context, query string, maxResults int) (results []Result, err error) {
	start := time.Now()
	defer func() { a.observe(start, results, err) }()

	if err = validateInput(query, maxResults); err != nil {
		return nil, a.fail(err)
	}

	body, err := json.Marshal(map[string]interface{}{
		"query":      query,
		"focusMode":  "webSearch",
		"optimizationMode": "speed",
	})
	if err != nil {
		return nil, a.fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/search", bytes.NewReader(body))
	if err != nil {
		return nil, a.fail(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed perplexicaResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, a.fail(fmt.Errorf("decode response: %w", err))
	}

	now := time.Now()
	results = make([]Result, 0, maxResults)
	for _, s := range parsed.Sources {
		if len(results) == maxResults {
			break
		}
		if normalized, ok := a.normalize(s.Metadata.URL, s.Metadata.Title, s.PageContent, now); ok {
			results = append(results, normalized)
		}
	}
	return results, nil
}

// IsAvailable probes the instance root.
func (a *PerplexicaAdapter) IsAvailable(ctx context.Context) bool {
	return a.probe(ctx)
}
