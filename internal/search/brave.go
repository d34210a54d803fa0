package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
	"github.com/grantscout/discovery/internal/taxonomy"
)

// BraveAdapter queries the Brave Web Search API.
type BraveAdapter struct {
	base
}

// NewBraveAdapter builds the adapter from its config section.
func NewBraveAdapter(cfg config.AdapterConfig, logger *zap.Logger) *BraveAdapter {
	return &BraveAdapter{base: newBase(taxonomy.EngineBrave, cfg, logger)}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search issues an authenticated GET and normalizes web.results[].
func (a *BraveAdapter) Search(ctx context.Context, query string, maxResults int) (results []Result, err error) {
	start := time.Now()
	defer func() { a.observe(start, results, err) }()

	if err = validateInput(query, maxResults); err != nil {
		return nil, a.fail(err)
	}

	params := url.Values{}
	params.Set("q", query)
	// Brave caps count at 20 per request.
	params.Set("count", strconv.Itoa(min(maxResults, 20)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", a.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, a.fail(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", a.apiKey)

	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed braveResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, a.fail(fmt.Errorf("decode response: %w", err))
	}

	now := time.Now()
	results = make([]Result, 0, maxResults)
	for _, r := range parsed.Web.Results {
		if len(results) == maxResults {
			break
		}
		if normalized, ok := a.normalize(r.URL, r.Title, r.Description, now); ok {
			results = append(results, normalized)
		}
	}
	return results, nil
}

// IsAvailable reports whether the adapter is usable; a vendor API without a
// key configured never is.
func (a *BraveAdapter) IsAvailable(ctx context.Context) bool {
	return a.apiKey != ""
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
