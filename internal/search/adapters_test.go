package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
	"github.com/grantscout/discovery/internal/taxonomy"
)

func adapterConfig(url string) config.AdapterConfig {
	return config.AdapterConfig{
		Enabled: true,
		BaseURL: url,
		APIKey:  "test-key",
	}
}

func TestSearxngSearchNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "grants Bulgaria", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"url": "https://europa.eu/grants ", "title": " EU Grants ", "content": " Funding calls "},
				{"url": "ftp://not-http.example", "title": "skip", "content": "skip"},
				{"url": "https://ngogrants.org/calls", "title": "Open calls", "content": "Grants"},
			},
		})
	}))
	defer srv.Close()

	a := NewSearxngAdapter(adapterConfig(srv.URL), zap.NewNop())
	results, err := a.Search(context.Background(), "grants Bulgaria", 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "https://europa.eu/grants", results[0].URL)
	assert.Equal(t, "EU Grants", results[0].Title)
	assert.Equal(t, "Funding calls", results[0].Description)
	assert.Equal(t, taxonomy.EngineSearxng, results[0].Source)
	assert.False(t, results[0].DiscoveredAt.IsZero())
}

func TestSearxngZeroResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	}))
	defer srv.Close()

	a := NewSearxngAdapter(adapterConfig(srv.URL), zap.NewNop())
	results, err := a.Search(context.Background(), "no hits at all", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBraveSearchAuthAndParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"web": map[string]interface{}{
				"results": []map[string]string{
					{"url": "https://mon.bg/programs", "title": "Ministry programs", "description": "Grant schemes"},
				},
			},
		})
	}))
	defer srv.Close()

	a := NewBraveAdapter(adapterConfig(srv.URL), zap.NewNop())
	results, err := a.Search(context.Background(), "education funding", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "https://mon.bg/programs", results[0].URL)
	assert.Equal(t, taxonomy.EngineBrave, results[0].Source)
}

func TestSerperSearchPostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "school grants Sofia", body["q"])
		assert.Equal(t, float64(10), body["num"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"organic": []map[string]string{
				{"link": "https://fondacija.bg/konkursi", "title": "Konkursi", "snippet": "Grantove"},
			},
		})
	}))
	defer srv.Close()

	a := NewSerperAdapter(adapterConfig(srv.URL), zap.NewNop())
	results, err := a.Search(context.Background(), "school grants Sofia", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "https://fondacija.bg/konkursi", results[0].URL)
	assert.Equal(t, "Grantove", results[0].Description)
}

func TestTavilySearchBearerAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"url": "https://ec.europa.eu/calls", "title": "Calls for proposals", "content": "Horizon"},
			},
		})
	}))
	defer srv.Close()

	a := NewTavilyAdapter(adapterConfig(srv.URL), zap.NewNop())
	results, err := a.Search(context.Background(), "which EU programs fund education projects in Bulgaria", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, taxonomy.EngineTavily, results[0].Source)
}

func TestPerplexicaSearchParsesSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Several programs fund this work.",
			"sources": []map[string]interface{}{
				{
					"metadata":    map[string]string{"url": "https://osf.bg/grants", "title": "OSF grants"},
					"pageContent": "Open Society grant programs",
				},
			},
		})
	}))
	defer srv.Close()

	a := NewPerplexicaAdapter(adapterConfig(srv.URL), zap.NewNop())
	results, err := a.Search(context.Background(), "what foundations support civic education in the Balkans today", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "https://osf.bg/grants", results[0].URL)
	assert.Equal(t, "Open Society grant programs", results[0].Description)
}

func TestSearchErrorClassification(t *testing.T) {
	t.Run("5xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		a := NewSearxngAdapter(adapterConfig(srv.URL), zap.NewNop())
		_, err := a.Search(context.Background(), "q", 10)
		var adapterErr *AdapterError
		require.ErrorAs(t, err, &adapterErr)
		assert.Equal(t, taxonomy.EngineSearxng, adapterErr.Engine)
	})

	t.Run("4xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer srv.Close()

		a := NewBraveAdapter(adapterConfig(srv.URL), zap.NewNop())
		_, err := a.Search(context.Background(), "q", 10)
		var adapterErr *AdapterError
		assert.ErrorAs(t, err, &adapterErr)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		a := NewTavilyAdapter(adapterConfig(srv.URL), zap.NewNop())
		_, err := a.Search(context.Background(), "q", 10)
		var adapterErr *AdapterError
		assert.ErrorAs(t, err, &adapterErr)
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		a := NewSerperAdapter(adapterConfig(srv.URL), zap.NewNop())
		_, err := a.Search(context.Background(), "q", 10)
		var adapterErr *AdapterError
		assert.ErrorAs(t, err, &adapterErr)
	})
}

func TestSearchInputValidation(t *testing.T) {
	a := NewSearxngAdapter(adapterConfig("http://localhost:1"), zap.NewNop())

	_, err := a.Search(context.Background(), "  ", 10)
	var adapterErr *AdapterError
	assert.ErrorAs(t, err, &adapterErr)

	_, err = a.Search(context.Background(), "q", 0)
	assert.ErrorAs(t, err, &adapterErr)

	_, err = a.Search(context.Background(), "q", 101)
	assert.ErrorAs(t, err, &adapterErr)
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewSearxngAdapter(adapterConfig(srv.URL), zap.NewNop()).IsAvailable(context.Background()))
	assert.True(t, NewBraveAdapter(adapterConfig(srv.URL), zap.NewNop()).IsAvailable(context.Background()))
	assert.False(t, NewSerperAdapter(config.AdapterConfig{BaseURL: srv.URL}, zap.NewNop()).IsAvailable(context.Background()))
}

func TestNewAdapterDispatch(t *testing.T) {
	cfg := adapterConfig("http://localhost:1")
	for _, engine := range taxonomy.AllEngines() {
		a, err := NewAdapter(engine, cfg, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, engine, a.EngineType())
	}

	_, err := NewAdapter("GOOGLE", cfg, zap.NewNop())
	assert.Error(t, err)
}
