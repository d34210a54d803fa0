package taxonomy

import "fmt"

// Engine identifies a supported search engine.
type Engine string

const (
	EngineBrave      Engine = "BRAVE"
	EngineSerper     Engine = "SERPER"
	EngineSearxng    Engine = "SEARXNG"
	EngineTavily     Engine = "TAVILY"
	EnginePerplexica Engine = "PERPLEXICA"
)

// AllEngines lists every supported engine in a stable order.
func AllEngines() []Engine {
	return []Engine{EngineBrave, EngineSerper, EngineSearxng, EngineTavily, EnginePerplexica}
}

// ParseEngine converts a string into an Engine.
func ParseEngine(s string) (Engine, error) {
	e := Engine(s)
	switch e {
	case EngineBrave, EngineSerper, EngineSearxng, EngineTavily, EnginePerplexica:
		return e, nil
	}
	return "", fmt.Errorf("unknown search engine %q", s)
}

// IsKeywordEngine reports whether the engine expects short keyword queries
// (3-8 words) rather than long natural-language prompts.
func (e Engine) IsKeywordEngine() bool {
	switch e {
	case EngineBrave, EngineSerper, EngineSearxng:
		return true
	}
	return false
}

// IsAIOptimizedEngine reports whether the engine expects long AI-optimized
// queries (12-40 words).
func (e Engine) IsAIOptimizedEngine() bool {
	return e == EngineTavily || e == EnginePerplexica
}

func (e Engine) String() string { return string(e) }
