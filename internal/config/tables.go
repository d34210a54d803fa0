package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScorerTables holds the keyword and weight tables the confidence scorer
// reads. They are data, not code: changing them must not require a rebuild.
type ScorerTables struct {
	// FundingKeywords is the curated funding-term set (signal weight 0.30).
	FundingKeywords []string `yaml:"funding_keywords"`
	// TLDWeights maps a TLD suffix (".gov", ".edu.bg", "europa.eu") to a
	// credibility weight expressed as a scale-2 decimal string.
	TLDWeights map[string]string `yaml:"tld_weights"`
	// DefaultTLDWeight applies when no suffix matches.
	DefaultTLDWeight string `yaml:"default_tld_weight"`
	// GeographicIndicators is the relevance indicator list (weight 0.25).
	GeographicIndicators []string `yaml:"geographic_indicators"`
	// GeographicCap is the match count that maps to a full 1.0 signal.
	GeographicCap int `yaml:"geographic_cap"`
	// OrgTypePatterns are organization-type hints (weight 0.20).
	OrgTypePatterns []string `yaml:"org_type_patterns"`
	// OrgTypeCap is the match count that maps to a full 1.0 signal.
	OrgTypeCap int `yaml:"org_type_cap"`
}

// AntispamTables holds the spam heuristics tables and thresholds.
type AntispamTables struct {
	ScamSubstrings []string `yaml:"scam_substrings"`
	SpamTLDs       []string `yaml:"spam_tlds"`
	// UniqueRatioThreshold rejects keyword stuffing below this unique-token
	// ratio (default 0.50).
	UniqueRatioThreshold float64 `yaml:"unique_ratio_threshold"`
	// StuffingMinTokens is the minimum token count before the stuffing rule
	// applies (default 6).
	StuffingMinTokens int `yaml:"stuffing_min_tokens"`
	// SimilarityThreshold rejects domain/title mismatch below this cosine
	// similarity (default 0.15).
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	// FunctionWordMin / FundingTermMin drive the unnatural-keyword-list rule.
	FunctionWordMin int `yaml:"function_word_min"`
	FundingTermMin  int `yaml:"funding_term_min"`
}

// Tables bundles every hot-reloadable table.
type Tables struct {
	Scorer   ScorerTables   `yaml:"scorer"`
	Antispam AntispamTables `yaml:"antispam"`
}

// DefaultTables returns the built-in tables used when no tables file is
// configured.
func DefaultTables() *Tables {
	return &Tables{
		Scorer: ScorerTables{
			FundingKeywords: []string{
				"grant", "grants", "scholarship", "scholarships", "fellowship",
				"foundation", "programme", "program", "funding", "award",
				"bursary", "stipend", "call for proposals", "donor", "endowment",
			},
			TLDWeights: map[string]string{
				".gov":      "1.00",
				".edu":      "1.00",
				"europa.eu": "1.00",
				".org":      "0.70",
				".edu.bg":   "1.00",
				".ac.uk":    "1.00",
				".ac.at":    "1.00",
				".int":      "0.90",
			},
			DefaultTLDWeight: "0.30",
			GeographicIndicators: []string{
				"bulgaria", "bulgarian", "sofia", "eastern europe", "balkans",
				"southeast europe", "european union", "eu member", "cee",
				"central europe", "danube",
			},
			GeographicCap: 2,
			OrgTypePatterns: []string{
				"ministry of", "european commission", "foundation", "university",
				"unesco", "unicef", "world bank", "council of europe", "roma",
				"agency", "institute", "trust", "embassy", "municipality",
			},
			OrgTypeCap: 2,
		},
		Antispam: AntispamTables{
			ScamSubstrings: []string{
				"casino", "poker", "betting", "essaywriter", "paper-mill",
				"payday", "viagra", "replica", "freemoney",
			},
			SpamTLDs:             []string{".top", ".click", ".xyz", ".loan", ".win"},
			UniqueRatioThreshold: 0.50,
			StuffingMinTokens:    6,
			SimilarityThreshold:  0.15,
			FunctionWordMin:      2,
			FundingTermMin:       4,
		},
	}
}

// LoadTables reads a tables YAML file, layering it over the defaults so a
// partial file only overrides the sections it names.
func LoadTables(path string) (*Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tables file: %w", err)
	}
	return t, nil
}
