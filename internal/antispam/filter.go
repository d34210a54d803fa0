package antispam

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
)

// Rejection reasons, recorded in logs and metrics labels.
const (
	ReasonKeywordStuffing     = "KEYWORD_STUFFING"
	ReasonDomainTitleMismatch = "DOMAIN_TITLE_MISMATCH"
	ReasonUnnaturalKeywords   = "UNNATURAL_KEYWORD_LIST"
	ReasonScamSubstring       = "SCAM_SUBSTRING"
	ReasonSpamTLD             = "SPAM_TLD"
)

// functionWords are the common English function words used by the
// unnatural-keyword-list rule.
var functionWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "for": {},
	"to": {}, "in": {}, "with": {}, "and": {}, "or": {},
}

// TableSource yields the current heuristics tables; the hot-reloading table
// manager satisfies it.
type TableSource interface {
	Get() *config.Tables
}

// Filter applies the ordered spam heuristics to one search result. Stateless
// apart from the table snapshot it reads per call; deterministic for a given
// input and table set.
type Filter struct {
	tables TableSource
	logger *zap.Logger
}

// NewFilter builds the filter.
func NewFilter(tables TableSource, logger *zap.Logger) *Filter {
	return &Filter{tables: tables, logger: logger}
}

// Classify runs the rules in order and returns ok=false with the first
// firing rule's reason. domain is the normalized domain name (lowercase,
// no leading "www.").
func (f *Filter) Classify(domain, title, description string) (ok bool, reason string) {
	t := f.tables.Get().Antispam
	funding := f.tables.Get().Scorer.FundingKeywords

	text := strings.ToLower(title + " " + description)
	tokens := strings.Fields(text)
	titleTokens := strings.Fields(strings.ToLower(title))

	if isKeywordStuffed(tokens, t) {
		return false, ReasonKeywordStuffing
	}

	similarity := cosineSimilarity(domainTokens(domain), titleTokens)
	if similarity < t.SimilarityThreshold && !containsAny(text, funding) {
		return false, ReasonDomainTitleMismatch
	}

	if isUnnaturalKeywordList(titleTokens, text, funding, t) {
		return false, ReasonUnnaturalKeywords
	}

	for _, s := range t.ScamSubstrings {
		if strings.Contains(domain, s) {
			return false, ReasonScamSubstring
		}
	}

	if hasSpamTLD(domain, t.SpamTLDs) && hasWeakSignal(similarity, titleTokens, t) {
		return false, ReasonSpamTLD
	}

	return true, ""
}

// isKeywordStuffed fires when a long token stream has too few distinct
// tokens.
func isKeywordStuffed(tokens []string, t config.AntispamTables) bool {
	if len(tokens) < t.StuffingMinTokens {
		return false
	}
	unique := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		unique[tok] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(tokens))
	return ratio < t.UniqueRatioThreshold
}

// isUnnaturalKeywordList fires on titles that read like a term dump: almost
// no function words yet dense with funding vocabulary.
func isUnnaturalKeywordList(titleTokens []string, text string, funding []string, t config.AntispamTables) bool {
	functionCount := 0
	for _, tok := range titleTokens {
		if _, ok := functionWords[tok]; ok {
			functionCount++
		}
	}
	if functionCount >= t.FunctionWordMin {
		return false
	}

	fundingCount := 0
	for _, kw := range funding {
		if strings.Contains(text, kw) {
			fundingCount++
		}
	}
	return fundingCount >= t.FundingTermMin
}

func hasSpamTLD(domain string, tlds []string) bool {
	for _, tld := range tlds {
		if strings.HasSuffix(domain, tld) {
			return true
		}
	}
	return false
}

// hasWeakSignal decides whether a suspicious TLD is backed by any other
// soft indicator. A spam TLD alone never rejects; a spam TLD on a domain
// whose title barely relates to it, or with a bare keyword title, does.
func hasWeakSignal(similarity float64, titleTokens []string, t config.AntispamTables) bool {
	if similarity < 2*t.SimilarityThreshold {
		return true
	}
	functionCount := 0
	for _, tok := range titleTokens {
		if _, ok := functionWords[tok]; ok {
			functionCount++
		}
	}
	return functionCount < t.FunctionWordMin
}

// domainTokens derives comparison tokens from the registrable domain: the
// public suffix is dropped and the remaining labels split on hyphens.
func domainTokens(domain string) []string {
	labels := strings.Split(strings.ToLower(domain), ".")
	if len(labels) > 1 {
		labels = labels[:len(labels)-1]
	}
	var tokens []string
	for _, label := range labels {
		for _, part := range strings.Split(label, "-") {
			if part != "" {
				tokens = append(tokens, part)
			}
		}
	}
	return tokens
}

// cosineSimilarity compares term-frequency vectors of two token lists.
func cosineSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	freqA := termFrequencies(a)
	freqB := termFrequencies(b)

	var dot, normA, normB float64
	for term, fa := range freqA {
		if fb, ok := freqB[term]; ok {
			dot += fa * fb
		}
		normA += fa * fa
	}
	for _, fb := range freqB {
		normB += fb * fb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return freq
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
