package scoring

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
)

// Signal weights. They sum to 1.00.
var (
	weightFunding    = decimal.RequireFromString("0.30")
	weightDomain     = decimal.RequireFromString("0.25")
	weightGeographic = decimal.RequireFromString("0.25")
	weightOrgType    = decimal.RequireFromString("0.20")

	one  = decimal.RequireFromString("1.00")
	zero = decimal.NewFromInt(0)
)

// TableSource yields the current scorer tables; the hot-reloading table
// manager satisfies it.
type TableSource interface {
	Get() *config.Tables
}

// Scorer computes the confidence score of a search result. Deterministic for
// a given input and table set; all arithmetic is scale-2 decimal with
// half-up rounding at the end.
type Scorer struct {
	tables TableSource
	logger *zap.Logger
}

// NewScorer builds the scorer.
func NewScorer(tables TableSource, logger *zap.Logger) *Scorer {
	return &Scorer{tables: tables, logger: logger}
}

// Score combines the four weighted signals into a [0.00, 1.00] score.
func (s *Scorer) Score(title, description, url, domain string) decimal.Decimal {
	t := s.tables.Get().Scorer

	text := strings.ToLower(title + " " + description)
	fullText := text + " " + strings.ToLower(url)
	domain = strings.ToLower(domain)

	score := fundingSignal(text, t).Mul(weightFunding).
		Add(domainSignal(domain, t).Mul(weightDomain)).
		Add(cappedCountSignal(fullText, t.GeographicIndicators, t.GeographicCap).Mul(weightGeographic)).
		Add(cappedCountSignal(fullText, t.OrgTypePatterns, t.OrgTypeCap).Mul(weightOrgType))

	score = score.Round(2)
	if score.Cmp(zero) < 0 {
		return zero.Round(2)
	}
	if score.Cmp(one) > 0 {
		return one
	}
	return score
}

// fundingSignal is the fraction of the curated funding-term set present in
// title and description.
func fundingSignal(text string, t config.ScorerTables) decimal.Decimal {
	if len(t.FundingKeywords) == 0 {
		return zero
	}
	matched := 0
	for _, kw := range t.FundingKeywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}
	return decimal.NewFromInt(int64(matched)).Div(decimal.NewFromInt(int64(len(t.FundingKeywords))))
}

// domainSignal looks the domain up in the TLD credibility table, taking the
// best-weighted matching suffix.
func domainSignal(domain string, t config.ScorerTables) decimal.Decimal {
	best := decimal.Decimal{}
	found := false
	for suffix, weight := range t.TLDWeights {
		if !strings.HasSuffix(domain, suffix) && domain != strings.TrimPrefix(suffix, ".") {
			continue
		}
		w, err := decimal.NewFromString(weight)
		if err != nil {
			continue
		}
		if !found || w.Cmp(best) > 0 {
			best = w
			found = true
		}
	}
	if found {
		return best
	}
	def, err := decimal.NewFromString(t.DefaultTLDWeight)
	if err != nil {
		return zero
	}
	return def
}

// cappedCountSignal counts indicator matches and normalizes by the cap.
func cappedCountSignal(text string, indicators []string, cap int) decimal.Decimal {
	if cap <= 0 {
		cap = 1
	}
	matched := 0
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			matched++
			if matched == cap {
				break
			}
		}
	}
	return decimal.NewFromInt(int64(matched)).Div(decimal.NewFromInt(int64(cap)))
}
