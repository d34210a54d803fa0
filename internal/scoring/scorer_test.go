package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
)

type staticTables struct{ t *config.Tables }

func (s staticTables) Get() *config.Tables { return s.t }

func newTestScorer() *Scorer {
	return NewScorer(staticTables{t: config.DefaultTables()}, zap.NewNop())
}

func TestScoreIsDeterministic(t *testing.T) {
	s := newTestScorer()

	title := "Ministry of Education grant programme"
	desc := "Call for proposals for schools in Bulgaria"
	url := "https://mon.bg/grants"

	first := s.Score(title, desc, url, "mon.bg")
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(s.Score(title, desc, url, "mon.bg")))
	}
}

func TestScoreExactThresholdValue(t *testing.T) {
	s := newTestScorer()

	// 5 of 15 funding terms, .gov credibility, two geographic indicators,
	// no organization hints: 0.30/3 + 0.25 + 0.25 + 0 = 0.60.
	score := s.Score(
		"Grants funding award for schools in Sofia",
		"Stipend support available across Bulgaria",
		"https://grants.gov/apply",
		"grants.gov",
	)
	assert.True(t, score.Equal(decimal.RequireFromString("0.60")), "got %s", score)
}

func TestScoreHalfUpRounding(t *testing.T) {
	s := newTestScorer()

	// No funding, geographic, or organization signals; an unknown TLD leaves
	// only the default credibility: 0.30 * 0.25 = 0.075, which rounds up.
	score := s.Score("cheap watches outlet", "best discounts online", "https://shop.example/w", "shop.example")
	assert.True(t, score.Equal(decimal.RequireFromString("0.08")), "got %s", score)
}

func TestScoreStaysInRange(t *testing.T) {
	s := newTestScorer()

	score := s.Score(
		"Ministry of Education and European Commission grant scholarship fellowship foundation programme funding award",
		"Bursary stipend call for proposals donor endowment for universities in Bulgaria Sofia Eastern Europe Balkans",
		"https://ec.europa.eu/grants",
		"ec.europa.eu",
	)
	assert.True(t, score.Cmp(decimal.RequireFromString("1.00")) <= 0)
	assert.True(t, score.Cmp(decimal.Zero) >= 0)
	assert.Equal(t, int32(-2), score.Exponent())
}

func TestDomainSignalTable(t *testing.T) {
	tables := config.DefaultTables().Scorer

	cases := []struct {
		domain string
		weight string
	}{
		{"grants.gov", "1.00"},
		{"mit.edu", "1.00"},
		{"ec.europa.eu", "1.00"},
		{"ngo.org", "0.70"},
		{"uni.edu.bg", "1.00"},
		{"ox.ac.uk", "1.00"},
		{"random.example", "0.30"},
	}
	for _, tc := range cases {
		t.Run(tc.domain, func(t *testing.T) {
			w := domainSignal(tc.domain, tables)
			assert.True(t, w.Equal(decimal.RequireFromString(tc.weight)), "got %s", w)
		})
	}
}

func TestGeographicSignalCapped(t *testing.T) {
	tables := config.DefaultTables().Scorer

	// Three indicators but cap is 2: signal saturates at 1.0.
	sig := cappedCountSignal("projects in bulgaria and the balkans near sofia",
		tables.GeographicIndicators, tables.GeographicCap)
	assert.True(t, sig.Equal(decimal.NewFromInt(1)))

	sig = cappedCountSignal("projects in bulgaria",
		tables.GeographicIndicators, tables.GeographicCap)
	assert.True(t, sig.Equal(decimal.RequireFromString("0.5")))
}
