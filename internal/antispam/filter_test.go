package antispam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/config"
)

type staticTables struct{ t *config.Tables }

func (s staticTables) Get() *config.Tables { return s.t }

func newTestFilter() *Filter {
	return NewFilter(staticTables{t: config.DefaultTables()}, zap.NewNop())
}

func TestLegitimateResultsPass(t *testing.T) {
	f := newTestFilter()

	cases := []struct {
		name, domain, title, description string
	}{
		{
			"government portal",
			"mon.bg",
			"Ministry of Education grant programs for schools",
			"The ministry announces a call for proposals for STEM classrooms.",
		},
		{
			"eu portal",
			"europa.eu",
			"Funding opportunities of the European Commission",
			"Open calls under Erasmus+ and Horizon Europe for education projects.",
		},
		{
			"foundation",
			"americaforbulgaria.org",
			"America for Bulgaria Foundation grants",
			"Grants supporting education and community development in Bulgaria.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := f.Classify(tc.domain, tc.title, tc.description)
			assert.True(t, ok, "rejected with %s", reason)
		})
	}
}

func TestKeywordStuffingRejected(t *testing.T) {
	f := newTestFilter()

	ok, reason := f.Classify("grantsite.com",
		"grants grants grants grants",
		"money money money money free free free free")
	assert.False(t, ok)
	assert.Equal(t, ReasonKeywordStuffing, reason)
}

func TestShortTextNotStuffed(t *testing.T) {
	f := newTestFilter()

	// Below the token minimum the stuffing rule must not apply.
	ok, _ := f.Classify("mon.bg", "Grants grants", "")
	assert.True(t, ok)
}

func TestDomainTitleMismatchRejected(t *testing.T) {
	f := newTestFilter()

	// Title unrelated to the domain and no funding vocabulary anywhere.
	ok, reason := f.Classify("cheap-watches-outlet.com",
		"Best luxury timepieces replica store",
		"Buy now with huge discounts on all models")
	assert.False(t, ok)
	assert.Equal(t, ReasonDomainTitleMismatch, reason)
}

func TestMismatchWaivedByFundingVocabulary(t *testing.T) {
	f := newTestFilter()

	// Low domain/title overlap is acceptable when the text is clearly about
	// funding.
	ok, _ := f.Classify("osf.bg",
		"Open calls for civil society organizations",
		"The foundation offers grants for community projects in Bulgaria.")
	assert.True(t, ok)
}

func TestUnnaturalKeywordListRejected(t *testing.T) {
	f := newTestFilter()

	ok, reason := f.Classify("grant-funding-awards.com",
		"grant funding scholarship fellowship award programme",
		"")
	assert.False(t, ok)
	assert.Equal(t, ReasonUnnaturalKeywords, reason)
}

func TestScamSubstringRejected(t *testing.T) {
	f := newTestFilter()

	ok, reason := f.Classify("grants-casino.com",
		"The best grants for your education in Bulgaria",
		"Apply for a grant with the foundation today")
	assert.False(t, ok)
	assert.Equal(t, ReasonScamSubstring, reason)
}

func TestSpamTLDNeedsWeakSignal(t *testing.T) {
	f := newTestFilter()

	// A spam TLD with a natural, domain-matching title passes.
	ok, _ := f.Classify("scholarship-portal.xyz",
		"The scholarship portal for students in the region",
		"A directory of scholarships and grants for university students")
	assert.True(t, ok)

	// The same TLD with a bare keyword title is rejected.
	ok, reason := f.Classify("bestgrants.xyz",
		"grants scholarships funding awards list",
		"grant foundation programme award funding scholarship fellowship")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]string{"grant", "portal"}, []string{"grant", "portal"}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]string{"alpha"}, []string{"beta"}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, []string{"beta"}))
}

func TestDomainTokens(t *testing.T) {
	assert.Equal(t, []string{"america", "for", "bulgaria"}, domainTokens("america-for-bulgaria.org"))
	assert.Equal(t, []string{"mon"}, domainTokens("mon.bg"))
}
