package querygen

import (
	"fmt"
	"strings"
)

// strategy turns one generation request into a model prompt and, when the
// model is unreachable, a deterministic fallback query set. The keyword
// strategy serves traditional engines (short queries); the AI-optimized
// strategy serves generative engines (long natural-language queries).
type strategy interface {
	buildPrompt(req *Request) (system, user string)
	fallback(req *Request) []string
	minWords() int
	maxWords() int
}

func strategyFor(req *Request) strategy {
	if req.SearchEngine.IsAIOptimizedEngine() {
		return aiOptimizedStrategy{}
	}
	return keywordStrategy{}
}

type keywordStrategy struct{}

func (keywordStrategy) minWords() int { return 3 }
func (keywordStrategy) maxWords() int { return 8 }

func (keywordStrategy) buildPrompt(req *Request) (string, string) {
	system := "You generate web search queries for finding funding opportunities. " +
		"Return exactly one query per line with no numbering, bullets, or quotes. " +
		"Each query must be 3 to 8 words, suitable for a traditional keyword search engine."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d distinct search queries for finding funding sources.\n\n", req.MaxQueries)
	sb.WriteString("Funding areas:\n")
	for _, c := range req.Categories {
		fmt.Fprintf(&sb, "- %s\n", c.Keywords())
	}
	fmt.Fprintf(&sb, "\nGeographic focus: %s\n", req.Geographic.Keywords())
	writeDimensionHints(&sb, req)

	return system, sb.String()
}

// fallback combines category and geographic keywords with a fixed set of
// funding phrasings. Deterministic for a given request.
func (keywordStrategy) fallback(req *Request) []string {
	templates := []string{
		"%s grants %s",
		"%s funding opportunities %s",
		"%s call for proposals %s",
		"%s donor programs %s",
	}

	queries := make([]string, 0, req.MaxQueries)
	seen := make(map[string]struct{})
	for _, tmpl := range templates {
		for _, c := range req.Categories {
			q := fmt.Sprintf(tmpl, c.Keywords(), req.Geographic.Keywords())
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			queries = append(queries, q)
			if len(queries) == req.MaxQueries {
				return queries
			}
		}
	}
	return queries
}

type aiOptimizedStrategy struct{}

func (aiOptimizedStrategy) minWords() int { return 12 }
func (aiOptimizedStrategy) maxWords() int { return 40 }

func (aiOptimizedStrategy) buildPrompt(req *Request) (string, string) {
	system := "You generate natural-language research questions for AI-powered search engines. " +
		"Return exactly one question per line with no numbering, bullets, or quotes. " +
		"Each question must be 12 to 40 words and describe the funding need in full sentences."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d distinct natural-language queries for finding funding sources.\n\n", req.MaxQueries)
	sb.WriteString("Funding domains:\n")
	for _, c := range req.Categories {
		fmt.Fprintf(&sb, "- %s\n", c.ConceptualDescription())
	}
	fmt.Fprintf(&sb, "\nGeographic focus: %s\n", req.Geographic.ConceptualDescription())
	writeDimensionHints(&sb, req)

	return system, sb.String()
}

func (aiOptimizedStrategy) fallback(req *Request) []string {
	templates := []string{
		"What organizations and programs currently offer funding for %s available to applicants in %s",
		"Which foundations, public agencies, or donor programs are accepting applications for %s in %s right now",
		"Find open grant calls and funding opportunities supporting %s for organizations operating in %s",
	}

	queries := make([]string, 0, req.MaxQueries)
	seen := make(map[string]struct{})
	for _, tmpl := range templates {
		for _, c := range req.Categories {
			q := fmt.Sprintf(tmpl, strings.ToLower(c.Keywords()), req.Geographic.Keywords())
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			queries = append(queries, q)
			if len(queries) == req.MaxQueries {
				return queries
			}
		}
	}
	return queries
}

// writeDimensionHints appends the optional taxonomy dimensions to the user
// prompt so the model can narrow its output.
func writeDimensionHints(sb *strings.Builder, req *Request) {
	if len(req.SourceTypes) > 0 {
		hints := make([]string, len(req.SourceTypes))
		for i, s := range req.SourceTypes {
			hints[i] = s.Keywords()
		}
		fmt.Fprintf(sb, "Funder types: %s\n", strings.Join(hints, ", "))
	}
	if len(req.Mechanisms) > 0 {
		hints := make([]string, len(req.Mechanisms))
		for i, m := range req.Mechanisms {
			hints[i] = m.Keywords()
		}
		fmt.Fprintf(sb, "Funding mechanisms: %s\n", strings.Join(hints, ", "))
	}
	if len(req.Scales) > 0 {
		hints := make([]string, len(req.Scales))
		for i, p := range req.Scales {
			hints[i] = fmt.Sprintf("%s (%s-%s EUR)", p, p.MinAmount(), p.MaxAmount())
		}
		fmt.Fprintf(sb, "Project scales: %s\n", strings.Join(hints, ", "))
	}
	if len(req.Populations) > 0 {
		fmt.Fprintf(sb, "Beneficiary populations: %s\n", strings.Join(stringify(req.Populations), ", "))
	}
	if len(req.OrgTypes) > 0 {
		fmt.Fprintf(sb, "Recipient organization types: %s\n", strings.Join(stringify(req.OrgTypes), ", "))
	}
	if len(req.Languages) > 0 {
		names := make([]string, len(req.Languages))
		for i, l := range req.Languages {
			names[i] = l.NativeName()
		}
		fmt.Fprintf(sb, "Query languages: %s\n", strings.Join(names, ", "))
	}
}
