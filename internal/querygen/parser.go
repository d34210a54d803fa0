package querygen

import (
	"strings"
)

// parseQueries extracts individual queries from raw model output. The model
// is asked for one query per line but drifts: numbered lists, bullets,
// quoted strings, and comma-separated single lines all occur in practice.
func parseQueries(text string, maxQueries int) []string {
	lines := strings.Split(text, "\n")

	// A single line holding several comma-separated queries is a common
	// drift mode for keyword prompts.
	if len(nonEmpty(lines)) == 1 && strings.Contains(text, ",") {
		lines = strings.Split(text, ",")
	}

	seen := make(map[string]struct{})
	queries := make([]string, 0, maxQueries)

	for _, line := range lines {
		q := cleanQueryLine(line)
		if q == "" {
			continue
		}
		lower := strings.ToLower(q)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		queries = append(queries, q)
		if len(queries) == maxQueries {
			break
		}
	}
	return queries
}

func nonEmpty(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// cleanQueryLine strips list decoration from one line: leading numbering
// ("1.", "2)", "3:"), bullets, and surrounding quotes.
func cleanQueryLine(line string) string {
	q := strings.TrimSpace(line)

	q = strings.TrimLeft(q, "-*•")
	q = strings.TrimSpace(q)

	// Leading "12." / "12)" / "12:" numbering.
	i := 0
	for i < len(q) && q[i] >= '0' && q[i] <= '9' {
		i++
	}
	if i > 0 && i < len(q) && (q[i] == '.' || q[i] == ')' || q[i] == ':') {
		q = q[i+1:]
	}

	q = strings.TrimSpace(q)
	q = strings.Trim(q, `"'`)
	q = strings.TrimSpace(q)
	return q
}

// wordCount reports the whitespace-separated word count of a query, used for
// length-class checks.
func wordCount(q string) int {
	return len(strings.Fields(q))
}
