package tabular

import (
	"regexp"
	"strings"
)

// nonWordRun matches a maximal run of characters that are neither letters,
// digits nor underscore. Combining marks are not word characters, so a
// decomposed accent splits the title like any other symbol.
var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// NormalizeField turns a raw column title into a template identifier.
// Each run of non-word characters becomes one underscore, leading and trailing
// underscores are stripped, and the result is lowercased.
// A title made only of symbols normalizes to "".
func NormalizeField(s string) string {
	s = nonWordRun.ReplaceAllString(s, "_")
	return strings.ToLower(strings.Trim(s, "_"))
}

// NormalizeHeader normalizes every column title of a header row, keeping order.
// Duplicates are kept; see Record for how they are resolved.
func NormalizeHeader(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = NormalizeField(c)
	}
	return out
}
