package tabular

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SampleSize is the number of characters inspected when sniffing a dialect.
const SampleSize = 1024

// Dialect describes how a delimited text file is laid out.
type Dialect struct {
	Delimiter        rune
	Quote            rune
	DoubleQuote      bool
	SkipInitialSpace bool
}

// String returns a compact description, used in verbose output.
func (d Dialect) String() string {
	return fmt.Sprintf("delimiter=%q quote=%q doublequote=%t skipinitialspace=%t",
		d.Delimiter, d.Quote, d.DoubleQuote, d.SkipInitialSpace)
}

// Candidates are listed in preference order.
var (
	candidateDelimiters = []rune{',', '\t', ';', '|', ':'}
	candidateQuotes     = []rune{'"', '\''}
)

// Consistency thresholds in percent of sampled records.
const (
	maxConsistency = 100
	minConsistency = 90
)

// Sample returns the first SampleSize characters of text and whether text
// was cut.
func Sample(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= SampleSize {
		return text, false
	}
	n := 0
	for i := range text {
		if n == SampleSize {
			return text[:i], true
		}
		n++
	}
	return text, false
}

// Sniff infers the dialect of delimited text from a sample. truncated tells
// whether the sample was cut from a longer text, in which case its partial
// last record is ignored when enough complete records remain. Records are
// split by the parser, so quoted cells may span several lines.
func Sniff(sample string, truncated bool) (Dialect, error) {
	text := normalizeNewlines(sample)
	if strings.Trim(text, "\n") == "" {
		return Dialect{}, fmt.Errorf("%w: sample is empty", ErrSniff)
	}

	quote := guessQuote([]rune(text))
	delim, records, ok := guessDelimiter(text, quote, truncated)
	if !ok {
		return Dialect{}, fmt.Errorf("%w: no candidate among %q is consistent across %d records",
			ErrSniff, string(candidateDelimiters), len(records))
	}

	d := Dialect{
		Delimiter:        delim,
		Quote:            quote,
		SkipInitialSpace: skipsInitialSpace(records[0]),
	}
	_, d.DoubleQuote = parse(text, Dialect{
		Delimiter:        delim,
		Quote:            quote,
		DoubleQuote:      true,
		SkipInitialSpace: d.SkipInitialSpace,
	})
	return d, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// sampleRecords parses text with d. When the sample was cut mid-record, that
// last record is dropped as long as at least two others remain.
func sampleRecords(text string, d Dialect, truncated bool) [][]string {
	p := &parser{dialect: d}
	for _, c := range text {
		p.step(c)
	}
	partial := truncated && p.state != startRecord
	p.finish()
	if partial && len(p.rows) > 2 {
		return p.rows[:len(p.rows)-1]
	}
	return p.rows
}

// guessQuote picks the candidate quote that delimits the most fields.
func guessQuote(text []rune) rune {
	best, bestCount := candidateQuotes[0], 0
	for _, q := range candidateQuotes {
		if n := countQuotedFields(text, q); n > bestCount {
			best, bestCount = q, n
		}
	}
	return best
}

func isCandidateDelimiter(r rune) bool {
	for _, d := range candidateDelimiters {
		if r == d {
			return true
		}
	}
	return false
}

func isFieldBoundary(r rune) bool {
	return r == '\n' || isCandidateDelimiter(r)
}

// atFieldStart reports whether position i begins a field: text start, a line
// break or a candidate delimiter, with one optional space in between.
func atFieldStart(text []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := text[i-1]
	if isFieldBoundary(prev) {
		return true
	}
	return prev == ' ' && (i == 1 || isFieldBoundary(text[i-2]))
}

// countQuotedFields counts fields wrapped in q. A quoted field may contain
// line breaks.
func countQuotedFields(text []rune, q rune) int {
	n := 0
	for i := 0; i < len(text); i++ {
		if text[i] != q || !atFieldStart(text, i) {
			continue
		}
		for j := i + 1; j < len(text); j++ {
			if text[j] != q {
				continue
			}
			if j+1 < len(text) && text[j+1] == q {
				j++
				continue
			}
			if j+1 == len(text) || isFieldBoundary(text[j+1]) {
				n++
				i = j
			}
			break
		}
	}
	return n
}

type frequency struct {
	mode      int
	agreement int
}

// delimiterFrequency measures how consistently records split into the same
// number of fields.
func delimiterFrequency(records [][]string) frequency {
	counts := make(map[int]int)
	for _, rec := range records {
		counts[len(rec)-1]++
	}
	var f frequency
	best := -1
	for count, seen := range counts {
		if seen > best || (seen == best && count > f.mode) {
			f.mode, best = count, seen
		}
	}
	f.agreement = best - (len(records) - best)
	return f
}

// guessDelimiter returns the first candidate, in preference order, whose
// field count agrees across enough records, along with those records.
func guessDelimiter(text string, q rune, truncated bool) (rune, [][]string, bool) {
	parsed := make([][][]string, len(candidateDelimiters))
	freqs := make([]frequency, len(candidateDelimiters))
	for i, d := range candidateDelimiters {
		parsed[i] = sampleRecords(text, Dialect{Delimiter: d, Quote: q, DoubleQuote: true}, truncated)
		freqs[i] = delimiterFrequency(parsed[i])
	}
	for pct := maxConsistency; pct >= minConsistency; pct-- {
		for i, d := range candidateDelimiters {
			f := freqs[i]
			if f.mode > 0 && f.agreement*100 >= pct*len(parsed[i]) {
				return d, parsed[i], true
			}
		}
	}
	return 0, parsed[0], false
}

// skipsInitialSpace reports whether every field after the first in record
// starts with a space.
func skipsInitialSpace(record []string) bool {
	if len(record) < 2 {
		return false
	}
	for _, field := range record[1:] {
		if !strings.HasPrefix(field, " ") {
			return false
		}
	}
	return true
}
