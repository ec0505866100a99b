package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultFuzzyThreshold is the similarity cutoff FuzzyEquals callers
// normally use for store and keyword comparisons.
const DefaultFuzzyThreshold = 0.7

// Digit-confusion rewrites. A confusable letter is only rewritten when it
// sits against a digit and is not embedded in a longer word, so "1O.99"
// becomes "10.99" while "24oz" and "2lbs" stay untouched.
var (
	confusableTrailRE = regexp.MustCompile(`[0-9][OolIiSsB]{1,4}\b`)
	confusableLeadRE  = regexp.MustCompile(`\b[OolIiSsB]{1,4}[0-9]`)
	confusableInnerRE = regexp.MustCompile(`[0-9][OolIiSsB][0-9]`)
)

// Mis-OCR'd keyword spellings seen on real receipts.
var keywordFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bT\s+O\s+T\s+A\s+L\b`), "TOTAL"},
	{regexp.MustCompile(`\bC\s+A\s+S\s+H\b`), "CASH"},
	{regexp.MustCompile(`\bT0TAL\b`), "TOTAL"},
	{regexp.MustCompile(`\bT0TA1\b`), "TOTAL"},
	{regexp.MustCompile(`\b5UBTOTAL\b`), "SUBTOTAL"},
	{regexp.MustCompile(`\bSU8TOTAL\b`), "SUBTOTAL"},
	{regexp.MustCompile(`\bCA5H\b`), "CASH"},
}

var (
	currencyRepl  = strings.NewReplacer("€", "$", "£", "$", "¥", "$")
	currencyGapRE = regexp.MustCompile(`\$[ \t]+(\d)`)
	hspaceRE      = regexp.MustCompile(` {2,}`)
	newlineRunRE  = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw OCR text. It is deterministic, never fails, and is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := raw
	for _, f := range keywordFixes {
		s = f.re.ReplaceAllString(s, f.repl)
	}
	s = repairDigitConfusions(s)
	s = currencyRepl.Replace(s)
	s = currencyGapRE.ReplaceAllString(s, "$$${1}")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = hspaceRE.ReplaceAllString(s, " ")
	s = newlineRunRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SplitLines lowers cleaned text to trimmed, non-empty lines in order.
func SplitLines(clean string) []string {
	var out []string
	for _, ln := range strings.Split(clean, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		out = append(out, ln)
	}
	return out
}

func repairDigitConfusions(s string) string {
	for {
		prev := s
		s = confusableInnerRE.ReplaceAllStringFunc(s, mapConfusables)
		s = confusableTrailRE.ReplaceAllStringFunc(s, mapConfusables)
		s = confusableLeadRE.ReplaceAllStringFunc(s, mapConfusables)
		if s == prev {
			return s
		}
	}
}

func mapConfusables(run string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'O', 'o':
			return '0'
		case 'l', 'I', 'i':
			return '1'
		case 'S', 's':
			return '5'
		case 'B':
			return '8'
		}
		return r
	}, run)
}

var numericTokenRE = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ExtractNumericTokens pulls every integer or decimal token out of the
// text, tolerating a comma as the decimal mark.
func ExtractNumericTokens(text string) []float64 {
	var out []float64
	for _, tok := range numericTokenRE.FindAllString(text, -1) {
		if v, ok := parseFloat(strings.Replace(tok, ",", ".", 1)); ok {
			out = append(out, v)
		}
	}
	return out
}

// FuzzyEquals compares two strings after lowercasing and stripping
// non-alphanumerics. Exact match wins immediately; otherwise normalized
// Levenshtein similarity against the longer string must reach threshold.
func FuzzyEquals(a, b string, threshold float64) bool {
	na, nb := foldAlnum(a), foldAlnum(b)
	if na == nb {
		return true
	}
	longer, shorter := na, nb
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if len(longer) == 0 {
		return false
	}
	d := levenshtein(longer, shorter)
	sim := 1 - float64(d)/float64(len(longer))
	return sim >= threshold
}

// levenshtein is the classic unit-cost edit distance, single-row variant.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			old := row[j]
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			row[j] = minInt(row[j]+1, minInt(row[j-1]+1, diag+cost))
			diag = old
		}
	}
	return row[len(rb)]
}

func foldAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func letterRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(len(s))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
