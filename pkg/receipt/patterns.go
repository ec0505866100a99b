package receipt

import (
	"regexp"
	"strings"
)

// Pattern tables used by the extractors. Each table is ordered: earlier
// patterns win when two patterns match overlapping spans of the same line.
// All tables are built once at init and never mutated.

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}[/.-]\d{1,2}[/.-]\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{2,4}\b`),
}

// timePattern is the primary clock pattern. timeDigitsPattern is a bare
// 4-digit fallback; the time extractor deliberately does not consult it
// because 4-digit runs on receipts are usually register or store numbers.
var (
	timePattern       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp][Mm])?`)
	timeDigitsPattern = regexp.MustCompile(`\b\d{4}\b`)
)

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[$€£¥]\s?\d+(?:[.,]\d+)*`),
	regexp.MustCompile(`\d+(?:[.,]\d+)*\s?[$€£¥]`),
	regexp.MustCompile(`\(\s?[$€£¥]?\s?\d+(?:[.,]\d+)*\s?\)`),
	regexp.MustCompile(`\b\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{2})?\b`),
	regexp.MustCompile(`\b\d+[.,]\d{2}\b`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]\d{4}`),
	regexp.MustCompile(`\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`),
	regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{2,3}[-.\s]?\d{3,4}[-.\s]?\d{4}`),
}

var transactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btrans(?:action)?\s+(?:no|num|number|id)?[\s:#.]*([A-Za-z0-9-]{4,})`),
	regexp.MustCompile(`(?i)\btrans(?:action)?(?:no|num|number|id)?[:#][\s:#.]*([A-Za-z0-9-]{4,})`),
	regexp.MustCompile(`(?i)\bref(?:erence)?\s*(?:no|num|number|id)?[\s:#.]+([A-Za-z0-9-]{4,})`),
	regexp.MustCompile(`(?i)\binv(?:oice)?\s*(?:no|num|number)?[\s:#.]+([A-Za-z0-9-]{4,})`),
}

var cashierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\byour\s+cashier\s+was\s+([A-Za-z][A-Za-z .'-]{1,30})`),
	regexp.MustCompile(`(?i)\b(?:cashier|served\s+by|server|clerk)\s*[:#]?\s*([A-Za-z][A-Za-z .'-]{1,30})`),
}

// Keyword classifiers. Word boundaries matter: \btotal\b does not match
// inside SUBTOTAL, which keeps subtotal lines out of total candidates.
var (
	storeSignalRE = regexp.MustCompile(`(?i)\b(?:store|market|mart|shop|supermarket|grocery|restaurant|cafe|deli|pharmacy)\b`)
	addressRE     = regexp.MustCompile(`(?i)\b(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|suite|ste|unit|hwy|highway|p\.?o\.?\s*box)\b`)
	totalRE       = regexp.MustCompile(`(?i)\b(?:grand\s*total|total|amount\s*due|balance\s*due|amount\s*payable)\b`)
	subtotalRE    = regexp.MustCompile(`(?i)\bsub\s*-?\s*total\b`)
	taxRE         = regexp.MustCompile(`(?i)\b(?:tax|gst|vat|hst)\b`)
	excludeRE     = regexp.MustCompile(`(?i)\b(?:receipt|invoice|welcome|thank|customer|copy|tel|phone|fax|www|http|order|register)\b`)
)

// paymentKeywords is consulted in order; the first keyword found in the
// cleaned text decides the payment method label. Longer keywords come
// first so "gift card" is not swallowed by "card".
var paymentKeywords = []string{
	"credit card", "debit card", "gift card", "apple pay", "google pay",
	"american express", "mastercard", "discover", "visa", "amex",
	"credit", "debit", "cash", "check", "card",
}

// IsLikelyItemLine reports whether a line plausibly holds a purchased item.
// The test is deliberately permissive; false positives are filtered again
// by the item extractor.
func IsLikelyItemLine(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 2 {
		return false
	}
	if totalRE.MatchString(line) || subtotalRE.MatchString(line) || taxRE.MatchString(line) {
		return false
	}
	if containsLetter(line) {
		return true
	}
	for _, re := range pricePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

type priceMatch struct {
	start, end int
	text       string
}

// allPriceMatches runs every price pattern over the line in precedence
// order, dropping any match that overlaps a span already claimed by an
// earlier pattern.
func allPriceMatches(line string) []priceMatch {
	var out []priceMatch
	for _, re := range pricePatterns {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			overlaps := false
			for _, m := range out {
				if loc[0] < m.end && loc[1] > m.start {
					overlaps = true
					break
				}
			}
			if overlaps {
				continue
			}
			out = append(out, priceMatch{start: loc[0], end: loc[1], text: line[loc[0]:loc[1]]})
		}
	}
	return out
}

// ExtractAllPrices returns the distinct positive amounts found in the line,
// in pattern-then-match order.
func ExtractAllPrices(line string) []float64 {
	var out []float64
	seen := map[float64]struct{}{}
	for _, m := range allPriceMatches(line) {
		v, ok := parsePriceToken(m.text)
		if !ok || v <= 0 {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ExtractLastPrice returns the last price ExtractAllPrices yields.
func ExtractLastPrice(line string) (float64, bool) {
	ps := ExtractAllPrices(line)
	if len(ps) == 0 {
		return 0, false
	}
	return ps[len(ps)-1], true
}

// ExtractLargestPrice returns the maximum price ExtractAllPrices yields.
func ExtractLargestPrice(line string) (float64, bool) {
	ps := ExtractAllPrices(line)
	if len(ps) == 0 {
		return 0, false
	}
	best := ps[0]
	for _, p := range ps[1:] {
		if p > best {
			best = p
		}
	}
	return best, true
}

// ExtractItemName returns the text before the last price match in the
// line, or "" when no price matches or the remainder is shorter than two
// characters.
func ExtractItemName(line string) string {
	ms := allPriceMatches(line)
	if len(ms) == 0 {
		return ""
	}
	last := ms[0]
	for _, m := range ms[1:] {
		if m.start > last.start {
			last = m
		}
	}
	name := strings.TrimSpace(line[:last.start])
	if len(name) < 2 {
		return ""
	}
	return name
}

// parsePriceToken normalizes a raw price match into a float. When both
// separators occur, whichever comes last is the decimal point; a lone
// comma is decimal only when exactly two fractional digits follow it.
func parsePriceToken(tok string) (float64, bool) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ' ', '\u00a0':
			return -1
		}
		return r
	}, tok)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) == 2 {
			s = parts[0] + "." + parts[1]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return parseFloat(s)
}
