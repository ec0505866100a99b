package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field extractors. Each one is a pure function over cleaned lines or the
// cleaned full text; failing to find a field yields the zero value, never
// an error.

func extractStoreName(lines []string) string {
	limit := minInt(len(lines), 5)
	for _, ln := range lines[:limit] {
		ln = strings.TrimSpace(ln)
		if len(ln) < 3 || len(ln) > 50 {
			continue
		}
		if addressRE.MatchString(ln) || excludeRE.MatchString(ln) {
			continue
		}
		if letterRatio(ln) <= 0.5 {
			continue
		}
		return ln
	}
	return ""
}

// extractAddress collects lines that carry an address indicator keyword or
// mix digits and letters, stopping once two lines longer than five
// characters have been taken.
func extractAddress(lines []string) string {
	limit := minInt(len(lines), 10)
	var parts []string
	long := 0
	for _, ln := range lines[:limit] {
		if !addressRE.MatchString(ln) && !(containsDigit(ln) && containsLetter(ln)) {
			continue
		}
		parts = append(parts, ln)
		if len(ln) > 5 {
			long++
		}
		if long >= 2 {
			break
		}
	}
	return strings.Join(parts, ", ")
}

func extractPhone(text string) string {
	for _, re := range phonePatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

var dateLayoutsNumeric = []string{
	"1/2/2006", "2/1/2006", "2006/1/2", "1/2/06", "2/1/06",
}

var dateLayoutsNamed = []string{
	"Jan 2, 2006", "January 2, 2006", "Jan 2 2006", "January 2 2006",
	"Jan 2, 06", "Jan 2 06",
}

// extractDate takes the first date pattern that matches and tries a fixed
// layout order against the normalized match. Month-first layouts are tried
// before day-first, so an ambiguous 03/04 reads as March 4th.
func extractDate(text string) *time.Time {
	for _, re := range datePatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		if containsLetter(m) {
			m = canonicalMonth(strings.Replace(m, ".", "", 1))
			for _, layout := range dateLayoutsNamed {
				if t, err := time.Parse(layout, m); err == nil {
					return &t
				}
			}
			return nil
		}
		norm := strings.NewReplacer(".", "/", "-", "/").Replace(m)
		for _, layout := range dateLayoutsNumeric {
			if t, err := time.Parse(layout, norm); err == nil {
				return &t
			}
		}
		return nil
	}
	return nil
}

// canonicalMonth folds "SEP 5, 2024" to "Sep 5, 2024" so time.Parse
// accepts it.
func canonicalMonth(s string) string {
	i := 0
	for i < len(s) && ((s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z')) {
		i++
	}
	if i == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:i]) + s[i:]
}

// extractTime consults only the primary H:MM pattern. The 4-digit fallback
// pattern exists in the library but is not used here; see the note on
// timeDigitsPattern.
func extractTime(text string) string {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if h > 23 || mins > 59 {
		return ""
	}
	switch strings.ToLower(m[4]) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", h, mins)
}

var quantityRE = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(x|@|lb|kg|oz|ea)\b`)

// extractItems emits one line item per qualifying line, preserving order.
// The last price on the line is the charged amount; a quantity token
// inside the name text optionally fills quantity, unit, and unit price.
func extractItems(lines []string) []LineItem {
	var items []LineItem
	for _, ln := range lines {
		if !IsLikelyItemLine(ln) {
			continue
		}
		prices := ExtractAllPrices(ln)
		if len(prices) == 0 {
			continue
		}
		if totalRE.MatchString(ln) || subtotalRE.MatchString(ln) || taxRE.MatchString(ln) {
			continue
		}
		name := ExtractItemName(ln)
		if len(name) < 2 {
			continue
		}
		it := LineItem{Name: name, Price: prices[len(prices)-1], Taxable: true}
		if qm := quantityRE.FindStringSubmatch(name); qm != nil {
			if q, ok := parseFloat(strings.Replace(qm[1], ",", ".", 1)); ok && q > 0 {
				it.Quantity = q
				unit := strings.ToLower(qm[2])
				if unit != "x" && unit != "@" {
					it.Unit = unit
				}
				if len(prices) >= 2 {
					it.UnitPrice = prices[len(prices)-2]
				}
			}
		}
		items = append(items, it)
	}
	return items
}

// extractTotal takes the maximum price across total-keyword lines, falling
// back to the largest price-like token anywhere in the cleaned text.
func extractTotal(lines []string, text string) *float64 {
	var best float64
	found := false
	for _, ln := range lines {
		if !totalRE.MatchString(ln) || subtotalRE.MatchString(ln) {
			continue
		}
		for _, p := range ExtractAllPrices(ln) {
			if p > best {
				best = p
				found = true
			}
		}
	}
	if found {
		return &best
	}
	if p, ok := ExtractLargestPrice(text); ok {
		return &p
	}
	return nil
}

func extractSubtotal(lines []string) *float64 {
	var best float64
	found := false
	for _, ln := range lines {
		if !subtotalRE.MatchString(ln) {
			continue
		}
		for _, p := range ExtractAllPrices(ln) {
			if p > best {
				best = p
				found = true
			}
		}
	}
	if !found {
		return nil
	}
	return &best
}

// taxTypeOrder is the keyword priority for classifying a tax line.
var taxTypeOrder = []struct{ needle, label string }{
	{"sales", "Sales Tax"},
	{"state", "State Tax"},
	{"local", "Local Tax"},
	{"gst", "GST"},
	{"vat", "VAT"},
	{"hst", "HST"},
}

// extractTaxes maps inferred tax type to the first price on each tax line.
// A later line with the same inferred type overwrites the earlier one.
func extractTaxes(lines []string) map[string]float64 {
	taxes := map[string]float64{}
	for _, ln := range lines {
		if !taxRE.MatchString(ln) {
			continue
		}
		prices := ExtractAllPrices(ln)
		if len(prices) == 0 {
			continue
		}
		label := "Tax"
		low := strings.ToLower(ln)
		for _, t := range taxTypeOrder {
			if strings.Contains(low, t.needle) {
				label = t.label
				break
			}
		}
		taxes[label] = prices[0]
	}
	return taxes
}

func extractPaymentMethod(text string) string {
	low := strings.ToLower(text)
	for _, kw := range paymentKeywords {
		if strings.Contains(low, kw) {
			return strings.ToUpper(kw[:1]) + kw[1:]
		}
	}
	return ""
}

func extractTransactionID(text string) string {
	for _, re := range transactionPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractCashier(text string) string {
	for _, re := range cashierPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
