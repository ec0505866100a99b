package receipt

import "strings"

// Region is a coarse zone tag assigned by an external image classifier.
// The parser only ever sees the tag, never geometry.
type Region string

const (
	RegionHeader  Region = "header"
	RegionItems   Region = "items"
	RegionTotals  Region = "totals"
	RegionFooter  Region = "footer"
	RegionUnknown Region = "unknown"
)

// ParseRegion maps a free-form tag string to a Region.
func ParseRegion(s string) Region {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "header":
		return RegionHeader
	case "items":
		return RegionItems
	case "totals":
		return RegionTotals
	case "footer":
		return RegionFooter
	}
	return RegionUnknown
}

// PartitionLines slices the line sequence for the requested region. The
// split is a proportional line-count heuristic keyed only on the presence
// of the tag; no bounding-box matching is attempted. When the region list
// is empty or lacks the tag the result is empty and the caller falls back
// to an unfiltered view.
func PartitionLines(lines []string, regions []Region, want Region) []string {
	if len(regions) == 0 {
		return nil
	}
	present := false
	for _, r := range regions {
		if r == want {
			present = true
			break
		}
	}
	if !present {
		return nil
	}
	n := len(lines)
	switch want {
	case RegionHeader:
		end := maxInt(n/5, 3)
		return lines[:minInt(end, n)]
	case RegionItems:
		start := minInt(n/5, n)
		end := maxInt(n*7/10, start)
		return lines[start:minInt(end, n)]
	case RegionTotals:
		start := n - maxInt(n*3/10, 5)
		return lines[maxInt(start, 0):]
	case RegionFooter:
		start := n - maxInt(n*15/100, 2)
		return lines[maxInt(start, 0):]
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
