package receipt

import (
	"fmt"
	"testing"
)

func makeLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func TestPartitionLinesNoRegions(t *testing.T) {
	lines := makeLines(20)
	if got := PartitionLines(lines, nil, RegionHeader); len(got) != 0 {
		t.Fatalf("expected empty slice without regions, got %v", got)
	}
	// tag absent from the region list
	if got := PartitionLines(lines, []Region{RegionItems}, RegionTotals); len(got) != 0 {
		t.Fatalf("expected empty slice for absent tag, got %v", got)
	}
}

func TestPartitionLinesProportions(t *testing.T) {
	lines := makeLines(20)
	all := []Region{RegionHeader, RegionItems, RegionTotals, RegionFooter}

	header := PartitionLines(lines, all, RegionHeader)
	if len(header) != 4 || header[0] != "line 0" {
		t.Fatalf("header %v", header)
	}
	items := PartitionLines(lines, all, RegionItems)
	if len(items) != 10 || items[0] != "line 4" || items[9] != "line 13" {
		t.Fatalf("items %v", items)
	}
	totals := PartitionLines(lines, all, RegionTotals)
	if len(totals) != 6 || totals[0] != "line 14" {
		t.Fatalf("totals %v", totals)
	}
	footer := PartitionLines(lines, all, RegionFooter)
	if len(footer) != 3 || footer[0] != "line 17" {
		t.Fatalf("footer %v", footer)
	}
	if got := PartitionLines(lines, []Region{RegionUnknown}, RegionUnknown); len(got) != 0 {
		t.Fatalf("unknown region must slice nothing, got %v", got)
	}
}

func TestPartitionLinesMinimumsAndClamping(t *testing.T) {
	lines := makeLines(4)
	all := []Region{RegionHeader, RegionItems, RegionTotals, RegionFooter}

	// minimums exceed the proportional size on short inputs
	header := PartitionLines(lines, all, RegionHeader)
	if len(header) != 3 {
		t.Fatalf("header %v", header)
	}
	totals := PartitionLines(lines, all, RegionTotals)
	if len(totals) != 4 {
		t.Fatalf("totals should clamp to all lines, got %v", totals)
	}
	footer := PartitionLines(lines, all, RegionFooter)
	if len(footer) != 2 {
		t.Fatalf("footer %v", footer)
	}
}

func TestParseRegion(t *testing.T) {
	cases := map[string]Region{
		"header":  RegionHeader,
		" Items ": RegionItems,
		"TOTALS":  RegionTotals,
		"footer":  RegionFooter,
		"blob":    RegionUnknown,
		"":        RegionUnknown,
	}
	for in, want := range cases {
		if got := ParseRegion(in); got != want {
			t.Fatalf("ParseRegion(%q)=%q want %q", in, got, want)
		}
	}
}
