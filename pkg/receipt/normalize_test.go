package receipt

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"FRESH MART\r\n123 Main St\r\n\r\n\r\n\r\nTOTAL 7.01",
		"  $ 5.00\t\tMilk  ",
		"T0TAL 1O.99\nCA5H",
		"€ 12,34 brot",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeDigitConfusions(t *testing.T) {
	got := Normalize("T0TAL 1O.99")
	if got != "TOTAL 10.99" {
		t.Fatalf("expected TOTAL 10.99 got %q", got)
	}
	// embedded letters must survive
	got = Normalize("24oz JUICE 2lbs 3.50")
	if got != "24oz JUICE 2lbs 3.50" {
		t.Fatalf("unit suffixes mangled: %q", got)
	}
	got = Normalize("l2.50")
	if got != "12.50" {
		t.Fatalf("expected 12.50 got %q", got)
	}
}

func TestNormalizeCurrencyAndWhitespace(t *testing.T) {
	got := Normalize("BROT  € 12,34\r\n\r\n\r\n\r\nDANKE")
	want := "BROT $12,34\n\nDANKE"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\n\n  b \nc")
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Fatalf("unexpected lines %v", lines)
	}
	if got := SplitLines(""); len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}

func TestExtractNumericTokens(t *testing.T) {
	toks := ExtractNumericTokens("qty 2 at 3,5 each = 7.00")
	want := []float64{2, 3.5, 7.00}
	if len(toks) != len(want) {
		t.Fatalf("expected %v got %v", want, toks)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("expected %v got %v", want, toks)
		}
	}
}

func TestFuzzyEquals(t *testing.T) {
	if !FuzzyEquals("Wal-Mart", "Walmart", DefaultFuzzyThreshold) {
		t.Fatalf("Wal-Mart should fuzzy-match Walmart")
	}
	if FuzzyEquals("Target", "Costco", DefaultFuzzyThreshold) {
		t.Fatalf("Target should not fuzzy-match Costco")
	}
	if !FuzzyEquals("WALMART", "walmart", DefaultFuzzyThreshold) {
		t.Fatalf("case must not matter")
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Fatalf("levenshtein(%q,%q)=%d want %d", c.a, c.b, got, c.want)
		}
	}
}
