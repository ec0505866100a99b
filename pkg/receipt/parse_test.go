package receipt

import (
	"strings"
	"testing"
	"time"
)

const sampleReceipt = "FRESH MART\n123 Main St\n03/15/2024\nMilk 3.99\nBread 2.50\nSUBTOTAL 6.49\nSALES TAX 0.52\nTOTAL 7.01\nCASH"

func TestParseBlankInputFails(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\r\n"} {
		out := Parse(in, nil)
		f, ok := out.(Failure)
		if !ok {
			t.Fatalf("expected Failure for %q, got %T", in, out)
		}
		if f.Reason != "Empty text provided" {
			t.Fatalf("unexpected reason %q", f.Reason)
		}
	}
}

func TestParseUnusableInputFails(t *testing.T) {
	out := Parse("@#%\n***\n!!", nil)
	f, ok := out.(Failure)
	if !ok {
		t.Fatalf("expected Failure, got %T", out)
	}
	if f.Reason != "Insufficient data extracted" {
		t.Fatalf("unexpected reason %q", f.Reason)
	}
}

func TestParseCompleteReceiptSucceeds(t *testing.T) {
	out := Parse(sampleReceipt, nil)
	s, ok := out.(Success)
	if !ok {
		t.Fatalf("expected Success, got %#v", out)
	}
	rec := s.Receipt
	if rec.StoreName != "FRESH MART" {
		t.Fatalf("store name %q", rec.StoreName)
	}
	if !strings.Contains(rec.Address, "123 Main St") {
		t.Fatalf("address %q", rec.Address)
	}
	if rec.Date == nil || !rec.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date %v", rec.Date)
	}
	if len(rec.Items) != 2 {
		t.Fatalf("expected 2 items got %+v", rec.Items)
	}
	if rec.Items[0].Name != "Milk" || rec.Items[0].Price != 3.99 {
		t.Fatalf("bad item %+v", rec.Items[0])
	}
	if rec.Items[1].Name != "Bread" || rec.Items[1].Price != 2.50 {
		t.Fatalf("bad item %+v", rec.Items[1])
	}
	if rec.Subtotal == nil || *rec.Subtotal != 6.49 {
		t.Fatalf("subtotal %v", rec.Subtotal)
	}
	if len(rec.Taxes) != 1 || rec.Taxes["Sales Tax"] != 0.52 {
		t.Fatalf("taxes %v", rec.Taxes)
	}
	if rec.Total == nil || *rec.Total != 7.01 {
		t.Fatalf("total %v", rec.Total)
	}
	if rec.PaymentMethod != "Cash" {
		t.Fatalf("payment %q", rec.PaymentMethod)
	}
	if rec.RawText != sampleReceipt {
		t.Fatalf("raw text not retained")
	}
}

func TestParseMissingDateIsPartial(t *testing.T) {
	in := strings.Replace(sampleReceipt, "03/15/2024\n", "", 1)
	out := Parse(in, nil)
	p, ok := out.(Partial)
	if !ok {
		t.Fatalf("expected Partial, got %#v", out)
	}
	if len(p.Warnings) != 1 || p.Warnings[0] != "date not found" {
		t.Fatalf("warnings %v", p.Warnings)
	}
	if p.Receipt.Total == nil || *p.Receipt.Total != 7.01 {
		t.Fatalf("total %v", p.Receipt.Total)
	}
}

func TestParseWithRegionHints(t *testing.T) {
	regions := []Region{RegionHeader, RegionItems, RegionTotals, RegionFooter}
	out := Parse(sampleReceipt, regions)
	switch v := out.(type) {
	case Success:
		if v.Receipt.StoreName != "FRESH MART" {
			t.Fatalf("store name %q", v.Receipt.StoreName)
		}
	case Partial:
		if v.Receipt.StoreName != "FRESH MART" {
			t.Fatalf("store name %q", v.Receipt.StoreName)
		}
	default:
		t.Fatalf("expected a record, got %#v", out)
	}
}

func TestReceiptValidityMonotonic(t *testing.T) {
	empty := &Receipt{}
	if empty.Valid() {
		t.Fatalf("empty record must be invalid")
	}
	withStore := &Receipt{StoreName: "FRESH MART"}
	if !withStore.Valid() {
		t.Fatalf("store name must make record valid")
	}
	total := 7.01
	withTotal := &Receipt{Total: &total}
	if !withTotal.Valid() {
		t.Fatalf("total must make record valid")
	}
	withItems := &Receipt{Items: []LineItem{{Name: "Milk", Price: 3.99, Taxable: true}}}
	if !withItems.Valid() {
		t.Fatalf("items must make record valid")
	}
}

func TestParseOCRNoiseRepairedEndToEnd(t *testing.T) {
	in := "FRESH MART\n123 Main St\nMilk 3.99\nT0TAL 1O.99\nCA5H"
	out := Parse(in, nil)
	p, ok := out.(Partial)
	if !ok {
		t.Fatalf("expected Partial, got %#v", out)
	}
	if p.Receipt.Total == nil || *p.Receipt.Total != 10.99 {
		t.Fatalf("total %v", p.Receipt.Total)
	}
	if p.Receipt.PaymentMethod != "Cash" {
		t.Fatalf("payment %q", p.Receipt.PaymentMethod)
	}
}
