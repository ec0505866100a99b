package receipt

import "time"

// LineItem is a single purchased line. Taxable is informational only and
// defaults to true; nothing in the parser computes it.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Price     float64 `json:"price"`
	Taxable   bool    `json:"taxable"`
}

// Receipt is the assembled record. It is built exactly once per Parse call
// and never mutated afterwards. RawText always carries the original input
// for audit; callers must not re-parse it.
type Receipt struct {
	StoreName     string             `json:"store_name,omitempty"`
	Address       string             `json:"address,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Date          *time.Time         `json:"date,omitempty"`
	Time          string             `json:"time,omitempty"`
	Items         []LineItem         `json:"items"`
	Subtotal      *float64           `json:"subtotal,omitempty"`
	Taxes         map[string]float64 `json:"taxes,omitempty"`
	TaxTotal      float64            `json:"tax_total,omitempty"`
	Total         *float64           `json:"total,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	TransactionID string             `json:"transaction_id,omitempty"`
	Cashier       string             `json:"cashier,omitempty"`
	RawText       string             `json:"raw_text"`
}

// Valid reports whether the record clears the minimum bar for downstream
// use: at least one of store name, total, or a non-empty item list.
func (r *Receipt) Valid() bool {
	return r.StoreName != "" || r.Total != nil || len(r.Items) > 0
}

// Outcome is the closed result type of a parse: exactly one of Success,
// Partial, or Failure. Consumers switch on the concrete type.
type Outcome interface {
	outcome()
}

// Success carries a record with every expected field present.
type Success struct {
	Receipt *Receipt
}

// Partial carries a valid record plus one warning per expected field that
// could not be extracted.
type Partial struct {
	Receipt  *Receipt
	Warnings []string
}

// Failure means the input was empty or unreadable, or the record failed
// the validity invariant. No record is produced.
type Failure struct {
	Reason string
}

func (Success) outcome() {}
func (Partial) outcome() {}
func (Failure) outcome() {}

const (
	reasonEmptyText    = "Empty text provided"
	reasonNoLines      = "No readable lines found"
	reasonInsufficient = "Insufficient data extracted"
)

// Parse runs the full pipeline: normalize, partition, extract, assemble.
// The region list may be empty; partitioning then degrades to positional
// fallbacks. Parse never panics and holds no state between calls.
func Parse(raw string, regions []Region) Outcome {
	if isBlank(raw) {
		return Failure{Reason: reasonEmptyText}
	}
	clean := Normalize(raw)
	lines := SplitLines(clean)
	if len(lines) == 0 {
		return Failure{Reason: reasonNoLines}
	}

	header := PartitionLines(lines, regions, RegionHeader)
	itemLines := PartitionLines(lines, regions, RegionItems)
	totalLines := PartitionLines(lines, regions, RegionTotals)

	storeLines := header
	if len(storeLines) == 0 {
		storeLines = firstN(lines, 5)
	}
	addrLines := header
	if len(addrLines) == 0 {
		addrLines = firstN(lines, 10)
	}
	if len(itemLines) == 0 {
		itemLines = lines
	}
	if len(totalLines) == 0 {
		totalLines = lines
	}

	rec := &Receipt{
		StoreName:     extractStoreName(storeLines),
		Address:       extractAddress(addrLines),
		Phone:         extractPhone(clean),
		Date:          extractDate(clean),
		Time:          extractTime(clean),
		Items:         extractItems(itemLines),
		Subtotal:      extractSubtotal(totalLines),
		Taxes:         extractTaxes(totalLines),
		Total:         extractTotal(totalLines, clean),
		PaymentMethod: extractPaymentMethod(clean),
		TransactionID: extractTransactionID(clean),
		Cashier:       extractCashier(clean),
		RawText:       raw,
	}
	for _, v := range rec.Taxes {
		rec.TaxTotal += v
	}

	var warnings []string
	if rec.StoreName == "" {
		warnings = append(warnings, "store name not found")
	}
	if rec.Address == "" {
		warnings = append(warnings, "address not found")
	}
	if rec.Date == nil {
		warnings = append(warnings, "date not found")
	}
	if rec.Total == nil {
		warnings = append(warnings, "total not found")
	}
	if len(rec.Items) == 0 {
		warnings = append(warnings, "no line items found")
	}
	if len(rec.Taxes) == 0 {
		warnings = append(warnings, "no tax entries found")
	}

	if !rec.Valid() {
		return Failure{Reason: reasonInsufficient}
	}
	if len(warnings) > 0 {
		return Partial{Receipt: rec, Warnings: warnings}
	}
	return Success{Receipt: rec}
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

func firstN(lines []string, n int) []string {
	return lines[:minInt(len(lines), n)]
}
