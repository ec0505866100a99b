package receipt

import "math"

// Score computes a bounded [0,1] trust signal over an assembled record.
// It is a weighted additive model, not a probability: the weights reflect
// how strongly each field anchors the record, with a small bonus when
// subtotal plus tax reconciles against the total.
func Score(r *Receipt) float64 {
	if r == nil {
		return 0
	}
	s := 0.0
	if len(r.StoreName) >= 3 {
		s += 0.15
	}
	if r.Date != nil {
		s += 0.10
	}
	if r.Total != nil && *r.Total > 0 {
		s += 0.35
	}
	switch {
	case len(r.Items) >= 3:
		s += 0.25
	case len(r.Items) >= 1:
		s += 0.15
	}
	if r.TaxTotal > 0 {
		s += 0.10
	}
	if r.Subtotal != nil && r.TaxTotal > 0 && r.Total != nil {
		if math.Abs(*r.Subtotal+r.TaxTotal-*r.Total) < 0.50 {
			s += 0.05
		}
	}
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
