package pricing

import "github.com/shopspring/decimal"

// Totals holds the recomputed money amounts for a proposal
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals sums the section totals and applies the tax rate. The tax
// amount is rounded half-up at the cent; the subtotal is left unrounded so a
// caller can decide its display precision. A rate outside [0, 1] returns
// ErrInvalidTaxRate before any arithmetic.
func ComputeTotals(sections []Section, taxRate float64) (Totals, error) {
	if taxRate < 0 || taxRate > 1 {
		return Totals{}, ErrInvalidTaxRate
	}

	subtotal := decimal.Zero
	for _, sec := range sections {
		subtotal = subtotal.Add(sec.Total)
	}
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}, nil
}
