package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/pricing"
)

func sectionWithTotal(total string) pricing.Section {
	return pricing.Section{Name: "General", Total: decimal.RequireFromString(total)}
}

func TestComputeTotals_TaxRounding(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     string
		taxRate      float64
		wantTax      string
		wantTotal    string
		wantSubtotal string
	}{
		{
			name:         "exact cents",
			subtotal:     "100.00",
			taxRate:      0.0825,
			wantTax:      "8.25",
			wantTotal:    "108.25",
			wantSubtotal: "100.00",
		},
		{
			name:         "half-up at the cent",
			subtotal:     "33.33",
			taxRate:      0.0825,
			wantTax:      "2.75", // 2.749725 rounds up
			wantTotal:    "36.08",
			wantSubtotal: "33.33",
		},
		{
			name:         "zero rate",
			subtotal:     "250.00",
			taxRate:      0,
			wantTax:      "0.00",
			wantTotal:    "250.00",
			wantSubtotal: "250.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := pricing.ComputeTotals([]pricing.Section{sectionWithTotal(tt.subtotal)}, tt.taxRate)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSubtotal, totals.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTax, totals.TaxAmount.StringFixed(2))
			assert.Equal(t, tt.wantTotal, totals.Total.StringFixed(2))
		})
	}
}

func TestComputeTotals_InvalidTaxRate(t *testing.T) {
	for _, rate := range []float64{-0.01, 1.01, 2} {
		_, err := pricing.ComputeTotals([]pricing.Section{sectionWithTotal("100")}, rate)
		assert.ErrorIs(t, err, pricing.ErrInvalidTaxRate)
	}

	// boundary values are accepted
	for _, rate := range []float64{0, 1} {
		_, err := pricing.ComputeTotals(nil, rate)
		assert.NoError(t, err)
	}
}

func TestComputeTotals_SumsAcrossSections(t *testing.T) {
	sections := []pricing.Section{
		sectionWithTotal("200.00"),
		sectionWithTotal("50.50"),
	}

	totals, err := pricing.ComputeTotals(sections, 0.08)

	require.NoError(t, err)
	assert.Equal(t, "250.50", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "20.04", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "270.54", totals.Total.StringFixed(2))
}

func TestComputeTotals_EndToEndScenario(t *testing.T) {
	items := []domain.ProposalItem{
		item("Install", 0, "item A", 0, 2, 100, true, true),
		item("Maintenance", 1, "item B", 0, 1, 50, true, false),
	}

	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)
	totals, err := pricing.ComputeTotals(sections, 0.08)

	require.NoError(t, err)
	assert.Equal(t, "200.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "16.00", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "216.00", totals.Total.StringFixed(2))
}
