package pdf_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/pdf"
	"github.com/verdantworks/crm-api/internal/pricing"
)

var testBranding = pdf.Branding{
	CompanyName: "Verdant Landscapes",
	Tagline:     "Design. Build. Maintain.",
	ContactLine: "hello@verdantlandscapes.test | (555) 010-0100",
}

func testDocument(lineCount int) pdf.Document {
	doc := pdf.Document{
		Title:           "Backyard Renovation",
		ProposalNumber:  "7b0c9a3e",
		ClientName:      "Jordan Miller",
		ClientCompany:   "Miller Holdings",
		PropertyAddress: "12 Cedar Lane",
		GeneratedAt:     time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		Subtotal:        decimal.RequireFromString("1000.00"),
		TaxRate:         0.08,
		TaxAmount:       decimal.RequireFromString("80.00"),
		Total:           decimal.RequireFromString("1080.00"),
	}
	sec := pdf.DocumentSection{Name: "Install", Subtotal: doc.Subtotal}
	for i := 0; i < lineCount; i++ {
		sec.Lines = append(sec.Lines, pdf.DocumentLine{
			Name:        fmt.Sprintf("Line %d", i),
			Description: "Supply and install per plan",
			Quantity:    decimal.NewFromInt(2),
			Unit:        "each",
			UnitPrice:   decimal.RequireFromString("10.00"),
			LineTotal:   decimal.RequireFromString("20.00"),
			IsSelected:  true,
		})
	}
	doc.Sections = []pdf.DocumentSection{sec}
	return doc
}

// pageCount counts page objects in the raw PDF, excluding the page-tree node
func pageCount(b []byte) int {
	return bytes.Count(b, []byte("/Type /Page")) - bytes.Count(b, []byte("/Type /Pages"))
}

func TestRenderer_MissingTitle(t *testing.T) {
	doc := testDocument(1)
	doc.Title = ""

	_, err := pdf.NewRenderer(testBranding).Render(&doc)

	assert.ErrorIs(t, err, pdf.ErrMissingTitle)
}

func TestRenderer_ProducesPDF(t *testing.T) {
	doc := testDocument(3)

	b, err := pdf.NewRenderer(testBranding).Render(&doc)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
	assert.Equal(t, 1, pageCount(b))
}

func TestRenderer_LongProposalSpansPages(t *testing.T) {
	doc := testDocument(120)

	b, err := pdf.NewRenderer(testBranding).Render(&doc)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageCount(b), 2)
}

func TestRenderer_MissingLogoFallsBackToTextHeader(t *testing.T) {
	branding := testBranding
	branding.LogoPath = "/nonexistent/logo.png"
	doc := testDocument(2)

	b, err := pdf.NewRenderer(branding).Render(&doc)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRenderer_EmptySections(t *testing.T) {
	doc := testDocument(0)
	doc.Sections = nil
	doc.Subtotal = decimal.Zero
	doc.TaxAmount = decimal.Zero
	doc.Total = decimal.Zero

	b, err := pdf.NewRenderer(testBranding).Render(&doc)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestBuildDocument_ExcludesCostData(t *testing.T) {
	items := []domain.ProposalItem{
		{
			SectionName:        "Install",
			Name:               "Sod",
			Quantity:           2,
			Unit:               "pallet",
			UnitPrice:          100,
			UnitCost:           61.17, // must never reach the document
			IsVisibleToClient:  true,
			IsSelectedByClient: true,
		},
	}
	sections := pricing.GroupIntoSections(items, pricing.ViewModeClient)
	totals, err := pricing.ComputeTotals(sections, 0.08)
	require.NoError(t, err)

	proposal := &domain.Proposal{Title: "Front Yard", TaxRate: 0.08}
	doc := pdf.BuildDocument(proposal, sections, totals, time.Now())

	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Lines, 1)
	line := doc.Sections[0].Lines[0]
	assert.Equal(t, "100", line.UnitPrice.String())
	assert.Equal(t, "200", line.LineTotal.String())

	// the rendered artifact cannot contain what the model does not carry
	b, err := pdf.NewRenderer(testBranding).Render(&doc)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "61.17")
}

func TestBuildDocument_UnselectedLineTotalIsZero(t *testing.T) {
	items := []domain.ProposalItem{
		{
			Name:               "Optional fountain",
			Quantity:           1,
			UnitPrice:          500,
			IsVisibleToClient:  true,
			IsOptional:         true,
			IsSelectedByClient: false,
		},
	}
	sections := pricing.GroupIntoSections(items, pricing.ViewModeClient)
	totals, err := pricing.ComputeTotals(sections, 0)
	require.NoError(t, err)

	doc := pdf.BuildDocument(&domain.Proposal{Title: "T"}, sections, totals, time.Now())

	require.Len(t, doc.Sections, 1)
	line := doc.Sections[0].Lines[0]
	assert.True(t, line.IsOptional)
	assert.False(t, line.IsSelected)
	assert.True(t, line.LineTotal.IsZero())
	assert.True(t, doc.Subtotal.IsZero())
}
