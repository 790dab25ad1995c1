package pdf

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/pricing"
)

// Document is the client-facing row model consumed by the renderer. It carries
// no unit cost or margin data; keeping cost fields out of this struct is what
// guarantees they cannot leak into the rendered artifact.
type Document struct {
	Title           string
	ProposalNumber  string
	ClientName      string
	ClientCompany   string
	PropertyAddress string
	GeneratedAt     time.Time
	ExpiresAt       *time.Time
	Notes           string

	Sections []DocumentSection

	Subtotal      decimal.Decimal
	TaxRate       float64
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	DepositAmount decimal.Decimal
}

// DocumentSection is one titled group of lines with its selected-items total
type DocumentSection struct {
	Name     string
	Lines    []DocumentLine
	Subtotal decimal.Decimal
}

// DocumentLine is one priced line. LineTotal is zero for unselected items so
// the summary column matches what the client will actually be charged.
type DocumentLine struct {
	Name        string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	IsOptional  bool
	IsSelected  bool
}

// BuildDocument maps a proposal snapshot and its aggregated pricing into the
// renderer's row model. Cost fields on the source items are deliberately not
// copied. The generation timestamp is passed in by the caller so identical
// inputs produce identical documents.
func BuildDocument(p *domain.Proposal, sections []pricing.Section, totals pricing.Totals, generatedAt time.Time) Document {
	doc := Document{
		Title:          p.Title,
		ProposalNumber: p.ID.String(),
		GeneratedAt:    generatedAt,
		ExpiresAt:      p.ExpiresAt,
		Notes:          p.Notes,
		Subtotal:       totals.Subtotal,
		TaxRate:        p.TaxRate,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
		DepositAmount:  decimal.NewFromFloat(p.DepositAmount),
	}
	if p.Contact != nil {
		doc.ClientName = p.Contact.FullName()
	}
	if p.Company != nil {
		doc.ClientCompany = p.Company.Name
	}
	if p.Property != nil {
		doc.PropertyAddress = p.Property.Address
	}

	doc.Sections = make([]DocumentSection, 0, len(sections))
	for _, sec := range sections {
		ds := DocumentSection{Name: sec.Name, Subtotal: sec.Total}
		for _, item := range sec.Items {
			line := DocumentLine{
				Name:        item.Name,
				Description: item.Description,
				Quantity:    decimal.NewFromFloat(item.Quantity),
				Unit:        item.Unit,
				UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
				LineTotal:   decimal.Zero,
				IsOptional:  item.IsOptional,
				IsSelected:  item.IsSelectedByClient,
			}
			if item.IsSelectedByClient {
				line.LineTotal = pricing.LineTotal(item)
			}
			ds.Lines = append(ds.Lines, line)
		}
		doc.Sections = append(doc.Sections, ds)
	}
	return doc
}
