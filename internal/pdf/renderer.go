// Package pdf renders proposal documents with Maroto v2.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: logo (or company name) │ proposal number + date     │
//	│  ───────────────────────────────────────────────────────────│
//	│  CLIENT: contact + company + property address               │
//	│  ───────────────────────────────────────────────────────────│
//	│  PER SECTION: title, lines (qty x unit price, line total)   │
//	│  ───────────────────────────────────────────────────────────│
//	│  SUMMARY: section subtotals / subtotal / tax / total /       │
//	│           deposit due                                        │
//	│  FOOTER: contact line + validity + page numbers              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"os"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = &props.Color{Red: 46, Green: 94, Blue: 54}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Branding holds the company identity printed on every proposal
type Branding struct {
	CompanyName string
	Tagline     string
	LogoPath    string
	ContactLine string
}

// Renderer renders proposal documents to PDF bytes
type Renderer struct {
	branding Branding
}

// NewRenderer builds a renderer with the given branding
func NewRenderer(branding Branding) *Renderer {
	return &Renderer{branding: branding}
}

// Render produces the PDF for a document. A missing title fails with
// ErrMissingTitle before any layout work. A missing logo file falls back to a
// text-only header. Page breaks are handled by the row engine; a section's
// lines flow across pages without duplication.
func (r *Renderer) Render(doc *Document) ([]byte, error) {
	if doc.Title == "" {
		return nil, ErrMissingTitle
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.Bottom,
			Size:    7,
			Color:   colorGray,
		}).
		WithTitle(doc.Title, true).
		WithAuthor(r.branding.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(r.clientRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, sec := range doc.Sections {
		m.AddRows(sectionTitleRow(sec))
		for _, rw := range sectionLineRows(sec) {
			m.AddRows(rw)
		}
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	m.AddRows(summaryRows(doc)...)

	if doc.Notes != "" {
		m.AddRows(notesRows(doc.Notes)...)
	}
	m.AddRows(r.footerRows(doc)...)

	generated, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return generated.GetBytes(), nil
}

// headerRow: logo or company name on the left, proposal number and date on the right
func (r *Renderer) headerRow(doc *Document) core.Row {
	left := col.New(7)
	if r.branding.LogoPath != "" {
		if _, err := os.Stat(r.branding.LogoPath); err == nil {
			left.Add(image.NewFromFile(r.branding.LogoPath, props.Rect{Percent: 85}))
		} else {
			left = textHeaderCol(r.branding)
		}
	} else {
		left = textHeaderCol(r.branding)
	}

	return row.New(20).Add(
		left,
		col.New(5).Add(
			text.New("PROPOSAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Ref: "+doc.ProposalNumber, props.Text{
				Size: 7, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Date: "+doc.GeneratedAt.Format("January 2, 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func textHeaderCol(b Branding) core.Col {
	return col.New(7).Add(
		text.New(b.CompanyName, props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
		}),
		text.New(b.Tagline, props.Text{
			Size: 8, Top: 11, Color: colorGray,
		}),
	)
}

// clientRow: who the proposal is for and where the work happens
func (r *Renderer) clientRow(doc *Document) core.Row {
	client := doc.ClientName
	if doc.ClientCompany != "" {
		if client != "" {
			client += "  |  "
		}
		client += doc.ClientCompany
	}
	if client == "" {
		client = "—"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PREPARED FOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Property: "+nonEmpty(doc.PropertyAddress, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(sec DocumentSection) core.Row {
	return row.New(9).Add(
		col.New(12).Add(
			text.New(sec.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

// sectionLineRows: one row per line plus a wrapped description row when present
func sectionLineRows(sec DocumentSection) []core.Row {
	rows := make([]core.Row, 0, len(sec.Lines)*2)
	for _, ln := range sec.Lines {
		name := ln.Name
		if ln.IsOptional {
			name += "  (OPTIONAL)"
		}
		total := "—"
		if ln.IsSelected {
			total = "$" + formatMoney(ln.LineTotal)
		}
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(name, props.Text{Size: 9, Top: 1})),
			col.New(3).Add(text.New(
				ln.Quantity.String()+" "+ln.Unit+" x $"+formatMoney(ln.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray},
			)),
			col.New(3).Add(text.New(total, props.Text{
				Size: 9, Align: align.Right, Top: 1, Right: 1,
			})),
		))
		if ln.Description != "" {
			rows = append(rows, row.New(6).Add(
				col.New(10).Add(text.New(ln.Description, props.Text{
					Size: 7.5, Top: 0.5, Left: 2, Color: colorGray,
				})),
				col.New(2),
			))
		}
	}
	return rows
}

// summaryRows: per-section subtotals then subtotal, tax, total and deposit
func summaryRows(doc *Document) []core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("SUMMARY", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, sec := range doc.Sections {
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(label(sec.Name+":")),
			col.New(3).Add(value("$"+formatMoney(sec.Subtotal))),
		))
	}

	taxLabel := fmt.Sprintf("Tax (%.2f%%):", doc.TaxRate*100)
	rows = append(rows,
		row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New("Subtotal:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			})),
			col.New(3).Add(value("$"+formatMoney(doc.Subtotal))),
		),
		row.New(5).Add(
			col.New(6),
			col.New(3).Add(label(taxLabel)),
			col.New(3).Add(value("$"+formatMoney(doc.TaxAmount))),
		),
		row.New(7).Add(
			col.New(6),
			col.New(3).Add(text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Right: 2,
			})),
			col.New(3).Add(text.New("$"+formatMoney(doc.Total), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Right: 1,
			})),
		),
	)
	if doc.DepositAmount.IsPositive() {
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(label("Deposit due on acceptance:")),
			col.New(3).Add(value("$"+formatMoney(doc.DepositAmount))),
		))
	}
	return rows
}

func notesRows(notes string) []core.Row {
	return []core.Row{
		line.NewRow(3),
		row.New(6).Add(col.New(12).Add(text.New("NOTES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
		row.New(10).Add(col.New(12).Add(text.New(notes, props.Text{
			Size: 8, Top: 1, Color: colorGray,
		}))),
	}
}

func (r *Renderer) footerRows(doc *Document) []core.Row {
	validity := "This proposal is valid for 30 days from the date above."
	if doc.ExpiresAt != nil {
		validity = "This proposal is valid through " + doc.ExpiresAt.Format("January 2, 2006") + "."
	}
	return []core.Row{
		line.NewRow(3),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		row.New(8).Add(col.New(12).Add(
			text.New(nonEmpty(r.branding.ContactLine, r.branding.CompanyName), props.Text{
				Size: 7.5, Align: align.Center, Top: 1, Color: colorGray,
			}),
			text.New(validity, props.Text{
				Size: 7, Align: align.Center, Top: 5, Color: colorGray,
			}),
		)),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney renders a decimal with two decimals and comma thousands
// separators. Ex: 1234567.5 -> "1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]
	n := len(intPart)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i := 0; i < n; i++ {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, intPart[i])
		}
		intPart = string(buf)
	}
	if neg {
		return "-" + intPart + frac
	}
	return intPart + frac
}
