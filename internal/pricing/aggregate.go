// Package pricing groups proposal line items into ordered sections and
// recomputes all money amounts from quantity and unit price. Nothing in this
// package reads persisted total columns or performs I/O.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/verdantworks/crm-api/internal/domain"
)

// ViewMode selects which line items an aggregation includes
type ViewMode string

const (
	// ViewModeInternal includes every item, visible to the client or not
	ViewModeInternal ViewMode = "internal"
	// ViewModeClient includes only items flagged visible to the client
	ViewModeClient ViewMode = "client"
)

// IsValid checks if the ViewMode is a valid enum value
func (m ViewMode) IsValid() bool {
	switch m {
	case ViewModeInternal, ViewModeClient:
		return true
	}
	return false
}

// DefaultSectionName is assigned to items with no section name
const DefaultSectionName = "General"

// Section is an ordered group of line items sharing a section name.
// Total covers client-selected items only; visible-but-unselected items
// appear in Items and contribute zero.
type Section struct {
	Name      string
	SortOrder int
	Items     []domain.ProposalItem
	Total     decimal.Decimal
}

// LineTotal returns quantity x unit price for one item, unrounded
func LineTotal(item domain.ProposalItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice))
}

// GroupIntoSections groups items by section name and returns sections ordered
// by their minimum section sort order, ties broken by name. Items within a
// section keep their relative input order when sort orders tie. Empty input
// yields an empty slice.
func GroupIntoSections(items []domain.ProposalItem, mode ViewMode) []Section {
	byName := make(map[string]*Section)
	var order []string

	for _, item := range items {
		if mode == ViewModeClient && !item.IsVisibleToClient {
			continue
		}
		name := item.SectionName
		if name == "" {
			name = DefaultSectionName
		}
		sec, ok := byName[name]
		if !ok {
			sec = &Section{Name: name, SortOrder: item.SectionSortOrder, Total: decimal.Zero}
			byName[name] = sec
			order = append(order, name)
		}
		if item.SectionSortOrder < sec.SortOrder {
			sec.SortOrder = item.SectionSortOrder
		}
		sec.Items = append(sec.Items, item)
		if item.IsSelectedByClient {
			sec.Total = sec.Total.Add(LineTotal(item))
		}
	}

	sections := make([]Section, 0, len(order))
	for _, name := range order {
		sec := byName[name]
		sort.SliceStable(sec.Items, func(i, j int) bool {
			return sec.Items[i].SortOrder < sec.Items[j].SortOrder
		})
		sections = append(sections, *sec)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].SortOrder != sections[j].SortOrder {
			return sections[i].SortOrder < sections[j].SortOrder
		}
		return sections[i].Name < sections[j].Name
	})
	return sections
}
