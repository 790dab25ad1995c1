package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/pricing"
)

func item(section string, sectionSort int, name string, sort int, qty, price float64, visible, selected bool) domain.ProposalItem {
	return domain.ProposalItem{
		SectionName:        section,
		SectionSortOrder:   sectionSort,
		Name:               name,
		SortOrder:          sort,
		Quantity:           qty,
		UnitPrice:          price,
		IsVisibleToClient:  visible,
		IsSelectedByClient: selected,
	}
}

func TestGroupIntoSections_EmptyInput(t *testing.T) {
	sections := pricing.GroupIntoSections(nil, pricing.ViewModeInternal)
	assert.Empty(t, sections)

	sections = pricing.GroupIntoSections([]domain.ProposalItem{}, pricing.ViewModeClient)
	assert.Empty(t, sections)
}

func TestGroupIntoSections_DefaultSectionName(t *testing.T) {
	items := []domain.ProposalItem{
		item("", 0, "Mulch", 0, 2, 45, true, true),
	}

	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)

	require.Len(t, sections, 1)
	assert.Equal(t, "General", sections[0].Name)
}

func TestGroupIntoSections_OrdersSectionsByMinSortOrderThenName(t *testing.T) {
	items := []domain.ProposalItem{
		item("Maintenance", 5, "Mowing", 0, 1, 100, true, true),
		item("Install", 1, "Sod", 0, 1, 200, true, true),
		// Lighting ties with Install on sort order, name breaks the tie
		item("Lighting", 1, "Path lights", 0, 1, 300, true, true),
		// second Install item with a higher section sort does not move the section
		item("Install", 9, "Edging", 1, 1, 50, true, true),
	}

	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)

	require.Len(t, sections, 3)
	assert.Equal(t, "Install", sections[0].Name)
	assert.Equal(t, "Lighting", sections[1].Name)
	assert.Equal(t, "Maintenance", sections[2].Name)
}

func TestGroupIntoSections_StableItemOrderWithinSection(t *testing.T) {
	items := []domain.ProposalItem{
		item("Install", 0, "third", 2, 1, 1, true, true),
		item("Install", 0, "first", 1, 1, 1, true, true),
		// ties on sort order preserve input order
		item("Install", 0, "second-a", 2, 1, 1, true, true),
		item("Install", 0, "second-b", 2, 1, 1, true, true),
	}

	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)

	require.Len(t, sections, 1)
	names := make([]string, 0, len(sections[0].Items))
	for _, it := range sections[0].Items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"first", "third", "second-a", "second-b"}, names)
}

func TestGroupIntoSections_ClientModeFiltersHiddenItems(t *testing.T) {
	items := []domain.ProposalItem{
		item("Install", 0, "Sod", 0, 1, 200, true, true),
		item("Install", 0, "Crew overhead", 1, 1, 500, false, true),
	}

	clientSections := pricing.GroupIntoSections(items, pricing.ViewModeClient)
	require.Len(t, clientSections, 1)
	assert.Len(t, clientSections[0].Items, 1)
	assert.Equal(t, "Sod", clientSections[0].Items[0].Name)

	internalSections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)
	require.Len(t, internalSections, 1)
	assert.Len(t, internalSections[0].Items, 2)
}

func TestGroupIntoSections_TotalCountsSelectedItemsOnly(t *testing.T) {
	items := []domain.ProposalItem{
		item("Install", 0, "Sod", 0, 2, 100, true, true),
		// visible but not selected contributes zero
		item("Install", 0, "Optional fountain", 1, 1, 500, true, false),
		// hidden but selected still counts toward the total
		item("Install", 0, "Disposal fee", 2, 1, 75, false, true),
	}

	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)

	require.Len(t, sections, 1)
	assert.Equal(t, "275", sections[0].Total.String())
}

func TestGroupIntoSections_SelectionToggleChangesTotalExactly(t *testing.T) {
	items := []domain.ProposalItem{
		item("General", 0, "Optional arbor", 0, 1, 500, true, false),
	}

	sections := pricing.GroupIntoSections(items, pricing.ViewModeInternal)
	require.Len(t, sections, 1)
	assert.True(t, sections[0].Total.IsZero())

	items[0].IsSelectedByClient = true
	sections = pricing.GroupIntoSections(items, pricing.ViewModeInternal)
	require.Len(t, sections, 1)
	assert.Equal(t, "500", sections[0].Total.String())
}

func TestViewMode_IsValid(t *testing.T) {
	assert.True(t, pricing.ViewModeInternal.IsValid())
	assert.True(t, pricing.ViewModeClient.IsValid())
	assert.False(t, pricing.ViewMode("public").IsValid())
	assert.False(t, pricing.ViewMode("").IsValid())
}
