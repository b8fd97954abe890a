package catalog

import (
	"slices"
	"strings"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	// SortRelevance keeps the catalog's native order.
	SortRelevance SortKey = "relevance"
	// SortPriceLow orders by ascending price.
	SortPriceLow SortKey = "price-low"
	// SortPriceHigh orders by descending price.
	SortPriceHigh SortKey = "price-high"
	// SortDiscount orders by descending discount percent; products without a
	// discount sort after all discounted products.
	SortDiscount SortKey = "discount"
)

// ParseSortKey normalises a sort token, defaulting to relevance.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.TrimSpace(raw)) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortDiscount:
		return SortDiscount
	}
	return SortRelevance
}

// Selection is the active facet state for a product listing. Every slice acts
// as a set: empty means the facet is unconstrained, never "exclude all". The
// zero value therefore passes every product through unchanged.
type Selection struct {
	Categories    []string
	Subcategories []string
	Types         []string
	Brands        []string
	PriceBuckets  []PriceBucket
	DiscountMins  []int
	Sort          SortKey
}

// ToggleCategory adds the value when absent and removes it when present.
func (s *Selection) ToggleCategory(value string) {
	s.Categories = toggle(s.Categories, value)
}

// ToggleSubcategory adds the value when absent and removes it when present.
func (s *Selection) ToggleSubcategory(value string) {
	s.Subcategories = toggle(s.Subcategories, value)
}

// ToggleType adds the value when absent and removes it when present.
func (s *Selection) ToggleType(value string) {
	s.Types = toggle(s.Types, value)
}

// ToggleBrand adds the value when absent and removes it when present.
func (s *Selection) ToggleBrand(value string) {
	s.Brands = toggle(s.Brands, value)
}

// TogglePriceBucket adds the bucket when absent and removes it when present.
func (s *Selection) TogglePriceBucket(bucket PriceBucket) {
	s.PriceBuckets = toggle(s.PriceBuckets, bucket)
}

// ToggleDiscountMin adds the threshold when absent and removes it when present.
func (s *Selection) ToggleDiscountMin(percent int) {
	s.DiscountMins = toggle(s.DiscountMins, percent)
}

// Reset clears every facet and restores the default sort. Used when the view
// navigates to a different category or type scope.
func (s *Selection) Reset() {
	*s = Selection{Sort: SortRelevance}
}

// IsZero reports whether no facet constrains the listing.
func (s Selection) IsZero() bool {
	return len(s.Categories) == 0 && len(s.Subcategories) == 0 && len(s.Types) == 0 &&
		len(s.Brands) == 0 && len(s.PriceBuckets) == 0 && len(s.DiscountMins) == 0
}

func toggle[T comparable](values []T, value T) []T {
	if i := slices.Index(values, value); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	return append(values, value)
}
