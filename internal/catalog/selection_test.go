package catalog

import (
	"reflect"
	"testing"
)

func TestToggleAddsThenRemoves(t *testing.T) {
	var sel Selection

	sel.ToggleBrand("Roadster")
	sel.ToggleBrand("Zara")
	if got, want := sel.Brands, []string{"Roadster", "Zara"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("brands = %v, want %v", got, want)
	}

	sel.ToggleBrand("Roadster")
	if got, want := sel.Brands, []string{"Zara"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("brands after removal = %v, want %v", got, want)
	}

	sel.TogglePriceBucket(PriceBucketUnder250)
	sel.TogglePriceBucket(PriceBucketUnder250)
	if len(sel.PriceBuckets) != 0 {
		t.Fatalf("double toggle should leave the facet empty, got %v", sel.PriceBuckets)
	}

	sel.ToggleDiscountMin(20)
	if got, want := sel.DiscountMins, []int{20}; !reflect.DeepEqual(got, want) {
		t.Fatalf("discount mins = %v, want %v", got, want)
	}
}

func TestResetClearsFacetsAndRestoresDefaultSort(t *testing.T) {
	sel := Selection{
		Categories:   []string{"Men"},
		Brands:       []string{"Roadster"},
		PriceBuckets: []PriceBucket{PriceBucket250To500},
		DiscountMins: []int{30},
		Sort:         SortPriceHigh,
	}
	sel.Reset()
	if !sel.IsZero() {
		t.Fatalf("expected zero selection after reset, got %+v", sel)
	}
	if sel.Sort != SortRelevance {
		t.Fatalf("expected relevance sort after reset, got %q", sel.Sort)
	}
}

func TestParseSortKeyDefaultsToRelevance(t *testing.T) {
	tests := []struct {
		raw  string
		want SortKey
	}{
		{"price-low", SortPriceLow},
		{"price-high", SortPriceHigh},
		{"discount", SortDiscount},
		{"relevance", SortRelevance},
		{"", SortRelevance},
		{"newest", SortRelevance},
	}
	for _, tc := range tests {
		if got := ParseSortKey(tc.raw); got != tc.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
