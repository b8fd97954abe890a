package catalog

import (
	"reflect"
	"testing"

	"github.com/couplestry/storefront/internal/domain"
)

func optionValues(options []FacetOption) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}

func TestDeriveFacetOptionsDistinctFirstObserved(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Category: "Men", Brand: "Roadster"},
		{ID: "2", Category: "Women", Brand: "Zara"},
		{ID: "3", Category: "Men", Brand: "Roadster"},
		{ID: "4", Category: "Kids", Brand: ""},
	}
	options := DeriveFacetOptions(products)

	if got, want := optionValues(options.Categories), []string{"Men", "Women", "Kids"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	if got, want := optionValues(options.Brands), []string{"Roadster", "Zara"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("brands = %v, want %v", got, want)
	}
}

func TestDeriveFacetOptionsSkipsBlankValues(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Category: "  ", Subcategory: "Topwear"},
		{ID: "2", Category: "Men", Subcategory: ""},
	}
	options := DeriveFacetOptions(products)
	if got, want := optionValues(options.Categories), []string{"Men"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	if got, want := optionValues(options.Subcategories), []string{"Topwear"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("subcategories = %v, want %v", got, want)
	}
}

func TestDeriveFacetOptionsStaticFacetsAlwaysPresent(t *testing.T) {
	options := DeriveFacetOptions(nil)
	if len(options.Categories) != 0 || len(options.Brands) != 0 {
		t.Fatalf("derived options should be empty for an empty product set")
	}
	if got, want := optionValues(options.PriceBuckets), []string{"under-250", "250-500", "500-1000", "above-1000"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("price buckets = %v, want %v", got, want)
	}
	if got, want := optionValues(options.Discounts), []string{"10", "20", "30", "50"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("discounts = %v, want %v", got, want)
	}
}

func TestParsePriceBucket(t *testing.T) {
	if _, ok := ParsePriceBucket("under-250"); !ok {
		t.Fatalf("expected under-250 to parse")
	}
	if _, ok := ParsePriceBucket("100-200"); ok {
		t.Fatalf("expected unknown bucket to be rejected")
	}
}
