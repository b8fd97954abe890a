package catalog

import (
	"reflect"
	"testing"

	"github.com/couplestry/storefront/internal/domain"
)

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Category: "Men", Subcategory: "Topwear", Type: "T-Shirts", Brand: "Roadster", Price: 19900, OriginalPrice: 39900},
		{ID: "p2", Category: "Men", Subcategory: "Bottomwear", Type: "Jeans", Brand: "Levis", Price: 129900, OriginalPrice: 0},
		{ID: "p3", Category: "Women", Subcategory: "Topwear", Type: "Tops", Brand: "H&M", Price: 49900, OriginalPrice: 59900},
		{ID: "p4", Category: "Women", Subcategory: "Dresses", Type: "Dresses", Brand: "Zara", Price: 99900, OriginalPrice: 199900},
		{ID: "p5", Category: "Kids", Subcategory: "Topwear", Type: "T-Shirts", Brand: "Roadster", Price: 25000, OriginalPrice: 27500},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyFiltersZeroSelectionPassesEverything(t *testing.T) {
	products := fixtureProducts()
	got := ApplyFilters(products, Selection{})
	if !reflect.DeepEqual(ids(got), ids(products)) {
		t.Fatalf("expected all products in order, got %v", ids(got))
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	products := fixtureProducts()
	before := ids(products)
	_ = ApplyFilters(products, Selection{Brands: []string{"Roadster"}})
	if !reflect.DeepEqual(ids(products), before) {
		t.Fatalf("input slice was reordered: %v", ids(products))
	}
}

func TestApplyFiltersIsIdempotent(t *testing.T) {
	sel := Selection{Categories: []string{"Men", "Women"}, PriceBuckets: []PriceBucket{PriceBucketUnder250, PriceBucket250To500}}
	once := ApplyFilters(fixtureProducts(), sel)
	twice := ApplyFilters(once, sel)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Fatalf("second application changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestApplyFiltersExactMatchFacets(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"single category", Selection{Categories: []string{"Men"}}, []string{"p1", "p2"}},
		{"multi category unions", Selection{Categories: []string{"Men", "Kids"}}, []string{"p1", "p2", "p5"}},
		{"brand", Selection{Brands: []string{"Roadster"}}, []string{"p1", "p5"}},
		{"category and type intersect", Selection{Categories: []string{"Men"}, Types: []string{"Jeans"}}, []string{"p2"}},
		{"subcategory", Selection{Subcategories: []string{"Topwear"}}, []string{"p1", "p3", "p5"}},
		{"no matches", Selection{Brands: []string{"Nike"}}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(ApplyFilters(fixtureProducts(), tc.sel))
			if !reflect.DeepEqual(got, append([]string{}, tc.want...)) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		bucket PriceBucket
		price  int64
		want   bool
	}{
		{PriceBucketUnder250, 24999, true},
		{PriceBucketUnder250, 25000, false},
		{PriceBucket250To500, 25000, true},
		{PriceBucket250To500, 50000, true},
		{PriceBucket250To500, 50001, false},
		{PriceBucket500To1000, 50000, false},
		{PriceBucket500To1000, 50001, true},
		{PriceBucket500To1000, 100000, true},
		{PriceBucketAbove1000, 100000, false},
		{PriceBucketAbove1000, 100001, true},
	}
	for _, tc := range tests {
		if got := bucketContains(tc.bucket, tc.price); got != tc.want {
			t.Errorf("bucketContains(%s, %d) = %v, want %v", tc.bucket, tc.price, got, tc.want)
		}
	}
}

func TestBoundaryPriceBelongsToExactlyOneBucket(t *testing.T) {
	buckets := []PriceBucket{PriceBucketUnder250, PriceBucket250To500, PriceBucket500To1000, PriceBucketAbove1000}
	for _, price := range []int64{0, 24999, 25000, 50000, 50001, 100000, 100001, 500000} {
		matches := 0
		for _, b := range buckets {
			if bucketContains(b, price) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("price %d matched %d buckets, want exactly 1", price, matches)
		}
	}
}

func TestApplyFiltersPriceBucketsUnion(t *testing.T) {
	sel := Selection{PriceBuckets: []PriceBucket{PriceBucketUnder250, PriceBucketAbove1000}}
	got := ids(ApplyFilters(fixtureProducts(), sel))
	want := []string{"p1", "p2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestApplyFiltersDiscount(t *testing.T) {
	tests := []struct {
		name string
		mins []int
		want []string
	}{
		// p1 is 50% off, p3 17%, p4 50%, p5 9%; p2 has no reference price.
		{"at least 10", []int{10}, []string{"p1", "p3", "p4"}},
		{"at least 50", []int{50}, []string{"p1", "p4"}},
		{"multiple thresholds union as lowest", []int{50, 10}, []string{"p1", "p3", "p4"}},
		{"at least 20 excludes rounding below", []int{20}, []string{"p1", "p4"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(ApplyFilters(fixtureProducts(), Selection{DiscountMins: tc.mins}))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDiscountFacetExcludesProductsWithoutReferencePrice(t *testing.T) {
	got := ids(ApplyFilters(fixtureProducts(), Selection{DiscountMins: []int{10}}))
	for _, id := range got {
		if id == "p2" {
			t.Fatalf("product without strikethrough price passed the discount facet")
		}
	}
}

func TestDiscountPercentRounds(t *testing.T) {
	tests := []struct {
		price, original int64
		want            int
		ok              bool
	}{
		{19900, 39900, 50, true},
		{49900, 59900, 17, true},
		{25000, 27500, 9, true},
		{100, 0, 0, false},
		{200, 100, 0, false},
		{100, 100, 0, false},
	}
	for _, tc := range tests {
		got, ok := DiscountPercent(domain.Product{Price: tc.price, OriginalPrice: tc.original})
		if ok != tc.ok || got != tc.want {
			t.Errorf("DiscountPercent(%d, %d) = %d, %v; want %d, %v", tc.price, tc.original, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSortProducts(t *testing.T) {
	products := fixtureProducts()

	t.Run("relevance keeps input order", func(t *testing.T) {
		got := ids(SortProducts(products, SortRelevance))
		if !reflect.DeepEqual(got, ids(products)) {
			t.Fatalf("expected input order, got %v", got)
		}
	})

	t.Run("price low ascending", func(t *testing.T) {
		got := ids(SortProducts(products, SortPriceLow))
		want := []string{"p1", "p5", "p3", "p4", "p2"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("price high descending", func(t *testing.T) {
		got := ids(SortProducts(products, SortPriceHigh))
		want := []string{"p2", "p4", "p3", "p1", "p5"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("discount descending with undiscounted last", func(t *testing.T) {
		got := ids(SortProducts(products, SortDiscount))
		// p1 and p4 tie at 50% and keep input order; p2 has no discount and
		// sorts after every discounted product.
		want := []string{"p1", "p4", "p3", "p5", "p2"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := ids(products)
		_ = SortProducts(products, SortPriceLow)
		if !reflect.DeepEqual(ids(products), before) {
			t.Fatalf("input slice was reordered")
		}
	})
}

func TestSortStabilityOnEqualPrices(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Price: 10000},
		{ID: "b", Price: 10000},
		{ID: "c", Price: 5000},
		{ID: "d", Price: 10000},
	}
	got := ids(SortProducts(products, SortPriceLow))
	want := []string{"c", "a", "b", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected stable order %v, got %v", want, got)
	}
}
