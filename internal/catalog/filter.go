package catalog

import (
	"math"
	"sort"

	"github.com/couplestry/storefront/internal/domain"
)

// ApplyFilters returns the products passing every active facet of the
// selection, preserving input order. A facet with an empty selection set never
// constrains; price buckets and discount thresholds OR their members. The
// input slice is never mutated and the same inputs always produce the same
// output.
func ApplyFilters(products []domain.Product, sel Selection) []domain.Product {
	if sel.IsZero() {
		return append([]domain.Product(nil), products...)
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, sel) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matches(p domain.Product, sel Selection) bool {
	if !memberOrAny(sel.Categories, p.Category) {
		return false
	}
	if !memberOrAny(sel.Subcategories, p.Subcategory) {
		return false
	}
	if !memberOrAny(sel.Types, p.Type) {
		return false
	}
	if !memberOrAny(sel.Brands, p.Brand) {
		return false
	}
	if !matchesPrice(p.Price, sel.PriceBuckets) {
		return false
	}
	return matchesDiscount(p, sel.DiscountMins)
}

func memberOrAny(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func matchesPrice(price int64, buckets []PriceBucket) bool {
	if len(buckets) == 0 {
		return true
	}
	for _, b := range buckets {
		if bucketContains(b, price) {
			return true
		}
	}
	return false
}

func bucketContains(bucket PriceBucket, price int64) bool {
	switch bucket {
	case PriceBucketUnder250:
		return price < priceBound250
	case PriceBucket250To500:
		return price >= priceBound250 && price <= priceBound500
	case PriceBucket500To1000:
		return price > priceBound500 && price <= priceBound1000
	case PriceBucketAbove1000:
		return price > priceBound1000
	}
	return false
}

// matchesDiscount applies the discount facet. A product without a
// strikethrough price cannot prove it meets any threshold, so it fails
// whenever the facet is active.
func matchesDiscount(p domain.Product, mins []int) bool {
	if len(mins) == 0 {
		return true
	}
	if p.OriginalPrice <= 0 {
		return false
	}
	percent := discountPercent(p.Price, p.OriginalPrice)
	for _, min := range mins {
		if percent >= min {
			return true
		}
	}
	return false
}

// discountPercent computes round(100 × (original − price) / original).
// Callers must ensure original > 0.
func discountPercent(price, original int64) int {
	return int(math.Round(100 * float64(original-price) / float64(original)))
}

// DiscountPercent reports the displayed discount for a product. ok is false
// when the product has no strikethrough price above its selling price, in
// which case no discount badge is shown and the product sorts after all
// discounted products under the discount sort key.
func DiscountPercent(p domain.Product) (int, bool) {
	if !p.Discounted() {
		return 0, false
	}
	return discountPercent(p.Price, p.OriginalPrice), true
}

// SortProducts returns a sorted copy of the products. Relevance keeps the
// input order; the price keys compare numerically; discount orders by
// descending discount percent. All orderings are stable, so ties keep their
// prior relative order.
func SortProducts(products []domain.Product, key SortKey) []domain.Product {
	sorted := append([]domain.Product(nil), products...)
	switch key {
	case SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	case SortDiscount:
		sort.SliceStable(sorted, func(i, j int) bool {
			return discountSortRank(sorted[i]) > discountSortRank(sorted[j])
		})
	}
	return sorted
}

// discountSortRank places undiscounted products below every discounted one
// instead of feeding an undefined value into the comparator.
func discountSortRank(p domain.Product) int {
	percent, ok := DiscountPercent(p)
	if !ok {
		return math.MinInt
	}
	return percent
}
