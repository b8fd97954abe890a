package catalog

import (
	"strings"

	"github.com/couplestry/storefront/internal/domain"
)

// FacetOption is one selectable value of a facet, presented as label/value.
// Values derived from the product set use the observed value as the label.
type FacetOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FacetOptions lists the selectable values per facet for the active product
// set. Category, subcategory, type and brand options are derived from the
// products; price buckets and discount thresholds are fixed enumerations.
type FacetOptions struct {
	Categories    []FacetOption `json:"categories"`
	Subcategories []FacetOption `json:"subcategories"`
	Types         []FacetOption `json:"types"`
	Brands        []FacetOption `json:"brands"`
	PriceBuckets  []FacetOption `json:"priceBuckets"`
	Discounts     []FacetOption `json:"discounts"`
}

// PriceBucket names a discrete price range facet value.
type PriceBucket string

const (
	// PriceBucketUnder250 matches prices strictly below 250 rupees.
	PriceBucketUnder250 PriceBucket = "under-250"
	// PriceBucket250To500 matches 250 to 500 rupees inclusive.
	PriceBucket250To500 PriceBucket = "250-500"
	// PriceBucket500To1000 matches above 500 up to 1000 rupees inclusive.
	PriceBucket500To1000 PriceBucket = "500-1000"
	// PriceBucketAbove1000 matches prices strictly above 1000 rupees.
	PriceBucketAbove1000 PriceBucket = "above-1000"
)

// Bucket boundaries in paise.
const (
	paisePerRupee  = 100
	priceBound250  = 250 * paisePerRupee
	priceBound500  = 500 * paisePerRupee
	priceBound1000 = 1000 * paisePerRupee
)

// ParsePriceBucket validates a price bucket token from the query string.
func ParsePriceBucket(raw string) (PriceBucket, bool) {
	switch PriceBucket(raw) {
	case PriceBucketUnder250, PriceBucket250To500, PriceBucket500To1000, PriceBucketAbove1000:
		return PriceBucket(raw), true
	}
	return "", false
}

// DiscountThresholds lists the supported minimum-discount-percent tokens.
var DiscountThresholds = []int{10, 20, 30, 50}

var priceBucketOptions = []FacetOption{
	{Label: "Under ₹250", Value: string(PriceBucketUnder250)},
	{Label: "₹250 to ₹500", Value: string(PriceBucket250To500)},
	{Label: "₹500 to ₹1000", Value: string(PriceBucket500To1000)},
	{Label: "Above ₹1000", Value: string(PriceBucketAbove1000)},
}

var discountOptions = []FacetOption{
	{Label: "10% or more", Value: "10"},
	{Label: "20% or more", Value: "20"},
	{Label: "30% or more", Value: "30"},
	{Label: "50% or more", Value: "50"},
}

// DeriveFacetOptions computes the selectable facet values for the supplied
// product set. Derived lists contain the distinct non-empty values in
// first-observed order; price and discount options are constant regardless of
// input. An empty product set yields empty derived lists.
func DeriveFacetOptions(products []domain.Product) FacetOptions {
	return FacetOptions{
		Categories:    distinctOptions(products, func(p domain.Product) string { return p.Category }),
		Subcategories: distinctOptions(products, func(p domain.Product) string { return p.Subcategory }),
		Types:         distinctOptions(products, func(p domain.Product) string { return p.Type }),
		Brands:        distinctOptions(products, func(p domain.Product) string { return p.Brand }),
		PriceBuckets:  append([]FacetOption(nil), priceBucketOptions...),
		Discounts:     append([]FacetOption(nil), discountOptions...),
	}
}

func distinctOptions(products []domain.Product, field func(domain.Product) string) []FacetOption {
	seen := make(map[string]struct{}, len(products))
	options := make([]FacetOption, 0, len(products))
	for _, p := range products {
		value := strings.TrimSpace(field(p))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		options = append(options, FacetOption{Label: value, Value: value})
	}
	return options
}
