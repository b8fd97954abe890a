package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/couplestry/storefront/internal/catalog"
	"github.com/couplestry/storefront/internal/domain"
)

// ListProducts fetches the product set for a browsing scope. Catalog reads
// are public; no session is required.
func (c *Client) ListProducts(ctx context.Context, scope catalog.Scope) ([]domain.Product, error) {
	query := url.Values{}
	if scope.Category != "" {
		query.Set("category", scope.Category)
	}
	if scope.Subcategory != "" {
		query.Set("subcategory", scope.Subcategory)
	}
	if scope.Type != "" {
		query.Set("type", scope.Type)
	}

	var payload struct {
		Products []productPayload `json:"products"`
	}
	err := c.call(ctx, callSpec{
		op:     "list products",
		method: http.MethodGet,
		path:   []string{"catalog", "products"},
		query:  query,
	}, &payload)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, p.toProduct())
	}
	return products, nil
}

// Products satisfies catalog.Source so the loader can refresh through this
// client directly.
func (c *Client) Products(ctx context.Context, scope catalog.Scope) ([]domain.Product, error) {
	return c.ListProducts(ctx, scope)
}

// ListCategories fetches the navigation hierarchy.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var payload struct {
		Categories []categoryPayload `json:"categories"`
	}
	err := c.call(ctx, callSpec{
		op:     "list categories",
		method: http.MethodGet,
		path:   []string{"catalog", "categories"},
	}, &payload)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payload.Categories))
	for _, p := range payload.Categories {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		categories = append(categories, domain.Category{
			Name:          name,
			Subcategories: p.Subcategories,
			Types:         p.Types,
		})
	}
	return categories, nil
}

type productPayload struct {
	ID            string        `json:"id"`
	Category      string        `json:"category"`
	Subcategory   string        `json:"subcategory"`
	Type          string        `json:"type"`
	Brand         string        `json:"brand"`
	Price         int64         `json:"price"`
	OriginalPrice int64         `json:"originalPrice"`
	Sizes         []sizePayload `json:"sizes"`
	StockStatus   string        `json:"stockStatus"`
	ImageURL      string        `json:"imageUrl"`
	Description   string        `json:"description"`
}

func (p productPayload) toProduct() domain.Product {
	sizes := make([]domain.ProductSize, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		if s.Label == "" {
			continue
		}
		sizes = append(sizes, domain.ProductSize{Label: s.Label, Available: s.Available})
	}
	return domain.Product{
		ID:            strings.TrimSpace(p.ID),
		Category:      strings.TrimSpace(p.Category),
		Subcategory:   strings.TrimSpace(p.Subcategory),
		Type:          strings.TrimSpace(p.Type),
		Brand:         strings.TrimSpace(p.Brand),
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Sizes:         sizes,
		StockStatus:   strings.TrimSpace(p.StockStatus),
		ImageURL:      strings.TrimSpace(p.ImageURL),
		Description:   strings.TrimSpace(p.Description),
	}
}

// sizePayload absorbs the two wire encodings the API uses for sizes: a bare
// string ("M") or an object with either label/available or the legacy
// size/selected keys. Both normalise here so nothing downstream branches on
// wire shape.
type sizePayload struct {
	Label     string
	Available bool
}

func (s *sizePayload) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		s.Label = strings.TrimSpace(label)
		s.Available = true
		return nil
	}

	var obj struct {
		Label     string `json:"label"`
		Size      string `json:"size"`
		Available *bool  `json:"available"`
		Selected  *bool  `json:"selected"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Label = strings.TrimSpace(obj.Label)
	if s.Label == "" {
		s.Label = strings.TrimSpace(obj.Size)
	}
	switch {
	case obj.Available != nil:
		s.Available = *obj.Available
	case obj.Selected != nil:
		s.Available = *obj.Selected
	default:
		s.Available = true
	}
	return nil
}

type categoryPayload struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
	Types         []string `json:"types"`
}
