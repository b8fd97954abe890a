package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/couplestry/storefront/internal/catalog"
	"github.com/couplestry/storefront/internal/commerce"
	"github.com/couplestry/storefront/internal/domain"
	"github.com/couplestry/storefront/internal/platform/httpx"
	"github.com/couplestry/storefront/internal/platform/observability"
)

// CategorySource fetches the navigation hierarchy.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// maxScopeLoaders bounds the per-scope loader cache. Scopes come straight from
// query parameters on a public endpoint, so the cache must not grow with every
// junk value a caller invents; least recently used scopes are evicted first.
const maxScopeLoaders = 32

// CatalogHandlers serves public product listing and navigation endpoints. One
// loader is kept per browsing scope so that overlapping refreshes of the same
// view resolve last-wins instead of racing.
type CatalogHandlers struct {
	source     catalog.Source
	categories CategorySource
	fallback   []domain.Category

	mu      sync.Mutex
	loaders map[catalog.Scope]*catalog.Loader
	recent  []catalog.Scope
}

// NewCatalogHandlers constructs catalog handlers over the product and category
// sources. fallback may be nil; it is served when the category fetch fails.
func NewCatalogHandlers(source catalog.Source, categories CategorySource, fallback []domain.Category) (*CatalogHandlers, error) {
	if source == nil {
		return nil, errors.New("handlers: product source is required")
	}
	return &CatalogHandlers{
		source:     source,
		categories: categories,
		fallback:   fallback,
		loaders:    make(map[catalog.Scope]*catalog.Loader),
	}, nil
}

// Routes wires the /catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/categories", h.listCategories)
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	scope := catalog.Scope{
		Category:    query.Get("category"),
		Subcategory: query.Get("subcategory"),
		Type:        query.Get("type"),
	}.Normalised()
	sel := parseSelection(query)

	loader := h.loaderFor(scope)
	products, options, err := loader.Refresh(ctx, scope)
	if errors.Is(err, catalog.ErrSuperseded) {
		// A newer refresh for this scope already committed; serve its state.
		products, options, _ = loader.Snapshot()
	} else if err != nil {
		observability.FromContext(ctx).Warn("catalog refresh failed", zap.Error(err))
		writeDomainError(ctx, w, err, "")
		return
	}

	filtered := catalog.ApplyFilters(products, sel)
	sorted := catalog.SortProducts(filtered, sel.Sort)

	writeJSONResponse(w, http.StatusOK, listingResponse{
		Products: buildProductPayloads(sorted),
		Total:    len(products),
		Showing:  len(sorted),
		Facets:   options,
	})
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.categories != nil {
		categories, err := h.categories.ListCategories(ctx)
		if err == nil {
			writeJSONResponse(w, http.StatusOK, map[string]any{"categories": categories})
			return
		}
		observability.FromContext(ctx).Warn("category fetch failed", zap.Error(err))
		if commerce.KindOf(err) != commerce.KindNetwork || len(h.fallback) == 0 {
			writeDomainError(ctx, w, err, "")
			return
		}
	}

	if len(h.fallback) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("upstream_unavailable", "categories are unavailable", http.StatusBadGateway))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"categories": h.fallback, "fallback": true})
}

// loaderFor returns the loader for a normalised scope, creating one on first
// use and evicting the least recently used scope once the cache is full.
func (h *CatalogHandlers) loaderFor(scope catalog.Scope) *catalog.Loader {
	scope = scope.Normalised()

	h.mu.Lock()
	defer h.mu.Unlock()
	if loader, ok := h.loaders[scope]; ok {
		h.markRecent(scope)
		return loader
	}
	if len(h.recent) >= maxScopeLoaders {
		oldest := h.recent[0]
		h.recent = h.recent[1:]
		delete(h.loaders, oldest)
	}
	loader, _ := catalog.NewLoader(h.source)
	h.loaders[scope] = loader
	h.recent = append(h.recent, scope)
	return loader
}

func (h *CatalogHandlers) markRecent(scope catalog.Scope) {
	for i, s := range h.recent {
		if s == scope {
			h.recent = append(h.recent[:i], h.recent[i+1:]...)
			break
		}
	}
	h.recent = append(h.recent, scope)
}

// parseSelection reads the facet state from repeated query parameters.
// Unrecognised price bucket and discount tokens are dropped rather than
// failing the request.
func parseSelection(query url.Values) catalog.Selection {
	sel := catalog.Selection{
		Categories:    query["categories"],
		Subcategories: query["subcategories"],
		Types:         query["types"],
		Brands:        query["brands"],
		Sort:          catalog.ParseSortKey(query.Get("sort")),
	}
	for _, raw := range query["priceBuckets"] {
		if bucket, ok := catalog.ParsePriceBucket(raw); ok {
			sel.PriceBuckets = append(sel.PriceBuckets, bucket)
		}
	}
	for _, raw := range query["discounts"] {
		if min, err := strconv.Atoi(raw); err == nil {
			sel.DiscountMins = append(sel.DiscountMins, min)
		}
	}
	return sel
}

type listingResponse struct {
	Products []productResponse    `json:"products"`
	Total    int                  `json:"total"`
	Showing  int                  `json:"showing"`
	Facets   catalog.FacetOptions `json:"facets"`
}

type productResponse struct {
	ID              string             `json:"id"`
	Category        string             `json:"category"`
	Subcategory     string             `json:"subcategory,omitempty"`
	Type            string             `json:"type,omitempty"`
	Brand           string             `json:"brand,omitempty"`
	Price           int64              `json:"price"`
	OriginalPrice   int64              `json:"originalPrice,omitempty"`
	DiscountPercent *int               `json:"discountPercent,omitempty"`
	Sizes           []productSizeEntry `json:"sizes,omitempty"`
	StockStatus     string             `json:"stockStatus,omitempty"`
	ImageURL        string             `json:"imageUrl,omitempty"`
	Description     string             `json:"description,omitempty"`
}

type productSizeEntry struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

func buildProductPayloads(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		entry := productResponse{
			ID:            p.ID,
			Category:      p.Category,
			Subcategory:   p.Subcategory,
			Type:          p.Type,
			Brand:         p.Brand,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			StockStatus:   p.StockStatus,
			ImageURL:      p.ImageURL,
			Description:   p.Description,
		}
		if percent, ok := catalog.DiscountPercent(p); ok {
			entry.DiscountPercent = &percent
		}
		for _, s := range p.Sizes {
			entry.Sizes = append(entry.Sizes, productSizeEntry{Label: s.Label, Available: s.Available})
		}
		out = append(out, entry)
	}
	return out
}
