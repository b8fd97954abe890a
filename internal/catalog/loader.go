package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/couplestry/storefront/internal/domain"
)

// ErrSuperseded is returned by Refresh when a newer refresh was issued while
// the fetch was in flight. The superseded result is discarded; callers should
// read the committed state via Snapshot.
var ErrSuperseded = errors.New("catalog: refresh superseded")

// Scope narrows a product fetch to a navigation target. Empty fields mean no
// narrowing; the zero value fetches the whole catalog.
type Scope struct {
	Category    string
	Subcategory string
	Type        string
}

// Normalised trims surrounding whitespace from every field so that equivalent
// scopes compare equal. Callers that key state on a Scope must use the
// normalised form, otherwise whitespace variants of one view split state.
func (s Scope) Normalised() Scope {
	return Scope{
		Category:    strings.TrimSpace(s.Category),
		Subcategory: strings.TrimSpace(s.Subcategory),
		Type:        strings.TrimSpace(s.Type),
	}
}

// Source fetches the product set for a browsing scope.
type Source interface {
	Products(ctx context.Context, scope Scope) ([]domain.Product, error)
}

// Loader owns the product list for a storefront view and keeps the derived
// facet options in sync with it. Rapid navigation can race two fetches; the
// loader resolves the race with a generation token so that only the
// last-issued refresh commits, never a stale response arriving late.
type Loader struct {
	source Source

	mu       sync.Mutex
	gen      uint64
	scope    Scope
	products []domain.Product
	options  FacetOptions
}

// NewLoader constructs a Loader over the supplied product source.
func NewLoader(source Source) (*Loader, error) {
	if source == nil {
		return nil, errors.New("catalog: product source is required")
	}
	return &Loader{source: source}, nil
}

// Refresh fetches the product set for the scope and commits it together with
// freshly derived facet options, unless a newer refresh was issued meanwhile,
// in which case the result is dropped and ErrSuperseded returned. A failed
// fetch leaves the previously committed state untouched.
func (l *Loader) Refresh(ctx context.Context, scope Scope) ([]domain.Product, FacetOptions, error) {
	scope = scope.Normalised()

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	products, err := l.source.Products(ctx, scope)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil, FacetOptions{}, ErrSuperseded
	}
	if err != nil {
		return nil, FacetOptions{}, err
	}

	l.scope = scope
	l.products = append([]domain.Product(nil), products...)
	l.options = DeriveFacetOptions(l.products)
	return append([]domain.Product(nil), l.products...), l.options, nil
}

// Snapshot returns the last committed product set, facet options and scope.
func (l *Loader) Snapshot() ([]domain.Product, FacetOptions, Scope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Product(nil), l.products...), l.options, l.scope
}
