package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/couplestry/storefront/internal/domain"
	"github.com/couplestry/storefront/internal/platform/httpx"
)

const maxCartBodySize = 16 * 1024

// CartService is the slice of the commerce client the cart endpoints need.
type CartService interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (domain.Cart, error)
	ClearCart(ctx context.Context) (domain.Cart, error)
}

// CartHandlers exposes the session user's cart. Every mutation proxies a
// single change to the commerce API and returns the authoritative cart.
type CartHandlers struct {
	carts    CartService
	loginURL string
}

// NewCartHandlers constructs cart handlers over the commerce client.
func NewCartHandlers(carts CartService, loginURL string) *CartHandlers {
	return &CartHandlers{carts: carts, loginURL: loginURL}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Patch("/items", h.updateItem)
	r.Delete("/items/{itemID}", h.removeItem)
	r.Delete("/", h.clearCart)
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cart, err := h.carts.GetCart(ctx)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "could not read request body", http.StatusBadRequest))
		return
	}

	var req struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	cart, err := h.carts.UpdateItemQuantity(ctx, req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := strings.TrimSpace(chi.URLParam(r, "itemID"))
	cart, err := h.carts.RemoveItem(ctx, itemID)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cart, err := h.carts.ClearCart(ctx)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

type cartResponse struct {
	Cart cartPayload `json:"cart"`
}

type cartPayload struct {
	ID        string            `json:"id"`
	Items     []cartItemPayload `json:"items"`
	Subtotal  int64             `json:"subtotal"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

type cartItemPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func buildCartPayload(cart domain.Cart) cartPayload {
	payload := cartPayload{
		ID:    cart.ID,
		Items: make([]cartItemPayload, 0, len(cart.Items)),
	}
	if !cart.UpdatedAt.IsZero() {
		payload.UpdatedAt = cart.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, it := range cart.Items {
		payload.Items = append(payload.Items, cartItemPayload{
			ID:        it.ID,
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		payload.Subtotal += it.UnitPrice * int64(it.Quantity)
	}
	return payload
}
