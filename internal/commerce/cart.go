package commerce

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/couplestry/storefront/internal/domain"
)

// ErrMissingCartItem is returned when a cart mutation lacks an item id.
var ErrMissingCartItem = errors.New("commerce: missing cart item id")

// GetCart fetches the session user's cart.
func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	var payload cartPayload
	err := c.call(ctx, callSpec{
		op:            "get cart",
		method:        http.MethodGet,
		path:          []string{"cart"},
		authenticated: true,
	}, &payload)
	if err != nil {
		return domain.Cart{}, err
	}
	return payload.toCart(), nil
}

// UpdateItemQuantity sets the quantity of a cart line and returns the updated
// cart. Adjustments are sent per change as the user taps +/-, never batched;
// the returned cart is authoritative.
func (c *Client) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (domain.Cart, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.Cart{}, &APIError{Kind: KindValidation, Op: "update cart item", Err: ErrMissingCartItem}
	}
	if quantity < 1 {
		return domain.Cart{}, &APIError{Kind: KindValidation, Op: "update cart item", Message: "quantity must be at least 1"}
	}

	var payload cartPayload
	err := c.call(ctx, callSpec{
		op:     "update cart item",
		method: http.MethodPatch,
		path:   []string{"cart", "items"},
		body: map[string]any{
			"itemId":   itemID,
			"quantity": quantity,
		},
		authenticated: true,
	}, &payload)
	if err != nil {
		return domain.Cart{}, err
	}
	return payload.toCart(), nil
}

// RemoveItem deletes a cart line and returns the updated cart.
func (c *Client) RemoveItem(ctx context.Context, itemID string) (domain.Cart, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.Cart{}, &APIError{Kind: KindValidation, Op: "remove cart item", Err: ErrMissingCartItem}
	}

	var payload cartPayload
	err := c.call(ctx, callSpec{
		op:            "remove cart item",
		method:        http.MethodDelete,
		path:          []string{"cart", "items", itemID},
		authenticated: true,
	}, &payload)
	if err != nil {
		return domain.Cart{}, err
	}
	return payload.toCart(), nil
}

// ClearCart empties the cart and returns the (empty) updated cart.
func (c *Client) ClearCart(ctx context.Context) (domain.Cart, error) {
	var payload cartPayload
	err := c.call(ctx, callSpec{
		op:            "clear cart",
		method:        http.MethodDelete,
		path:          []string{"cart"},
		authenticated: true,
	}, &payload)
	if err != nil {
		return domain.Cart{}, err
	}
	return payload.toCart(), nil
}

type cartPayload struct {
	ID        string            `json:"id"`
	Items     []cartItemPayload `json:"items"`
	UpdatedAt string            `json:"updatedAt"`
}

type cartItemPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func (p cartPayload) toCart() domain.Cart {
	items := make([]domain.CartItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, domain.CartItem{
			ID:        strings.TrimSpace(it.ID),
			ProductID: strings.TrimSpace(it.ProductID),
			Size:      strings.TrimSpace(it.Size),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return domain.Cart{
		ID:        strings.TrimSpace(p.ID),
		Items:     items,
		UpdatedAt: parseTime(p.UpdatedAt),
	}
}

func parseTime(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
