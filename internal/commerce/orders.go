package commerce

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/couplestry/storefront/internal/domain"
)

// ErrMissingOrderID is returned when an order read lacks an identifier.
var ErrMissingOrderID = errors.New("commerce: missing order id")

// PlaceOrderRequest carries an order submission. The idempotency key is the
// draft identifier, so resubmitting the same draft cannot create a second
// order even if the first response was lost.
type PlaceOrderRequest struct {
	Items           []domain.DraftItem
	DeliveryAddress domain.DeliveryAddress
	PaymentMethod   domain.PaymentMethod
	TotalAmount     int64
	IdempotencyKey  string
}

// PlaceOrder submits an order and returns the persisted record.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (domain.Order, error) {
	items := make([]map[string]any, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, map[string]any{
			"productId": it.ProductID,
			"size":      it.Size,
			"quantity":  it.Quantity,
			"unitPrice": it.UnitPrice,
		})
	}

	var payload struct {
		Order orderPayload `json:"order"`
	}
	err := c.call(ctx, callSpec{
		op:     "place order",
		method: http.MethodPost,
		path:   []string{"orders"},
		body: map[string]any{
			"items":           items,
			"deliveryAddress": req.DeliveryAddress,
			"paymentMethod":   string(req.PaymentMethod),
			"totalAmount":     req.TotalAmount,
		},
		authenticated:  true,
		idempotencyKey: req.IdempotencyKey,
	}, &payload)
	if err != nil {
		return domain.Order{}, err
	}
	return payload.Order.toOrder(), nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Order{}, &APIError{Kind: KindValidation, Op: "get order", Err: ErrMissingOrderID}
	}

	var payload struct {
		Order orderPayload `json:"order"`
	}
	err := c.call(ctx, callSpec{
		op:            "get order",
		method:        http.MethodGet,
		path:          []string{"orders", orderID},
		authenticated: true,
	}, &payload)
	if err != nil {
		return domain.Order{}, err
	}
	return payload.Order.toOrder(), nil
}

// ListOrders fetches the session user's order history, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var payload struct {
		Orders []orderPayload `json:"orders"`
	}
	err := c.call(ctx, callSpec{
		op:            "list orders",
		method:        http.MethodGet,
		path:          []string{"orders"},
		authenticated: true,
	}, &payload)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(payload.Orders))
	for _, o := range payload.Orders {
		orders = append(orders, o.toOrder())
	}
	return orders, nil
}

type orderPayload struct {
	ID              string                 `json:"id"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"paymentMethod"`
	DeliveryAddress domain.DeliveryAddress `json:"deliveryAddress"`
	Items           []orderItemPayload     `json:"items"`
	TotalAmount     int64                  `json:"totalAmount"`
	CreatedAt       string                 `json:"createdAt"`
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func (p orderPayload) toOrder() domain.Order {
	items := make([]domain.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, domain.OrderItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Size:      strings.TrimSpace(it.Size),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return domain.Order{
		ID:              strings.TrimSpace(p.ID),
		Status:          domain.OrderStatus(strings.TrimSpace(strings.ToLower(p.Status))),
		PaymentMethod:   domain.PaymentMethod(strings.TrimSpace(strings.ToLower(p.PaymentMethod))),
		DeliveryAddress: p.DeliveryAddress,
		Items:           items,
		TotalAmount:     p.TotalAmount,
		CreatedAt:       parseTime(p.CreatedAt),
	}
}
