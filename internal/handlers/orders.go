package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/couplestry/storefront/internal/domain"
)

// OrderService is the slice of the commerce client the order endpoints need.
type OrderService interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderHandlers exposes the session user's order history.
type OrderHandlers struct {
	orders   OrderService
	loginURL string
}

// NewOrderHandlers constructs order handlers over the commerce client.
func NewOrderHandlers(orders OrderService, loginURL string) *OrderHandlers {
	return &OrderHandlers{orders: orders, loginURL: loginURL}
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	payloads := make([]orderPayload, 0, len(orders))
	for _, o := range orders {
		payloads = append(payloads, buildOrderPayload(o))
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"orders": payloads})
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"order": buildOrderPayload(order)})
}

type orderPayload struct {
	ID              string                 `json:"id"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"paymentMethod"`
	DeliveryAddress domain.DeliveryAddress `json:"deliveryAddress"`
	Items           []orderItemPayload     `json:"items"`
	TotalAmount     int64                  `json:"totalAmount"`
	CreatedAt       string                 `json:"createdAt,omitempty"`
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func buildOrderPayload(o domain.Order) orderPayload {
	items := make([]orderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemPayload{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	payload := orderPayload{
		ID:              o.ID,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		DeliveryAddress: o.DeliveryAddress,
		Items:           items,
		TotalAmount:     o.TotalAmount,
	}
	if !o.CreatedAt.IsZero() {
		payload.CreatedAt = o.CreatedAt.UTC().Format(time.RFC3339)
	}
	return payload
}
