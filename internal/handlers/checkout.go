package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/couplestry/storefront/internal/checkout"
	"github.com/couplestry/storefront/internal/commerce"
	"github.com/couplestry/storefront/internal/domain"
	"github.com/couplestry/storefront/internal/platform/httpx"
)

const maxCheckoutBodySize = 64 * 1024

// CheckoutService drives order placement and the payment flow.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, cmd checkout.PlaceOrderCommand) (checkout.Placement, error)
	RetryPayment(ctx context.Context, orderID string) (commerce.PaymentRedirect, error)
	ResumePaymentFlow(ctx context.Context, orderID string, query url.Values, observe checkout.Observer) (domain.PaymentAttempt, error)
	CheckPaymentStatus(ctx context.Context, orderID string) (domain.PaymentAttempt, error)
}

// CheckoutHandlers exposes draft pricing, order placement and the payment
// resume endpoints.
type CheckoutHandlers struct {
	service  CheckoutService
	carts    CartService
	loginURL string
	now      func() time.Time
}

// NewCheckoutHandlers constructs checkout handlers.
func NewCheckoutHandlers(service CheckoutService, carts CartService, loginURL string) (*CheckoutHandlers, error) {
	if service == nil {
		return nil, errors.New("handlers: checkout service is required")
	}
	return &CheckoutHandlers{
		service:  service,
		carts:    carts,
		loginURL: loginURL,
		now:      time.Now,
	}, nil
}

// Routes wires the /checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/drafts", h.createDraft)
	r.Post("/orders", h.placeOrder)
	r.Get("/payment/{orderID}", h.resumePayment)
	r.Post("/payment/{orderID}/refresh", h.refreshPayment)
	r.Post("/payment/{orderID}/retry", h.retryPayment)
}

// createDraft prices an order draft. With an empty item list the draft is
// built from the session user's cart.
func (h *CheckoutHandlers) createDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Items []domain.DraftItem `json:"items"`
	}
	if !h.decodeBody(ctx, w, r, &req) {
		return
	}

	var (
		draft domain.OrderDraft
		err   error
	)
	if len(req.Items) == 0 && h.carts != nil {
		var cart domain.Cart
		cart, err = h.carts.GetCart(ctx)
		if err != nil {
			writeDomainError(ctx, w, err, h.loginURL)
			return
		}
		draft, err = checkout.DraftFromCart(cart, h.now)
	} else {
		draft, err = checkout.BuildOrderDraft(req.Items, h.now)
	}
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"draft": buildDraftPayload(draft)})
}

func (h *CheckoutHandlers) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		DraftID         string                 `json:"draftId"`
		Items           []domain.DraftItem     `json:"items"`
		DeliveryAddress domain.DeliveryAddress `json:"deliveryAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
	}
	if !h.decodeBody(ctx, w, r, &req) {
		return
	}

	placement, err := h.service.PlaceOrder(ctx, checkout.PlaceOrderCommand{
		Draft: domain.OrderDraft{
			ID:    req.DraftID,
			Items: req.Items,
		},
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
	})
	if err != nil {
		// A payment init failure still placed the order; report the partial
		// progress so the client can offer a payment retry.
		if errors.Is(err, checkout.ErrPaymentInitFailed) {
			writeJSONResponse(w, http.StatusBadGateway, placementResponse(placement, err))
			return
		}
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusCreated, placementResponse(placement, nil))
}

// resumePayment picks the payment flow back up after the gateway redirect.
// The incoming query parameters are the gateway's, passed through verbatim
// and treated as untrusted.
func (h *CheckoutHandlers) resumePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))

	var provisional domain.PaymentAttempt
	attempt, err := h.service.ResumePaymentFlow(ctx, orderID, r.URL.Query(), func(a domain.PaymentAttempt) {
		provisional = a
	})
	if err != nil {
		if errors.Is(err, checkout.ErrCheckoutInvalidInput) || commerce.KindOf(err) == commerce.KindAuth {
			writeDomainError(ctx, w, err, h.loginURL)
			return
		}
		// Verification failed; surface the unverified provisional state with
		// the failure so the client can show it and offer a manual refresh.
		writeJSONResponse(w, http.StatusOK, map[string]any{
			"state":             string(checkout.StateForAttempt(provisional)),
			"attempt":           buildAttemptPayload(provisional),
			"verificationError": err.Error(),
		})
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"state":   string(checkout.StateForAttempt(attempt)),
		"attempt": buildAttemptPayload(attempt),
	})
}

func (h *CheckoutHandlers) refreshPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))

	attempt, err := h.service.CheckPaymentStatus(ctx, orderID)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"state":   string(checkout.StateForAttempt(attempt)),
		"attempt": buildAttemptPayload(attempt),
	})
}

// retryPayment re-initiates the gateway hand-off. The charge amount comes from
// the stored order, so the request carries no body worth reading.
func (h *CheckoutHandlers) retryPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))

	redirect, err := h.service.RetryPayment(ctx, orderID)
	if err != nil {
		writeDomainError(ctx, w, err, h.loginURL)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"state":    string(checkout.StateAwaitingPayment),
		"redirect": buildRedirectPayload(redirect),
	})
}

func (h *CheckoutHandlers) decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) bool {
	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
			return false
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "could not read request body", http.StatusBadRequest))
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, out); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return false
	}
	return true
}

func placementResponse(p checkout.Placement, err error) map[string]any {
	payload := map[string]any{
		"state": string(p.State),
	}
	if p.Order.ID != "" {
		payload["order"] = buildOrderPayload(p.Order)
	}
	if p.Redirect != nil {
		payload["redirect"] = buildRedirectPayload(*p.Redirect)
	}
	if err != nil {
		payload["error"] = err.Error()
		payload["retryable"] = true
	}
	return payload
}

type draftPayload struct {
	ID          string             `json:"id"`
	Items       []domain.DraftItem `json:"items"`
	Subtotal    int64              `json:"subtotal"`
	Taxes       int64              `json:"taxes"`
	DeliveryFee int64              `json:"deliveryFee"`
	Total       int64              `json:"total"`
}

func buildDraftPayload(d domain.OrderDraft) draftPayload {
	return draftPayload{
		ID:          d.ID,
		Items:       d.Items,
		Subtotal:    d.Subtotal,
		Taxes:       d.Taxes,
		DeliveryFee: d.DeliveryFee,
		Total:       d.Total,
	}
}

type attemptPayload struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	PaymentMode   string `json:"paymentMode,omitempty"`
	ResponseCode  string `json:"responseCode,omitempty"`
	Verified      bool   `json:"verified"`
	CheckedAt     string `json:"checkedAt,omitempty"`
}

func buildAttemptPayload(a domain.PaymentAttempt) attemptPayload {
	payload := attemptPayload{
		OrderID:       a.OrderID,
		Status:        string(a.Status),
		TransactionID: a.TransactionID,
		PaymentMode:   a.PaymentMode,
		ResponseCode:  a.ResponseCode,
		Verified:      a.Verified,
	}
	if !a.CheckedAt.IsZero() {
		payload.CheckedAt = a.CheckedAt.UTC().Format(time.RFC3339)
	}
	return payload
}

type redirectPayload struct {
	OrderID string            `json:"orderId"`
	URL     string            `json:"url"`
	Params  map[string]string `json:"params,omitempty"`
}

func buildRedirectPayload(r commerce.PaymentRedirect) redirectPayload {
	return redirectPayload{OrderID: r.OrderID, URL: r.URL, Params: r.Params}
}
