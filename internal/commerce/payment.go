package commerce

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/couplestry/storefront/internal/domain"
)

// PaymentRedirect describes the gateway hand-off for an online payment: the
// storefront submits a form POST of Params to URL and relinquishes
// navigation. Control returns later through the gateway's redirect back with
// query parameters, or through a fresh mount of the payment view.
type PaymentRedirect struct {
	OrderID string
	URL     string
	Params  map[string]string
}

// InitializePaymentRequest asks the backend to open a gateway transaction for
// an order. ReturnURL is where the gateway sends the customer afterwards.
type InitializePaymentRequest struct {
	OrderID        string
	Amount         int64
	ReturnURL      string
	IdempotencyKey string
}

// InitializePayment opens a gateway transaction and returns the redirect
// target the storefront must hand control to.
func (c *Client) InitializePayment(ctx context.Context, req InitializePaymentRequest) (PaymentRedirect, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return PaymentRedirect{}, &APIError{Kind: KindValidation, Op: "initialize payment", Err: ErrMissingOrderID}
	}

	var payload struct {
		URL    string            `json:"url"`
		Params map[string]string `json:"params"`
	}
	err := c.call(ctx, callSpec{
		op:     "initialize payment",
		method: http.MethodPost,
		path:   []string{"payment", "initialize"},
		body: map[string]any{
			"orderId":   orderID,
			"amount":    req.Amount,
			"returnUrl": strings.TrimSpace(req.ReturnURL),
		},
		authenticated:  true,
		idempotencyKey: req.IdempotencyKey,
	}, &payload)
	if err != nil {
		return PaymentRedirect{}, err
	}
	if strings.TrimSpace(payload.URL) == "" {
		return PaymentRedirect{}, &APIError{Kind: KindPayment, Op: "initialize payment", Message: "gateway returned no redirect target"}
	}
	return PaymentRedirect{
		OrderID: orderID,
		URL:     strings.TrimSpace(payload.URL),
		Params:  payload.Params,
	}, nil
}

// PaymentStatus performs the single authoritative status check for an order's
// payment. A FAILED status is data, not an error: the attempt is returned for
// display and the caller decides whether to offer a retry.
func (c *Client) PaymentStatus(ctx context.Context, orderID string) (domain.PaymentAttempt, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.PaymentAttempt{}, &APIError{Kind: KindValidation, Op: "payment status", Err: ErrMissingOrderID}
	}

	var payload struct {
		Status        string `json:"status"`
		TransactionID string `json:"transactionId"`
		PaymentMode   string `json:"paymentMode"`
		ResponseCode  string `json:"responseCode"`
	}
	err := c.call(ctx, callSpec{
		op:            "payment status",
		method:        http.MethodGet,
		path:          []string{"payment", "status", orderID},
		authenticated: true,
	}, &payload)
	if err != nil {
		return domain.PaymentAttempt{}, err
	}

	status, ok := domain.ParsePaymentStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
	if !ok {
		// An unknown gateway token is treated as still pending rather than
		// inventing a terminal state.
		status = domain.PaymentStatusPending
	}
	return domain.PaymentAttempt{
		OrderID:       orderID,
		Status:        status,
		TransactionID: strings.TrimSpace(payload.TransactionID),
		PaymentMode:   strings.TrimSpace(payload.PaymentMode),
		ResponseCode:  strings.TrimSpace(payload.ResponseCode),
		Verified:      true,
		CheckedAt:     time.Now().UTC(),
	}, nil
}
