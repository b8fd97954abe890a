package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/couplestry/storefront/internal/domain"
)

// Observer receives intermediate payment states as the resume flow progresses
// so the edge can render a provisional result before verification completes.
// A nil observer is ignored.
type Observer func(domain.PaymentAttempt)

// ResumePaymentFlow picks the flow back up after the gateway redirects the
// customer to the return URL. The redirect's query parameters are attacker
// controlled, so they are only ever shown as a provisional, unverified state;
// the outcome that counts comes from one payment-status check.
//
// Resolution: a verified FAILED or SUCCESS always wins. When verification
// still reports PENDING but the redirect claimed SUCCESS, the provisional
// success is kept on screen, unverified, rather than downgrading a settlement
// the gateway has likely just not recorded yet. If the status check itself
// fails, the provisional state is returned alongside the error.
func (s *Service) ResumePaymentFlow(ctx context.Context, orderID string, query url.Values, observe Observer) (domain.PaymentAttempt, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.PaymentAttempt{}, fmt.Errorf("%w: order id is required", ErrCheckoutInvalidInput)
	}

	provisional := parseQueryAttempt(orderID, query, s.now)
	if observe != nil {
		observe(provisional)
	}

	verified, err := s.payments.PaymentStatus(ctx, orderID)
	if err != nil {
		s.logger(ctx, "checkout.payment.verify_failed", map[string]any{"order_id": orderID, "error": err.Error()})
		return provisional, err
	}
	s.logger(ctx, "checkout.payment.verified", map[string]any{"order_id": orderID, "status": string(verified.Status)})

	return resolveAttempt(provisional, verified), nil
}

// CheckPaymentStatus performs a user-triggered status refresh for an order in
// the pending state.
func (s *Service) CheckPaymentStatus(ctx context.Context, orderID string) (domain.PaymentAttempt, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.PaymentAttempt{}, fmt.Errorf("%w: order id is required", ErrCheckoutInvalidInput)
	}
	attempt, err := s.payments.PaymentStatus(ctx, orderID)
	if err != nil {
		return domain.PaymentAttempt{}, err
	}
	return attempt, nil
}

// StateForAttempt maps a payment attempt onto the checkout state machine.
func StateForAttempt(attempt domain.PaymentAttempt) State {
	switch attempt.Status {
	case domain.PaymentStatusSuccess:
		return StatePaymentSuccess
	case domain.PaymentStatusFailed:
		return StatePaymentFailed
	default:
		return StatePaymentPending
	}
}

// parseQueryAttempt builds the provisional attempt from redirect parameters.
// A query naming a different order is discarded wholesale; the attempt then
// starts from PENDING with no gateway details.
func parseQueryAttempt(orderID string, query url.Values, now func() time.Time) domain.PaymentAttempt {
	attempt := domain.PaymentAttempt{
		OrderID:   orderID,
		Status:    domain.PaymentStatusPending,
		CheckedAt: now(),
	}
	if query == nil {
		return attempt
	}
	if claimed := strings.TrimSpace(query.Get("orderId")); claimed != "" && claimed != orderID {
		return attempt
	}

	if status, ok := domain.ParsePaymentStatus(strings.ToUpper(strings.TrimSpace(query.Get("status")))); ok {
		attempt.Status = status
	}
	attempt.TransactionID = strings.TrimSpace(query.Get("transactionId"))
	attempt.PaymentMode = strings.TrimSpace(query.Get("paymentMode"))
	attempt.ResponseCode = strings.TrimSpace(query.Get("responseCode"))
	return attempt
}

func resolveAttempt(provisional, verified domain.PaymentAttempt) domain.PaymentAttempt {
	if verified.Status == domain.PaymentStatusPending && provisional.Status == domain.PaymentStatusSuccess {
		// Keep the redirect's success on screen until a later refresh settles
		// it; the attempt stays unverified.
		merged := provisional
		merged.CheckedAt = verified.CheckedAt
		return merged
	}
	if verified.TransactionID == "" {
		verified.TransactionID = provisional.TransactionID
	}
	if verified.PaymentMode == "" {
		verified.PaymentMode = provisional.PaymentMode
	}
	return verified
}
