package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/couplestry/storefront/internal/checkout"
	"github.com/couplestry/storefront/internal/commerce"
	"github.com/couplestry/storefront/internal/platform/httpx"
)

var errBodyTooLarge = errors.New("handlers: request body too large")

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

// writeDomainError maps checkout and commerce failures onto the JSON error
// envelope. Auth failures carry the login URL so the client knows where to
// re-establish a session.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error, loginURL string) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_address", verr.Error(), http.StatusBadRequest).
			WithDetails(map[string]any{"fields": verr.Fields}))
		return
	}
	if errors.Is(err, checkout.ErrDraftEmpty) || errors.Is(err, checkout.ErrDraftInvalidItem) ||
		errors.Is(err, checkout.ErrCheckoutInvalidInput) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if errors.Is(err, checkout.ErrPaymentInitFailed) {
		httpx.WriteError(ctx, w, httpx.NewError("payment_init_failed", err.Error(), http.StatusBadGateway).
			WithDetails(map[string]any{"retryable": true}))
		return
	}

	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case commerce.KindAuth:
			e := httpx.NewError("unauthenticated", "session is invalid", http.StatusUnauthorized)
			if loginURL != "" {
				e = e.WithDetails(map[string]any{"login_url": loginURL})
			}
			httpx.WriteError(ctx, w, e)
		case commerce.KindValidation:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", apiErr.Error(), http.StatusBadRequest))
		case commerce.KindNotFound:
			httpx.WriteError(ctx, w, httpx.NewError("not_found", apiErr.Error(), http.StatusNotFound))
		case commerce.KindPayment:
			httpx.WriteError(ctx, w, httpx.NewError("payment_failed", apiErr.Error(), http.StatusBadGateway))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("upstream_unavailable", "commerce API is unavailable", http.StatusBadGateway))
		}
		return
	}

	httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
}
