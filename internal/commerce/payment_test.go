package commerce

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/couplestry/storefront/internal/domain"
)

func TestInitializePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payment/initialize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "ord-1" {
			t.Errorf("idempotency key = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["orderId"] != "ord-1" || body["returnUrl"] != "https://shop.example/return" {
			t.Errorf("unexpected body %v", body)
		}
		w.Write([]byte(`{"url":"https://gateway.example/pay","params":{"token":"abc"}}`))
	})

	redirect, err := client.InitializePayment(sessionCtx("tok"), InitializePaymentRequest{
		OrderID:        "ord-1",
		Amount:         118000,
		ReturnURL:      "https://shop.example/return",
		IdempotencyKey: "ord-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirect.URL != "https://gateway.example/pay" || redirect.Params["token"] != "abc" {
		t.Fatalf("unexpected redirect %+v", redirect)
	}
}

func TestInitializePaymentRejectsEmptyRedirect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"url":"  "}`))
	})

	_, err := client.InitializePayment(sessionCtx("tok"), InitializePaymentRequest{OrderID: "ord-1"})
	if KindOf(err) != KindPayment {
		t.Fatalf("expected KindPayment, got %v", err)
	}
}

func TestPaymentStatusNormalisesAndMarksVerified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment/status/ord-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":" success ","transactionId":"txn-9","paymentMode":"UPI","responseCode":"000"}`))
	})

	attempt, err := client.PaymentStatus(sessionCtx("tok"), "ord-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Status != domain.PaymentStatusSuccess {
		t.Fatalf("status = %q", attempt.Status)
	}
	if !attempt.Verified {
		t.Fatalf("poll results must be marked verified")
	}
	if attempt.TransactionID != "txn-9" || attempt.OrderID != "ord-1" {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if attempt.CheckedAt.IsZero() {
		t.Fatalf("expected a checked-at timestamp")
	}
}

func TestPaymentStatusUnknownTokenIsPending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"PROCESSING"}`))
	})

	attempt, err := client.PaymentStatus(sessionCtx("tok"), "ord-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Status != domain.PaymentStatusPending {
		t.Fatalf("unknown status should map to pending, got %q", attempt.Status)
	}
}

func TestPaymentStatusRequiresOrderID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request must not be issued")
	})
	if _, err := client.PaymentStatus(sessionCtx("tok"), " "); KindOf(err) != KindValidation {
		t.Fatalf("expected KindValidation, got %v", err)
	}
}
