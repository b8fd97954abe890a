package commerce

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couplestry/storefront/internal/catalog"
	"github.com/couplestry/storefront/internal/platform/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("unexpected error constructing client: %v", err)
	}
	return client
}

func sessionCtx(token string) context.Context {
	return session.WithSession(context.Background(), session.Session{Token: token})
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}

func TestAuthenticatedCallFailsFastWithoutSession(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.GetCart(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindAuth {
		t.Fatalf("expected KindAuth, got %v", err)
	}
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if called {
		t.Fatalf("no request must be issued without a session")
	}
}

func TestCallAttachesBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization header = %q", got)
		}
		w.Write([]byte(`{"id":"cart-1","items":[]}`))
	})

	if _, err := client.GetCart(sessionCtx("tok-123")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindNetwork},
		{http.StatusBadGateway, KindNetwork},
	}
	for _, tc := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		})
		_, err := client.GetCart(sessionCtx("tok"))
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected APIError, got %v", tc.status, err)
		}
		if apiErr.Kind != tc.want {
			t.Errorf("status %d classified as %q, want %q", tc.status, apiErr.Kind, tc.want)
		}
		if apiErr.Status != tc.status {
			t.Errorf("status %d: recorded status %d", tc.status, apiErr.Status)
		}
	}
}

func TestTransportFailureIsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	server.Close()

	_, err = client.ListProducts(context.Background(), catalog.Scope{})
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected KindNetwork, got %v", err)
	}
}

func TestPlaceOrderSendsIdempotencyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Idempotency-Key"); got != "01DRAFT" {
			t.Errorf("idempotency key = %q, want 01DRAFT", got)
		}
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"order":{"id":"ord-1","status":"PENDING","paymentMethod":"COD","totalAmount":118000}}`))
	})

	order, err := client.PlaceOrder(sessionCtx("tok"), PlaceOrderRequest{
		TotalAmount:    118000,
		IdempotencyKey: "01DRAFT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "ord-1" {
		t.Fatalf("order id = %q", order.ID)
	}
	if string(order.Status) != "pending" || string(order.PaymentMethod) != "cod" {
		t.Fatalf("wire casing not normalised: %+v", order)
	}
}

func TestListProductsIsPublicAndScoped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("catalog read sent credentials: %q", got)
		}
		q := r.URL.Query()
		if q.Get("category") != "Men" || q.Get("type") != "Jeans" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Has("subcategory") {
			t.Errorf("empty scope fields must be omitted")
		}
		w.Write([]byte(`{"products":[{"id":"p1","category":"Men","price":129900}]}`))
	})

	products, err := client.ListProducts(context.Background(), catalog.Scope{Category: "Men", Type: "Jeans"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestUpdateItemQuantityValidatesLocally(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("invalid input must not reach the API")
	})

	if _, err := client.UpdateItemQuantity(sessionCtx("tok"), "item-1", 0); KindOf(err) != KindValidation {
		t.Fatalf("expected KindValidation for zero quantity, got %v", err)
	}
	if _, err := client.UpdateItemQuantity(sessionCtx("tok"), "  ", 2); KindOf(err) != KindValidation {
		t.Fatalf("expected KindValidation for blank item id, got %v", err)
	}
}
