package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/couplestry/storefront/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
}

func TestBuildOrderDraftComputesTotals(t *testing.T) {
	draft, err := BuildOrderDraft([]domain.DraftItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: 50000},
	}, fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Subtotal != 100000 {
		t.Fatalf("subtotal = %d, want 100000", draft.Subtotal)
	}
	if draft.Taxes != 18000 {
		t.Fatalf("taxes = %d, want 18000", draft.Taxes)
	}
	if draft.DeliveryFee != 0 {
		t.Fatalf("delivery fee = %d, want 0", draft.DeliveryFee)
	}
	if draft.Total != 118000 {
		t.Fatalf("total = %d, want 118000", draft.Total)
	}
	if draft.Total != draft.Subtotal+draft.Taxes+draft.DeliveryFee {
		t.Fatalf("total does not equal the sum of its parts")
	}
	if draft.ID == "" {
		t.Fatalf("expected a draft id")
	}
}

func TestBuildOrderDraftTaxRoundsHalfUp(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		// 18% of 3 paise is 0.54, rounds to 1.
		{3, 1},
		// 18% of 2 paise is 0.36, rounds to 0.
		{2, 0},
		// 18% of 25 paise is 4.5, half rounds up to 5.
		{25, 5},
		{100000, 18000},
	}
	for _, tc := range tests {
		draft, err := BuildOrderDraft([]domain.DraftItem{{ProductID: "p", Quantity: 1, UnitPrice: tc.subtotal}}, fixedClock)
		if err != nil {
			t.Fatalf("unexpected error for subtotal %d: %v", tc.subtotal, err)
		}
		if draft.Taxes != tc.want {
			t.Errorf("taxes for subtotal %d = %d, want %d", tc.subtotal, draft.Taxes, tc.want)
		}
	}
}

func TestBuildOrderDraftRejectsEmptyAndInvalidItems(t *testing.T) {
	if _, err := BuildOrderDraft(nil, fixedClock); !errors.Is(err, ErrDraftEmpty) {
		t.Fatalf("expected ErrDraftEmpty, got %v", err)
	}

	invalid := []struct {
		name string
		item domain.DraftItem
	}{
		{"zero quantity", domain.DraftItem{ProductID: "p", Quantity: 0, UnitPrice: 100}},
		{"zero price", domain.DraftItem{ProductID: "p", Quantity: 1, UnitPrice: 0}},
		{"blank product", domain.DraftItem{ProductID: "  ", Quantity: 1, UnitPrice: 100}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildOrderDraft([]domain.DraftItem{tc.item}, fixedClock); !errors.Is(err, ErrDraftInvalidItem) {
				t.Fatalf("expected ErrDraftInvalidItem, got %v", err)
			}
		})
	}
}

func TestBuildOrderDraftIDsAreUnique(t *testing.T) {
	items := []domain.DraftItem{{ProductID: "p", Quantity: 1, UnitPrice: 100}}
	a, err := BuildOrderDraft(items, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := BuildOrderDraft(items, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("consecutive drafts share id %q", a.ID)
	}
}

func TestDraftFromCartFreezesUnitPrices(t *testing.T) {
	cart := domain.Cart{
		Items: []domain.CartItem{
			{ID: "l1", ProductID: "p1", Size: "M", Quantity: 1, UnitPrice: 19900},
			{ID: "l2", ProductID: "p2", Quantity: 3, UnitPrice: 10000},
		},
	}
	draft, err := DraftFromCart(cart, fixedClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(draft.Items))
	}
	if draft.Items[0].UnitPrice != 19900 || draft.Items[1].Quantity != 3 {
		t.Fatalf("unexpected items %+v", draft.Items)
	}
	if draft.Subtotal != 49900 {
		t.Fatalf("subtotal = %d, want 49900", draft.Subtotal)
	}
}
