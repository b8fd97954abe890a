package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/couplestry/storefront/internal/domain"
)

// Tax is levied at 18% of the subtotal, rounded half up to the nearest paisa.
// Delivery is free for every order.
const taxRateBasisPoints = 1800

var (
	// ErrDraftEmpty indicates a draft was built from zero items.
	ErrDraftEmpty = errors.New("checkout: draft has no items")
	// ErrDraftInvalidItem indicates an item carries a non-positive quantity or
	// unit price.
	ErrDraftInvalidItem = errors.New("checkout: invalid draft item")
)

// BuildOrderDraft derives a priced draft from cart lines. All money fields are
// computed here from the items alone; callers never supply totals. The draft
// id doubles as the idempotency key for the eventual order submission.
func BuildOrderDraft(items []domain.DraftItem, now func() time.Time) (domain.OrderDraft, error) {
	if len(items) == 0 {
		return domain.OrderDraft{}, ErrDraftEmpty
	}
	if now == nil {
		now = time.Now
	}

	lines := make([]domain.DraftItem, 0, len(items))
	var subtotal int64
	for i, it := range items {
		it.ProductID = strings.TrimSpace(it.ProductID)
		it.Size = strings.TrimSpace(it.Size)
		if it.ProductID == "" || it.Quantity < 1 || it.UnitPrice <= 0 {
			return domain.OrderDraft{}, fmt.Errorf("%w: item %d", ErrDraftInvalidItem, i)
		}
		subtotal += it.UnitPrice * int64(it.Quantity)
		lines = append(lines, it)
	}

	taxes := (subtotal*taxRateBasisPoints + 5000) / 10000
	return domain.OrderDraft{
		ID:          ulid.MustNew(ulid.Timestamp(now().UTC()), ulid.DefaultEntropy()).String(),
		Items:       lines,
		Subtotal:    subtotal,
		Taxes:       taxes,
		DeliveryFee: 0,
		Total:       subtotal + taxes,
	}, nil
}

// DraftFromCart converts cart lines into draft items, freezing the unit price
// each line carried at conversion time.
func DraftFromCart(cart domain.Cart, now func() time.Time) (domain.OrderDraft, error) {
	items := make([]domain.DraftItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, domain.DraftItem{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return BuildOrderDraft(items, now)
}
