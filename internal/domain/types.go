package domain

import (
	"time"
)

// Money amounts are carried as int64 paise (minor currency units) across all
// layers; the commerce API speaks the same representation on the wire.

// ProductSize is the normalised size entry for a product. The commerce API
// encodes sizes either as bare strings or as objects; both decode into this
// shape at the client boundary so nothing downstream branches on wire shape.
type ProductSize struct {
	Label     string
	Available bool
}

// Product is a catalog item as served by the commerce API. Products are
// fetched in bulk per browsing scope and never mutated by the filter engine.
type Product struct {
	ID          string
	Category    string
	Subcategory string
	Type        string
	Brand       string
	// Price is the selling price in paise.
	Price int64
	// OriginalPrice is the strikethrough price in paise; zero means the
	// product carries no discount reference price.
	OriginalPrice int64
	Sizes         []ProductSize
	StockStatus   string
	ImageURL      string
	Description   string
}

// Discounted reports whether the product carries a usable strikethrough price.
func (p Product) Discounted() bool {
	return p.OriginalPrice > 0 && p.OriginalPrice > p.Price
}

// Category describes one node of the navigation hierarchy returned by the
// commerce API (or by the static fallback file when the API is unreachable).
type Category struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
	Types         []string `yaml:"types"`
}

// OrderStatus enumerates lifecycle states owned by the commerce backend. The
// storefront only reads these; transitions happen server-side.
type OrderStatus string

const (
	// OrderStatusPending indicates the order awaits confirmation or payment.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed indicates the order is confirmed for fulfilment.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusShipped indicates the order has left the warehouse.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled.
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusReturned indicates the order was returned after delivery.
	OrderStatusReturned OrderStatus = "returned"
)

// PaymentMethod selects how an order is settled.
type PaymentMethod string

const (
	// PaymentMethodCOD settles on delivery; no gateway interaction occurs.
	PaymentMethodCOD PaymentMethod = "cod"
	// PaymentMethodOnline settles through the external payment gateway.
	PaymentMethodOnline PaymentMethod = "online"
)

// DeliveryAddress is the shipping destination collected before checkout.
// Address, city, pincode and mobile number are required for order placement.
type DeliveryAddress struct {
	Name     string `json:"name" validate:"-"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"-"`
	Pincode  string `json:"pincode" validate:"required"`
	Landmark string `json:"landmark" validate:"-"`
	Mobile   string `json:"mobileNo" validate:"required"`
}

// DraftItem is a single line of an unsubmitted order. UnitPrice is resolved
// from the product at draft time and frozen for the draft's lifetime.
type DraftItem struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	UnitPrice int64  `json:"unitPrice" validate:"gt=0"`
}

// OrderDraft is the client-side order representation prior to submission.
// Subtotal, taxes and total are always derived from Items; they are never
// accepted from outside and never stored independently.
type OrderDraft struct {
	ID          string
	Items       []DraftItem
	Subtotal    int64
	Taxes       int64
	DeliveryFee int64
	Total       int64
}

// OrderItem is a line of a persisted order as returned by the commerce API.
type OrderItem struct {
	ProductID string
	Size      string
	Quantity  int
	UnitPrice int64
}

// Order is the persisted order owned by the commerce backend. The storefront
// treats it as authoritative and refetches rather than reconciling locally.
type Order struct {
	ID              string
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	DeliveryAddress DeliveryAddress
	Items           []OrderItem
	TotalAmount     int64
	CreatedAt       time.Time
}

// CartItem is a single entry of the remote cart.
type CartItem struct {
	ID        string
	ProductID string
	Size      string
	Quantity  int
	UnitPrice int64
}

// Cart is the remote shopping cart. Every mutation returns the updated cart;
// the storefront never applies optimistic local edits beyond what it submits.
type Cart struct {
	ID        string
	Items     []CartItem
	UpdatedAt time.Time
}

// PaymentStatus enumerates the gateway-reported states for a payment attempt.
type PaymentStatus string

const (
	// PaymentStatusPending means the gateway has not reached a terminal state.
	PaymentStatusPending PaymentStatus = "PENDING"
	// PaymentStatusSuccess means the payment settled.
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	// PaymentStatusFailed means the gateway rejected or abandoned the payment.
	PaymentStatusFailed PaymentStatus = "FAILED"
)

// ParsePaymentStatus normalises a wire or query-parameter status token.
// Unrecognised tokens report ok=false so callers can treat them as absent.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(raw) {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed:
		return PaymentStatus(raw), true
	}
	return "", false
}

// PaymentAttempt is the ephemeral client-side view of payment progress for a
// single order. It is reconstructed from redirect query parameters or from the
// payment-status endpoint and never persisted beyond the page session.
type PaymentAttempt struct {
	OrderID       string
	Status        PaymentStatus
	TransactionID string
	PaymentMode   string
	ResponseCode  string
	// Verified is true once the status was confirmed by the payment-status
	// endpoint rather than adopted from untrusted redirect parameters.
	Verified  bool
	CheckedAt time.Time
}
