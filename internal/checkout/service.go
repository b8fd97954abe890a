package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/couplestry/storefront/internal/commerce"
	"github.com/couplestry/storefront/internal/domain"
)

// State tracks where a checkout flow stands. Only PlaceOrder and the payment
// resume path advance it; every transition is reported in the returned
// Placement or PaymentAttempt, never through shared mutable state.
type State string

const (
	// StateDraft: the order exists only locally. Nothing was submitted.
	StateDraft State = "draft"
	// StatePlaced: the order is persisted server-side but payment has not
	// started. Reached on online orders when gateway initialisation fails;
	// recovery re-initiates payment against the same order.
	StatePlaced State = "placed"
	// StateCODConfirmed: terminal. The order is placed and settles on delivery.
	StateCODConfirmed State = "cod_confirmed"
	// StateAwaitingPayment: control was handed to the external gateway. The
	// flow suspends here until the customer returns.
	StateAwaitingPayment State = "awaiting_payment"
	// StatePaymentSuccess: terminal. The gateway confirmed settlement.
	StatePaymentSuccess State = "payment_success"
	// StatePaymentFailed: the gateway rejected the attempt. The order itself
	// survives; recovery re-initiates payment, never resubmits the order.
	StatePaymentFailed State = "payment_failed"
	// StatePaymentPending: the gateway has no terminal answer yet. The flow
	// offers a manual status refresh instead of polling in a loop.
	StatePaymentPending State = "payment_pending"
)

var (
	// ErrCheckoutInvalidInput indicates the caller supplied invalid input.
	ErrCheckoutInvalidInput = errors.New("checkout: invalid input")
	// ErrPaymentInitFailed indicates the order was placed but the gateway
	// redirect could not be obtained. The order is safe to retry payment on.
	ErrPaymentInitFailed = errors.New("checkout: payment initialisation failed")
)

// ValidationError reports the delivery address fields that failed validation.
// It is raised before any network call so a bad address never reaches the API.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: invalid delivery address: %s", strings.Join(e.Fields, ", "))
}

// OrderClient is the slice of the commerce client the service needs to submit
// orders and to read them back when re-initiating payment.
type OrderClient interface {
	PlaceOrder(ctx context.Context, req commerce.PlaceOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// PaymentGateway is the slice of the commerce client the service needs to run
// online payments.
type PaymentGateway interface {
	InitializePayment(ctx context.Context, req commerce.InitializePaymentRequest) (commerce.PaymentRedirect, error)
	PaymentStatus(ctx context.Context, orderID string) (domain.PaymentAttempt, error)
}

// ServiceDeps wires the dependencies required by the checkout service.
type ServiceDeps struct {
	Orders    OrderClient
	Payments  PaymentGateway
	ReturnURL string
	Clock     func() time.Time
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

// Service drives the order placement and payment flow. It owns the state
// machine; the commerce client it delegates to stays a dumb transport.
type Service struct {
	orders    OrderClient
	payments  PaymentGateway
	returnURL string
	now       func() time.Time
	logger    func(ctx context.Context, event string, fields map[string]any)
	validate  *validator.Validate
}

// NewService constructs a checkout Service validating required dependencies.
func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Orders == nil {
		return nil, errors.New("checkout service: order client is required")
	}
	if deps.Payments == nil {
		return nil, errors.New("checkout service: payment gateway is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &Service{
		orders:    deps.Orders,
		payments:  deps.Payments,
		returnURL: strings.TrimSpace(deps.ReturnURL),
		now: func() time.Time {
			return clock().UTC()
		},
		logger:   logger,
		validate: validator.New(),
	}, nil
}

// PlaceOrderCommand carries everything needed to submit a draft.
type PlaceOrderCommand struct {
	Draft           domain.OrderDraft
	DeliveryAddress domain.DeliveryAddress
	PaymentMethod   domain.PaymentMethod
}

// Placement is the outcome of PlaceOrder. Redirect is set only when State is
// StateAwaitingPayment.
type Placement struct {
	State    State
	Order    domain.Order
	Redirect *commerce.PaymentRedirect
}

// PlaceOrder validates the command, submits the order, and for online payment
// obtains the gateway redirect. The draft id is the submission's idempotency
// key, so replaying the same draft after a lost response cannot duplicate the
// order.
//
// Failure leaves the flow in a recoverable state: a validation or submission
// failure returns StateDraft and nothing was charged; a gateway init failure
// returns StatePlaced with ErrPaymentInitFailed so payment can be retried
// against the already-persisted order.
func (s *Service) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (Placement, error) {
	if len(cmd.Draft.Items) == 0 {
		return Placement{State: StateDraft}, ErrDraftEmpty
	}
	if cmd.PaymentMethod != domain.PaymentMethodCOD && cmd.PaymentMethod != domain.PaymentMethodOnline {
		return Placement{State: StateDraft}, fmt.Errorf("%w: unknown payment method %q", ErrCheckoutInvalidInput, cmd.PaymentMethod)
	}

	// Totals are never trusted from the command; rebuild from the items so a
	// stale or tampered draft cannot change what is charged.
	draft, err := BuildOrderDraft(cmd.Draft.Items, s.now)
	if err != nil {
		return Placement{State: StateDraft}, err
	}
	draft.ID = cmd.Draft.ID
	if strings.TrimSpace(draft.ID) == "" {
		return Placement{State: StateDraft}, fmt.Errorf("%w: draft id is required", ErrCheckoutInvalidInput)
	}

	if err := s.validateAddress(cmd.DeliveryAddress); err != nil {
		return Placement{State: StateDraft}, err
	}

	order, err := s.orders.PlaceOrder(ctx, commerce.PlaceOrderRequest{
		Items:           draft.Items,
		DeliveryAddress: cmd.DeliveryAddress,
		PaymentMethod:   cmd.PaymentMethod,
		TotalAmount:     draft.Total,
		IdempotencyKey:  draft.ID,
	})
	if err != nil {
		s.logger(ctx, "checkout.place_order.failed", map[string]any{"draft_id": draft.ID, "error": err.Error()})
		return Placement{State: StateDraft}, err
	}
	s.logger(ctx, "checkout.order.placed", map[string]any{"order_id": order.ID, "method": string(cmd.PaymentMethod), "total": order.TotalAmount})

	if cmd.PaymentMethod == domain.PaymentMethodCOD {
		return Placement{State: StateCODConfirmed, Order: order}, nil
	}

	redirect, err := s.initiatePayment(ctx, order.ID, draft.Total)
	if err != nil {
		return Placement{State: StatePlaced, Order: order}, err
	}
	return Placement{State: StateAwaitingPayment, Order: order, Redirect: &redirect}, nil
}

// RetryPayment re-initiates the gateway hand-off for an already-placed order.
// It never creates a new order. The amount is read back from the persisted
// order, never accepted from the caller, so a retry always charges what was
// placed.
func (s *Service) RetryPayment(ctx context.Context, orderID string) (commerce.PaymentRedirect, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return commerce.PaymentRedirect{}, fmt.Errorf("%w: order id is required", ErrCheckoutInvalidInput)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return commerce.PaymentRedirect{}, err
	}
	if order.PaymentMethod != domain.PaymentMethodOnline {
		return commerce.PaymentRedirect{}, fmt.Errorf("%w: order %s does not settle online", ErrCheckoutInvalidInput, orderID)
	}
	return s.initiatePayment(ctx, order.ID, order.TotalAmount)
}

func (s *Service) initiatePayment(ctx context.Context, orderID string, amount int64) (commerce.PaymentRedirect, error) {
	redirect, err := s.payments.InitializePayment(ctx, commerce.InitializePaymentRequest{
		OrderID:        orderID,
		Amount:         amount,
		ReturnURL:      s.returnURL,
		IdempotencyKey: orderID,
	})
	if err != nil {
		s.logger(ctx, "checkout.payment.init_failed", map[string]any{"order_id": orderID, "error": err.Error()})
		return commerce.PaymentRedirect{}, fmt.Errorf("%w: %w", ErrPaymentInitFailed, err)
	}
	s.logger(ctx, "checkout.payment.initiated", map[string]any{"order_id": orderID, "amount": amount})
	return redirect, nil
}

func (s *Service) validateAddress(addr domain.DeliveryAddress) error {
	err := s.validate.Struct(addr)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrCheckoutInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}
