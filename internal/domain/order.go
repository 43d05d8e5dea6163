package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CheckoutCompletedType is the payment notification type that creates orders.
const CheckoutCompletedType = "checkout.session.completed"

// Order is a completed ticket purchase. StripeID is the provider's transaction
// id and the idempotency key: at most one order exists per StripeID.
// swagger:model Order
type Order struct {
	ID          string    `json:"id"`
	StripeID    string    `json:"stripeId"`
	EventID     string    `json:"eventId"`
	BuyerID     string    `json:"buyerId"`
	TotalAmount string    `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventOrder is an order of a single event as the organizer sees it.
type EventOrder struct {
	ID          string    `json:"id"`
	TotalAmount string    `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
	EventTitle  string    `json:"eventTitle"`
	EventID     string    `json:"eventId"`
	Buyer       string    `json:"buyer"`
}

// UserOrder is an order placed by a user with the purchased event joined in.
// Event is nil when the event has since been deleted.
type UserOrder struct {
	Order
	Event *Event `json:"event"`
}

// OrderPage is one page of a user's orders plus the total page count.
type OrderPage struct {
	Data       []*UserOrder `json:"data"`
	TotalPages int          `json:"totalPages"`
}

// OrderRepository defines storage for orders.
type OrderRepository interface {
	// CreateIfAbsent inserts order unless one with the same StripeID exists. In
	// both cases order is overwritten with the stored row; created reports
	// whether this call inserted it.
	CreateIfAbsent(ctx context.Context, order *Order) (created bool, err error)
	// GetByStripeID returns the order or ErrNotFound.
	GetByStripeID(ctx context.Context, stripeID string) (*Order, error)
	// ListByEvent returns the orders of an event, newest first. A non-empty
	// search keeps orders whose buyer name contains it, ignoring case.
	ListByEvent(ctx context.Context, eventID, search string) ([]*EventOrder, error)
	// ListByBuyer returns one page of a buyer's orders, newest first, and the total count.
	ListByBuyer(ctx context.Context, buyerID string, params PaginationParams) ([]*UserOrder, int, error)
}

// CheckoutCompletion is the payload of a completed checkout notification.
type CheckoutCompletion struct {
	SessionID   string
	AmountTotal int64
	Metadata    map[string]string
}

// PaymentNotification is a verified notification from the payment provider.
// Checkout is set only for CheckoutCompletedType.
type PaymentNotification struct {
	ID       string
	Type     string
	Checkout *CheckoutCompletion
}

// PaymentVerifier authenticates a raw notification body against its signature
// header. Failures wrap ErrVerification.
type PaymentVerifier interface {
	Verify(payload []byte, signature string) (*PaymentNotification, error)
}

// CheckoutSessionInput describes a hosted checkout for one ticket.
type CheckoutSessionInput struct {
	EventID     string
	EventTitle  string
	BuyerID     string
	AmountMinor int64
}

// CheckoutProvider creates hosted checkout sessions and returns the redirect URL.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, input CheckoutSessionInput) (url string, err error)
}

// IntakeState is the state of a payment notification in the intake pipeline.
type IntakeState int

const (
	IntakeUnverified IntakeState = iota
	IntakeVerified
	IntakeRejected
)

func (s IntakeState) String() string {
	switch s {
	case IntakeVerified:
		return "verified"
	case IntakeRejected:
		return "rejected"
	default:
		return "unverified"
	}
}

// IntakeResult reports what the intake pipeline did with a notification.
// Order is nil for verified notifications of a type that creates no order.
type IntakeResult struct {
	State            IntakeState
	NotificationType string
	Order            *Order
	Created          bool
}

// OrderService defines the business logic for purchasing tickets.
type OrderService interface {
	Intake(ctx context.Context, payload []byte, signature string) (*IntakeResult, error)
	Checkout(ctx context.Context, eventID, buyerID string) (string, error)
	ListOrdersByEvent(ctx context.Context, eventID, actorID, search string) ([]*EventOrder, error)
	ListOrdersByUser(ctx context.Context, userID string, params PaginationParams) (*OrderPage, error)
}

// FormatMinorUnits renders an amount in minor units (cents) as a decimal string
// with trailing fractional zeros dropped: 5000 -> "50", 5050 -> "50.5", 1999 -> "19.99".
func FormatMinorUnits(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	whole, frac := minor/100, minor%100
	if frac == 0 {
		return sign + strconv.FormatInt(whole, 10)
	}
	fs := fmt.Sprintf("%02d", frac)
	fs = strings.TrimRight(fs, "0")
	return sign + strconv.FormatInt(whole, 10) + "." + fs
}

// ParseMinorUnits parses a non-negative decimal string with at most two
// fractional digits into minor units. An empty string is zero.
func ParseMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	if strings.ContainsAny(whole, "+-") || strings.ContainsAny(frac, "+-") {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	if w > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("%w: amount %q out of range", ErrValidation, s)
	}
	var f int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
		}
	}
	return w*100 + f, nil
}
