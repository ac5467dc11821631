// Package order defines the resting-order record and its lifecycle,
// grounded on the teacher's orderbookv1.Order (services/matching-engine/
// internal/domain/orderbook/v1/order.go) and original_source/src/types/order.rs,
// generalized from the teacher's float Size to the fixed-point scalars in
// internal/fixedpoint.
package order

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
)

// Side is the direction of an order.
type Side int

const (
	// Buy is a bid: the order wants to acquire the base currency (BTC).
	Buy Side = iota
	// Sell is an ask: the order wants to dispose of the base currency (BTC).
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Type distinguishes limit orders (which rest if unmatched) from market
// orders (which never rest).
type Type int

const (
	// Limit orders carry a price and rest on the book if not fully matched.
	Limit Type = iota
	// Market orders execute against best available liquidity and discard
	// any unfilled remainder.
	Market
)

func (t Type) String() string {
	if t == Limit {
		return "limit"
	}
	return "market"
}

// Status is the lifecycle state of an order.
type Status int

const (
	// Open means the order has not traded at all yet.
	Open Status = iota
	// PartiallyFilled means some but not all of the original quantity has traded.
	PartiallyFilled
	// Filled means the order has fully traded; it no longer rests.
	Filled
	// Cancelled means the order was withdrawn before being fully filled.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is a single order, resting or in-flight. HasPrice reports whether
// Price is meaningful (limit orders only).
type Order struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	Side      Side
	Type      Type
	Price     fixedpoint.Price // meaningful only when Type == Limit
	HasPrice  bool
	Original  fixedpoint.Quantity
	Remaining fixedpoint.Quantity
	Status    Status
	CreatedAt time.Time
}

// NewLimit constructs an Open limit order for the given user.
func NewLimit(id, userID ulid.ULID, side Side, price fixedpoint.Price, qty fixedpoint.Quantity, now time.Time) *Order {
	return &Order{
		ID:        id,
		UserID:    userID,
		Side:      side,
		Type:      Limit,
		Price:     price,
		HasPrice:  true,
		Original:  qty,
		Remaining: qty,
		Status:    Open,
		CreatedAt: now,
	}
}

// NewMarket constructs an Open market order for the given user.
func NewMarket(id, userID ulid.ULID, side Side, qty fixedpoint.Quantity, now time.Time) *Order {
	return &Order{
		ID:        id,
		UserID:    userID,
		Side:      side,
		Type:      Market,
		Original:  qty,
		Remaining: qty,
		Status:    Open,
		CreatedAt: now,
	}
}

// IsFullyFilled reports whether the order has no remaining quantity.
func (o *Order) IsFullyFilled() bool {
	return o.Remaining.IsZero()
}

// Fill reduces the remaining quantity by qty and updates status accordingly.
// It fails if qty exceeds the remaining quantity.
func (o *Order) Fill(qty fixedpoint.Quantity) error {
	remaining, err := o.Remaining.Sub(qty)
	if err != nil {
		return err
	}
	o.Remaining = remaining
	if o.Remaining.IsZero() {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
	return nil
}

// Cancel marks the order Cancelled. Only meaningful while Open or
// PartiallyFilled; callers are expected to check that via the book, since
// a Filled or already-Cancelled order should never reach here.
func (o *Order) Cancel() {
	o.Status = Cancelled
}

// Less implements the deterministic tie-break for orders resident at the
// same price level: earlier CreatedAt first, ties broken by smaller id.
func Less(a, b *Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.Compare(b.ID) < 0
}
