// Package trade defines the execution record produced each time a taker
// crosses a resting order, grounded on original_source/src/types/trade.rs
// and the teacher's match-publisher payloads
// (services/matching-engine/internal/usecase/match-publisher/publisher.go).
package trade

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
)

// Trade is an immutable record of one maker/taker execution. Price is
// always the maker's resting price: takers never pay worse than the
// maker quoted, and limit takers are refunded the difference when they
// cross at a better price than they offered.
type Trade struct {
	ID         ulid.ULID
	TakerOrder ulid.ULID
	MakerOrder ulid.ULID
	TakerUser  ulid.ULID
	MakerUser  ulid.ULID
	TakerSide  order.Side
	Price      fixedpoint.Price
	Quantity   fixedpoint.Quantity
	ExecutedAt time.Time
}

// New constructs a Trade.
func New(id ulid.ULID, taker, maker *order.Order, price fixedpoint.Price, qty fixedpoint.Quantity, now time.Time) *Trade {
	return &Trade{
		ID:         id,
		TakerOrder: taker.ID,
		MakerOrder: maker.ID,
		TakerUser:  taker.UserID,
		MakerUser:  maker.UserID,
		TakerSide:  taker.Side,
		Price:      price,
		Quantity:   qty,
		ExecutedAt: now,
	}
}

// Notional is Price * Quantity, the USD value exchanged.
func (t *Trade) Notional() (fixedpoint.Price, error) {
	return t.Price.Mul(t.Quantity)
}
