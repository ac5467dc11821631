package orderbook

import (
	"sort"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/domain/user"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/raunit-dev/OrderBook/pkg/errors"
)

// DepthLevel is one row of a depth snapshot: a price and its aggregate
// resting quantity.
type DepthLevel struct {
	Price    fixedpoint.Price
	Quantity fixedpoint.Quantity
}

// Book is the single-pair order book: two price-indexed collections of
// PriceLevel (bids descending, asks ascending), an id→order index, and
// the balance ledger. It is owned exclusively by the dispatcher goroutine
// and carries no internal locking, generalized from the teacher's
// Orderbook (map[float64]*Limit keyed maps, sorted on read) to fixed-point
// price keys.
type Book struct {
	bids     map[int64]*PriceLevel
	asks     map[int64]*PriceLevel
	orders   map[ulid.ULID]*order.Order
	balances map[ulid.ULID]*user.Balance
}

// New returns an empty Book.
func New() *Book {
	return &Book{
		bids:     make(map[int64]*PriceLevel),
		asks:     make(map[int64]*PriceLevel),
		orders:   make(map[ulid.ULID]*order.Order),
		balances: make(map[ulid.ULID]*user.Balance),
	}
}

// BalanceOf returns the user's balance, creating a zeroed one on first
// reference.
func (b *Book) BalanceOf(userID ulid.ULID) *user.Balance {
	bal, ok := b.balances[userID]
	if !ok {
		bal = user.New()
		b.balances[userID] = bal
	}
	return bal
}

// Order looks up a resting order by id.
func (b *Book) Order(id ulid.ULID) (*order.Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

func (b *Book) sideMap(side order.Side) map[int64]*PriceLevel {
	if side == order.Buy {
		return b.bids
	}
	return b.asks
}

// BestBid returns the highest resting bid price and reports whether any
// bid exists.
func (b *Book) BestBid() (fixedpoint.Price, bool) {
	return bestOf(b.bids, true)
}

// BestAsk returns the lowest resting ask price and reports whether any
// ask exists.
func (b *Book) BestAsk() (fixedpoint.Price, bool) {
	return bestOf(b.asks, false)
}

func bestOf(levels map[int64]*PriceLevel, descending bool) (fixedpoint.Price, bool) {
	if len(levels) == 0 {
		return fixedpoint.Price{}, false
	}
	best := int64(0)
	first := true
	for mantissa := range levels {
		if first || (descending && mantissa > best) || (!descending && mantissa < best) {
			best = mantissa
			first = false
		}
	}
	return fixedpoint.NewPriceFromMantissa(best), true
}

// sortedMantissas returns the price keys of levels in the iteration order
// their side requires: descending for bids, ascending for asks.
func sortedMantissas(levels map[int64]*PriceLevel, descending bool) []int64 {
	out := make([]int64, 0, len(levels))
	for mantissa := range levels {
		out = append(out, mantissa)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i] > out[j]
		}
		return out[i] < out[j]
	})
	return out
}

// LevelAtBestAsk returns the PriceLevel at the current best ask, or nil.
func (b *Book) LevelAtBestAsk() *PriceLevel {
	price, ok := b.BestAsk()
	if !ok {
		return nil
	}
	return b.asks[price.Mantissa()]
}

// LevelAtBestBid returns the PriceLevel at the current best bid, or nil.
func (b *Book) LevelAtBestBid() *PriceLevel {
	price, ok := b.BestBid()
	if !ok {
		return nil
	}
	return b.bids[price.Mantissa()]
}

// SettleFilledMaker refreshes level's cached TotalVolume from its resident
// orders' remaining quantities, removes maker from the head of level if it
// has been fully filled, drops it from the id index, and drops level from
// its side map if it is now empty. Matching calls this after every
// execution against the current best opposing maker.
func (b *Book) SettleFilledMaker(maker *order.Order, level *PriceLevel) {
	total := fixedpoint.Zero
	for _, o := range level.Orders {
		// Cannot overflow: the sum only shrank since it was last cached.
		total, _ = total.Add(o.Remaining)
	}
	level.TotalVolume = total

	if !level.PopFrontIfFilled() {
		return
	}
	delete(b.orders, maker.ID)
	if level.IsEmpty() {
		delete(b.sideMap(maker.Side), maker.Price.Mantissa())
	}
}

// AddResting inserts o into the correct side under its limit price. The
// caller must ensure o is Open or PartiallyFilled and does not cross the
// book; AddResting performs no crossing check itself, matching being the
// matcher's responsibility.
func (b *Book) AddResting(o *order.Order) error {
	levels := b.sideMap(o.Side)
	level, ok := levels[o.Price.Mantissa()]
	if !ok {
		level = NewPriceLevel(o.Price)
		levels[o.Price.Mantissa()] = level
	}
	if err := level.PushBack(o); err != nil {
		return err
	}
	b.orders[o.ID] = o
	return nil
}

// Cancel looks up id, verifies ownership, removes it from its level and
// the id index, marks it Cancelled, and returns it. Ownership is checked
// before any mutation: an owner mismatch leaves the book untouched.
func (b *Book) Cancel(id ulid.ULID, requestingUser ulid.ULID) (*order.Order, error) {
	o, ok := b.orders[id]
	if !ok {
		return nil, errors.NewErrorDetails("unknown order", errors.CodeUnknownOrder, "order_id")
	}
	if o.UserID != requestingUser {
		return nil, errors.NewErrorDetails("not the order owner", errors.CodeNotOrderOwner, "user")
	}

	levels := b.sideMap(o.Side)
	level := levels[o.Price.Mantissa()]
	if level != nil {
		level.Remove(id)
		if level.IsEmpty() {
			delete(levels, o.Price.Mantissa())
		}
	}
	delete(b.orders, id)
	o.Cancel()
	return o, nil
}

// Depth returns up to k price levels per side: bids descending, asks
// ascending, each a (price, aggregate remaining quantity) pair.
func (b *Book) Depth(k int) (bids []DepthLevel, asks []DepthLevel) {
	bids = depthSide(b.bids, true, k)
	asks = depthSide(b.asks, false, k)
	return bids, asks
}

func depthSide(levels map[int64]*PriceLevel, descending bool, k int) []DepthLevel {
	mantissas := sortedMantissas(levels, descending)
	if k > 0 && k < len(mantissas) {
		mantissas = mantissas[:k]
	}
	out := make([]DepthLevel, 0, len(mantissas))
	for _, m := range mantissas {
		level := levels[m]
		out = append(out, DepthLevel{Price: level.Price, Quantity: level.TotalVolume})
	}
	return out
}
