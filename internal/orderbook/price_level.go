// Package orderbook holds the resting-order book: per-price FIFO queues
// indexed by side, plus the id index and balance ledger the dispatcher
// mutates on every command. Grounded on the teacher's orderbookv1.Limit
// (services/matching-engine/internal/domain/orderbook/v1/limit.go) and
// usecase/orderbook/orderbook.go, generalized from the teacher's
// map[float64]*Limit to map[int64 mantissa]*PriceLevel and from
// []*Order-with-linear-removal to the same shape, now owned exclusively by
// the single dispatcher goroutine (no internal locking: the teacher's
// sync.RWMutex per Limit is dropped because serialization here comes from
// the command queue, not from shared access).
package orderbook

import (
	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
)

// PriceLevel is the FIFO queue of orders resting at one price, plus a
// cached sum of their remaining quantities so depth queries don't have to
// walk the queue.
type PriceLevel struct {
	Price       fixedpoint.Price
	Orders      []*order.Order
	TotalVolume fixedpoint.Quantity
}

// NewPriceLevel creates an empty level at price.
func NewPriceLevel(price fixedpoint.Price) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		Orders: make([]*order.Order, 0, 4),
	}
}

// PushBack inserts o at the point that keeps the queue in price-time
// priority order (order.Less), adding its remaining quantity to the
// cached total. In the normal single-writer case o already sorts after
// every resident order, so this degrades to an append; the scan is what
// makes priority order a property of the queue itself rather than an
// assumption about caller discipline.
func (l *PriceLevel) PushBack(o *order.Order) error {
	total, err := l.TotalVolume.Add(o.Remaining)
	if err != nil {
		return err
	}
	idx := len(l.Orders)
	for idx > 0 && order.Less(o, l.Orders[idx-1]) {
		idx--
	}
	l.Orders = append(l.Orders, nil)
	copy(l.Orders[idx+1:], l.Orders[idx:])
	l.Orders[idx] = o
	l.TotalVolume = total
	return nil
}

// Front returns the head of the queue, or nil if empty.
func (l *PriceLevel) Front() *order.Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// PopFrontIfFilled removes the head order if it is Filled, subtracting
// nothing further from TotalVolume (its remaining is already zero). It
// reports whether a removal happened.
func (l *PriceLevel) PopFrontIfFilled() bool {
	head := l.Front()
	if head == nil || head.Status != order.Filled {
		return false
	}
	l.Orders = l.Orders[1:]
	return true
}

// Remove deletes the order with the given id from the queue via linear
// scan, subtracting its remaining quantity from the cached total. Linear
// cost is acceptable: the id index locates the level in O(1), and
// resident counts per level are small in practice. Reports whether the id
// was found.
func (l *PriceLevel) Remove(id ulid.ULID) (*order.Order, bool) {
	for i, o := range l.Orders {
		if o.ID == id {
			removed, err := l.TotalVolume.Sub(o.Remaining)
			if err == nil {
				l.TotalVolume = removed
			}
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return o, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the level holds no orders.
func (l *PriceLevel) IsEmpty() bool {
	return len(l.Orders) == 0
}

// Len returns the number of resting orders at this level.
func (l *PriceLevel) Len() int {
	return len(l.Orders)
}
