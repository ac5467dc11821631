// Package matching implements the limit and market matching algorithms
// that consume and mutate an orderbook.Book and emit trade.Trade records,
// settling balances inline as each execution happens. Grounded on
// original_source/src/orderbook/{matching,market_matching,settlement}.rs
// and generalized from the teacher's Limit.Fill/Orderbook.PlaceMarketOrder
// (services/matching-engine/internal/domain/orderbook/v1/limit.go,
// internal/usecase/orderbook/orderbook.go).
package matching

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/domain/trade"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/raunit-dev/OrderBook/internal/orderbook"
)

// Status mirrors the OrderPlaced status vocabulary from the command
// protocol.
type Status string

const (
	StatusMatched     Status = "Matched"
	StatusAddedToBook Status = "Added to book"
	StatusFilled      Status = "Filled"
	StatusNoLiquidity Status = "No liquidity"
	StatusPartial     Status = "Partial"
)

// Result carries the trades produced by one matching pass plus the
// resulting OrderPlaced status.
type Result struct {
	Trades []*trade.Trade
	Status Status
}

// IDs mints fresh ids for trades produced during matching.
type IDs interface {
	Next() ulid.ULID
}

// Clock supplies the current time for trade timestamps and, via
// monotonic non-decreasing values across calls, the ordering guarantee
// the dispatcher relies on.
type Clock interface {
	Now() time.Time
}

// MatchLimit executes taker (a resting-eligible limit order, already
// admitted with its reservation debited) against the opposite side while
// it crosses, then rests any remainder. It never fails on insufficient
// funds: the caller is responsible for the up-front reservation check
// described in the dispatcher's PlaceLimit routine.
func MatchLimit(book *orderbook.Book, taker *order.Order, ids IDs, clock Clock) (*Result, error) {
	result := &Result{}

	for taker.Remaining.IsPositive() {
		maker, level, ok := bestOpposingMaker(book, taker)
		if !ok {
			break
		}
		if taker.Side == order.Buy && !maker.Price.LessOrEqual(taker.Price) {
			break // best ask above taker's limit: does not cross.
		}
		if taker.Side == order.Sell && !maker.Price.GreaterOrEqual(taker.Price) {
			break // best bid below taker's limit: does not cross.
		}

		qty := fixedpoint.Min(taker.Remaining, maker.Remaining)
		t, err := execute(book, maker, taker, qty, true /* taker reserved up front */, ids, clock)
		if err != nil {
			return nil, err
		}
		result.Trades = append(result.Trades, t)
		book.SettleFilledMaker(maker, level)
	}

	if taker.Remaining.IsPositive() {
		if err := book.AddResting(taker); err != nil {
			return nil, err
		}
	}

	if len(result.Trades) > 0 {
		result.Status = StatusMatched
	} else {
		result.Status = StatusAddedToBook
	}
	return result, nil
}

// MatchMarket executes taker (a market order, never reserved up front)
// against the opposite side until it is filled, the opposite side is
// exhausted, or a trade cannot be covered by the taker's available
// balance. Any unfilled remainder is discarded: market orders never
// rest.
func MatchMarket(book *orderbook.Book, taker *order.Order, ids IDs, clock Clock) (*Result, error) {
	result := &Result{}
	insufficientFunds := false

	for taker.Remaining.IsPositive() {
		maker, level, ok := bestOpposingMaker(book, taker)
		if !ok {
			break
		}

		qty := fixedpoint.Min(taker.Remaining, maker.Remaining)
		if ok, err := canCoverMarketTrade(book, taker, maker.Price, qty); err != nil {
			return nil, err
		} else if !ok {
			insufficientFunds = true
			break
		}

		t, err := execute(book, maker, taker, qty, false /* debited incrementally */, ids, clock)
		if err != nil {
			return nil, err
		}
		result.Trades = append(result.Trades, t)
		book.SettleFilledMaker(maker, level)
	}

	switch {
	case len(result.Trades) == 0:
		result.Status = StatusNoLiquidity
	case taker.Remaining.IsZero():
		result.Status = StatusFilled
	case insufficientFunds:
		result.Status = StatusPartial
	default:
		result.Status = StatusPartial
	}
	return result, nil
}

// bestOpposingMaker returns the head order of the book's best opposing
// level for taker's side, along with that level, or ok=false if the
// opposite side is empty.
func bestOpposingMaker(book *orderbook.Book, taker *order.Order) (*order.Order, *orderbook.PriceLevel, bool) {
	var level *orderbook.PriceLevel
	if taker.Side == order.Buy {
		level = book.LevelAtBestAsk()
	} else {
		level = book.LevelAtBestBid()
	}
	if level == nil {
		return nil, nil, false
	}
	maker := level.Front()
	if maker == nil {
		return nil, nil, false
	}
	return maker, level, true
}

// canCoverMarketTrade reports whether taker's available balance can pay
// for a market trade of qty at price, without mutating anything.
func canCoverMarketTrade(book *orderbook.Book, taker *order.Order, price fixedpoint.Price, qty fixedpoint.Quantity) (bool, error) {
	bal := book.BalanceOf(taker.UserID)
	if taker.Side == order.Buy {
		cost, err := price.Mul(qty)
		if err != nil {
			return false, err
		}
		return bal.AvailableUSD.GreaterOrEqual(cost), nil
	}
	return !bal.AvailableBTC.Less(qty), nil
}

