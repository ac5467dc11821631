package matching

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/engine/idgen"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/raunit-dev/OrderBook/internal/orderbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func mustPrice(t *testing.T, v float64) fixedpoint.Price {
	p, err := fixedpoint.NewPriceFromFloat(v)
	require.NoError(t, err)
	return p
}

func mustQty(t *testing.T, v float64) fixedpoint.Quantity {
	q, err := fixedpoint.NewQuantityFromFloat(v)
	require.NoError(t, err)
	return q
}

// fundAndReserveUSD and fundAndReserveBTC credit a user's balance and then
// reserve part of it in USD or BTC respectively, exactly as
// the dispatcher's PlaceLimit routine does, so matching tests can set up
// resting liquidity without going through the engine package.
func fundAndReserveUSD(t *testing.T, book *orderbook.Book, u ulid.ULID, credit, reserve float64) {
	bal := book.BalanceOf(u)
	require.NoError(t, bal.CreditUSD(mustPrice(t, credit)))
	if reserve > 0 {
		require.NoError(t, bal.ReserveUSD(mustPrice(t, reserve)))
	}
}

func fundAndReserveBTC(t *testing.T, book *orderbook.Book, u ulid.ULID, credit, reserve float64) {
	bal := book.BalanceOf(u)
	require.NoError(t, bal.CreditBTC(mustQty(t, credit)))
	if reserve > 0 {
		require.NoError(t, bal.ReserveBTC(mustQty(t, reserve)))
	}
}

func TestMatchLimitAddAndRest(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	u1 := ulid.Make()
	fundAndReserveUSD(t, book, u1, 100000, 50000)

	taker := order.NewLimit(ulid.Make(), u1, order.Buy, mustPrice(t, 50000), mustQty(t, 1), clock.Now())
	result, err := MatchLimit(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusAddedToBook, result.Status)
	assert.Empty(t, result.Trades)

	bids, _ := book.Depth(10)
	require.Len(t, bids, 1)
	assert.Equal(t, 50000.0, bids[0].Price.Float64())
	assert.Equal(t, 1.0, bids[0].Quantity.Float64())
	assert.Equal(t, 50000.0, book.BalanceOf(u1).AvailableUSD.Float64())
}

func TestMatchLimitCrossAndFill(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	u1, u2 := ulid.Make(), ulid.Make()
	fundAndReserveUSD(t, book, u1, 100000, 50000)
	maker := order.NewLimit(ulid.Make(), u1, order.Buy, mustPrice(t, 50000), mustQty(t, 1), clock.Now())
	_, err := MatchLimit(book, maker, ids, clock)
	require.NoError(t, err)

	fundAndReserveBTC(t, book, u2, 2, 1)
	taker := order.NewLimit(ulid.Make(), u2, order.Sell, mustPrice(t, 49000), mustQty(t, 1), clock.Now())
	result, err := MatchLimit(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, result.Status)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 50000.0, result.Trades[0].Price.Float64())
	assert.Equal(t, 1.0, result.Trades[0].Quantity.Float64())

	u1Bal := book.BalanceOf(u1)
	assert.Equal(t, 1.0, u1Bal.AvailableBTC.Float64())
	assert.Equal(t, 50000.0, u1Bal.AvailableUSD.Float64())

	u2Bal := book.BalanceOf(u2)
	assert.Equal(t, 1.0, u2Bal.AvailableBTC.Float64())
	assert.Equal(t, 50000.0, u2Bal.AvailableUSD.Float64())

	bids, asks := book.Depth(10)
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

func TestMatchLimitPartialAndResidueRests(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	u1, u2 := ulid.Make(), ulid.Make()
	fundAndReserveUSD(t, book, u1, 100000, 0)
	fundAndReserveBTC(t, book, u2, 2, 2)

	maker := order.NewLimit(ulid.Make(), u2, order.Sell, mustPrice(t, 50000), mustQty(t, 2), clock.Now())
	_, err := MatchLimit(book, maker, ids, clock)
	require.NoError(t, err)

	require.NoError(t, book.BalanceOf(u1).ReserveUSD(mustPrice(t, 75000)))
	taker := order.NewLimit(ulid.Make(), u1, order.Buy, mustPrice(t, 50000), mustQty(t, 1.5), clock.Now())
	result, err := MatchLimit(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, result.Status)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 1.5, result.Trades[0].Quantity.Float64())

	_, askLevels := book.Depth(10)
	require.Len(t, askLevels, 1)
	assert.Equal(t, 0.5, askLevels[0].Quantity.Float64())

	u1Bal := book.BalanceOf(u1)
	assert.Equal(t, 1.5, u1Bal.AvailableBTC.Float64())
	assert.Equal(t, 25000.0, u1Bal.AvailableUSD.Float64())

	u2Bal := book.BalanceOf(u2)
	assert.Equal(t, 75000.0, u2Bal.AvailableUSD.Float64())
	assert.True(t, u2Bal.AvailableBTC.IsZero())
	assert.Equal(t, 0.5, u2Bal.ReservedBTC.Float64())
}

func TestMatchLimitPriceImprovementRefund(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	u1, u2 := ulid.Make(), ulid.Make()
	fundAndReserveBTC(t, book, u1, 1, 1)
	maker := order.NewLimit(ulid.Make(), u1, order.Sell, mustPrice(t, 49000), mustQty(t, 1), clock.Now())
	_, err := MatchLimit(book, maker, ids, clock)
	require.NoError(t, err)

	fundAndReserveUSD(t, book, u2, 50000, 50000)
	taker := order.NewLimit(ulid.Make(), u2, order.Buy, mustPrice(t, 50000), mustQty(t, 1), clock.Now())
	result, err := MatchLimit(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, result.Status)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 49000.0, result.Trades[0].Price.Float64())

	u2Bal := book.BalanceOf(u2)
	assert.Equal(t, 1000.0, u2Bal.AvailableUSD.Float64(), "expected the 1000 USD price-improvement delta refunded")
	assert.True(t, u2Bal.ReservedUSD.IsZero())
}

func TestMatchMarketSlippageAcrossLevels(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	seller := ulid.Make()
	fundAndReserveBTC(t, book, seller, 100, 0)

	levels := []struct {
		price float64
		qty   float64
	}{
		{98, 5},
		{98, 3},
		{100, 10},
		{105, 20},
	}
	for _, l := range levels {
		bal := book.BalanceOf(seller)
		require.NoError(t, bal.ReserveBTC(mustQty(t, l.qty)))
		o := order.NewLimit(ulid.Make(), seller, order.Sell, mustPrice(t, l.price), mustQty(t, l.qty), clock.Now())
		_, err := MatchLimit(book, o, ids, clock)
		require.NoError(t, err)
	}

	buyer := ulid.Make()
	fundAndReserveUSD(t, book, buyer, 10000, 0)

	taker := order.NewMarket(ulid.Make(), buyer, order.Buy, mustQty(t, 15), clock.Now())
	result, err := MatchMarket(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusFilled, result.Status)
	require.Len(t, result.Trades, 3)
	assert.Equal(t, 98.0, result.Trades[0].Price.Float64())
	assert.Equal(t, 5.0, result.Trades[0].Quantity.Float64())
	assert.Equal(t, 98.0, result.Trades[1].Price.Float64())
	assert.Equal(t, 3.0, result.Trades[1].Quantity.Float64())
	assert.Equal(t, 100.0, result.Trades[2].Price.Float64())
	assert.Equal(t, 7.0, result.Trades[2].Quantity.Float64())

	_, asks := book.Depth(10)
	require.Len(t, asks, 2)
	assert.Equal(t, 100.0, asks[0].Price.Float64())
	assert.Equal(t, 3.0, asks[0].Quantity.Float64())
	assert.Equal(t, 105.0, asks[1].Price.Float64())
	assert.Equal(t, 20.0, asks[1].Quantity.Float64())

	buyerBal := book.BalanceOf(buyer)
	assert.InDelta(t, 8516.0, buyerBal.AvailableUSD.Float64(), 0.0000001)
	assert.Equal(t, 15.0, buyerBal.AvailableBTC.Float64())
}

func TestMatchMarketNoLiquidity(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	u := ulid.Make()
	fundAndReserveUSD(t, book, u, 1000, 0)

	taker := order.NewMarket(ulid.Make(), u, order.Buy, mustQty(t, 1), clock.Now())
	result, err := MatchMarket(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusNoLiquidity, result.Status)
	assert.Empty(t, result.Trades)
	assert.Equal(t, 1000.0, book.BalanceOf(u).AvailableUSD.Float64())
}

func TestMatchMarketPartialOnInsufficientFunds(t *testing.T) {
	book := orderbook.New()
	ids := idgen.New()
	clock := fixedClock{time.Now()}

	// Several distinct unit-size resting sells at the same price, so the
	// market taker's funds run out mid-walk through the queue rather than
	// within a single execute() call.
	seller := ulid.Make()
	fundAndReserveBTC(t, book, seller, 10, 0)
	for i := 0; i < 10; i++ {
		bal := book.BalanceOf(seller)
		require.NoError(t, bal.ReserveBTC(mustQty(t, 1)))
		maker := order.NewLimit(ulid.Make(), seller, order.Sell, mustPrice(t, 100), mustQty(t, 1), clock.Now())
		_, err := MatchLimit(book, maker, ids, clock)
		require.NoError(t, err)
	}

	buyer := ulid.Make()
	fundAndReserveUSD(t, book, buyer, 200, 0) // covers exactly 2 units at price 100

	taker := order.NewMarket(ulid.Make(), buyer, order.Buy, mustQty(t, 10), clock.Now())
	result, err := MatchMarket(book, taker, ids, clock)
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, result.Status)
	require.Len(t, result.Trades, 2)
	assert.Equal(t, 1.0, result.Trades[0].Quantity.Float64())
	assert.Equal(t, 1.0, result.Trades[1].Quantity.Float64())
	assert.True(t, book.BalanceOf(buyer).AvailableUSD.IsZero())
	assert.Equal(t, 2.0, book.BalanceOf(buyer).AvailableBTC.Float64())
}
