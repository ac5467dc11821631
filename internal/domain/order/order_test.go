package order

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestNewLimitInitialState(t *testing.T) {
	id, user := ulid.Make(), ulid.Make()
	o := NewLimit(id, user, Buy, mustPrice(t, 50000), mustQty(t, 1), time.Now())

	assert.Equal(t, Open, o.Status)
	assert.True(t, o.Remaining.Equal(o.Original))
	assert.True(t, o.HasPrice)
}

func TestNewMarketHasNoPrice(t *testing.T) {
	o := NewMarket(ulid.Make(), ulid.Make(), Sell, mustQty(t, 2), time.Now())
	assert.False(t, o.HasPrice)
}

func TestFillPartialThenFull(t *testing.T) {
	o := NewLimit(ulid.Make(), ulid.Make(), Buy, mustPrice(t, 100), mustQty(t, 2), time.Now())

	require.NoError(t, o.Fill(mustQty(t, 1)))
	assert.Equal(t, PartiallyFilled, o.Status)

	require.NoError(t, o.Fill(mustQty(t, 1)))
	assert.Equal(t, Filled, o.Status)
	assert.True(t, o.IsFullyFilled())
}

func TestFillMoreThanRemainingFails(t *testing.T) {
	o := NewLimit(ulid.Make(), ulid.Make(), Buy, mustPrice(t, 100), mustQty(t, 1), time.Now())
	assert.Error(t, o.Fill(mustQty(t, 2)))
}

func TestCancelSetsStatus(t *testing.T) {
	o := NewLimit(ulid.Make(), ulid.Make(), Sell, mustPrice(t, 100), mustQty(t, 1), time.Now())
	o.Cancel()
	assert.Equal(t, Cancelled, o.Status)
}

func TestLessOrdersByTimeThenID(t *testing.T) {
	now := time.Now()
	a := NewLimit(ulid.Make(), ulid.Make(), Buy, mustPrice(t, 100), mustQty(t, 1), now)
	b := NewLimit(ulid.Make(), ulid.Make(), Buy, mustPrice(t, 100), mustQty(t, 1), now.Add(time.Second))
	assert.True(t, Less(a, b))

	var x, y *Order
	if a.ID.Compare(b.ID) < 0 {
		x, y = a, b
	} else {
		x, y = b, a
	}
	x.CreatedAt = now
	y.CreatedAt = now
	assert.True(t, Less(x, y), "expected smaller id to sort first on a tie")
}
