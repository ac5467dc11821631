package user

import (
	"testing"

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

func TestNewBalanceIsZero(t *testing.T) {
	b := New()
	assert.True(t, b.AvailableUSD.IsZero())
	assert.True(t, b.AvailableBTC.IsZero())
}

func TestReserveAndReleaseUSDRoundTrips(t *testing.T) {
	b := New()
	require.NoError(t, b.CreditUSD(mustPrice(t, 100)))
	require.NoError(t, b.ReserveUSD(mustPrice(t, 40)))

	assert.Equal(t, 60.0, b.AvailableUSD.Float64())
	assert.Equal(t, 40.0, b.ReservedUSD.Float64())

	require.NoError(t, b.ReleaseUSD(mustPrice(t, 40)))
	assert.Equal(t, 100.0, b.AvailableUSD.Float64())
	assert.True(t, b.ReservedUSD.IsZero())
}

func TestReserveUSDInsufficientFunds(t *testing.T) {
	b := New()
	assert.Error(t, b.ReserveUSD(mustPrice(t, 1)))
}

func TestSettleUSDOutPermanentlyRemovesReservation(t *testing.T) {
	b := New()
	require.NoError(t, b.CreditUSD(mustPrice(t, 100)))
	require.NoError(t, b.ReserveUSD(mustPrice(t, 100)))

	require.NoError(t, b.SettleUSDOut(mustPrice(t, 100)))
	assert.True(t, b.ReservedUSD.IsZero())
	assert.True(t, b.AvailableUSD.IsZero())
}

func TestDebitAvailableBTCInsufficientFunds(t *testing.T) {
	b := New()
	assert.Error(t, b.DebitAvailableBTC(mustQty(t, 0.1)))
}

func TestTotalsReflectAvailablePlusReserved(t *testing.T) {
	b := New()
	require.NoError(t, b.CreditUSD(mustPrice(t, 100)))
	require.NoError(t, b.ReserveUSD(mustPrice(t, 30)))

	total, err := b.TotalUSD()
	require.NoError(t, err)
	assert.Equal(t, 100.0, total.Float64())
}
