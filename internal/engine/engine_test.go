package engine

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/pkg/config"
	"github.com/raunit-dev/OrderBook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, context.Context) {
	log, err := logger.New(logger.WithOutputPaths([]string{"/dev/null"}))
	require.NoError(t, err)

	eng := New(&config.Config{CommandQueueSize: 16}, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go eng.Run(ctx)
	return eng, ctx
}

func TestAddFundsAndGetBalance(t *testing.T) {
	eng, ctx := newTestEngine(t)
	user := ulid.Make()

	resp, err := eng.AddFunds(ctx, user, USD, 1000)
	require.NoError(t, err)
	funded, ok := resp.(FundsAddedResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.Equal(t, 1000.0, funded.NewBalance)

	resp, err = eng.GetBalance(ctx, user)
	require.NoError(t, err)
	bal, ok := resp.(UserBalanceResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.Equal(t, 1000.0, bal.Balances[USD])
}

func TestPlaceLimitRestsThenCrosses(t *testing.T) {
	eng, ctx := newTestEngine(t)
	u1, u2 := ulid.Make(), ulid.Make()

	_, err := eng.AddFunds(ctx, u1, USD, 100000)
	require.NoError(t, err)

	resp, err := eng.PlaceLimit(ctx, u1, order.Buy, 50000, 1)
	require.NoError(t, err)
	placed, ok := resp.(OrderPlacedResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.Equal(t, "Added to book", placed.Status)
	assert.Empty(t, placed.Trades)

	_, err = eng.AddFunds(ctx, u2, BTC, 2)
	require.NoError(t, err)

	resp, err = eng.PlaceLimit(ctx, u2, order.Sell, 49000, 1)
	require.NoError(t, err)
	placed, ok = resp.(OrderPlacedResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.Equal(t, "Matched", placed.Status)
	require.Len(t, placed.Trades, 1)
	assert.Equal(t, 50000.0, placed.Trades[0].Price)
}

func TestPlaceLimitInsufficientFundsFailsBeforeMutation(t *testing.T) {
	eng, ctx := newTestEngine(t)
	u1 := ulid.Make()

	resp, err := eng.PlaceLimit(ctx, u1, order.Buy, 50000, 1)
	require.NoError(t, err)
	_, ok := resp.(ErrorResponse)
	assert.True(t, ok, "expected ErrorResponse, got %T", resp)

	resp, err = eng.GetDepth(ctx, 10)
	require.NoError(t, err)
	depth, ok := resp.(OrderBookDepthResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.Empty(t, depth.Bids)
}

func TestCancelRefundsAndOwnerCheck(t *testing.T) {
	eng, ctx := newTestEngine(t)
	u1, u2 := ulid.Make(), ulid.Make()

	_, err := eng.AddFunds(ctx, u1, USD, 100000)
	require.NoError(t, err)

	resp, err := eng.PlaceLimit(ctx, u1, order.Buy, 50000, 1)
	require.NoError(t, err)
	placed := resp.(OrderPlacedResponse)

	resp, err = eng.Cancel(ctx, u2, placed.OrderID)
	require.NoError(t, err)
	_, ok := resp.(ErrorResponse)
	assert.True(t, ok, "expected owner check to reject u2's cancel")

	resp, err = eng.GetBalance(ctx, u1)
	require.NoError(t, err)
	bal := resp.(UserBalanceResponse)
	assert.Equal(t, 50000.0, bal.Balances[USD], "u1's reservation should still stand")

	resp, err = eng.Cancel(ctx, u1, placed.OrderID)
	require.NoError(t, err)
	cancelled, ok := resp.(OrderCancelledResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.True(t, cancelled.Success)

	resp, err = eng.GetBalance(ctx, u1)
	require.NoError(t, err)
	bal = resp.(UserBalanceResponse)
	assert.Equal(t, 100000.0, bal.Balances[USD], "cancel should fully refund the reservation")
}

func TestPlaceMarketNoLiquidity(t *testing.T) {
	eng, ctx := newTestEngine(t)
	u := ulid.Make()

	resp, err := eng.PlaceMarket(ctx, u, order.Buy, 1)
	require.NoError(t, err)
	placed, ok := resp.(OrderPlacedResponse)
	require.True(t, ok, "unexpected response type %T", resp)
	assert.Equal(t, "No liquidity", placed.Status)
	assert.Empty(t, placed.Trades)
}

func TestSubmitRespectsContextCancellation(t *testing.T) {
	log, err := logger.New(logger.WithOutputPaths([]string{"/dev/null"}))
	require.NoError(t, err)
	eng := New(&config.Config{CommandQueueSize: 1}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// No Run goroutine is started, so once the single queue slot is taken
	// the queue never drains and the next Submit must observe the deadline.
	require.NoError(t, eng.Submit(ctx, GetDepthCommand{Depth: 1, Reply: newReply()}))
	err = eng.Submit(ctx, GetDepthCommand{Depth: 1, Reply: newReply()})
	assert.Error(t, err)
}
