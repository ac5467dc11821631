package engine

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
)

// The methods below are the producer-facing half of the engine boundary:
// they build a Command carrying a freshly allocated, buffer-1 reply
// channel, submit it, and block for the reply or ctx cancellation.
// Producers embedded in this process (the Kafka ingress adapter that
// cmd/engine wires in) call these directly; producers in another process
// would do the equivalent over their own transport.

// PlaceLimit submits a PlaceLimitCommand and waits for its reply.
func (e *Engine) PlaceLimit(ctx context.Context, user ulid.ULID, side order.Side, price, quantity float64) (Response, error) {
	replyCh := newReply()
	cmd := PlaceLimitCommand{User: user, Side: side, Price: price, Quantity: quantity, Reply: replyCh}
	return e.submitAndAwait(ctx, cmd, replyCh)
}

// PlaceMarket submits a PlaceMarketCommand and waits for its reply.
func (e *Engine) PlaceMarket(ctx context.Context, user ulid.ULID, side order.Side, quantity float64) (Response, error) {
	replyCh := newReply()
	cmd := PlaceMarketCommand{User: user, Side: side, Quantity: quantity, Reply: replyCh}
	return e.submitAndAwait(ctx, cmd, replyCh)
}

// Cancel submits a CancelCommand and waits for its reply.
func (e *Engine) Cancel(ctx context.Context, user, orderID ulid.ULID) (Response, error) {
	replyCh := newReply()
	cmd := CancelCommand{User: user, OrderID: orderID, Reply: replyCh}
	return e.submitAndAwait(ctx, cmd, replyCh)
}

// GetDepth submits a GetDepthCommand and waits for its reply.
func (e *Engine) GetDepth(ctx context.Context, depth int) (Response, error) {
	replyCh := newReply()
	cmd := GetDepthCommand{Depth: depth, Reply: replyCh}
	return e.submitAndAwait(ctx, cmd, replyCh)
}

// GetBalance submits a GetBalanceCommand and waits for its reply.
func (e *Engine) GetBalance(ctx context.Context, user ulid.ULID) (Response, error) {
	replyCh := newReply()
	cmd := GetBalanceCommand{User: user, Reply: replyCh}
	return e.submitAndAwait(ctx, cmd, replyCh)
}

// AddFunds submits an AddFundsCommand and waits for its reply.
func (e *Engine) AddFunds(ctx context.Context, user ulid.ULID, currency Currency, amount float64) (Response, error) {
	replyCh := newReply()
	cmd := AddFundsCommand{User: user, Currency: currency, Amount: amount, Reply: replyCh}
	return e.submitAndAwait(ctx, cmd, replyCh)
}

func (e *Engine) submitAndAwait(ctx context.Context, cmd Command, replyCh chan Response) (Response, error) {
	if err := e.Submit(ctx, cmd); err != nil {
		return nil, err
	}
	select {
	case resp := <-replyCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
