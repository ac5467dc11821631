package engine

import (
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/domain/trade"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/raunit-dev/OrderBook/internal/matching"
	"github.com/raunit-dev/OrderBook/internal/orderbook"
	pkgerrors "github.com/raunit-dev/OrderBook/pkg/errors"
)

func (e *Engine) handlePlaceLimit(c PlaceLimitCommand) {
	price, err := fixedpoint.NewPriceFromFloat(c.Price)
	if err != nil || !price.IsPositive() {
		reply(c.Reply, errResponse("price must be positive"))
		return
	}
	qty, err := fixedpoint.NewQuantityFromFloat(c.Quantity)
	if err != nil || !qty.IsPositive() {
		reply(c.Reply, errResponse("quantity must be positive"))
		return
	}

	bal := e.book.BalanceOf(c.User)
	if c.Side == order.Buy {
		notional, err := price.Mul(qty)
		if err != nil {
			reply(c.Reply, errResponse(err.Error()))
			return
		}
		if err := bal.ReserveUSD(notional); err != nil {
			reply(c.Reply, errResponse(err.Error()))
			return
		}
	} else {
		if err := bal.ReserveBTC(qty); err != nil {
			reply(c.Reply, errResponse(err.Error()))
			return
		}
	}

	id := e.ids.Next()
	o := order.NewLimit(id, c.User, c.Side, price, qty, e.clock.Now())

	result, err := matching.MatchLimit(e.book, o, e.ids, e.clock)
	if err != nil {
		e.log.Error(pkgerrors.TracerFromError(err))
		reply(c.Reply, errResponse("internal error applying order"))
		return
	}

	reply(c.Reply, OrderPlacedResponse{
		OrderID: id,
		Trades:  tradeViews(result.Trades),
		Status:  string(result.Status),
	})
}

func (e *Engine) handlePlaceMarket(c PlaceMarketCommand) {
	qty, err := fixedpoint.NewQuantityFromFloat(c.Quantity)
	if err != nil || !qty.IsPositive() {
		reply(c.Reply, errResponse("quantity must be positive"))
		return
	}

	id := e.ids.Next()
	o := order.NewMarket(id, c.User, c.Side, qty, e.clock.Now())

	result, err := matching.MatchMarket(e.book, o, e.ids, e.clock)
	if err != nil {
		e.log.Error(pkgerrors.TracerFromError(err))
		reply(c.Reply, errResponse("internal error applying order"))
		return
	}

	reply(c.Reply, OrderPlacedResponse{
		OrderID: id,
		Trades:  tradeViews(result.Trades),
		Status:  string(result.Status),
	})
}

func (e *Engine) handleCancel(c CancelCommand) {
	o, err := e.book.Cancel(c.OrderID, c.User)
	if err != nil {
		reply(c.Reply, errResponse(err.Error()))
		return
	}

	bal := e.book.BalanceOf(o.UserID)
	if o.Side == order.Buy {
		notional, err := o.Price.Mul(o.Remaining)
		if err != nil {
			e.log.Error(pkgerrors.TracerFromError(err))
		} else if err := bal.ReleaseUSD(notional); err != nil {
			e.log.Error(pkgerrors.TracerFromError(err))
		}
	} else {
		if err := bal.ReleaseBTC(o.Remaining); err != nil {
			e.log.Error(pkgerrors.TracerFromError(err))
		}
	}

	reply(c.Reply, OrderCancelledResponse{OrderID: c.OrderID, Success: true})
}

func (e *Engine) handleGetDepth(c GetDepthCommand) {
	bids, asks := e.book.Depth(c.Depth)
	reply(c.Reply, OrderBookDepthResponse{
		Bids: depthViews(bids),
		Asks: depthViews(asks),
	})
}

func (e *Engine) handleGetBalance(c GetBalanceCommand) {
	bal := e.book.BalanceOf(c.User)
	reply(c.Reply, UserBalanceResponse{
		User: c.User,
		Balances: map[Currency]float64{
			USD: bal.AvailableUSD.Float64(),
			BTC: bal.AvailableBTC.Float64(),
		},
	})
}

func (e *Engine) handleAddFunds(c AddFundsCommand) {
	bal := e.book.BalanceOf(c.User)
	switch c.Currency {
	case USD:
		amount, err := fixedpoint.NewPriceFromFloat(c.Amount)
		if err != nil || !amount.IsPositive() {
			reply(c.Reply, errResponse("amount must be positive"))
			return
		}
		if err := bal.CreditUSD(amount); err != nil {
			e.log.Error(pkgerrors.TracerFromError(err))
			reply(c.Reply, errResponse("internal error crediting funds"))
			return
		}
		reply(c.Reply, FundsAddedResponse{User: c.User, Currency: USD, NewBalance: bal.AvailableUSD.Float64()})
	case BTC:
		amount, err := fixedpoint.NewQuantityFromFloat(c.Amount)
		if err != nil || !amount.IsPositive() {
			reply(c.Reply, errResponse("amount must be positive"))
			return
		}
		if err := bal.CreditBTC(amount); err != nil {
			e.log.Error(pkgerrors.TracerFromError(err))
			reply(c.Reply, errResponse("internal error crediting funds"))
			return
		}
		reply(c.Reply, FundsAddedResponse{User: c.User, Currency: BTC, NewBalance: bal.AvailableBTC.Float64()})
	default:
		reply(c.Reply, errResponse("unknown currency: "+string(c.Currency)))
	}
}

func errResponse(message string) Response {
	return ErrorResponse{Message: message}
}

func tradeViews(trades []*trade.Trade) []TradeView {
	out := make([]TradeView, 0, len(trades))
	for _, t := range trades {
		// Notional recomputes price*quantity, already validated once by
		// execute() when the trade was produced, so it cannot fail here.
		notional, _ := t.Notional()
		out = append(out, TradeView{
			ID:         t.ID,
			MakerOrder: t.MakerOrder,
			TakerOrder: t.TakerOrder,
			MakerUser:  t.MakerUser,
			TakerUser:  t.TakerUser,
			TakerSide:  t.TakerSide,
			Price:      t.Price.Float64(),
			Quantity:   t.Quantity.Float64(),
			Notional:   notional.Float64(),
			ExecutedAt: t.ExecutedAt,
		})
	}
	return out
}

func depthViews(levels []orderbook.DepthLevel) []DepthLevelView {
	out := make([]DepthLevelView, 0, len(levels))
	for _, l := range levels {
		out = append(out, DepthLevelView{Price: l.Price.Float64(), Quantity: l.Quantity.Float64()})
	}
	return out
}
