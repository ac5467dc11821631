package matching

import (
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/domain/trade"
	"github.com/raunit-dev/OrderBook/internal/domain/user"
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/raunit-dev/OrderBook/internal/orderbook"
)

// execute settles one fill of qty between maker and taker at maker's
// price (the maker-price execution rule: the resting order set the
// quote, the aggressor is compensated separately via price-improvement
// refund). takerReserved distinguishes a limit taker, whose cost was
// already debited from available into reserved at placement, from a
// market taker, which is debited directly from available as it matches
// since it never reserves in advance. The maker is always a resting
// limit order, so its side of the settlement always comes out of its
// existing reservation.
func execute(book *orderbook.Book, maker, taker *order.Order, qty fixedpoint.Quantity, takerReserved bool, ids IDs, clock Clock) (*trade.Trade, error) {
	price := maker.Price

	if err := maker.Fill(qty); err != nil {
		return nil, err
	}
	if err := taker.Fill(qty); err != nil {
		return nil, err
	}

	notional, err := price.Mul(qty)
	if err != nil {
		return nil, err
	}

	makerBal := book.BalanceOf(maker.UserID)
	takerBal := book.BalanceOf(taker.UserID)

	var buyerBal, sellerBal *user.Balance
	var buyerReserved, sellerReserved bool
	if taker.Side == order.Buy {
		buyerBal, buyerReserved = takerBal, takerReserved
		sellerBal, sellerReserved = makerBal, true
	} else {
		buyerBal, buyerReserved = makerBal, true
		sellerBal, sellerReserved = takerBal, takerReserved
	}

	if buyerReserved {
		if err := buyerBal.SettleUSDOut(notional); err != nil {
			return nil, err
		}
	} else if err := buyerBal.DebitAvailableUSD(notional); err != nil {
		return nil, err
	}
	if err := buyerBal.CreditBTC(qty); err != nil {
		return nil, err
	}

	if sellerReserved {
		if err := sellerBal.SettleBTCOut(qty); err != nil {
			return nil, err
		}
	} else if err := sellerBal.DebitAvailableBTC(qty); err != nil {
		return nil, err
	}
	if err := sellerBal.CreditUSD(notional); err != nil {
		return nil, err
	}

	// Price-improvement refund: a limit taker reserved at its own limit
	// price, which may be better than the maker's price it actually
	// executed at. The delta belongs to the taker and is refunded to its
	// USD available immediately. Sell takers reserve BTC, which equals
	// executed qty exactly, so there is never a delta to refund there.
	if takerReserved && taker.Side == order.Buy && taker.HasPrice && taker.Price.Mantissa() > price.Mantissa() {
		takerNotionalAtLimit, err := taker.Price.Mul(qty)
		if err != nil {
			return nil, err
		}
		refund, err := takerNotionalAtLimit.Sub(notional)
		if err != nil {
			return nil, err
		}
		if refund.IsPositive() {
			if err := takerBal.ReleaseUSD(refund); err != nil {
				return nil, err
			}
		}
	}

	t := trade.New(ids.Next(), taker, maker, price, qty, clock.Now())
	return t, nil
}
