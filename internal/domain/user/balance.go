// Package user holds each participant's USD/BTC balances and the
// reservation discipline that backs every resting order, grounded on
// original_source/src/types/user.rs (UserBalance::new/reserve/release) and
// original_source/src/orderbook/settlement.rs.
package user

import (
	"github.com/raunit-dev/OrderBook/internal/fixedpoint"
	"github.com/raunit-dev/OrderBook/pkg/errors"
)

// Balance tracks one user's available and reserved holdings of both
// currencies in the pair. Available is what the user could spend right
// now; Reserved is locked against open orders and is excluded from
// Available. USD amounts share Price's scale (quote currency, 10^6); BTC
// amounts use Quantity's scale (base currency, 10^8). Both currencies are
// always present, even at zero, matching UserBalance::new in the original
// implementation.
type Balance struct {
	AvailableUSD fixedpoint.Price
	ReservedUSD  fixedpoint.Price
	AvailableBTC fixedpoint.Quantity
	ReservedBTC  fixedpoint.Quantity
}

// New returns a zeroed Balance.
func New() *Balance {
	return &Balance{}
}

// ReserveUSD moves amount from Available to Reserved USD. It fails with
// CodeInsufficientFunds if amount exceeds AvailableUSD.
func (b *Balance) ReserveUSD(amount fixedpoint.Price) error {
	remaining, err := b.AvailableUSD.Sub(amount)
	if err != nil {
		return errors.NewErrorDetails("insufficient USD balance", errors.CodeInsufficientFunds, "amount")
	}
	reserved, err := b.ReservedUSD.Add(amount)
	if err != nil {
		return errors.NewErrorDetails("reservation overflow", errors.CodeOverflow, "amount")
	}
	b.AvailableUSD = remaining
	b.ReservedUSD = reserved
	return nil
}

// ReserveBTC moves amount from Available to Reserved BTC.
func (b *Balance) ReserveBTC(amount fixedpoint.Quantity) error {
	remaining, err := b.AvailableBTC.Sub(amount)
	if err != nil {
		return errors.NewErrorDetails("insufficient BTC balance", errors.CodeInsufficientFunds, "amount")
	}
	reserved, err := b.ReservedBTC.Add(amount)
	if err != nil {
		return errors.NewErrorDetails("reservation overflow", errors.CodeOverflow, "amount")
	}
	b.AvailableBTC = remaining
	b.ReservedBTC = reserved
	return nil
}

// ReleaseUSD moves amount back from Reserved to Available USD, used when a
// resting order is cancelled or refunded a price improvement.
func (b *Balance) ReleaseUSD(amount fixedpoint.Price) error {
	reserved, err := b.ReservedUSD.Sub(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	available, err := b.AvailableUSD.Add(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	b.ReservedUSD = reserved
	b.AvailableUSD = available
	return nil
}

// ReleaseBTC moves amount back from Reserved to Available BTC.
func (b *Balance) ReleaseBTC(amount fixedpoint.Quantity) error {
	reserved, err := b.ReservedBTC.Sub(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	available, err := b.AvailableBTC.Add(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	b.ReservedBTC = reserved
	b.AvailableBTC = available
	return nil
}

// SettleUSDOut removes amount from Reserved USD permanently: the buyer's
// side of a trade, where the reserved cash leaves the ledger into the
// seller's available balance via CreditUSD.
func (b *Balance) SettleUSDOut(amount fixedpoint.Price) error {
	reserved, err := b.ReservedUSD.Sub(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	b.ReservedUSD = reserved
	return nil
}

// SettleBTCOut removes amount from Reserved BTC permanently.
func (b *Balance) SettleBTCOut(amount fixedpoint.Quantity) error {
	reserved, err := b.ReservedBTC.Sub(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	b.ReservedBTC = reserved
	return nil
}

// CreditUSD adds amount directly to Available USD: a seller receiving
// proceeds, or a taker receiving a price-improvement refund.
func (b *Balance) CreditUSD(amount fixedpoint.Price) error {
	available, err := b.AvailableUSD.Add(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	b.AvailableUSD = available
	return nil
}

// CreditBTC adds amount directly to Available BTC: a buyer receiving the
// base currency bought.
func (b *Balance) CreditBTC(amount fixedpoint.Quantity) error {
	available, err := b.AvailableBTC.Add(amount)
	if err != nil {
		return errors.TracerFromError(err)
	}
	b.AvailableBTC = available
	return nil
}

// DebitAvailableUSD removes amount directly from Available USD without
// ever touching Reserved. Market buys debit incrementally as they match,
// since a market order never reserves up front.
func (b *Balance) DebitAvailableUSD(amount fixedpoint.Price) error {
	available, err := b.AvailableUSD.Sub(amount)
	if err != nil {
		return errors.NewErrorDetails("insufficient USD balance", errors.CodeInsufficientFunds, "amount")
	}
	b.AvailableUSD = available
	return nil
}

// DebitAvailableBTC removes amount directly from Available BTC without
// touching Reserved. Market sells debit incrementally as they match.
func (b *Balance) DebitAvailableBTC(amount fixedpoint.Quantity) error {
	available, err := b.AvailableBTC.Sub(amount)
	if err != nil {
		return errors.NewErrorDetails("insufficient BTC balance", errors.CodeInsufficientFunds, "amount")
	}
	b.AvailableBTC = available
	return nil
}

// TotalUSD is Available plus Reserved, a diagnostic invariant helper.
func (b *Balance) TotalUSD() (fixedpoint.Price, error) {
	return b.AvailableUSD.Add(b.ReservedUSD)
}

// TotalBTC is Available plus Reserved.
func (b *Balance) TotalBTC() (fixedpoint.Quantity, error) {
	return b.AvailableBTC.Add(b.ReservedBTC)
}
