package engine

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
)

// Currency names one of the two ledger-tracked currencies. AddFunds is the
// only command that takes one as a raw string at the boundary; everywhere
// else the currency is implied by the field (USD for price/notional
// amounts, BTC for quantity amounts).
type Currency string

const (
	USD Currency = "USD"
	BTC Currency = "BTC"
)

// Command is the tagged union of requests the dispatcher accepts, each
// carrying a single-shot reply channel. Decimal fields (price, quantity,
// amount) are plain float64: conversion to the fixed-point internal
// representation happens inside the dispatcher routine, which is the
// external boundary the fixed-point package reserves for that
// conversion.
type Command interface {
	// isCommand only seals the union to the command types declared in
	// this package; it is never meant to be called by producers.
	isCommand()
}

// PlaceLimitCommand requests a limit order be placed for user, returning
// OrderPlacedResponse or ErrorResponse on Reply.
type PlaceLimitCommand struct {
	User     ulid.ULID
	Side     order.Side
	Price    float64
	Quantity float64
	Reply    chan Response
}

func (PlaceLimitCommand) isCommand() {}

// PlaceMarketCommand requests a market order be placed for user.
type PlaceMarketCommand struct {
	User     ulid.ULID
	Side     order.Side
	Quantity float64
	Reply    chan Response
}

func (PlaceMarketCommand) isCommand() {}

// CancelCommand requests withdrawal of a resting order. Only the owner
// may cancel their own order.
type CancelCommand struct {
	User    ulid.ULID
	OrderID ulid.ULID
	Reply   chan Response
}

func (CancelCommand) isCommand() {}

// GetDepthCommand requests a snapshot of the top Depth price levels per
// side. Depth <= 0 means "all levels".
type GetDepthCommand struct {
	Depth int
	Reply chan Response
}

func (GetDepthCommand) isCommand() {}

// GetBalanceCommand requests the current balance for user.
type GetBalanceCommand struct {
	User  ulid.ULID
	Reply chan Response
}

func (GetBalanceCommand) isCommand() {}

// AddFundsCommand credits a user's available balance in the given
// currency. This is the only command that mutates balances outside of
// matching.
type AddFundsCommand struct {
	User     ulid.ULID
	Currency Currency
	Amount   float64
	Reply    chan Response
}

func (AddFundsCommand) isCommand() {}

// Response is the tagged union of dispatcher replies.
type Response interface {
	isResponse()
}

// TradeView is the external, decimal-scale projection of a trade.Trade.
type TradeView struct {
	ID         ulid.ULID
	MakerOrder ulid.ULID
	TakerOrder ulid.ULID
	MakerUser  ulid.ULID
	TakerUser  ulid.ULID
	TakerSide  order.Side
	Price      float64
	Quantity   float64
	Notional   float64
	ExecutedAt time.Time
}

// OrderPlacedResponse reports the outcome of a PlaceLimit/PlaceMarket
// command. Status is one of "Matched", "Added to book", "Filled",
// "No liquidity", "Partial".
type OrderPlacedResponse struct {
	OrderID ulid.ULID
	Trades  []TradeView
	Status  string
}

func (OrderPlacedResponse) isResponse() {}

// OrderCancelledResponse reports the outcome of a Cancel command.
type OrderCancelledResponse struct {
	OrderID ulid.ULID
	Success bool
}

func (OrderCancelledResponse) isResponse() {}

// DepthLevelView is the external projection of an orderbook.DepthLevel.
type DepthLevelView struct {
	Price    float64
	Quantity float64
}

// OrderBookDepthResponse answers a GetDepth command.
type OrderBookDepthResponse struct {
	Bids []DepthLevelView
	Asks []DepthLevelView
}

func (OrderBookDepthResponse) isResponse() {}

// UserBalanceResponse answers a GetBalance command with the user's
// available balance per currency — the check surface, per the spec's
// requirement that implementers using explicit reservations still expose
// available as the externally visible figure.
type UserBalanceResponse struct {
	User     ulid.ULID
	Balances map[Currency]float64
}

func (UserBalanceResponse) isResponse() {}

// FundsAddedResponse answers an AddFunds command.
type FundsAddedResponse struct {
	User       ulid.ULID
	Currency   Currency
	NewBalance float64
}

func (FundsAddedResponse) isResponse() {}

// ErrorResponse reports a command-local failure. The book and balances
// are left unchanged (save for the market-order partial-execution case,
// which is not an error but a status).
type ErrorResponse struct {
	Message string
}

func (ErrorResponse) isResponse() {}
