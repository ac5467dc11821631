package kafka

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/raunit-dev/OrderBook/internal/domain/order"
	"github.com/raunit-dev/OrderBook/internal/engine"
	"github.com/raunit-dev/OrderBook/pkg/logger"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageReader is the narrow surface Consumer needs from Reader, kept as
// an interface so tests can substitute a hand-written fake instead of a
// live broker connection (the teacher reserves //go:generate mockgen for
// this; this repo writes the fake by hand since no generator runs here).
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, *PlaceOrderMessage, error)
	Close() error
}

// OrderSubmitter is the subset of *engine.Engine's client surface a
// producer needs: submit an order and wait for its outcome.
type OrderSubmitter interface {
	PlaceLimit(ctx context.Context, user ulid.ULID, side order.Side, price, quantity float64) (engine.Response, error)
	PlaceMarket(ctx context.Context, user ulid.ULID, side order.Side, quantity float64) (engine.Response, error)
}

// EventPublisher is the subset of *Writer's surface Consumer needs.
type EventPublisher interface {
	PublishMatchEvent(ctx context.Context, event *MatchEventMessage) error
}

// Consumer drains order messages and turns each into a Command submitted
// to the same dispatcher any other producer uses, then republishes the
// resulting trades. It never holds book or balance state itself — it is
// just another producer per the "many producers, one consumer" model.
type Consumer struct {
	reader    MessageReader
	submitter OrderSubmitter
	publisher EventPublisher
	log       *logger.Logger
}

// NewConsumer builds a Consumer wired to the given reader, dispatcher
// client, and event publisher.
func NewConsumer(reader MessageReader, submitter OrderSubmitter, publisher EventPublisher, log *logger.Logger) *Consumer {
	return &Consumer{reader: reader, submitter: submitter, publisher: publisher, log: log}
}

// Run reads and applies order messages until ctx is cancelled, then
// returns nil. Reader failures are logged and reading continues; they
// never end the loop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		_, payload, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error(errorf(err, "Consumer.ReadMessage"))
			continue
		}
		c.apply(ctx, payload)
	}
}

func (c *Consumer) apply(ctx context.Context, payload *PlaceOrderMessage) {
	userID, err := ulid.Parse(payload.UserID)
	if err != nil {
		c.log.Error(errorf(err, "Consumer.ParseUserID"), logger.Field{Key: "userID", Value: payload.UserID})
		return
	}

	side := order.Sell
	if payload.Bid {
		side = order.Buy
	}

	var resp engine.Response
	if payload.Type == "market" {
		resp, err = c.submitter.PlaceMarket(ctx, userID, side, payload.Size)
	} else {
		resp, err = c.submitter.PlaceLimit(ctx, userID, side, payload.Price, payload.Size)
	}
	if err != nil {
		c.log.Error(errorf(err, "Consumer.Submit"))
		return
	}

	placed, ok := resp.(engine.OrderPlacedResponse)
	if !ok {
		if errResp, ok := resp.(engine.ErrorResponse); ok {
			c.log.Warn("order rejected", logger.Field{Key: "reason", Value: errResp.Message})
		}
		return
	}

	for _, t := range placed.Trades {
		event := &MatchEventMessage{
			TradeID:    t.ID.String(),
			MakerOrder: t.MakerOrder.String(),
			TakerOrder: t.TakerOrder.String(),
			MakerUser:  t.MakerUser.String(),
			TakerUser:  t.TakerUser.String(),
			TakerSide:  t.TakerSide.String(),
			Price:      t.Price,
			Quantity:   t.Quantity,
			Notional:   t.Notional,
		}
		if err := c.publisher.PublishMatchEvent(ctx, event); err != nil {
			c.log.Error(errorf(err, "Consumer.PublishMatchEvent"))
		}
	}
}
