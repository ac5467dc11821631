package kafka

import (
	"context"
	"encoding/json"

	"github.com/raunit-dev/OrderBook/pkg/config"
	"github.com/raunit-dev/OrderBook/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader consumes PlaceOrderMessage payloads from the order topic,
// grounded on the teacher's orderreader.Reader.
type Reader struct {
	kafkaReader *kafka.Reader
	log         *logger.Logger
}

// NewReader builds a Reader bound to cfg's order topic and group.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	return &Reader{
		kafkaReader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.OrderTopic,
			GroupID:     cfg.GroupID,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafka.LastOffset,
		}),
		log: log,
	}
}

// ReadMessage blocks for the next order message, decoding it into a
// PlaceOrderMessage. The raw kafka.Message is returned alongside the
// decoded payload; with a GroupID set, kafka-go commits its offset as part
// of the read.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *PlaceOrderMessage, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.log.Error(errorf(err, "ReadMessage"))
		return kafka.Message{}, nil, err
	}

	var payload PlaceOrderMessage
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		r.log.Error(errorf(err, "UnmarshalOrder"))
		return kafka.Message{}, nil, err
	}

	r.log.Info("ReadMessage",
		logger.Field{Key: "userID", Value: payload.UserID},
		logger.Field{Key: "type", Value: payload.Type},
		logger.Field{Key: "bid", Value: payload.Bid},
		logger.Field{Key: "size", Value: payload.Size},
		logger.Field{Key: "price", Value: payload.Price},
	)

	return msg, &payload, nil
}

// Close releases the underlying Kafka connection.
func (r *Reader) Close() error {
	return r.kafkaReader.Close()
}
