package kafka

import (
	"context"
	"encoding/json"

	"github.com/raunit-dev/OrderBook/pkg/config"
	"github.com/raunit-dev/OrderBook/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Writer publishes MatchEventMessage payloads to the match topic,
// grounded on the teacher's matchpublisher.Publisher.
type Writer struct {
	kafkaWriter *kafka.Writer
	log         *logger.Logger
}

// NewWriter builds a Writer bound to cfg's match topic.
func NewWriter(cfg config.KafkaConfig, log *logger.Logger) *Writer {
	return &Writer{
		kafkaWriter: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.MatchTopic,
			Balancer: &kafka.LeastBytes{},
		},
		log: log,
	}
}

// PublishMatchEvent writes event as a single Kafka message.
func (w *Writer) PublishMatchEvent(ctx context.Context, event *MatchEventMessage) error {
	body, err := json.Marshal(event)
	if err != nil {
		w.log.Error(errorf(err, "MarshalMatchEvent"))
		return err
	}

	if err := w.kafkaWriter.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		w.log.Error(errorf(err, "WriteMatchEvent"), logger.Field{Key: "tradeID", Value: event.TradeID})
		return err
	}
	return nil
}

// Close releases the underlying Kafka connection.
func (w *Writer) Close() error {
	return w.kafkaWriter.Close()
}
