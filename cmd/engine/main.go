// cmd/engine is the matching engine process: it wires configuration,
// logging, the dispatcher, and the optional Kafka ingress adapter, then
// blocks until a shutdown signal arrives. Grounded on the teacher's
// services/matching-service/cmd/main.go init/main split, minus the Redis
// snapshot store the teacher wires there — restart-durability is out of
// scope here (see DESIGN.md).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/raunit-dev/OrderBook/internal/engine"
	ingresskafka "github.com/raunit-dev/OrderBook/internal/ingress/kafka"
	"github.com/raunit-dev/OrderBook/pkg/config"
	"github.com/raunit-dev/OrderBook/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

func init() {
	// Ignored: a missing .env is the common case outside local dev.
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		panic(err)
	}
	cfg = loaded

	built, err := logger.New(logger.WithLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = built
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	eng := engine.New(cfg, log)
	go eng.Run(ctx)

	var kafkaReader *ingresskafka.Reader
	var kafkaWriter *ingresskafka.Writer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaReader = ingresskafka.NewReader(cfg.Kafka, log)
		kafkaWriter = ingresskafka.NewWriter(cfg.Kafka, log)
		consumer := ingresskafka.NewConsumer(kafkaReader, eng, kafkaWriter, log)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Error(err)
			}
		}()
		log.Info("kafka ingress started",
			logger.Field{Key: "orderTopic", Value: cfg.Kafka.OrderTopic},
			logger.Field{Key: "matchTopic", Value: cfg.Kafka.MatchTopic},
		)
	}

	log.Info("matching engine started", logger.Field{Key: "pair", Value: cfg.Pair})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	cancel()

	select {
	case <-eng.Done():
	case <-time.After(30 * time.Second):
		log.Warn("dispatcher did not stop within shutdown timeout")
	}

	if kafkaReader != nil {
		if err := kafkaReader.Close(); err != nil {
			log.Error(err)
		}
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Error(err)
		}
	}

	log.Info("matching engine shutdown complete")
}
