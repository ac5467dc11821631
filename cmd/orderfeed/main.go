// cmd/orderfeed is a standalone load generator: it publishes randomized
// buy/sell limit and market orders onto the order topic any
// internal/ingress/kafka consumer drains, adapted from the teacher's
// cmd/kafka-producer/main.go.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	ingresskafka "github.com/raunit-dev/OrderBook/internal/ingress/kafka"
	"github.com/segmentio/kafka-go"
)

func randomULID() string {
	return ulid.Make().String()
}

func generateOrder(basePrice, priceSpread float64) ingresskafka.PlaceOrderMessage {
	orderType := "limit"
	if rand.Float64() < 0.3 {
		orderType = "market"
	}
	isBid := rand.Float64() < 0.5

	size := 0.01 + rand.Float64()*9.99
	size = float64(int(size*1000)) / 1000

	var price float64
	switch {
	case orderType == "market":
		price = 0
	case isBid:
		price = basePrice - rand.Float64()*priceSpread*0.8
	default:
		price = basePrice + rand.Float64()*priceSpread*0.8
	}
	price = float64(int(price*100)) / 100
	if orderType == "limit" && price <= 0 {
		price = basePrice
	}

	return ingresskafka.PlaceOrderMessage{
		UserID: randomULID(),
		Type:   orderType,
		Bid:    isBid,
		Size:   size,
		Price:  price,
	}
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker address")
		topic       = flag.String("topic", "orders", "Kafka order topic")
		delay       = flag.Duration("delay", 100*time.Millisecond, "delay between sent orders")
		count       = flag.Int("count", 1000, "number of orders to generate")
		basePrice   = flag.Float64("base-price", 50000.0, "base BTC/USD price for generated orders")
		priceSpread = flag.Float64("price-spread", 2000.0, "price spread range around base-price")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(*brokers),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()
	log.Printf("sending %d orders to %s/%s", *count, *brokers, *topic)

	for i := 0; i < *count; i++ {
		o := generateOrder(*basePrice, *priceSpread)
		body, err := json.Marshal(o)
		if err != nil {
			log.Printf("failed to marshal order %d: %v", i+1, err)
			continue
		}
		if err := writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
			log.Printf("failed to send order %d: %v", i+1, err)
			continue
		}
		if (i+1)%100 == 0 {
			log.Printf("sent %d/%d orders", i+1, *count)
		}
		time.Sleep(*delay)
	}

	log.Printf("done sending %d orders", *count)
}
