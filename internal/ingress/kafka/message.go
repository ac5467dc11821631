// Package kafka is a demonstrative multi-producer ingress adapter: it
// turns PlaceOrderMessage payloads read off a topic into engine.Command
// submissions, and republishes each resulting trade as a MatchEventMessage.
// It is one concrete instance of the external-collaborator boundary the
// dispatcher exposes through engine.Command/Response — grounded on the
// teacher's internal/usecase/order-reader/consumer.go and
// internal/usecase/match-publisher/publisher.go.
package kafka

// PlaceOrderMessage is the wire payload consumed from the order topic,
// mirroring the teacher's PlaceOrderRequest/cmd/kafka-producer Order shape
// (OrderID/UserID/Type/Bid/Size/Price) but with UserID carrying a ULID
// string and Type distinguishing "limit"/"market".
type PlaceOrderMessage struct {
	UserID string  `json:"userID"`
	Type   string  `json:"type"`
	Bid    bool    `json:"bid"`
	Size   float64 `json:"size"`
	Price  float64 `json:"price"`
}

// MatchEventMessage is the wire payload published to the match topic for
// every trade produced by a submitted order, mirroring the teacher's
// MatchEventPayload.
type MatchEventMessage struct {
	TradeID    string  `json:"tradeID"`
	MakerOrder string  `json:"makerOrder"`
	TakerOrder string  `json:"takerOrder"`
	MakerUser  string  `json:"makerUser"`
	TakerUser  string  `json:"takerUser"`
	TakerSide  string  `json:"takerSide"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Notional   float64 `json:"notional"`
}
