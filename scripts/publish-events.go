//go:build ignore

// publish-events.go - pushes sample canonical events onto the events topic
//
// Usage:
//
//	go run scripts/publish-events.go -brokers localhost:9092 -topic canonical-events
//
// Publishes a Wormhole transfer, an Arbitrum deposit detected by its event signature,
// a plain transfer that is not a bridge, and one undecodable message that should land
// on the dead letter topic. Useful with a rule such as
//
//	bridge == "Wormhole" and chains_involved == 2
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
	"github.com/chainsafe/bridgewatch/pkg/event"
)

func main() {
	brokers := flag.String("brokers", "localhost:9092", "comma separated broker list")
	topic := flag.String("topic", "canonical-events", "events topic")
	flag.Parse()

	w := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:                  *topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	defer func() { _ = w.Close() }()

	now := time.Now().UTC()
	events := []*event.Event{
		{
			Chain:       "ethereum",
			TxHash:      "0xw0rmh01e",
			BlockNumber: 19000000,
			FromAddress: "0x1111111111111111111111111111111111111111",
			ToAddress:   bridge.WormholeTokenBridgeEthereum,
			Value:       "2500000000000000000",
			Timestamp:   now,
			Metadata:    event.Metadata{Recipient: "0x2222222222222222222222222222222222222222"},
		},
		{
			Chain:       "ethereum",
			TxHash:      "0xa4b1",
			BlockNumber: 19000001,
			FromAddress: "0x3333333333333333333333333333333333333333",
			ToAddress:   "0x4444444444444444444444444444444444444444",
			Value:       "0",
			Timestamp:   now,
			Metadata: event.Metadata{Logs: []event.Log{{
				Address: "0x4444444444444444444444444444444444444444",
				Topics:  []string{bridge.TopicHash("DepositInitiated(address,address,address,uint256,uint256)")},
			}}},
		},
		{
			Chain:       "base",
			TxHash:      "0xp1a1n",
			BlockNumber: 12000000,
			FromAddress: "0x5555555555555555555555555555555555555555",
			ToAddress:   "0x6666666666666666666666666666666666666666",
			Value:       "1000",
			Timestamp:   now,
		},
	}

	msgs := make([]kafka.Message, 0, len(events)+1)
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			log.Fatalf("marshal %s: %v", ev.TxHash, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(ev.TxHash), Value: value})
	}
	msgs = append(msgs, kafka.Message{Key: []byte("broken"), Value: []byte(`{"chain": `)})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := w.WriteMessages(ctx, msgs...); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published %d messages to %s", len(msgs), *topic)
}
