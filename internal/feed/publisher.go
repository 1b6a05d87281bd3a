// Package feed publishes saved transactions to Kafka for downstream
// consumers. Publishing is best effort and never blocks a scrape run.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jalshrestha/capitolwatch/internal/model"
)

const writeTimeout = 5 * time.Second

// Publisher emits a saved transaction to the trade feed.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka-backed publisher for the given broker and
// topic.
func NewPublisher(broker, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Publish writes one transaction as a JSON message keyed by ticker.
func (p *Publisher) Publish(ctx context.Context, tx *model.Transaction) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return p.writer.WriteMessages(wctx, kafka.Message{
		Key:   []byte(tx.Ticker),
		Value: payload,
	})
}

// Close flushes and shuts down the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
