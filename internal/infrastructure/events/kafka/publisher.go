package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"teller/internal/domain/ledger"
)

// Publisher delivers TransactionCompleted events to a Kafka topic. Events
// are keyed by account name so per-account ordering survives partitioning.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka-backed event publisher
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

var _ ledger.Publisher = (*Publisher)(nil)

// Publish sends one committed-transaction event
func (p *Publisher) Publish(ctx context.Context, event ledger.TransactionCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transaction event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountName),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
