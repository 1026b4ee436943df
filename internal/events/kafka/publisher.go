package kafka

import (
	"context"
	"encoding/json"

	"github.com/pumpledger/pump_ledger_app/internal/events"
	"github.com/segmentio/kafka-go"
)

// Publisher writes voucher lifecycle events to a Kafka topic as JSON messages
// keyed by pump ID, so events for one pump stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

var _ events.Publisher = (*Publisher)(nil)

// Publish marshals the event and writes it to the configured topic.
func (p *Publisher) Publish(ctx context.Context, event events.VoucherEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.PumpID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
