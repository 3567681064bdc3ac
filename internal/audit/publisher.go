package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Publisher mirrors audit entries onto a Kafka topic so dashboard services
// can follow ingestion activity without polling the audit table.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// Publish sends a single entry keyed by owning user, so per-user outcomes
// stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, entry Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(entry.UID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "status", Value: []byte(entry.Status)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		publishFailedCounter.Inc()
		return err
	}
	publishedCounter.Inc()
	return nil
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
