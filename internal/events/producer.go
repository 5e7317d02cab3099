package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is the outbound event port consumed by application
// services. Implementations must be safe for concurrent use.
type Publisher interface {
	// Publish sends an event to the topic, keyed for partition ordering.
	Publish(ctx context.Context, topic, eventType, key string, data interface{}) error
}

// KafkaPublisher publishes CloudEvents to Kafka.
type KafkaPublisher struct {
	writer *kafkago.Writer
	source string
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher writing to the given brokers.
func NewKafkaPublisher(brokers []string, source string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &KafkaPublisher{writer: writer, source: source, logger: logger}
}

// Publish wraps the payload in a CloudEvent and writes it to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, eventType, key string, data interface{}) error {
	ce, err := NewCloudEvent(p.source, eventType, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(ce)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. Used in tests and when the broker is
// not configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(context.Context, string, string, string, interface{}) error {
	return nil
}
