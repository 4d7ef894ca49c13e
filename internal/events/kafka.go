package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/config"
)

// KafkaDispatcher publishes events to a Kafka topic for out-of-process
// observers. Messages are keyed by ticket id so outcomes for one ticket
// stay ordered within a partition.
type KafkaDispatcher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaDispatcher creates the dispatcher.
func NewKafkaDispatcher(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaDispatcher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaDispatcher{writer: writer, logger: logger}, nil
}

// Publish writes the event as JSON.
func (d *KafkaDispatcher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.TicketID)),
		Value: value,
	})
}

// Subscribe is a no-op: Kafka consumers live in other processes.
func (d *KafkaDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.logger.Debug("in-process subscription ignored for kafka dispatcher",
		zap.String("event_type", string(eventType)))
}

// Close releases the underlying writer.
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
