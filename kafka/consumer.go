package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

// EventHandler processes one consumed domain event. A returned error is
// logged; the consumer moves on rather than blocking the partition.
type EventHandler func(ctx context.Context, event models.DomainEvent) error

// Consumer reads domain events and feeds them to a handler. It runs until
// the context is cancelled.
type Consumer struct {
	reader  *kafka.Reader
	handler EventHandler
	logger  *zap.Logger
}

func NewConsumer(brokers []string, topic, groupID string, handler EventHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, handler: handler, logger: logger}
}

func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("event consumer started", zap.String("topic", c.reader.Config().Topic))
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("failed to read message", zap.Error(err))
			continue
		}

		var event models.DomainEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.logger.Warn("skipping malformed event",
				zap.Int64("offset", message.Offset), zap.Error(err))
			continue
		}

		if err := c.handler(ctx, event); err != nil {
			c.logger.Error("event handler failed",
				zap.String("event", event.Event), zap.Error(err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
