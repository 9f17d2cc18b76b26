package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

// Producer publishes domain events keyed by user id so each user's events
// stay ordered within a partition.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, logger: logger}
}

func (p *Producer) Publish(ctx context.Context, event models.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.UserID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return err
	}

	p.logger.Debug("event published",
		zap.String("event", event.Event),
		zap.String("user_id", event.UserID.String()))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
