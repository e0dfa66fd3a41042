package kafka

import (
	"context"
	"encoding/json"

	"checkout-service/services"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConfirmationProducer hands order confirmations off to the notification
// collaborator over Kafka.
type ConfirmationProducer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewConfirmationProducer(brokers []string, topic string, logger *zap.Logger) *ConfirmationProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Confirmation producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &ConfirmationProducer{writer: w, topic: topic, logger: logger}
}

// Publish sends one confirmation, keyed by order id so per-order messages
// stay ordered.
func (p *ConfirmationProducer) Publish(ctx context.Context, confirmation services.OrderConfirmation) error {
	data, err := json.Marshal(confirmation)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(confirmation.OrderID.String()),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order confirmation",
			zap.String("order_id", confirmation.OrderID.String()),
			zap.Error(err),
		)
		return err
	}
	p.logger.Info("Order confirmation published",
		zap.String("order_id", confirmation.OrderID.String()),
		zap.Int("amount", confirmation.Amount),
	)
	return nil
}

func (p *ConfirmationProducer) Close() error {
	return p.writer.Close()
}
