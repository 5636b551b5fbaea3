package repository

import (
	"context"
	"fmt"

	"SignalHub/internal/domain/models"
	pkgkafka "SignalHub/pkg/kafka"
	applogger "SignalHub/pkg/logger"
)

// KafkaPublisher emits assembled signals onto the bus, keyed by ticker so
// per-ticker ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaPublisher) SetLogger(l *applogger.Logger) { p.l = l }

// Publish sends one signal to the configured topic.
func (p *KafkaPublisher) Publish(ctx context.Context, s *models.SignalResponse) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(s.Ticker), s); err != nil {
		if p.l != nil {
			p.l.Error("kafka publish error",
				applogger.String("topic", p.topic),
				applogger.String("ticker", s.Ticker),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish signal: %w", err)
	}
	if p.l != nil {
		p.l.Debug("signal published",
			applogger.String("topic", p.topic),
			applogger.String("ticker", s.Ticker),
		)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
