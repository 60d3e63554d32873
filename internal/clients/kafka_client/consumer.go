package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// NewConsumer creates a consumer subscribed to the configured topic. Offsets
// are committed manually, after a batch is durably archived.
func NewConsumer() (*kafka.Consumer, error) {
	cfg := GetKafkaConfig()

	slog.Info("[KafkaClient] Initializing Kafka Consumer...",
		slog.String("broker", cfg.Broker),
		slog.String("group_id", cfg.GroupID),
		slog.String("topic", cfg.Topic))

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.Topic}, nil); err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to subscribe to topic %s: %w", cfg.Topic, err)
	}

	slog.Info("[KafkaClient] Kafka Consumer initialized successfully")
	return c, nil
}

// RunConsumer creates the configured consumer and hands it to handler, which
// blocks until ctx ends. The consumer is closed on the way out.
func RunConsumer(ctx context.Context, handler func(context.Context, *kafka.Consumer)) error {
	consumer, err := NewConsumer()
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to start consumer: %w", err)
	}
	defer consumer.Close()

	cfg := GetKafkaConfig()
	slog.Info("[KafkaClient] Consumer running", slog.String("topic", cfg.Topic))
	handler(ctx, consumer)
	return nil
}
