package kafka_client

import (
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/vennlabs/pulseboard/internal/models"
	"github.com/vennlabs/pulseboard/internal/utils"
)

var producer *kafka.Producer

// InitKafkaProducer configures an idempotent producer. Duplicate suppression
// on the archive side keys off the batch ID, so transactions are not needed
// here.
func InitKafkaProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseKafkaProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishAnalysisBatch sends a scored batch to Kafka, keyed by batch ID so
// redeliveries of the same batch land on the same partition.
func PublishAnalysisBatch(topic string, batch models.AnalysisBatch) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] Kafka producer has not been initialized")
	}

	jsonData, err := utils.SerializeToJSON(batch)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to serialize batch %s: %w", batch.BatchID, err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(batch.BatchID),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		err = producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("batch_id", batch.BatchID))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce batch %s after retries: %w", batch.BatchID, err)
	}

	slog.Info("[KafkaClient] Published analysis batch to Kafka",
		slog.String("topic", topic),
		slog.String("batch_id", batch.BatchID),
		slog.Int("result_count", len(batch.Results)))

	return nil
}
