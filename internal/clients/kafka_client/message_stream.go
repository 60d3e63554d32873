package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// messageSource is the slice of the consumer API the stream drives.
// *kafka.Consumer satisfies it.
type messageSource interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error)
}

// MessageStream reads and commits archive batches on a single consumer. Every
// poll is bounded by READ_TIMEOUT, so a connected-but-idle topic returns
// control to the caller instead of parking the goroutine inside librdkafka;
// that keeps flush tickers firing and lets a cancelled context end the loop.
type MessageStream struct {
	source messageSource
	ctx    context.Context
}

func NewMessageStream(ctx context.Context, consumer *kafka.Consumer) *MessageStream {
	return &MessageStream{
		source: consumer,
		ctx:    ctx,
	}
}

// Next returns the next message, or (nil, nil) when the topic stayed idle for
// READ_TIMEOUT. Transient read errors are retried; all brokers down aborts.
func (ms *MessageStream) Next() (*kafka.Message, error) {
	if ms.source == nil {
		return nil, errors.New("[MessageStream] Kafka consumer has not been initialized")
	}

	for i := 0; i < MAX_RETRIES; i++ {
		if err := ms.ctx.Err(); err != nil {
			slog.Warn("[MessageStream] Context cancelled, stopping reads")
			return nil, err
		}

		msg, err := ms.source.ReadMessage(READ_TIMEOUT)
		if err == nil {
			return msg, nil
		}
		if isPollTimeout(err) {
			return nil, nil
		}
		if isBrokersDown(err) {
			slog.Error("[MessageStream] All Kafka brokers are down. Aborting")
			return nil, err
		}

		slog.Warn("[MessageStream] Failed to read message, retrying...",
			slog.Int("attempt", i+1),
			slog.Int("max_retries", MAX_RETRIES),
			slog.String("error", err.Error()))

		if !ms.sleep(RETRY_DELAY) {
			return nil, ms.ctx.Err()
		}
	}
	return nil, fmt.Errorf("[MessageStream] failed to read message after %d attempts", MAX_RETRIES)
}

// Commit commits the message's offset, retrying transient failures.
func (ms *MessageStream) Commit(msg *kafka.Message) error {
	if ms.source == nil {
		return errors.New("[MessageStream] Kafka consumer has not been initialized")
	}

	var lastErr error
	for i := 0; i < MAX_RETRIES; i++ {
		if err := ms.ctx.Err(); err != nil {
			slog.Warn("[MessageStream] Context cancelled, stopping commit")
			return err
		}

		_, err := ms.source.CommitMessage(msg)
		if err == nil {
			slog.Info("[MessageStream] Committed offset",
				slog.Int("partition", int(msg.TopicPartition.Partition)),
				slog.Int64("offset", int64(msg.TopicPartition.Offset)))
			return nil
		}
		if isBrokersDown(err) {
			slog.Error("[MessageStream] All Kafka brokers are down. Aborting commit")
			return err
		}

		lastErr = err
		slog.Warn("[MessageStream] Failed to commit offset, retrying...",
			slog.Int("attempt", i+1),
			slog.Int("partition", int(msg.TopicPartition.Partition)),
			slog.Int64("offset", int64(msg.TopicPartition.Offset)),
			slog.String("error", err.Error()))

		if !ms.sleep(RETRY_DELAY) {
			return ms.ctx.Err()
		}
	}
	return fmt.Errorf("[MessageStream] failed to commit after %d attempts: %w", MAX_RETRIES, lastErr)
}

// sleep waits out d unless the context ends first.
func (ms *MessageStream) sleep(d time.Duration) bool {
	select {
	case <-ms.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func isPollTimeout(err error) bool {
	kafkaErr, ok := err.(kafka.Error)
	return ok && kafkaErr.Code() == kafka.ErrTimedOut
}

func isBrokersDown(err error) bool {
	kafkaErr, ok := err.(kafka.Error)
	return ok && kafkaErr.Code() == kafka.ErrAllBrokersDown
}
