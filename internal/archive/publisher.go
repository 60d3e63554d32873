package archive

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vennlabs/pulseboard/internal/clients/kafka_client"
	"github.com/vennlabs/pulseboard/internal/models"
)

// Publisher ships scored batches to the archive topic. Publishing happens
// off the request path: an archive outage must never fail an analysis
// response.
type Publisher struct {
	topic string
}

func NewPublisher() *Publisher {
	return &Publisher{topic: kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS}
}

// Publish assigns the batch an ID and hands it to Kafka on a separate
// goroutine, returning the batch ID immediately.
func (p *Publisher) Publish(engine string, results []models.SentimentResult) string {
	batch := models.AnalysisBatch{
		BatchID:   uuid.NewString(),
		Engine:    engine,
		CreatedAt: time.Now().UTC(),
		Results:   results,
	}

	go func() {
		if err := kafka_client.PublishAnalysisBatch(p.topic, batch); err != nil {
			slog.Error("[Archive] Failed to publish analysis batch",
				slog.String("batch_id", batch.BatchID),
				slog.String("error", err.Error()))
		}
	}()

	return batch.BatchID
}
