package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/vennlabs/pulseboard/internal/clients"
	"github.com/vennlabs/pulseboard/internal/clients/kafka_client"
	"github.com/vennlabs/pulseboard/internal/db"
	"github.com/vennlabs/pulseboard/internal/models"
	"github.com/vennlabs/pulseboard/internal/utils"
)

var archiveBuffer = utils.NewBatchBuffer[models.ArchivedResult]()

// StartArchiveConsumer drains scored batches off the archive topic into
// DynamoDB. Offsets are committed only after rows are durably written, and a
// Valkey dedupe set guards against redelivered batches being archived twice.
// Reads are bounded, so a sub-batch tail still flushes on the ticker and a
// cancelled context ends the loop promptly.
func StartArchiveConsumer(ctx context.Context, consumer *kafka.Consumer) {
	stream := kafka_client.NewMessageStream(ctx, consumer)

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushArchiveBuffer(ctx, stream)
		default:
			msg, err := stream.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}
			if msg == nil {
				// Idle poll; loop back so the ticker and context get a turn.
				continue
			}

			var batch models.AnalysisBatch
			if err := utils.DeserializeFromJSON(msg.Value, &batch); err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			if clients.GetValkeyClient().IsBatchProcessed(ctx, batch.BatchID) {
				slog.Info("[ArchiveConsumer] Skipping already processed batch",
					slog.String("batch_id", batch.BatchID))
				if err := stream.Commit(msg); err != nil {
					slog.Warn("[ArchiveConsumer] Failed to commit skipped batch",
						slog.String("error", err.Error()))
				}
				continue
			}

			utils.TrackMessage(batch.BatchID, msg)
			for _, row := range utils.BatchToArchivedResults(batch) {
				archiveBuffer.Add(row)
			}

			if archiveBuffer.Size() >= utils.BATCH_SIZE {
				flushArchiveBuffer(ctx, stream)
			}
		}
	}
}

// flushArchiveBuffer writes buffered rows and then settles each contributing
// batch: mark it processed, commit its offset. On a failed write nothing is
// committed, so Kafka redelivers the batches after a restart.
func flushArchiveBuffer(ctx context.Context, stream *kafka_client.MessageStream) {
	batch := archiveBuffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	var insertErr error
	for i := 0; i < 3; i++ {
		insertErr = db.BatchInsertArchivedResults(ctx, batch)
		if insertErr == nil {
			break
		}
		slog.Error("[ArchiveConsumer] Failed to write archive rows to DB",
			slog.String("error", insertErr.Error()),
			slog.Int("attempt", i+1))
	}
	if insertErr != nil {
		slog.Error("[ArchiveConsumer] Dropping commit so batches are redelivered",
			slog.Int("row_count", len(batch)))
		return
	}

	vc := clients.GetValkeyClient()
	settled := make(map[string]bool)
	for _, row := range batch {
		if settled[row.BatchID] {
			continue
		}
		settled[row.BatchID] = true

		if err := vc.MarkBatchProcessed(ctx, row.BatchID); err != nil {
			slog.Warn("[ArchiveConsumer] Failed to mark batch processed",
				slog.String("batch_id", row.BatchID),
				slog.String("error", err.Error()))
		}

		msg, found := utils.GetMessageForBatch(row.BatchID)
		if found {
			if err := stream.Commit(msg); err != nil {
				slog.Warn("[ArchiveConsumer] Failed to commit offset",
					slog.String("error", err.Error()))
			}
		}
	}
}
