package utils

import (
	"github.com/vennlabs/pulseboard/internal/models"
)

// BatchToArchivedResults flattens an analysis batch into one archive row per
// result. Seq preserves the position inside the batch so rows can be
// re-assembled in input order.
func BatchToArchivedResults(batch models.AnalysisBatch) []models.ArchivedResult {
	rows := make([]models.ArchivedResult, 0, len(batch.Results))
	for i, result := range batch.Results {
		rows = append(rows, models.ArchivedResult{
			SentimentResult: result,
			BatchID:         batch.BatchID,
			Seq:             i,
			Engine:          batch.Engine,
			AnalyzedAt:      batch.CreatedAt,
		})
	}
	return rows
}
