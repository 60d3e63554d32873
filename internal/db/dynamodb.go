package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/vennlabs/pulseboard/internal/clients"
	"github.com/vennlabs/pulseboard/internal/models"
)

const (
	ANALYSIS_RESULTS_TABLE_NAME = "AnalysisResults"
	PROJECTS_TABLE_NAME         = "Projects"

	// ARCHIVE_TTL keeps archived results queryable for a month of dashboard
	// history before DynamoDB expires them.
	ARCHIVE_TTL = 30 * 24 * time.Hour
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchInsertArchivedResults writes archive rows in chunks of 25, the
// BatchWriteItem ceiling, retrying unprocessed items with backoff.
func BatchInsertArchivedResults(ctx context.Context, rows []models.ArchivedResult) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	const maxBatchSize = 25
	for i := 0; i < len(rows); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
			end := i + maxBatchSize
			if end > len(rows) {
				end = len(rows)
			}

			writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
			for _, row := range rows[i:end] {
				writeRequests = append(writeRequests, types.WriteRequest{
					PutRequest: &types.PutRequest{
						Item: ResultToDynamoDBItem(row),
					},
				})
			}

			out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					ANALYSIS_RESULTS_TABLE_NAME: writeRequests,
				},
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to batch write archived results: %w", err)
			}

			retryCount := 0
			backoff := 500 * time.Millisecond
			for len(out.UnprocessedItems) > 0 && retryCount < 3 {
				time.Sleep(backoff)
				backoff *= 2

				slog.Warn("[DynamoDB] Retrying unprocessed archive items...",
					slog.Int("attempt", retryCount+1),
					slog.Int("remaining", len(out.UnprocessedItems[ANALYSIS_RESULTS_TABLE_NAME])))

				out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: out.UnprocessedItems,
				})
				if err != nil {
					return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
				}
				retryCount++
			}

			if len(out.UnprocessedItems) > 0 {
				slog.Error("[DynamoDB] Some archive items were not written even after retries",
					slog.Int("remaining", len(out.UnprocessedItems[ANALYSIS_RESULTS_TABLE_NAME])))
			}
		}
	}

	slog.Info("[DynamoDB] Successfully stored archived results",
		slog.Int("count", len(rows)))
	return nil
}

// ResultID is stable across redeliveries, so a rewritten row overwrites
// itself instead of duplicating.
func ResultID(batchID string, seq int) string {
	return fmt.Sprintf("%s#%05d", batchID, seq)
}

func ResultToDynamoDBItem(row models.ArchivedResult) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)

	item["result_id"] = &types.AttributeValueMemberS{Value: ResultID(row.BatchID, row.Seq)}
	item["batch_id"] = &types.AttributeValueMemberS{Value: row.BatchID}
	item["seq"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", row.Seq)}
	item["engine"] = &types.AttributeValueMemberS{Value: row.Engine}
	item["node_id"] = &types.AttributeValueMemberS{Value: row.NodeID}
	item["node_name"] = &types.AttributeValueMemberS{Value: row.NodeName}
	item["polarity"] = &types.AttributeValueMemberS{Value: row.Polarity}
	item["polarity_score"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.PolarityScore)}
	item["confidence"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.Confidence)}

	item["kpi_scores"] = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		"trust":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.KPIScores.Trust)},
		"optimism":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.KPIScores.Optimism)},
		"frustration": &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.KPIScores.Frustration)},
		"clarity":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.KPIScores.Clarity)},
		"access":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.KPIScores.Access)},
		"fairness":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", row.KPIScores.Fairness)},
	}}

	if row.Text != "" {
		item["text"] = &types.AttributeValueMemberS{Value: row.Text}
	}

	now := time.Now()
	item["analyzed_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", row.AnalyzedAt.Unix())}
	item["created_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())}
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Add(ARCHIVE_TTL).Unix())}

	return item
}
