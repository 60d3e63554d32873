package models

import "time"

// AnalysisBatch is the envelope the API server publishes to Kafka after every
// successful analysis. Archiving is fire-and-forget; the HTTP response never
// waits on it.
type AnalysisBatch struct {
	BatchID   string            `json:"batchId"`
	Engine    string            `json:"engine"`
	CreatedAt time.Time         `json:"createdAt"`
	Results   []SentimentResult `json:"results"`
}

// ArchivedResult is one DynamoDB row: a SentimentResult plus the batch
// context it arrived in.
type ArchivedResult struct {
	SentimentResult
	BatchID    string    `json:"batchId"`
	Seq        int       `json:"seq"`
	Engine     string    `json:"engine"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}
