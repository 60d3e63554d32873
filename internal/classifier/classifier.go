package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vennlabs/pulseboard/internal/models"
	"github.com/vennlabs/pulseboard/internal/sentiment"
)

var (
	ErrNoTexts = errors.New("no texts provided for analysis")
	ErrNoNodes = errors.New("no nodes provided for analysis")
)

// Classifier assigns each incoming text to a dashboard node and attaches
// sentiment scores from the configured engine.
type Classifier struct {
	scorer sentiment.Scorer
}

func New(scorer sentiment.Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify produces exactly one result per input text, in input order.
// Both inputs must be non-empty; an empty batch is a caller bug, not a
// no-op.
func (c *Classifier) Classify(ctx context.Context, texts []string, nodes []models.Node) ([]models.SentimentResult, error) {
	if len(texts) == 0 {
		return nil, ErrNoTexts
	}
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}

	slog.Info("[Classifier] Starting batch analysis",
		slog.Int("text_count", len(texts)),
		slog.Int("node_count", len(nodes)),
		slog.String("engine", c.scorer.Name()))

	scores, err := c.scorer.ScoreBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("[Classifier] scoring failed: %w", err)
	}
	if len(scores) != len(texts) {
		return nil, fmt.Errorf("[Classifier] engine %s returned %d scores for %d texts",
			c.scorer.Name(), len(scores), len(texts))
	}

	results := make([]models.SentimentResult, len(texts))
	for i, text := range texts {
		node := matchNode(text, nodes)
		results[i] = models.SentimentResult{
			Text:          text,
			NodeID:        node.ID,
			NodeName:      node.Name,
			Polarity:      scores[i].Polarity,
			PolarityScore: scores[i].PolarityScore,
			KPIScores:     scores[i].KPIScores,
			Confidence:    scores[i].Confidence,
		}
	}

	slog.Info("[Classifier] Batch analysis complete",
		slog.Int("success_count", len(results)))

	return results, nil
}

// matchNode walks nodes in declaration order and returns the first whose
// keyword appears in the text, compared case-insensitively. Texts that match
// nothing land on the first node; it doubles as the catch-all bucket.
func matchNode(text string, nodes []models.Node) models.Node {
	lowered := strings.ToLower(text)
	for _, node := range nodes {
		for _, keyword := range node.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				return node
			}
		}
	}
	return nodes[0]
}
