package sentiment

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vennlabs/pulseboard/internal/clients"
	"github.com/vennlabs/pulseboard/internal/models"
)

// RemoteScorer delegates scoring to a standalone service, typically a Python
// model server deployed next to the dashboard. The wire contract is
// positional: response scores line up with request texts.
type RemoteScorer struct{}

func NewRemoteScorer() (*RemoteScorer, error) {
	if os.Getenv("SCORING_SERVICE_URL") == "" {
		return nil, errors.New("[RemoteScorer] SCORING_SERVICE_URL is required for the remote engine")
	}
	return &RemoteScorer{}, nil
}

func (s *RemoteScorer) Name() string { return EngineRemote }

func (s *RemoteScorer) ScoreBatch(ctx context.Context, texts []string) ([]models.Score, error) {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		cleaned[i] = ConvertMarkdownToText(text)
	}

	resp, err := clients.GetScoringClient().GetBatchedScores(models.ScoreBatchRequest{Texts: cleaned})
	if err != nil {
		return nil, fmt.Errorf("[RemoteScorer] scoring service request failed: %w", err)
	}
	if len(resp.Scores) != len(texts) {
		return nil, fmt.Errorf("[RemoteScorer] scoring service returned %d scores for %d texts",
			len(resp.Scores), len(texts))
	}

	scores := make([]models.Score, len(texts))
	for i, score := range resp.Scores {
		scores[i] = sanitizeScore(score)
	}
	return scores, nil
}

// Healthy reports the result of a single probe against the scoring service.
func (s *RemoteScorer) Healthy() bool {
	return clients.GetScoringClient().HealthCheck()
}
