package sentiment

import (
	"context"
	"fmt"

	"github.com/vennlabs/pulseboard/internal/models"
)

// Engine names accepted by NewScorer.
const (
	EnginePlaceholder = "placeholder"
	EngineVADER       = "vader"
	EngineTransformer = "transformer"
	EngineOpenAI      = "openai"
	EngineRemote      = "remote"
)

// Scorer turns a batch of texts into sentiment scores: exactly one score per
// input text, aligned by index, every field inside its documented range.
// Entries are scored independently of each other, so implementations are free
// to batch or parallelize internally.
type Scorer interface {
	Name() string
	ScoreBatch(ctx context.Context, texts []string) ([]models.Score, error)
}

// NewScorer builds the engine selected by name. An unknown name is refused so
// a typo in SENTIMENT_ENGINE fails at startup instead of silently scoring
// with the wrong backend. The empty name selects the placeholder.
func NewScorer(name string) (Scorer, error) {
	switch name {
	case "", EnginePlaceholder:
		return PlaceholderScorer{}, nil
	case EngineVADER:
		return NewVADERScorer(), nil
	case EngineTransformer:
		return NewTransformerScorer()
	case EngineOpenAI:
		return NewOpenAIScorer()
	case EngineRemote:
		return NewRemoteScorer()
	default:
		return nil, fmt.Errorf("unknown sentiment engine %q", name)
	}
}

// PlaceholderScorer is the dashboard's documented stand-in: every text scores
// neutral with mid-range confidence and KPI values. It never inspects the
// text and never fails.
type PlaceholderScorer struct{}

func (PlaceholderScorer) Name() string { return EnginePlaceholder }

func (PlaceholderScorer) ScoreBatch(_ context.Context, texts []string) ([]models.Score, error) {
	scores := make([]models.Score, len(texts))
	for i := range scores {
		scores[i] = models.Score{
			Polarity:      models.PolarityNeutral,
			PolarityScore: 0,
			Confidence:    0.5,
			KPIScores:     models.NeutralKPIScores(),
		}
	}
	return scores, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampKPI(k models.KPIScores) models.KPIScores {
	return models.KPIScores{
		Trust:       clamp(k.Trust, -1, 1),
		Optimism:    clamp(k.Optimism, -1, 1),
		Frustration: clamp(k.Frustration, -1, 1),
		Clarity:     clamp(k.Clarity, -1, 1),
		Access:      clamp(k.Access, -1, 1),
		Fairness:    clamp(k.Fairness, -1, 1),
	}
}
