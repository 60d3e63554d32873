package sentiment

import (
	"context"

	"github.com/jonreiter/govader"

	"github.com/vennlabs/pulseboard/internal/models"
)

// Compound-score thresholds for the coarse polarity label.
const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

// VADERScorer scores with the VADER lexicon. Deterministic and fully local:
// the first step up from the placeholder when real polarity is wanted without
// model downloads or API keys. KPI dimensions stay at the stand-in values; a
// lexicon has no notion of the six dashboard dimensions.
type VADERScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERScorer() *VADERScorer {
	return &VADERScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VADERScorer) Name() string { return EngineVADER }

func (s *VADERScorer) ScoreBatch(_ context.Context, texts []string) ([]models.Score, error) {
	scores := make([]models.Score, len(texts))
	for i, text := range texts {
		sentiment := s.analyzer.PolarityScores(ConvertMarkdownToText(text))
		compound := clamp(sentiment.Compound, -1, 1)

		label := models.PolarityNeutral
		if compound >= positiveThreshold {
			label = models.PolarityPositive
		} else if compound <= negativeThreshold {
			label = models.PolarityNegative
		}

		scores[i] = models.Score{
			Polarity:      label,
			PolarityScore: compound,
			Confidence:    clamp(maxProportion(sentiment), 0, 1),
			KPIScores:     models.NeutralKPIScores(),
		}
	}
	return scores, nil
}

// maxProportion picks the largest of the positive/neutral/negative shares;
// VADER reports them as proportions summing to one, so the dominant share
// doubles as a confidence reading.
func maxProportion(s govader.Sentiment) float64 {
	m := s.Positive
	if s.Neutral > m {
		m = s.Neutral
	}
	if s.Negative > m {
		m = s.Negative
	}
	return m
}
