package sentiment

import (
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
	"github.com/stretchr/testify/assert"

	"github.com/vennlabs/pulseboard/internal/models"
)

func TestScoreFromCandidates(t *testing.T) {
	t.Run("positive label signs the score positive", func(t *testing.T) {
		score := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "POSITIVE", Score: 0.93},
		})

		assert.Equal(t, models.PolarityPositive, score.Polarity)
		assert.InDelta(t, 0.93, score.PolarityScore, 1e-6)
		assert.InDelta(t, 0.93, score.Confidence, 1e-6)
	})

	t.Run("negative label signs the score negative", func(t *testing.T) {
		score := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "NEGATIVE", Score: 0.88},
		})

		assert.Equal(t, models.PolarityNegative, score.Polarity)
		assert.InDelta(t, -0.88, score.PolarityScore, 1e-6)
		assert.InDelta(t, 0.88, score.Confidence, 1e-6)
	})

	t.Run("binary checkpoint labels map to polarities", func(t *testing.T) {
		positive := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "LABEL_1", Score: 0.7},
		})
		negative := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "LABEL_0", Score: 0.7},
		})

		assert.Equal(t, models.PolarityPositive, positive.Polarity)
		assert.Equal(t, models.PolarityNegative, negative.Polarity)
	})

	t.Run("label casing does not matter", func(t *testing.T) {
		score := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "positive", Score: 0.6},
		})

		assert.Equal(t, models.PolarityPositive, score.Polarity)
	})

	t.Run("unrecognized label stays neutral with zero score", func(t *testing.T) {
		score := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "NEUTRAL", Score: 0.7},
		})

		assert.Equal(t, models.PolarityNeutral, score.Polarity)
		assert.Equal(t, 0.0, score.PolarityScore)
		assert.InDelta(t, 0.7, score.Confidence, 1e-6)
	})

	t.Run("no candidates falls back to the stand-in values", func(t *testing.T) {
		score := scoreFromCandidates(nil)

		assert.Equal(t, models.PolarityNeutral, score.Polarity)
		assert.Equal(t, 0.0, score.PolarityScore)
		assert.Equal(t, 0.5, score.Confidence)
		assert.Equal(t, models.NeutralKPIScores(), score.KPIScores)
	})

	t.Run("confidence is clamped into range", func(t *testing.T) {
		score := scoreFromCandidates([]pipelines.ClassificationOutput{
			{Label: "POSITIVE", Score: 1.7},
		})

		assert.Equal(t, 1.0, score.Confidence)
		assert.Equal(t, 1.0, score.PolarityScore)
	})

	t.Run("every mapping keeps fields within documented ranges", func(t *testing.T) {
		candidates := [][]pipelines.ClassificationOutput{
			{{Label: "POSITIVE", Score: 0.99}},
			{{Label: "NEGATIVE", Score: 0.99}},
			{{Label: "NEUTRAL", Score: 0.4}},
			nil,
		}

		for _, c := range candidates {
			score := scoreFromCandidates(c)
			assert.GreaterOrEqual(t, score.PolarityScore, -1.0)
			assert.LessOrEqual(t, score.PolarityScore, 1.0)
			assert.GreaterOrEqual(t, score.Confidence, 0.0)
			assert.LessOrEqual(t, score.Confidence, 1.0)
			assert.Equal(t, models.NeutralKPIScores(), score.KPIScores)
		}
	})
}
