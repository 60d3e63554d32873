package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vennlabs/pulseboard/internal/models"
)

func TestVADERScorer(t *testing.T) {
	s := NewVADERScorer()
	require.Equal(t, EngineVADER, s.Name())

	texts := []string{
		"I love this, it works great!",
		"This is terrible and I hate it.",
		"The meeting is at noon.",
	}

	scores, err := s.ScoreBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, scores, len(texts))

	t.Run("labels clearly positive text", func(t *testing.T) {
		assert.Equal(t, models.PolarityPositive, scores[0].Polarity)
		assert.Greater(t, scores[0].PolarityScore, positiveThreshold)
	})

	t.Run("labels clearly negative text", func(t *testing.T) {
		assert.Equal(t, models.PolarityNegative, scores[1].Polarity)
		assert.Less(t, scores[1].PolarityScore, negativeThreshold)
	})

	t.Run("labels flat text neutral", func(t *testing.T) {
		assert.Equal(t, models.PolarityNeutral, scores[2].Polarity)
	})

	t.Run("scores stay inside documented ranges", func(t *testing.T) {
		for i, score := range scores {
			assert.GreaterOrEqual(t, score.PolarityScore, -1.0, "text %d", i)
			assert.LessOrEqual(t, score.PolarityScore, 1.0, "text %d", i)
			assert.GreaterOrEqual(t, score.Confidence, 0.0, "text %d", i)
			assert.LessOrEqual(t, score.Confidence, 1.0, "text %d", i)
		}
	})

	t.Run("lexicon engines leave kpi dimensions neutral", func(t *testing.T) {
		for i, score := range scores {
			assert.Equal(t, models.NeutralKPIScores(), score.KPIScores, "text %d", i)
		}
	})
}

func TestVADERScorer_MarkdownInput(t *testing.T) {
	s := NewVADERScorer()

	scores, err := s.ScoreBatch(context.Background(), []string{
		"**Absolutely fantastic** service, see https://example.com/review",
	})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, models.PolarityPositive, scores[0].Polarity)
}
