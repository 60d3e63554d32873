package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vennlabs/pulseboard/internal/models"
	"github.com/vennlabs/pulseboard/internal/sentiment"
)

func testNodes() []models.Node {
	return []models.Node{
		{ID: "general", Name: "General", Keywords: []string{}},
		{ID: "orders", Name: "Orders", Keywords: []string{"refund", "shipping"}},
		{ID: "support", Name: "Support", Keywords: []string{"agent", "wait time"}},
	}
}

func TestClassify_OneResultPerTextInOrder(t *testing.T) {
	c := New(sentiment.PlaceholderScorer{})
	texts := []string{
		"the refund took two weeks",
		"lovely experience overall",
		"the agent was very helpful",
	}

	results, err := c.Classify(context.Background(), texts, testNodes())
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	for i, r := range results {
		assert.Equal(t, texts[i], r.Text, "result %d should keep input order", i)
	}
}

func TestClassify_PlaceholderScoring(t *testing.T) {
	c := New(sentiment.PlaceholderScorer{})

	results, err := c.Classify(context.Background(), []string{"anything at all"}, testNodes())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.PolarityNeutral, r.Polarity)
	assert.Equal(t, 0.0, r.PolarityScore)
	assert.Equal(t, 0.5, r.Confidence)
	assert.Equal(t, models.KPIScores{
		Trust:       0.5,
		Optimism:    0.5,
		Frustration: 0.5,
		Clarity:     0.5,
		Access:      0.5,
		Fairness:    0.5,
	}, r.KPIScores)
}

func TestClassify_KeywordRouting(t *testing.T) {
	c := New(sentiment.PlaceholderScorer{})
	nodes := testNodes()

	t.Run("routes text to the node owning its keyword", func(t *testing.T) {
		results, err := c.Classify(context.Background(), []string{"still waiting on my refund"}, nodes)
		require.NoError(t, err)
		assert.Equal(t, "orders", results[0].NodeID)
		assert.Equal(t, "Orders", results[0].NodeName)
	})

	t.Run("keyword match is case insensitive", func(t *testing.T) {
		results, err := c.Classify(context.Background(), []string{"REFUND please"}, nodes)
		require.NoError(t, err)
		assert.Equal(t, "orders", results[0].NodeID)
	})

	t.Run("keyword may span multiple words", func(t *testing.T) {
		results, err := c.Classify(context.Background(), []string{"the Wait Time was absurd"}, nodes)
		require.NoError(t, err)
		assert.Equal(t, "support", results[0].NodeID)
	})

	t.Run("unmatched text falls back to the first node", func(t *testing.T) {
		results, err := c.Classify(context.Background(), []string{"nothing relevant here"}, nodes)
		require.NoError(t, err)
		assert.Equal(t, "general", results[0].NodeID)
	})

	t.Run("earlier node wins when several match", func(t *testing.T) {
		contested := []models.Node{
			{ID: "speed", Name: "Speed", Keywords: []string{"slow"}},
			{ID: "delivery", Name: "Delivery", Keywords: []string{"fast"}},
		}
		results, err := c.Classify(context.Background(), []string{"slow checkout but fast delivery"}, contested)
		require.NoError(t, err)
		assert.Equal(t, "speed", results[0].NodeID)
	})
}

func TestClassify_EmptyInputs(t *testing.T) {
	c := New(sentiment.PlaceholderScorer{})

	t.Run("rejects empty texts", func(t *testing.T) {
		results, err := c.Classify(context.Background(), nil, testNodes())
		assert.ErrorIs(t, err, ErrNoTexts)
		assert.Nil(t, results)
	})

	t.Run("rejects empty nodes", func(t *testing.T) {
		results, err := c.Classify(context.Background(), []string{"some text"}, nil)
		assert.ErrorIs(t, err, ErrNoNodes)
		assert.Nil(t, results)
	})
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(sentiment.PlaceholderScorer{})
	texts := []string{"refund went through", "talked to an agent", "all good"}

	first, err := c.Classify(context.Background(), texts, testNodes())
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), texts, testNodes())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
