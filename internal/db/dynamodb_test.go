package db

import (
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vennlabs/pulseboard/internal/models"
)

func sampleRow() models.ArchivedResult {
	return models.ArchivedResult{
		SentimentResult: models.SentimentResult{
			Text:          "the refund took forever",
			NodeID:        "orders",
			NodeName:      "Orders",
			Polarity:      models.PolarityNegative,
			PolarityScore: -0.62,
			KPIScores:     models.KPIScores{Trust: -0.3, Frustration: 0.8},
			Confidence:    0.91,
		},
		BatchID:    "4f2c1f8e",
		Seq:        3,
		Engine:     "vader",
		AnalyzedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func stringAttr(t *testing.T, item map[string]types.AttributeValue, key string) string {
	t.Helper()
	attr, ok := item[key].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %q should be a string", key)
	return attr.Value
}

func numberAttr(t *testing.T, item map[string]types.AttributeValue, key string) float64 {
	t.Helper()
	attr, ok := item[key].(*types.AttributeValueMemberN)
	require.True(t, ok, "attribute %q should be a number", key)
	n, err := strconv.ParseFloat(attr.Value, 64)
	require.NoError(t, err)
	return n
}

func TestResultID(t *testing.T) {
	assert.Equal(t, "abc#00003", ResultID("abc", 3))
	assert.Equal(t, ResultID("abc", 7), ResultID("abc", 7), "ids must be stable across redeliveries")
	assert.NotEqual(t, ResultID("abc", 1), ResultID("abc", 2))
}

func TestResultToDynamoDBItem(t *testing.T) {
	item := ResultToDynamoDBItem(sampleRow())

	assert.Equal(t, "4f2c1f8e#00003", stringAttr(t, item, "result_id"))
	assert.Equal(t, "4f2c1f8e", stringAttr(t, item, "batch_id"))
	assert.Equal(t, "vader", stringAttr(t, item, "engine"))
	assert.Equal(t, "orders", stringAttr(t, item, "node_id"))
	assert.Equal(t, "Orders", stringAttr(t, item, "node_name"))
	assert.Equal(t, "negative", stringAttr(t, item, "polarity"))
	assert.Equal(t, "the refund took forever", stringAttr(t, item, "text"))

	assert.InDelta(t, -0.62, numberAttr(t, item, "polarity_score"), 1e-6)
	assert.InDelta(t, 0.91, numberAttr(t, item, "confidence"), 1e-6)
	assert.EqualValues(t, 3, numberAttr(t, item, "seq"))

	kpi, ok := item["kpi_scores"].(*types.AttributeValueMemberM)
	require.True(t, ok, "kpi_scores should be a map")
	trust, ok := kpi.Value["trust"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	parsedTrust, err := strconv.ParseFloat(trust.Value, 64)
	require.NoError(t, err)
	assert.InDelta(t, -0.3, parsedTrust, 1e-6)
	assert.Len(t, kpi.Value, 6)

	analyzedAt := int64(numberAttr(t, item, "analyzed_at"))
	assert.Equal(t, sampleRow().AnalyzedAt.Unix(), analyzedAt)

	createdAt := int64(numberAttr(t, item, "created_at"))
	ttl := int64(numberAttr(t, item, "ttl"))
	assert.Equal(t, createdAt+int64(ARCHIVE_TTL/time.Second), ttl)
}

func TestResultToDynamoDBItem_OmitsEmptyText(t *testing.T) {
	row := sampleRow()
	row.Text = ""

	item := ResultToDynamoDBItem(row)
	_, present := item["text"]
	assert.False(t, present)
}

func TestDefaultProject(t *testing.T) {
	p := DefaultProject()

	assert.Equal(t, "community-pulse", p.ID)
	require.NotEmpty(t, p.Nodes)
	assert.Equal(t, "general", p.Nodes[0].ID, "first node doubles as the catch-all bucket")

	seen := make(map[string]bool)
	for _, n := range p.Nodes {
		assert.False(t, seen[n.ID], "node id %q repeated", n.ID)
		seen[n.ID] = true
		assert.NotEmpty(t, n.Name)
	}
}
