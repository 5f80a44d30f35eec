package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadlens/threadlens/internal/model"
)

func TestWriteCSV(t *testing.T) {
	analyses := []model.CommentAnalysis{
		{
			CommentID:  "c1",
			Sentiment:  model.SentimentPositive,
			Confidence: 0.85,
			Topics:     []string{"ai", "golang"},
			Toxicity:   model.ToxicityLow,
			Emotion:    model.EmotionJoy,
			Summary:    "Praises the release.",
		},
		{
			CommentID: "c2",
			Sentiment: model.SentimentNeutral,
			Toxicity:  model.ToxicityLow,
			Emotion:   model.EmotionNeutral,
			Summary:   `Quotes "someone", then moves on.`,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, analyses))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"comment_id", "sentiment", "confidence", "topics", "toxicity", "emotion", "summary"}, records[0])
	assert.Equal(t, []string{"c1", "positive", "0.850", "ai,golang", "low", "joy", "Praises the release."}, records[1])
	assert.Equal(t, "0.000", records[2][2])
	assert.Equal(t, "", records[2][3], "no topics leaves the cell empty")
	assert.Equal(t, `Quotes "someone", then moves on.`, records[2][6], "quoting survives the round trip")
}

func TestWriteCSV_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "comment_id,sentiment,confidence,topics,toxicity,emotion,summary\n", buf.String())
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.csv")
	require.NoError(t, WriteCSVFile(path, []model.CommentAnalysis{
		{CommentID: "c1", Sentiment: model.SentimentNegative, Toxicity: model.ToxicityHigh, Emotion: model.EmotionAnger},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "c1,negative,0.000,,high,anger,")
}
