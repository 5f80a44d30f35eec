package analyze

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadlens/threadlens/internal/model"
	"github.com/threadlens/threadlens/internal/resilience"
)

// fakeLLM scripts Generate responses per call.
type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp string
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func (f *fakeLLM) CheckModel(ctx context.Context) error { return nil }

func fastRetry() resilience.Config {
	return resilience.Config{MaxAttempts: 3, BaseBackoff: time.Millisecond}
}

func TestAnalyzeOne_ShortCommentSkipsModel(t *testing.T) {
	llm := &fakeLLM{}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	got := a.AnalyzeOne(context.Background(), "c1", "ok")
	assert.Equal(t, 0, llm.calls, "short comments must not reach the model")
	assert.Equal(t, model.SentimentNeutral, got.Sentiment)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Empty(t, got.Topics)
	assert.Equal(t, model.ToxicityLow, got.Toxicity)
	assert.Equal(t, model.EmotionNeutral, got.Emotion)
	assert.Equal(t, "Comment too short to analyze", got.Summary)
}

func TestAnalyzeOne_MarkupOnlyCommentSkipsModel(t *testing.T) {
	llm := &fakeLLM{}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	// Cleans down to "ok": the gate applies post-cleaning.
	a.AnalyzeOne(context.Background(), "c1", "**ok**   \n> some long quoted reply here")
	assert.Equal(t, 0, llm.calls)
}

func TestAnalyzeOne_PromptCarriesCleanedText(t *testing.T) {
	llm := &fakeLLM{responses: []string{"SENTIMENT: positive"}}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	a.AnalyzeOne(context.Background(), "c1", "**Really** liked /u/author's take")
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], `Really liked [USER]'s take`)
	assert.NotContains(t, llm.prompts[0], "**")
}

func TestAnalyzeOne_RetriesTransientThenSucceeds(t *testing.T) {
	llm := &fakeLLM{
		errs:      []error{resilience.NewTransientError(eris.New("timeout"), 0), nil},
		responses: []string{"", "SENTIMENT: positive\nCONFIDENCE: 0.8"},
	}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	got := a.AnalyzeOne(context.Background(), "c1", "this is a long enough comment")
	assert.Equal(t, 2, llm.calls)
	assert.Equal(t, model.SentimentPositive, got.Sentiment)
}

func TestAnalyzeOne_AllAttemptsFailYieldErrorLiteral(t *testing.T) {
	transient := resilience.NewTransientError(eris.New("generation timed out"), 0)
	llm := &fakeLLM{errs: []error{transient, transient, transient}}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	got := a.AnalyzeOne(context.Background(), "c1", "this is a long enough comment")
	assert.Equal(t, 3, llm.calls)
	assert.Equal(t, ErrResponse, got.RawResponse)
	assert.Equal(t, model.SentimentNeutral, got.Sentiment)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Empty(t, got.Topics)
}

func TestAnalyzeBatch_OrderAndIDsPreserved(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		"SENTIMENT: positive\nCONFIDENCE: 0.9",
		"SENTIMENT: negative\nCONFIDENCE: 0.6",
	}}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	comments := []model.CommentRecord{
		{ID: "c1", Body: "absolutely loved this thing"},
		{ID: "c2", Body: "absolutely hated this thing"},
	}
	results := a.AnalyzeBatch(context.Background(), comments, 0)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].CommentID)
	assert.Equal(t, model.SentimentPositive, results[0].Sentiment)
	assert.Equal(t, "c2", results[1].CommentID)
	assert.Equal(t, model.SentimentNegative, results[1].Sentiment)
}

func TestAnalyzeBatch_MissingIDGetsPositional(t *testing.T) {
	llm := &fakeLLM{responses: []string{"SENTIMENT: neutral"}}
	a := NewAnalyzer(llm, WithRetry(fastRetry()))

	results := a.AnalyzeBatch(context.Background(), []model.CommentRecord{
		{Body: "comment with no identifier at all"},
	}, 0)
	require.Len(t, results, 1)
	assert.Equal(t, "comment_1", results[0].CommentID)
}

func TestSummaryStats(t *testing.T) {
	analyses := []model.CommentAnalysis{
		{Sentiment: model.SentimentPositive, Confidence: 0.9, Topics: []string{"ai", "golang"}, Toxicity: model.ToxicityLow, Emotion: model.EmotionJoy},
		{Sentiment: model.SentimentPositive, Confidence: 0.8, Topics: []string{"ai"}, Toxicity: model.ToxicityLow, Emotion: model.EmotionJoy},
		{Sentiment: model.SentimentNegative, Confidence: 0.5, Topics: []string{"politics"}, Toxicity: model.ToxicityHigh, Emotion: model.EmotionAnger},
	}

	stats := SummaryStats(analyses)
	assert.Equal(t, 3, stats.TotalComments)
	assert.Equal(t, 2, stats.Sentiments[model.SentimentPositive])
	assert.Equal(t, 1, stats.Sentiments[model.SentimentNegative])
	assert.Equal(t, 2, stats.Toxicities[model.ToxicityLow])
	assert.Equal(t, 1, stats.Toxicities[model.ToxicityHigh])
	assert.Equal(t, 2, stats.Emotions[model.EmotionJoy])

	require.NotEmpty(t, stats.TopTopics)
	assert.Equal(t, model.TopicCount{Topic: "ai", Count: 2}, stats.TopTopics[0])

	// (0.9 + 0.8 + 0.5) / 3 = 0.7333... rounds to 0.733
	assert.Equal(t, 0.733, stats.AvgConfidence)
}

func TestSummaryStats_TopicTiesKeepFirstSeenOrder(t *testing.T) {
	analyses := []model.CommentAnalysis{
		{Topics: []string{"beta", "alpha"}},
		{Topics: []string{"alpha", "beta", "gamma"}},
	}

	stats := SummaryStats(analyses)
	require.Len(t, stats.TopTopics, 3)
	assert.Equal(t, "beta", stats.TopTopics[0].Topic, "tie broken by first appearance")
	assert.Equal(t, "alpha", stats.TopTopics[1].Topic)
	assert.Equal(t, "gamma", stats.TopTopics[2].Topic)
}

func TestSummaryStats_CapsTopicsAtTen(t *testing.T) {
	var analyses []model.CommentAnalysis
	for _, topic := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		analyses = append(analyses, model.CommentAnalysis{Topics: []string{topic}})
	}

	stats := SummaryStats(analyses)
	assert.Len(t, stats.TopTopics, 10)
}

func TestSummaryStats_Empty(t *testing.T) {
	stats := SummaryStats(nil)
	assert.Zero(t, stats.TotalComments)
	assert.Empty(t, stats.TopTopics)
}
