package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
	"github.com/threadlens/threadlens/internal/resilience"
	"github.com/threadlens/threadlens/pkg/ollama"
)

// ErrResponse is the raw response recorded when every generation attempt
// failed. It carries no recognized labels, so extraction reduces it to the
// default record.
const ErrResponse = "Error: Could not analyze comment"

// shortSummary is recorded for comments below the analysis length gate.
const shortSummary = "Comment too short to analyze"

// minAnalyzableLen gates trivial comments ("ok", "+1") out of the model.
const minAnalyzableLen = 5

const analysisPrompt = `Analyze this Reddit comment and provide a structured analysis:

Comment: "%s"

Please analyze and respond in this EXACT format:
SENTIMENT: [positive/negative/neutral]
CONFIDENCE: [0.0-1.0]
TOPICS: [topic1, topic2, topic3] (max 5 topics)
TOXICITY: [low/medium/high]
EMOTION: [anger/joy/fear/sadness/surprise/disgust/neutral]
SUMMARY: [brief 1-sentence summary of the comment's main point]

Be concise and objective. Focus on the actual content and tone.`

// Analyzer drives comments through the text-generation service one at a
// time, retrying transient failures with exponential backoff.
type Analyzer struct {
	llm   ollama.Client
	retry resilience.Config
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithRetry overrides the retry configuration (tests shrink the backoff).
func WithRetry(cfg resilience.Config) Option {
	return func(a *Analyzer) {
		a.retry = cfg
	}
}

// NewAnalyzer creates an analyzer over the given generation client.
func NewAnalyzer(llm ollama.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		llm:   llm,
		retry: resilience.DefaultConfig(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.retry.ShouldRetry == nil {
		a.retry.ShouldRetry = shouldRetryGenerate
	}
	if a.retry.OnRetry == nil {
		a.retry.OnRetry = resilience.Logger("ollama", "generate")
	}
	return a
}

func shouldRetryGenerate(err error) bool {
	var se *ollama.StatusError
	if errors.As(err, &se) {
		return resilience.IsTransientStatus(se.Code)
	}
	return resilience.IsTransient(err)
}

// AnalyzeOne analyzes a single comment body. Comments whose cleaned text is
// under the length gate never reach the model.
func (a *Analyzer) AnalyzeOne(ctx context.Context, commentID, body string) model.CommentAnalysis {
	cleaned := CleanText(body)
	if len(strings.TrimSpace(cleaned)) < minAnalyzableLen {
		return defaultAnalysis(commentID, shortSummary, "")
	}

	prompt := fmt.Sprintf(analysisPrompt, cleaned)
	raw, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (string, error) {
		return a.llm.Generate(ctx, prompt)
	})
	if err != nil {
		zap.L().Warn("comment analysis failed after retries",
			zap.String("comment_id", commentID),
			zap.Error(err),
		)
		raw = ErrResponse
	}

	return Extract(raw, commentID)
}

// AnalyzeBatch analyzes comments sequentially, producing one result per
// input in the same order. A positive delay sleeps between comments (never
// after the last) to keep a small local model responsive.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, comments []model.CommentRecord, delay time.Duration) []model.CommentAnalysis {
	total := len(comments)
	zap.L().Info("analyzing comments", zap.Int("total", total))

	results := make([]model.CommentAnalysis, 0, total)
	for i, comment := range comments {
		id := comment.ID
		if id == "" {
			id = fmt.Sprintf("comment_%d", i+1)
		}

		results = append(results, a.AnalyzeOne(ctx, id, comment.Body))

		if (i+1)%10 == 0 {
			zap.L().Info("analysis progress", zap.Int("done", i+1), zap.Int("total", total))
		}

		if delay > 0 && i < total-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return results
			case <-timer.C:
			}
		}
	}

	zap.L().Info("analysis complete", zap.Int("processed", len(results)))
	return results
}
