package analyze

import (
	"strconv"
	"strings"

	"github.com/threadlens/threadlens/internal/model"
)

// defaultAnalysis is the fallback record: neutral sentiment, zero
// confidence, no topics, low toxicity, neutral emotion.
func defaultAnalysis(commentID, summary, raw string) model.CommentAnalysis {
	return model.CommentAnalysis{
		CommentID:   commentID,
		Sentiment:   model.SentimentNeutral,
		Confidence:  0.0,
		Topics:      nil,
		Toxicity:    model.ToxicityLow,
		Emotion:     model.EmotionNeutral,
		Summary:     summary,
		RawResponse: raw,
	}
}

// Extract parses the model's line-oriented labeled output into a typed
// analysis. Recognized labels overwrite the defaults only when their value
// passes validation; everything else is ignored. Extract is a pure function
// of its input and never fails: unusable output simply leaves the defaults
// in place.
func Extract(raw, commentID string) model.CommentAnalysis {
	result := defaultAnalysis(commentID, "", raw)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "SENTIMENT:"):
			if s := model.Sentiment(strings.ToLower(labelValue(line))); s.Valid() {
				result.Sentiment = s
			}

		case strings.HasPrefix(line, "CONFIDENCE:"):
			if conf, err := strconv.ParseFloat(labelValue(line), 64); err == nil {
				result.Confidence = clamp01(conf)
			}

		case strings.HasPrefix(line, "TOPICS:"):
			result.Topics = parseTopics(labelValue(line))

		case strings.HasPrefix(line, "TOXICITY:"):
			if tox := model.Toxicity(strings.ToLower(labelValue(line))); tox.Valid() {
				result.Toxicity = tox
			}

		case strings.HasPrefix(line, "EMOTION:"):
			if e := model.Emotion(strings.ToLower(labelValue(line))); e.Valid() {
				result.Emotion = e
			}

		case strings.HasPrefix(line, "SUMMARY:"):
			if summary := labelValue(line); summary != "" {
				result.Summary = summary
			}
		}
	}

	return result
}

func labelValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// parseTopics reads a bracketed comma-separated list, dropping empties and
// the literal "none", keeping at most MaxTopics. Duplicates survive.
func parseTopics(value string) []string {
	value = strings.Trim(value, "[]")
	if value == "" {
		return nil
	}

	var topics []string
	for _, topic := range strings.Split(value, ",") {
		topic = strings.TrimSpace(topic)
		if topic == "" || topic == "none" {
			continue
		}
		topics = append(topics, topic)
		if len(topics) >= model.MaxTopics {
			break
		}
	}
	return topics
}
