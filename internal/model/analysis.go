package model

// Sentiment classifies the overall tone of a comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the recognized sentiment values.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Toxicity classifies how hostile a comment is.
type Toxicity string

const (
	ToxicityLow    Toxicity = "low"
	ToxicityMedium Toxicity = "medium"
	ToxicityHigh   Toxicity = "high"
)

// Valid reports whether t is one of the recognized toxicity values.
func (t Toxicity) Valid() bool {
	switch t {
	case ToxicityLow, ToxicityMedium, ToxicityHigh:
		return true
	}
	return false
}

// Emotion is the dominant emotion detected in a comment.
type Emotion string

const (
	EmotionAnger    Emotion = "anger"
	EmotionJoy      Emotion = "joy"
	EmotionFear     Emotion = "fear"
	EmotionSadness  Emotion = "sadness"
	EmotionSurprise Emotion = "surprise"
	EmotionDisgust  Emotion = "disgust"
	EmotionNeutral  Emotion = "neutral"
)

// Valid reports whether e is one of the recognized emotion values.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionAnger, EmotionJoy, EmotionFear, EmotionSadness,
		EmotionSurprise, EmotionDisgust, EmotionNeutral:
		return true
	}
	return false
}

// MaxTopics caps the number of topics kept per analysis.
const MaxTopics = 5

// CommentAnalysis is the typed result of running one comment through the
// text-generation model. Fields are always populated: unparseable model
// output degrades to the zero-value analysis (neutral, 0.0, no topics, low,
// neutral) rather than to missing fields.
type CommentAnalysis struct {
	CommentID   string    `json:"comment_id"`
	Sentiment   Sentiment `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Topics      []string  `json:"topics"`
	Toxicity    Toxicity  `json:"toxicity"`
	Emotion     Emotion   `json:"emotion"`
	Summary     string    `json:"summary"`
	RawResponse string    `json:"raw_response,omitempty"`
}

// TopicCount pairs a topic with how many analyses mentioned it.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// BatchStats aggregates a batch of analyses.
type BatchStats struct {
	TotalComments int               `json:"total_comments"`
	Sentiments    map[Sentiment]int `json:"sentiment_distribution"`
	Toxicities    map[Toxicity]int  `json:"toxicity_distribution"`
	Emotions      map[Emotion]int   `json:"emotion_distribution"`
	TopTopics     []TopicCount      `json:"top_topics"`
	AvgConfidence float64           `json:"average_confidence"`
}
