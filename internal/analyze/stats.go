package analyze

import (
	"math"
	"sort"

	"github.com/threadlens/threadlens/internal/model"
)

// topTopicsLimit caps the topic leaderboard in summary statistics.
const topTopicsLimit = 10

// SummaryStats aggregates analyses into distribution counts, the most
// frequent topics (ties broken by first appearance), and mean confidence
// rounded to three decimals.
func SummaryStats(analyses []model.CommentAnalysis) model.BatchStats {
	if len(analyses) == 0 {
		return model.BatchStats{}
	}

	stats := model.BatchStats{
		TotalComments: len(analyses),
		Sentiments:    map[model.Sentiment]int{},
		Toxicities:    map[model.Toxicity]int{},
		Emotions:      map[model.Emotion]int{},
	}

	topicCounts := map[string]int{}
	var topicOrder []string
	var confidenceSum float64

	for _, a := range analyses {
		stats.Sentiments[a.Sentiment]++
		stats.Toxicities[a.Toxicity]++
		stats.Emotions[a.Emotion]++
		confidenceSum += a.Confidence

		for _, topic := range a.Topics {
			if _, seen := topicCounts[topic]; !seen {
				topicOrder = append(topicOrder, topic)
			}
			topicCounts[topic]++
		}
	}

	// Build in first-seen order, then stable-sort by count so ties keep
	// their first appearance.
	top := make([]model.TopicCount, 0, len(topicOrder))
	for _, topic := range topicOrder {
		top = append(top, model.TopicCount{Topic: topic, Count: topicCounts[topic]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topTopicsLimit {
		top = top[:topTopicsLimit]
	}
	stats.TopTopics = top

	mean := confidenceSum / float64(len(analyses))
	stats.AvgConfidence = math.Round(mean*1000) / 1000

	return stats
}
