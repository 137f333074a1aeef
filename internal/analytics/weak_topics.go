// Package analytics holds the pure computations behind the dashboards: weak-topic
// clustering over quiz attempts and leaderboard ranking. Nothing here performs I/O.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// UnknownTopic labels attempts whose quiz title is missing.
const UnknownTopic = "Unknown"

const (
	DefaultPassThreshold = 70.0
	DefaultMaxResults    = 5
)

// QuizAttempt is one scored quiz submission.
type QuizAttempt struct {
	ID          string  `json:"id,omitempty"`
	TopicLabel  string  `json:"topic"`
	Score       float64 `json:"score"`
	TotalPoints float64 `json:"total_points"`
}

// TopicAggregate accumulates percentages for a single topic.
type TopicAggregate struct {
	TopicLabel       string
	SumOfPercentages float64
	AttemptCount     int
}

// Average returns the mean percentage, or zero for an empty aggregate.
func (a *TopicAggregate) Average() float64 {
	if a == nil || a.AttemptCount == 0 {
		return 0
	}
	return a.SumOfPercentages / float64(a.AttemptCount)
}

// WeakTopicResult is a topic whose average falls below the pass threshold.
type WeakTopicResult struct {
	TopicLabel          string  `json:"topic"`
	AverageScorePercent float64 `json:"avgScore"`
	AttemptCount        int     `json:"attempts"`
}

// Options tunes the aggregation. Non-positive values fall back to the defaults.
type Options struct {
	PassThreshold float64
	MaxResults    int
}

func (o Options) normalised() Options {
	if o.PassThreshold <= 0 {
		o.PassThreshold = DefaultPassThreshold
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o
}

// InvalidAttemptError reports an attempt that cannot produce a percentage.
type InvalidAttemptError struct {
	Index       int
	AttemptID   string
	TotalPoints float64
	Reason      string
}

func (e *InvalidAttemptError) Error() string {
	if e.AttemptID != "" {
		return fmt.Sprintf("attempt %d (%s): %s", e.Index, e.AttemptID, e.Reason)
	}
	return fmt.Sprintf("attempt %d: %s", e.Index, e.Reason)
}

// Report is the full outcome of an aggregation pass.
type Report struct {
	Topics []WeakTopicResult `json:"topics"`
	// SampleSize counts the attempts that contributed to any topic. Zero means
	// "no data" as opposed to "no weak topics".
	SampleSize int                    `json:"sampleSize"`
	TopicCount int                    `json:"topicCount"`
	Skipped    []*InvalidAttemptError `json:"-"`
}

// Percentage converts a score into a percentage of the attempt's total points.
func Percentage(score, totalPoints float64) (float64, error) {
	if totalPoints <= 0 || math.IsNaN(totalPoints) || math.IsInf(totalPoints, 0) {
		return 0, fmt.Errorf("total points must be positive, got %v", totalPoints)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("score must be finite, got %v", score)
	}
	return (score / totalPoints) * 100, nil
}

// GroupByTopic accumulates attempt percentages per topic label. Attempts that
// cannot produce a percentage are skipped and returned as errors.
func GroupByTopic(attempts []QuizAttempt) (map[string]*TopicAggregate, []*InvalidAttemptError) {
	groups := make(map[string]*TopicAggregate)
	var skipped []*InvalidAttemptError
	for i, attempt := range attempts {
		pct, err := Percentage(attempt.Score, attempt.TotalPoints)
		if err != nil {
			skipped = append(skipped, &InvalidAttemptError{
				Index:       i,
				AttemptID:   attempt.ID,
				TotalPoints: attempt.TotalPoints,
				Reason:      err.Error(),
			})
			continue
		}
		label := resolveTopic(attempt.TopicLabel)
		agg, ok := groups[label]
		if !ok {
			agg = &TopicAggregate{TopicLabel: label}
			groups[label] = agg
		}
		agg.SumOfPercentages += pct
		agg.AttemptCount++
	}
	return groups, skipped
}

// Analyze groups attempts by topic and returns the weakest topics, worst first.
func Analyze(attempts []QuizAttempt, opts Options) Report {
	opts = opts.normalised()
	groups, skipped := GroupByTopic(attempts)

	report := Report{
		Topics:     []WeakTopicResult{},
		TopicCount: len(groups),
		Skipped:    skipped,
	}
	for _, agg := range groups {
		report.SampleSize += agg.AttemptCount
		avg := agg.Average()
		if avg >= opts.PassThreshold {
			continue
		}
		report.Topics = append(report.Topics, WeakTopicResult{
			TopicLabel:          agg.TopicLabel,
			AverageScorePercent: avg,
			AttemptCount:        agg.AttemptCount,
		})
	}

	sort.SliceStable(report.Topics, func(i, j int) bool {
		if report.Topics[i].AverageScorePercent == report.Topics[j].AverageScorePercent {
			return report.Topics[i].TopicLabel < report.Topics[j].TopicLabel
		}
		return report.Topics[i].AverageScorePercent < report.Topics[j].AverageScorePercent
	})
	if len(report.Topics) > opts.MaxResults {
		report.Topics = report.Topics[:opts.MaxResults]
	}
	return report
}

// AggregateWeakTopics returns topics averaging below the pass threshold, worst first.
func AggregateWeakTopics(attempts []QuizAttempt, opts Options) []WeakTopicResult {
	return Analyze(attempts, opts).Topics
}

// AverageScorePercent averages the percentage of every valid attempt and
// reports how many attempts were counted.
func AverageScorePercent(attempts []QuizAttempt) (float64, int) {
	var sum float64
	var count int
	for _, attempt := range attempts {
		pct, err := Percentage(attempt.Score, attempt.TotalPoints)
		if err != nil {
			continue
		}
		sum += pct
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

func resolveTopic(label string) string {
	if strings.TrimSpace(label) == "" {
		return UnknownTopic
	}
	return label
}
