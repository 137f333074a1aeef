package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateWeakTopicsExcludesPassingTopics(t *testing.T) {
	attempts := []QuizAttempt{
		{TopicLabel: "Algebra", Score: 50, TotalPoints: 100},
		{TopicLabel: "Algebra", Score: 60, TotalPoints: 100},
		{TopicLabel: "Geometry", Score: 90, TotalPoints: 100},
	}

	result := AggregateWeakTopics(attempts, Options{PassThreshold: 70})

	require.Len(t, result, 1)
	assert.Equal(t, "Algebra", result[0].TopicLabel)
	assert.InDelta(t, 55.0, result[0].AverageScorePercent, 1e-9)
	assert.Equal(t, 2, result[0].AttemptCount)
}

func TestAggregateWeakTopicsEmptyInput(t *testing.T) {
	result := AggregateWeakTopics([]QuizAttempt{}, Options{})
	assert.NotNil(t, result)
	assert.Empty(t, result)

	assert.Empty(t, AggregateWeakTopics(nil, Options{}))
}

func TestAggregateWeakTopicsMissingTopicUsesSentinel(t *testing.T) {
	result := AggregateWeakTopics([]QuizAttempt{{Score: 40, TotalPoints: 100}}, Options{})

	require.Len(t, result, 1)
	assert.Equal(t, UnknownTopic, result[0].TopicLabel)
	assert.InDelta(t, 40.0, result[0].AverageScorePercent, 1e-9)
	assert.Equal(t, 1, result[0].AttemptCount)
}

func TestAggregateWeakTopicsBlankTopicJoinsUnknown(t *testing.T) {
	result := AggregateWeakTopics([]QuizAttempt{
		{TopicLabel: "   ", Score: 2, TotalPoints: 10},
		{TopicLabel: "", Score: 4, TotalPoints: 10},
		{TopicLabel: " Algebra ", Score: 1, TotalPoints: 10},
	}, Options{})

	require.Len(t, result, 2)
	assert.Equal(t, " Algebra ", result[0].TopicLabel)
	assert.Equal(t, UnknownTopic, result[1].TopicLabel)
	assert.Equal(t, 2, result[1].AttemptCount)
	assert.InDelta(t, 30.0, result[1].AverageScorePercent, 1e-9)
}

func TestAggregateWeakTopicsSkipsZeroTotal(t *testing.T) {
	report := Analyze([]QuizAttempt{{ID: "a-1", TopicLabel: "X", Score: 10, TotalPoints: 0}}, Options{})

	assert.Empty(t, report.Topics)
	assert.Equal(t, 0, report.SampleSize)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "a-1", report.Skipped[0].AttemptID)
	assert.Contains(t, report.Skipped[0].Error(), "total points must be positive")
}

func TestAggregateWeakTopicsTruncatesToMaxResults(t *testing.T) {
	var attempts []QuizAttempt
	for i := 0; i < 7; i++ {
		attempts = append(attempts, QuizAttempt{TopicLabel: fmt.Sprintf("T%d", i), Score: float64(60 - i*5), TotalPoints: 100})
	}

	result := AggregateWeakTopics(attempts, Options{PassThreshold: 70, MaxResults: 5})

	require.Len(t, result, 5)
	labels := make([]string, 0, len(result))
	for _, r := range result {
		labels = append(labels, r.TopicLabel)
	}
	assert.Equal(t, []string{"T6", "T5", "T4", "T3", "T2"}, labels)
}

func TestAggregateWeakTopicsTieBreaksByLabel(t *testing.T) {
	attempts := []QuizAttempt{
		{TopicLabel: "Zoology", Score: 50, TotalPoints: 100},
		{TopicLabel: "Biology", Score: 5, TotalPoints: 10},
		{TopicLabel: "Chemistry", Score: 1, TotalPoints: 2},
	}

	result := AggregateWeakTopics(attempts, Options{})

	require.Len(t, result, 3)
	assert.Equal(t, "Biology", result[0].TopicLabel)
	assert.Equal(t, "Chemistry", result[1].TopicLabel)
	assert.Equal(t, "Zoology", result[2].TopicLabel)
}

func TestAggregateWeakTopicsThresholdIsStrict(t *testing.T) {
	attempts := []QuizAttempt{{TopicLabel: "Edge", Score: 70, TotalPoints: 100}}
	assert.Empty(t, AggregateWeakTopics(attempts, Options{PassThreshold: 70}))
}

func TestAggregateWeakTopicsPassesThroughAboveHundred(t *testing.T) {
	attempts := []QuizAttempt{
		{TopicLabel: "Bonus", Score: 150, TotalPoints: 100},
		{TopicLabel: "Bonus", Score: 0, TotalPoints: 100},
	}

	result := AggregateWeakTopics(attempts, Options{PassThreshold: 80})

	require.Len(t, result, 1)
	assert.InDelta(t, 75.0, result[0].AverageScorePercent, 1e-9)
}

func TestAnalyzeReportsSampleSize(t *testing.T) {
	attempts := []QuizAttempt{
		{TopicLabel: "A", Score: 95, TotalPoints: 100},
		{TopicLabel: "B", Score: 90, TotalPoints: 100},
		{TopicLabel: "B", Score: 1, TotalPoints: 0},
	}

	report := Analyze(attempts, Options{})

	assert.Empty(t, report.Topics)
	assert.Equal(t, 2, report.SampleSize)
	assert.Equal(t, 2, report.TopicCount)
	assert.Len(t, report.Skipped, 1)
}

func TestPercentageRejectsNonFinite(t *testing.T) {
	_, err := Percentage(1, math.NaN())
	assert.Error(t, err)
	_, err = Percentage(math.Inf(1), 10)
	assert.Error(t, err)
	_, err = Percentage(1, -5)
	assert.Error(t, err)

	pct, err := Percentage(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, pct, 1e-9)
}

func TestAverageScorePercentSkipsInvalid(t *testing.T) {
	avg, count := AverageScorePercent([]QuizAttempt{
		{Score: 50, TotalPoints: 100},
		{Score: 10, TotalPoints: 0},
		{Score: 9, TotalPoints: 10},
	})
	assert.Equal(t, 2, count)
	assert.InDelta(t, 70.0, avg, 1e-9)

	avg, count = AverageScorePercent(nil)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func randomAttempts(r *rand.Rand, n int) []QuizAttempt {
	topics := []string{"Algebra", "Geometry", "Calculus", "", "Physics", "Chemistry", "Biology", "History"}
	attempts := make([]QuizAttempt, 0, n)
	for i := 0; i < n; i++ {
		total := float64(r.Intn(5) * 10)
		attempts = append(attempts, QuizAttempt{
			ID:          fmt.Sprintf("a-%d", i),
			TopicLabel:  topics[r.Intn(len(topics))],
			Score:       float64(r.Intn(60)),
			TotalPoints: total,
		})
	}
	return attempts
}

func TestAggregationProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		attempts := randomAttempts(r, r.Intn(40))
		opts := Options{PassThreshold: float64(r.Intn(100) + 1), MaxResults: r.Intn(8) + 1}

		groups, skipped := GroupByTopic(attempts)

		// grouping: one aggregate per distinct label among valid attempts
		distinct := map[string]struct{}{}
		perTopic := map[string][]float64{}
		var valid []QuizAttempt
		for _, a := range attempts {
			if a.TotalPoints <= 0 {
				continue
			}
			valid = append(valid, a)
			label := resolveTopic(a.TopicLabel)
			distinct[label] = struct{}{}
			perTopic[label] = append(perTopic[label], a.Score/a.TotalPoints*100)
		}
		assert.Len(t, groups, len(distinct))
		assert.Len(t, skipped, len(attempts)-len(valid))

		// averages
		for label, pcts := range perTopic {
			var sum float64
			for _, p := range pcts {
				sum += p
			}
			assert.InDelta(t, sum/float64(len(pcts)), groups[label].Average(), 1e-9)
		}

		result := AggregateWeakTopics(attempts, opts)

		// threshold, ordering and bound
		assert.LessOrEqual(t, len(result), opts.MaxResults)
		for i, res := range result {
			assert.Less(t, res.AverageScorePercent, opts.PassThreshold)
			if i > 0 {
				assert.LessOrEqual(t, result[i-1].AverageScorePercent, res.AverageScorePercent)
			}
		}

		// idempotence
		assert.Equal(t, result, AggregateWeakTopics(attempts, opts))

		// malformed attempts do not influence the result
		assert.Equal(t, AggregateWeakTopics(valid, opts), result)
	}
}
