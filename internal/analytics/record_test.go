package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptFromRecordNestedQuiz(t *testing.T) {
	rec := Record{
		"id":           "att-1",
		"score":        7,
		"total_points": "10",
		"quizzes":      map[string]interface{}{"title": "Algebra"},
	}

	attempt, err := AttemptFromRecord(rec)

	require.NoError(t, err)
	assert.Equal(t, "att-1", attempt.ID)
	assert.Equal(t, "Algebra", attempt.TopicLabel)
	assert.Equal(t, 7.0, attempt.Score)
	assert.Equal(t, 10.0, attempt.TotalPoints)
}

func TestAttemptFromRecordFlatTitleAndMissingQuiz(t *testing.T) {
	attempt, err := AttemptFromRecord(Record{"quizzes": nil, "quiz_title": "Geometry", "score": 3.5, "total_points": 5})
	require.NoError(t, err)
	assert.Equal(t, "Geometry", attempt.TopicLabel)

	attempt, err = AttemptFromRecord(Record{"quizzes": nil, "score": 4, "total_points": 10})
	require.NoError(t, err)
	assert.Empty(t, attempt.TopicLabel)

	result := AggregateWeakTopics([]QuizAttempt{attempt}, Options{})
	require.Len(t, result, 1)
	assert.Equal(t, UnknownTopic, result[0].TopicLabel)
}

func TestAttemptFromRecordMissingTotalIsSkippedLater(t *testing.T) {
	attempt, err := AttemptFromRecord(Record{"topic": "X", "score": 10})
	require.NoError(t, err)
	assert.Zero(t, attempt.TotalPoints)

	report := Analyze([]QuizAttempt{attempt}, Options{})
	assert.Empty(t, report.Topics)
	assert.Len(t, report.Skipped, 1)
}

func TestAttemptFromRecordRejectsGarbage(t *testing.T) {
	_, err := AttemptFromRecord(Record{"score": "seven", "total_points": 10})
	assert.ErrorContains(t, err, "field score")

	_, err = AttemptFromRecord(nil)
	assert.Error(t, err)
}

func TestAttemptsFromRecordsReportsFailuresByIndex(t *testing.T) {
	attempts, failures := AttemptsFromRecords([]Record{
		{"topic": "A", "score": 1, "total_points": 2},
		{"topic": "B", "score": []int{1}, "total_points": 2},
		{"topic": "C", "score": 2, "total_points": 2},
	})

	require.Len(t, attempts, 2)
	assert.Equal(t, "A", attempts[0].TopicLabel)
	assert.Equal(t, "C", attempts[1].TopicLabel)
	require.Len(t, failures, 1)
	assert.Contains(t, failures, 1)
}

func TestAttemptsFromRecordsAllValid(t *testing.T) {
	attempts, failures := AttemptsFromRecords([]Record{{"topic": "A", "score": 1, "total_points": 2}})
	assert.Len(t, attempts, 1)
	assert.Nil(t, failures)
}
