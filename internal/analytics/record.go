package analytics

import (
	"fmt"

	"github.com/spf13/cast"
)

// Record is an attempt row as returned by a loosely typed data API, e.g.
// {"id": "...", "score": 7, "total_points": "10", "quizzes": {"title": "Algebra"}}.
type Record map[string]interface{}

// topicKeys are probed in order; nested maps are searched for "title".
var topicKeys = []string{"quizzes", "quiz", "quiz_title", "topic", "title"}

// AttemptFromRecord maps a loosely typed record into a QuizAttempt. Numeric
// fields may arrive as numbers or numeric strings. A missing total yields zero,
// which the aggregator later skips as an invalid attempt.
func AttemptFromRecord(rec Record) (QuizAttempt, error) {
	if rec == nil {
		return QuizAttempt{}, fmt.Errorf("record is nil")
	}
	attempt := QuizAttempt{
		ID:         cast.ToString(rec["id"]),
		TopicLabel: topicFromRecord(rec),
	}

	score, err := numberField(rec, "score")
	if err != nil {
		return QuizAttempt{}, err
	}
	attempt.Score = score

	total, err := numberField(rec, "total_points")
	if err != nil {
		return QuizAttempt{}, err
	}
	attempt.TotalPoints = total
	return attempt, nil
}

// AttemptsFromRecords maps a batch of records. Records that fail to map are
// reported by index and left out of the result.
func AttemptsFromRecords(recs []Record) ([]QuizAttempt, map[int]error) {
	attempts := make([]QuizAttempt, 0, len(recs))
	var failures map[int]error
	for i, rec := range recs {
		attempt, err := AttemptFromRecord(rec)
		if err != nil {
			if failures == nil {
				failures = make(map[int]error)
			}
			failures[i] = err
			continue
		}
		attempts = append(attempts, attempt)
	}
	return attempts, failures
}

func numberField(rec Record, key string) (float64, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return 0, nil
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", key, err)
	}
	return value, nil
}

func topicFromRecord(rec Record) string {
	for _, key := range topicKeys {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case map[string]interface{}:
			if title := cast.ToString(v["title"]); title != "" {
				return title
			}
		case Record:
			if title := cast.ToString(v["title"]); title != "" {
				return title
			}
		default:
			if title := cast.ToString(v); title != "" {
				return title
			}
		}
	}
	return ""
}
