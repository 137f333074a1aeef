package models

import "time"

// SystemMetrics is the in-process instrumentation snapshot served to admins.
// Prometheus carries the same series with labels; this view keeps totals only.
type SystemMetrics struct {
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Goroutines    int       `json:"goroutines"`

	RequestsTotal            uint64  `json:"requests_total"`
	AverageRequestDurationMs float64 `json:"average_request_duration_ms"`

	CacheHits     uint64  `json:"cache_hits"`
	CacheMisses   uint64  `json:"cache_misses"`
	CacheHitRatio float64 `json:"cache_hit_ratio"`

	DBQueryCount             uint64  `json:"db_query_count"`
	AverageDBQueryDurationMs float64 `json:"average_db_query_duration_ms"`

	WeakTopicRuns   uint64 `json:"weak_topic_runs"`
	SkippedAttempts uint64 `json:"skipped_attempts"`

	JobsProcessed uint64 `json:"jobs_processed"`
	JobsFailed    uint64 `json:"jobs_failed"`

	GeneratedAt time.Time `json:"generated_at"`
}
