package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/analytics"
	"github.com/noah-isme/eduboard-api/internal/dto"
	"github.com/noah-isme/eduboard-api/internal/models"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
)

const (
	maxAttemptFeed      = 200
	maxLeaderboardLimit = 100
)

type attemptFeed interface {
	Recent(ctx context.Context, limit int) ([]models.QuizAttemptRow, error)
}

type leaderboardReader interface {
	Top(ctx context.Context, limit int) ([]models.LeaderboardRow, error)
}

// AnalyticsConfig tunes weak-topic aggregation defaults.
type AnalyticsConfig struct {
	CacheTTL         time.Duration
	PassThreshold    float64
	MaxWeakTopics    int
	AttemptFeedLimit int
	LeaderboardLimit int
}

// AnalyticsService runs weak-topic aggregation over the attempt feed or over
// caller supplied records, and serves the ranked leaderboard.
type AnalyticsService struct {
	attempts    attemptFeed
	leaderboard leaderboardReader
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         AnalyticsConfig
}

// AnalyticsServiceParams groups constructor dependencies.
type AnalyticsServiceParams struct {
	Attempts    attemptFeed
	Leaderboard leaderboardReader
	Cache       *CacheService
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
	Config      AnalyticsConfig
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(params AnalyticsServiceParams) *AnalyticsService {
	cfg := params.Config
	if cfg.PassThreshold <= 0 {
		cfg.PassThreshold = analytics.DefaultPassThreshold
	}
	if cfg.MaxWeakTopics <= 0 {
		cfg.MaxWeakTopics = analytics.DefaultMaxResults
	}
	if cfg.AttemptFeedLimit <= 0 || cfg.AttemptFeedLimit > maxAttemptFeed {
		cfg.AttemptFeedLimit = 20
	}
	if cfg.LeaderboardLimit <= 0 {
		cfg.LeaderboardLimit = 10
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		attempts:    params.Attempts,
		leaderboard: params.Leaderboard,
		cache:       params.Cache,
		metrics:     params.Metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Options returns the aggregation options after applying overrides. Zero
// overrides keep the configured defaults.
func (s *AnalyticsService) Options(threshold float64, max int) analytics.Options {
	opts := analytics.Options{PassThreshold: s.cfg.PassThreshold, MaxResults: s.cfg.MaxWeakTopics}
	if threshold > 0 {
		opts.PassThreshold = threshold
	}
	if max > 0 {
		opts.MaxResults = max
	}
	return opts
}

// FeedLimit validates a requested feed size; zero selects the default.
func (s *AnalyticsService) FeedLimit(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.AttemptFeedLimit, nil
	}
	if requested < 0 || requested > maxAttemptFeed {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("feed must be between 1 and %d", maxAttemptFeed))
	}
	return requested, nil
}

// WeakTopics aggregates the most recent attempts. The boolean reports a cache hit.
func (s *AnalyticsService) WeakTopics(ctx context.Context, query dto.WeakTopicsQuery) (*dto.WeakTopicsResponse, bool, error) {
	feed, err := s.FeedLimit(query.Feed)
	if err != nil {
		return nil, false, err
	}
	if query.Threshold < 0 || query.Max < 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "threshold and max must be positive")
	}
	opts := s.Options(query.Threshold, query.Max)

	key := cacheKey("analytics", "weak", strconv.Itoa(feed), strconv.FormatFloat(opts.PassThreshold, 'f', -1, 64), strconv.Itoa(opts.MaxResults))
	var cached dto.WeakTopicsResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	rows, err := s.recentAttempts(ctx, feed)
	if err != nil {
		return nil, false, err
	}
	resp := s.analyze(AttemptsFromRows(rows), opts, 0)
	s.cache.Set(ctx, key, resp, s.cfg.CacheTTL)
	return resp, false, nil
}

// AnalyzeRecords aggregates caller supplied loose records. Records that cannot
// be mapped are counted as skipped alongside attempts without a usable total.
func (s *AnalyticsService) AnalyzeRecords(ctx context.Context, req dto.WeakTopicsRequest) (*dto.WeakTopicsResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "attempts are required")
	}
	var threshold float64
	var max int
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if req.Max != nil {
		max = *req.Max
	}

	attempts, failures := analytics.AttemptsFromRecords(req.Attempts)
	for idx, err := range failures {
		s.logger.Debug("unmappable attempt record", zap.Int("index", idx), zap.Error(err))
	}
	return s.analyze(attempts, s.Options(threshold, max), len(failures)), nil
}

// Leaderboard returns the top entries with competition ranks.
func (s *AnalyticsService) Leaderboard(ctx context.Context, limit int) ([]analytics.RankedEntry, error) {
	if limit <= 0 {
		limit = s.cfg.LeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("limit must be at most %d", maxLeaderboardLimit))
	}
	start := time.Now()
	rows, err := s.leaderboard.Top(ctx, limit)
	s.metrics.ObserveDBQuery("leaderboard_top", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leaderboard")
	}
	return analytics.RankLeaderboard(LeaderboardEntries(rows)), nil
}

// SystemMetrics returns system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) recentAttempts(ctx context.Context, limit int) ([]models.QuizAttemptRow, error) {
	start := time.Now()
	rows, err := s.attempts.Recent(ctx, limit)
	s.metrics.ObserveDBQuery("quiz_attempts_recent", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz attempts")
	}
	return rows, nil
}

func (s *AnalyticsService) analyze(attempts []analytics.QuizAttempt, opts analytics.Options, unmapped int) *dto.WeakTopicsResponse {
	report := analytics.Analyze(attempts, opts)
	skipped := len(report.Skipped) + unmapped
	for _, invalid := range report.Skipped {
		s.logger.Debug("attempt skipped", zap.Int("index", invalid.Index), zap.String("attempt_id", invalid.AttemptID), zap.String("reason", invalid.Reason))
	}
	s.metrics.ObserveWeakTopics(len(report.Topics), skipped)
	return &dto.WeakTopicsResponse{
		Topics:     report.Topics,
		SampleSize: report.SampleSize,
		TopicCount: report.TopicCount,
		Skipped:    skipped,
		Threshold:  opts.PassThreshold,
		MaxResults: opts.MaxResults,
	}
}

// AttemptsFromRows maps joined attempt rows into aggregator input. A missing
// quiz title leaves the label empty so it resolves to the unknown topic.
func AttemptsFromRows(rows []models.QuizAttemptRow) []analytics.QuizAttempt {
	attempts := make([]analytics.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		attempt := analytics.QuizAttempt{ID: row.ID, Score: row.Score, TotalPoints: row.TotalPoints}
		if row.QuizTitle != nil {
			attempt.TopicLabel = *row.QuizTitle
		}
		attempts = append(attempts, attempt)
	}
	return attempts
}

// LeaderboardEntries maps leaderboard rows into ranking input.
func LeaderboardEntries(rows []models.LeaderboardRow) []analytics.LeaderboardEntry {
	entries := make([]analytics.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := analytics.LeaderboardEntry{
			UserID:                row.UserID,
			TotalPoints:           row.TotalPoints,
			TotalCoursesCompleted: row.TotalCoursesCompleted,
			TotalQuizzesCompleted: row.TotalQuizzesCompleted,
			StreakDays:            row.StreakDays,
		}
		if row.FullName != nil {
			entry.FullName = *row.FullName
		}
		entries = append(entries, entry)
	}
	return entries
}
