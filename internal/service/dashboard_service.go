package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/analytics"
	"github.com/noah-isme/eduboard-api/internal/dto"
	"github.com/noah-isme/eduboard-api/internal/models"
	"github.com/noah-isme/eduboard-api/internal/repository"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
)

type dashboardCourses interface {
	ListActive(ctx context.Context, limit int) ([]models.Course, error)
	ListAll(ctx context.Context) ([]models.Course, error)
	Counts(ctx context.Context) (repository.CourseCounts, error)
}

type dashboardProfiles interface {
	ListWithStats(ctx context.Context, role *models.UserRole, limit int) ([]models.ProfileWithStats, error)
	CountByRole(ctx context.Context) (models.ProfileCounts, error)
}

type dashboardLeaderboard interface {
	leaderboardReader
	FindByUser(ctx context.Context, userID string) (*models.LeaderboardRow, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL            time.Duration
	StudentCourseLimit  int
	LeaderboardLimit    int
	RecentStudentsLimit int
	RecentActivityLimit int
	AttemptFeedLimit    int
	PassThreshold       float64
	MaxWeakTopics       int
}

// DashboardService composes the role specific dashboards.
type DashboardService struct {
	courses     dashboardCourses
	profiles    dashboardProfiles
	attempts    attemptFeed
	leaderboard dashboardLeaderboard
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Courses     dashboardCourses
	Profiles    dashboardProfiles
	Attempts    attemptFeed
	Leaderboard dashboardLeaderboard
	Cache       *CacheService
	Metrics     *MetricsService
	Logger      *zap.Logger
	Config      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.StudentCourseLimit <= 0 {
		cfg.StudentCourseLimit = 6
	}
	if cfg.LeaderboardLimit <= 0 {
		cfg.LeaderboardLimit = 10
	}
	if cfg.RecentStudentsLimit <= 0 {
		cfg.RecentStudentsLimit = 10
	}
	if cfg.RecentActivityLimit <= 0 {
		cfg.RecentActivityLimit = 10
	}
	if cfg.AttemptFeedLimit <= 0 || cfg.AttemptFeedLimit > maxAttemptFeed {
		cfg.AttemptFeedLimit = 20
	}
	if cfg.PassThreshold <= 0 {
		cfg.PassThreshold = analytics.DefaultPassThreshold
	}
	if cfg.MaxWeakTopics <= 0 {
		cfg.MaxWeakTopics = analytics.DefaultMaxResults
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		courses:     params.Courses,
		profiles:    params.Profiles,
		attempts:    params.Attempts,
		leaderboard: params.Leaderboard,
		cache:       params.Cache,
		metrics:     params.Metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// ForRole returns the dashboard matching the principal's role.
func (s *DashboardService) ForRole(ctx context.Context, principal *models.Principal, feed int) (interface{}, bool, error) {
	if principal == nil {
		return nil, false, appErrors.Clone(appErrors.ErrUnauthorized, "missing principal")
	}
	switch principal.Role {
	case models.RoleStudent:
		return s.Student(ctx, principal.UserID)
	case models.RoleTeacher:
		return s.Teacher(ctx, principal.UserID, feed)
	case models.RoleAdmin:
		return s.Admin(ctx)
	}
	return nil, false, appErrors.Clone(appErrors.ErrForbidden, "no dashboard for role")
}

// Student returns the student's courses, leaderboard and own standing.
func (s *DashboardService) Student(ctx context.Context, userID string) (*dto.StudentDashboardResponse, bool, error) {
	if userID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	key := cacheKey("dash", string(models.RoleStudent), userID)
	var cached dto.StudentDashboardResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	courses, err := s.courses.ListActive(ctx, s.cfg.StudentCourseLimit)
	if err != nil {
		return nil, false, internalError(err, "failed to load courses")
	}
	top, err := s.leaderboard.Top(ctx, s.cfg.LeaderboardLimit)
	if err != nil {
		return nil, false, internalError(err, "failed to load leaderboard")
	}
	ranked := analytics.RankLeaderboard(LeaderboardEntries(top))

	summary := &dto.StudentDashboardResponse{
		UserID:      userID,
		Courses:     nonNilCourses(courses),
		Leaderboard: ranked,
		MyRank:      analytics.RankOf(ranked, userID),
	}
	mine, err := s.leaderboard.FindByUser(ctx, userID)
	switch {
	case err == nil:
		summary.MyStats = dto.StudentStats{
			TotalPoints:           mine.TotalPoints,
			TotalCoursesCompleted: mine.TotalCoursesCompleted,
			TotalQuizzesCompleted: mine.TotalQuizzesCompleted,
			StreakDays:            mine.StreakDays,
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, false, internalError(err, "failed to load student stats")
	}

	s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

// Teacher returns the class overview with weak topics computed over the most
// recent feed attempts. A zero feed uses the configured size.
func (s *DashboardService) Teacher(ctx context.Context, userID string, feed int) (*dto.TeacherDashboardResponse, bool, error) {
	if feed == 0 {
		feed = s.cfg.AttemptFeedLimit
	}
	if feed < 0 || feed > maxAttemptFeed {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "feed must be between 1 and "+strconv.Itoa(maxAttemptFeed))
	}
	key := cacheKey("dash", string(models.RoleTeacher), userID, strconv.Itoa(feed))
	var cached dto.TeacherDashboardResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	summary, err := s.composeTeacher(ctx, userID, feed)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

// Admin returns every profile and course with platform totals.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, bool, error) {
	key := cacheKey("dash", string(models.RoleAdmin))
	var cached dto.AdminDashboardResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	profiles, err := s.profiles.ListWithStats(ctx, nil, 0)
	if err != nil {
		return nil, false, internalError(err, "failed to load profiles")
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to load courses")
	}
	roleCounts, err := s.profiles.CountByRole(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to count profiles")
	}
	courseCounts, err := s.courses.Counts(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to count courses")
	}

	summary := &dto.AdminDashboardResponse{
		Profiles: nonNilProfiles(profiles),
		Courses:  nonNilCourses(courses),
		Counts: dto.AdminCounts{
			Students:      roleCounts.Students,
			Teachers:      roleCounts.Teachers,
			Admins:        roleCounts.Admins,
			Courses:       courseCounts.Total,
			ActiveCourses: courseCounts.Active,
		},
	}
	s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

func (s *DashboardService) composeTeacher(ctx context.Context, userID string, feed int) (*dto.TeacherDashboardResponse, error) {
	studentRole := models.RoleStudent
	students, err := s.profiles.ListWithStats(ctx, &studentRole, s.cfg.RecentStudentsLimit)
	if err != nil {
		return nil, internalError(err, "failed to load students")
	}
	courses, err := s.courses.ListActive(ctx, 0)
	if err != nil {
		return nil, internalError(err, "failed to load courses")
	}
	roleCounts, err := s.profiles.CountByRole(ctx)
	if err != nil {
		return nil, internalError(err, "failed to count students")
	}

	start := time.Now()
	rows, err := s.attempts.Recent(ctx, feed)
	s.metrics.ObserveDBQuery("quiz_attempts_recent", time.Since(start))
	if err != nil {
		return nil, internalError(err, "failed to load quiz attempts")
	}
	attempts := AttemptsFromRows(rows)

	report := analytics.Analyze(attempts, analytics.Options{PassThreshold: s.cfg.PassThreshold, MaxResults: s.cfg.MaxWeakTopics})
	s.metrics.ObserveWeakTopics(len(report.Topics), len(report.Skipped))
	if len(report.Skipped) > 0 {
		s.logger.Debug("teacher dashboard skipped attempts", zap.Int("skipped", len(report.Skipped)))
	}
	average, _ := analytics.AverageScorePercent(attempts)

	return &dto.TeacherDashboardResponse{
		TeacherID: userID,
		Students:  nonNilProfiles(students),
		Courses:   nonNilCourses(courses),
		Stats: dto.TeacherStats{
			TotalStudents: roleCounts.Students,
			ActiveCourses: len(courses),
			AverageScore:  average,
			TotalAttempts: len(rows),
		},
		WeakTopics:          report.Topics,
		WeakTopicSampleSize: report.SampleSize,
		RecentActivity:      s.recentActivity(rows),
	}, nil
}

func (s *DashboardService) recentActivity(rows []models.QuizAttemptRow) []dto.ActivityItem {
	limit := s.cfg.RecentActivityLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	items := make([]dto.ActivityItem, 0, limit)
	for _, row := range rows[:limit] {
		item := dto.ActivityItem{
			AttemptID:   row.ID,
			StudentName: derefOr(row.StudentName, "Unknown student"),
			QuizTitle:   derefOr(row.QuizTitle, analytics.UnknownTopic),
			Score:       row.Score,
			TotalPoints: row.TotalPoints,
			Passed:      row.Passed,
			CreatedAt:   row.CreatedAt,
		}
		if pct, err := analytics.Percentage(row.Score, row.TotalPoints); err == nil {
			item.Percentage = &pct
		}
		items = append(items, item)
	}
	return items
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func derefOr(ptr *string, fallback string) string {
	if ptr == nil || *ptr == "" {
		return fallback
	}
	return *ptr
}

func nonNilCourses(courses []models.Course) []models.Course {
	if courses == nil {
		return []models.Course{}
	}
	return courses
}

func nonNilProfiles(profiles []models.ProfileWithStats) []models.ProfileWithStats {
	if profiles == nil {
		return []models.ProfileWithStats{}
	}
	return profiles
}
