package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/dto"
	"github.com/noah-isme/eduboard-api/internal/models"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/jobs"
)

// JobCacheInvalidate is the job type that clears cached dashboards.
const JobCacheInvalidate = "cache.invalidate"

const defaultDifficulty = "beginner"

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	SetActive(ctx context.Context, id string, active bool) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// CourseService handles course administration.
type CourseService struct {
	repo      courseRepository
	jobs      jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service. Mutations schedule a
// dashboard cache invalidation on queue when it is non-nil.
func NewCourseService(repo courseRepository, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, jobs: queue, validator: validate, logger: logger}
}

// List returns paginated courses.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course owned by createdBy.
func (s *CourseService) Create(ctx context.Context, createdBy string, req dto.CreateCourseRequest) (*models.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Subject = strings.TrimSpace(req.Subject)
	req.DifficultyLevel = strings.ToLower(strings.TrimSpace(req.DifficultyLevel))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.DifficultyLevel == "" {
		req.DifficultyLevel = defaultDifficulty
	}

	course := &models.Course{
		Title:           req.Title,
		Description:     req.Description,
		Subject:         req.Subject,
		DifficultyLevel: req.DifficultyLevel,
		ImageURL:        req.ImageURL,
		IsActive:        true,
	}
	if createdBy != "" {
		course.CreatedBy = &createdBy
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.scheduleInvalidation("course_created", course.ID)
	return course, nil
}

// SetStatus sets the active flag, or flips it when req.IsActive is nil.
func (s *CourseService) SetStatus(ctx context.Context, id string, req dto.UpdateCourseStatusRequest) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	active := !course.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}

	found, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course.IsActive = active
	s.scheduleInvalidation("course_status", id)
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	s.scheduleInvalidation("course_deleted", id)
	return nil
}

func (s *CourseService) scheduleInvalidation(reason, courseID string) {
	if s.jobs == nil {
		return
	}
	err := s.jobs.Enqueue(jobs.Job{Type: JobCacheInvalidate, Payload: DashboardCachePattern})
	if err != nil {
		s.logger.Warn("schedule cache invalidation", zap.String("reason", reason), zap.String("course_id", courseID), zap.Error(err))
	}
}

// CacheInvalidationHandler returns the queue handler for JobCacheInvalidate.
// The payload is the key pattern; an empty payload clears every dashboard.
func CacheInvalidationHandler(cache *CacheService) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		pattern, _ := job.Payload.(string)
		if pattern == "" {
			pattern = DashboardCachePattern
		}
		return cache.Invalidate(ctx, pattern)
	}
}
