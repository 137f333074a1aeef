package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/dto"
	"github.com/noah-isme/eduboard-api/internal/models"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/jobs"
)

type fakeCourseRepo struct {
	courses   map[string]*models.Course
	created   []*models.Course
	listTotal int
	err       error
}

func (f *fakeCourseRepo) List(context.Context, models.CourseFilter) ([]models.Course, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []models.Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, f.listTotal, nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	if f.err != nil {
		return f.err
	}
	course.ID = "new-course"
	f.created = append(f.created, course)
	return nil
}

func (f *fakeCourseRepo) SetActive(_ context.Context, id string, active bool) (bool, error) {
	c, ok := f.courses[id]
	if !ok {
		return false, nil
	}
	c.IsActive = active
	return true, nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.courses[id]; !ok {
		return false, nil
	}
	delete(f.courses, id)
	return true, nil
}

type recordingQueue struct {
	jobs []jobs.Job
	err  error
}

func (r *recordingQueue) Enqueue(job jobs.Job) error {
	r.jobs = append(r.jobs, job)
	return r.err
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]*models.Course{}}
	queue := &recordingQueue{}
	svc := NewCourseService(repo, queue, nil, zap.NewNop())

	course, err := svc.Create(context.Background(), "admin-1", dto.CreateCourseRequest{Title: "  Algebra ", Subject: "math", DifficultyLevel: "Intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", course.Title)
	assert.Equal(t, "intermediate", course.DifficultyLevel)
	assert.True(t, course.IsActive)
	require.NotNil(t, course.CreatedBy)
	assert.Equal(t, "admin-1", *course.CreatedBy)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobCacheInvalidate, queue.jobs[0].Type)
	assert.Equal(t, DashboardCachePattern, queue.jobs[0].Payload)
}

func TestCourseServiceCreateDefaultsDifficulty(t *testing.T) {
	svc := NewCourseService(&fakeCourseRepo{}, nil, nil, nil)

	course, err := svc.Create(context.Background(), "", dto.CreateCourseRequest{Title: "Biology", Subject: "science"})
	require.NoError(t, err)
	assert.Equal(t, "beginner", course.DifficultyLevel)
	assert.Nil(t, course.CreatedBy)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewCourseService(&fakeCourseRepo{}, queue, nil, nil)

	_, err := svc.Create(context.Background(), "a", dto.CreateCourseRequest{Title: " ", Subject: "math"})
	assertAppErrorCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), "a", dto.CreateCourseRequest{Title: "X", Subject: "math", DifficultyLevel: "expert"})
	assertAppErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.Empty(t, queue.jobs)
}

func TestCourseServiceSetStatusToggles(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]*models.Course{"c1": {ID: "c1", IsActive: true, CreatedAt: timePtr(time.Now())}}}
	queue := &recordingQueue{}
	svc := NewCourseService(repo, queue, nil, nil)

	course, err := svc.SetStatus(context.Background(), "c1", dto.UpdateCourseStatusRequest{})
	require.NoError(t, err)
	assert.False(t, course.IsActive)

	active := false
	course, err = svc.SetStatus(context.Background(), "c1", dto.UpdateCourseStatusRequest{IsActive: &active})
	require.NoError(t, err)
	assert.False(t, course.IsActive)
	assert.Len(t, queue.jobs, 2)
}

func TestCourseServiceNotFound(t *testing.T) {
	svc := NewCourseService(&fakeCourseRepo{courses: map[string]*models.Course{}}, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	assertAppErrorCode(t, err, appErrors.ErrNotFound.Code)
	_, err = svc.SetStatus(context.Background(), "missing", dto.UpdateCourseStatusRequest{})
	assertAppErrorCode(t, err, appErrors.ErrNotFound.Code)
	assertAppErrorCode(t, svc.Delete(context.Background(), "missing"), appErrors.ErrNotFound.Code)
}

func TestCourseServiceEnqueueFailureDoesNotFailMutation(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	svc := NewCourseService(repo, &recordingQueue{err: jobs.ErrQueueFull}, nil, nil)

	assert.NoError(t, svc.Delete(context.Background(), "c1"))
}

func TestCourseServiceListPagination(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]*models.Course{"c1": {ID: "c1"}}, listTotal: 41}
	svc := NewCourseService(repo, nil, nil, nil)

	courses, pagination, err := svc.List(context.Background(), models.CourseFilter{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 41}, pagination)

	repo.err = errors.New("db down")
	_, _, err = svc.List(context.Background(), models.CourseFilter{})
	assertAppErrorCode(t, err, appErrors.ErrInternal.Code)
}

func TestCacheInvalidationHandler(t *testing.T) {
	repo := &stubCacheRepo{}
	handler := CacheInvalidationHandler(NewCacheService(repo, nil, 0, nil, true))

	require.NoError(t, handler(context.Background(), jobs.Job{Type: JobCacheInvalidate}))
	require.NoError(t, handler(context.Background(), jobs.Job{Type: JobCacheInvalidate, Payload: "dash:teacher*"}))
	assert.Equal(t, []string{DashboardCachePattern, "dash:teacher*"}, repo.invalidated)
}
