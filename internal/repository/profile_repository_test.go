package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduboard-api/internal/models"
)

func TestProfileRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, role, avatar_url, COALESCE(language, '') AS language, created_at, updated_at FROM profiles WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "role", "avatar_url", "language", "created_at", "updated_at"}).
			AddRow("p1", "Ada", "teacher", nil, "en", now, now))

	profile, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, profile.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryFindByIDNullColumns(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(language, '') AS language")).
		WithArgs("p2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "role", "avatar_url", "language", "created_at", "updated_at"}).
			AddRow("p2", "Lin", "student", nil, "", nil, nil))

	profile, err := repo.FindByID(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, profile.Role)
	assert.Empty(t, profile.Language)
	assert.Nil(t, profile.CreatedAt)
	assert.Nil(t, profile.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery("FROM profiles WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfileRepositoryListWithStatsByRole(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "role", "avatar_url", "language", "created_at", "updated_at", "total_points", "total_courses_completed", "total_quizzes_completed", "streak_days"}).
		AddRow("s1", "Sam", "student", nil, "en", now, now, 120, 2, 9, 4).
		AddRow("s2", "Kai", "student", nil, "en", now, now, 0, 0, 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN leaderboard l ON l.user_id = p.id WHERE p.role = $1 ORDER BY p.created_at DESC NULLS LAST LIMIT 10")).
		WithArgs("student").
		WillReturnRows(rows)

	role := models.RoleStudent
	profiles, err := repo.ListWithStats(context.Background(), &role, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, 120, profiles[0].TotalPoints)
	assert.Equal(t, "Kai", profiles[1].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryCountByRole(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery("COUNT\\(\\*\\) FILTER").
		WillReturnRows(sqlmock.NewRows([]string{"students", "teachers", "admins"}).AddRow(30, 4, 1))

	counts, err := repo.CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ProfileCounts{Students: 30, Teachers: 4, Admins: 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
