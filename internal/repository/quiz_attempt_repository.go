package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduboard-api/internal/models"
)

// QuizAttemptRepository reads quiz attempts for the analytics feed.
type QuizAttemptRepository struct {
	db *sqlx.DB
}

// NewQuizAttemptRepository creates a new repository instance.
func NewQuizAttemptRepository(db *sqlx.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{db: db}
}

// Recent returns the newest attempts with quiz title and student name. Attempts
// whose quiz or profile was removed are kept with a null join column.
func (r *QuizAttemptRepository) Recent(ctx context.Context, limit int) ([]models.QuizAttemptRow, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT qa.id, qa.user_id, qa.quiz_id, qa.score, qa.total_points, qa.passed, qa.time_taken_minutes, qa.created_at,
        q.title AS quiz_title, p.full_name AS student_name
        FROM quiz_attempts qa
        LEFT JOIN quizzes q ON q.id = qa.quiz_id
        LEFT JOIN profiles p ON p.id = qa.user_id
        ORDER BY qa.created_at DESC NULLS LAST
        LIMIT %d`, limit)

	var attempts []models.QuizAttemptRow
	if err := r.db.SelectContext(ctx, &attempts, query); err != nil {
		return nil, fmt.Errorf("list recent quiz attempts: %w", err)
	}
	return attempts, nil
}
