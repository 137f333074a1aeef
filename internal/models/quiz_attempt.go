package models

import "time"

// QuizAttemptRow is a quiz attempt joined with its quiz title and the
// student's name. Either join may be missing.
type QuizAttemptRow struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"user_id"`
	QuizID           string     `db:"quiz_id" json:"quiz_id"`
	Score            float64    `db:"score" json:"score"`
	TotalPoints      float64    `db:"total_points" json:"total_points"`
	Passed           bool       `db:"passed" json:"passed"`
	TimeTakenMinutes *int       `db:"time_taken_minutes" json:"time_taken_minutes,omitempty"`
	CreatedAt        *time.Time `db:"created_at" json:"created_at,omitempty"`
	QuizTitle        *string    `db:"quiz_title" json:"quiz_title,omitempty"`
	StudentName      *string    `db:"student_name" json:"student_name,omitempty"`
}
