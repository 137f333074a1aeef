package models

import "time"

// LeaderboardRow mirrors the leaderboard table joined with the profile name.
type LeaderboardRow struct {
	ID                    string     `db:"id" json:"id"`
	UserID                string     `db:"user_id" json:"user_id"`
	FullName              *string    `db:"full_name" json:"full_name,omitempty"`
	TotalPoints           int        `db:"total_points" json:"total_points"`
	TotalCoursesCompleted int        `db:"total_courses_completed" json:"total_courses_completed"`
	TotalQuizzesCompleted int        `db:"total_quizzes_completed" json:"total_quizzes_completed"`
	StreakDays            int        `db:"streak_days" json:"streak_days"`
	LastActivityDate      *time.Time `db:"last_activity_date" json:"last_activity_date,omitempty"`
}
