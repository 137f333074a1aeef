package dto

import (
	"time"

	"github.com/noah-isme/eduboard-api/internal/analytics"
	"github.com/noah-isme/eduboard-api/internal/models"
)

// StudentDashboardResponse captures the personalised student dashboard payload.
type StudentDashboardResponse struct {
	UserID      string                  `json:"userId"`
	Courses     []models.Course         `json:"courses"`
	Leaderboard []analytics.RankedEntry `json:"leaderboard"`
	MyStats     StudentStats            `json:"myStats"`
	// MyRank is zero when the student is outside the displayed leaderboard.
	MyRank int `json:"myRank"`
}

// StudentStats mirrors the caller's leaderboard row.
type StudentStats struct {
	TotalPoints           int `json:"totalPoints"`
	TotalCoursesCompleted int `json:"totalCoursesCompleted"`
	TotalQuizzesCompleted int `json:"totalQuizzesCompleted"`
	StreakDays            int `json:"streakDays"`
}

// TeacherDashboardResponse captures the teacher dashboard payload.
type TeacherDashboardResponse struct {
	TeacherID           string                      `json:"teacherId"`
	Students            []models.ProfileWithStats   `json:"students"`
	Courses             []models.Course             `json:"courses"`
	Stats               TeacherStats                `json:"stats"`
	WeakTopics          []analytics.WeakTopicResult `json:"weakTopics"`
	WeakTopicSampleSize int                         `json:"weakTopicSampleSize"`
	RecentActivity      []ActivityItem              `json:"recentActivity"`
}

// TeacherStats are the summary cards at the top of the teacher dashboard.
type TeacherStats struct {
	TotalStudents int     `json:"totalStudents"`
	ActiveCourses int     `json:"activeCourses"`
	AverageScore  float64 `json:"averageScore"`
	TotalAttempts int     `json:"totalAttempts"`
}

// ActivityItem is one entry of the recent quiz activity feed.
type ActivityItem struct {
	AttemptID   string     `json:"attemptId"`
	StudentName string     `json:"studentName"`
	QuizTitle   string     `json:"quizTitle"`
	Score       float64    `json:"score"`
	TotalPoints float64    `json:"totalPoints"`
	Percentage  *float64   `json:"percentage"`
	Passed      bool       `json:"passed"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// AdminDashboardResponse captures the aggregated admin dashboard payload.
type AdminDashboardResponse struct {
	Profiles []models.ProfileWithStats `json:"profiles"`
	Courses  []models.Course           `json:"courses"`
	Counts   AdminCounts               `json:"counts"`
}

// AdminCounts summarises platform totals.
type AdminCounts struct {
	Students      int `json:"students"`
	Teachers      int `json:"teachers"`
	Admins        int `json:"admins"`
	Courses       int `json:"courses"`
	ActiveCourses int `json:"activeCourses"`
}
