package analytics

import "sort"

// LeaderboardEntry is a student's standing as stored in the leaderboard table.
type LeaderboardEntry struct {
	UserID                string `json:"userId"`
	FullName              string `json:"fullName"`
	TotalPoints           int    `json:"totalPoints"`
	TotalCoursesCompleted int    `json:"totalCoursesCompleted"`
	TotalQuizzesCompleted int    `json:"totalQuizzesCompleted"`
	StreakDays            int    `json:"streakDays"`
}

// RankedEntry is a leaderboard entry with its position.
type RankedEntry struct {
	Rank int `json:"rank"`
	LeaderboardEntry
}

// RankLeaderboard orders entries by points (quizzes completed, then user id
// break ties) and assigns competition ranks: equal points share a rank and the
// next distinct score skips accordingly (1, 2, 2, 4).
func RankLeaderboard(entries []LeaderboardEntry) []RankedEntry {
	sorted := make([]LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		if sorted[i].TotalQuizzesCompleted != sorted[j].TotalQuizzesCompleted {
			return sorted[i].TotalQuizzesCompleted > sorted[j].TotalQuizzesCompleted
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	ranked := make([]RankedEntry, 0, len(sorted))
	for i, entry := range sorted {
		rank := i + 1
		if i > 0 && entry.TotalPoints == sorted[i-1].TotalPoints {
			rank = ranked[i-1].Rank
		}
		ranked = append(ranked, RankedEntry{Rank: rank, LeaderboardEntry: entry})
	}
	return ranked
}

// RankOf returns the rank of userID within ranked, or zero when absent.
func RankOf(ranked []RankedEntry, userID string) int {
	for _, entry := range ranked {
		if entry.UserID == userID {
			return entry.Rank
		}
	}
	return 0
}
