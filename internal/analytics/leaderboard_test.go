package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankLeaderboardCompetitionRanks(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: "u-c", TotalPoints: 80},
		{UserID: "u-a", TotalPoints: 120},
		{UserID: "u-d", TotalPoints: 50},
		{UserID: "u-b", TotalPoints: 80, TotalQuizzesCompleted: 3},
	}

	ranked := RankLeaderboard(entries)

	require.Len(t, ranked, 4)
	assert.Equal(t, "u-a", ranked[0].UserID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "u-b", ranked[1].UserID)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, "u-c", ranked[2].UserID)
	assert.Equal(t, 2, ranked[2].Rank)
	assert.Equal(t, "u-d", ranked[3].UserID)
	assert.Equal(t, 4, ranked[3].Rank)

	// input untouched
	assert.Equal(t, "u-c", entries[0].UserID)
}

func TestRankLeaderboardEmpty(t *testing.T) {
	ranked := RankLeaderboard(nil)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankOf(t *testing.T) {
	ranked := RankLeaderboard([]LeaderboardEntry{
		{UserID: "u-1", TotalPoints: 10},
		{UserID: "u-2", TotalPoints: 20},
	})

	assert.Equal(t, 1, RankOf(ranked, "u-2"))
	assert.Equal(t, 2, RankOf(ranked, "u-1"))
	assert.Zero(t, RankOf(ranked, "missing"))
}
