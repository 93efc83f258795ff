package services

import (
	"testing"
	"time"

	"coinhunt/internal/models"
)

func TestSortLeaderboard(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	summaries := []*models.CollectionSummary{
		{UserID: "u-late", CoinCount: 5, LatestCollectedAt: t2},
		{UserID: "u-few", CoinCount: 3, LatestCollectedAt: t1},
		{UserID: "u-early", CoinCount: 5, LatestCollectedAt: t1},
		{UserID: "u-last", CoinCount: 1, LatestCollectedAt: t3},
	}

	SortLeaderboard(summaries)

	want := []string{"u-early", "u-late", "u-few", "u-last"}
	for i, id := range want {
		if summaries[i].UserID != id {
			t.Errorf("position %d = %s, want %s", i, summaries[i].UserID, id)
		}
	}
}

func TestRankOf(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	summaries := []*models.CollectionSummary{
		{UserID: "a", CoinCount: 5, LatestCollectedAt: t1},
		{UserID: "b", CoinCount: 5, LatestCollectedAt: t2},
		{UserID: "c", CoinCount: 3, LatestCollectedAt: t1},
		{UserID: "d", CoinCount: 1, LatestCollectedAt: t1},
	}

	tests := []struct {
		userID string
		want   int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 3},
		{"d", 4},
	}

	byID := make(map[string]*models.CollectionSummary)
	for _, summary := range summaries {
		byID[summary.UserID] = summary
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			got := rankOf(summaries, byID[tt.userID])
			if got != tt.want {
				t.Errorf("rankOf(%s) = %d, want %d", tt.userID, got, tt.want)
			}
		})
	}
}
