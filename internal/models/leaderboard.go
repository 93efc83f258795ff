package models

import "time"

// CollectionSummary is the per-user aggregate the ranking is derived from.
type CollectionSummary struct {
	UserID            string    `bun:"user_id" json:"user_id"`
	CoinCount         int       `bun:"coin_count" json:"coin_count"`
	LatestCollectedAt time.Time `bun:"latest_collected_at" json:"latest_collected_at"`
}

type LeaderboardEntry struct {
	UserID    string `json:"userId" msgpack:"user_id"`
	Username  string `json:"username" msgpack:"username"`
	CoinCount int    `json:"coinCount" msgpack:"coin_count"`
	Rank      int    `json:"rank" msgpack:"rank"`
}

type LeaderboardResponse struct {
	Message string              `json:"message"`
	Data    []*LeaderboardEntry `json:"data"`
}

type UserRank struct {
	UserID    string `json:"userId"`
	CoinCount int    `json:"coinCount"`
	Rank      int    `json:"rank"`
}
