package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrClaimLock = errors.New("coin claim locked")

var ErrLandmarkNotFound = errors.New("landmark not found")
var ErrCollectionNotFound = errors.New("collection not found")
var ErrTooFar = errors.New("you are too far from the landmark")
var ErrLandmarkCooldown = errors.New("landmark is in cooldown")
var ErrAlreadyCollected = errors.New("already collected this landmark")
var ErrMaxCollected = errors.New("maximum coins collected")
var ErrNoCoinsLeft = errors.New("no coins available for this landmark")

const (
	CONFIG_SERVER_MODE              = "SERVER_MODE"
	CONFIG_LEADERBOARD_LIMIT        = "LEADERBOARD_LIMIT"
	CONFIG_COLLECT_RATE_LIMIT       = "COLLECT_RATE_LIMIT"
	CONFIG_CRONJOB_TIME_LEADERBOARD = "CRONJOB_TIME_LEADERBOARD"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	GEOFENCE_RADIUS_METERS = 50.0

	LEADERBOARD_DEFAULT_LIMIT       = 5
	COLLECT_RATE_LIMIT_PER_MINUTE   = 10
	LEADERBOARD_SUMMARIES_PAGE_SIZE = 500

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
	CACHE_TTL_1_DAY      = 24 * time.Hour
)

func LockKeyCollect(userID string, landmarkID string) string {
	return fmt.Sprintf("lock:collect:%s:%s", userID, landmarkID)
}

func LimitKeyCollect(userID string) string {
	return fmt.Sprintf("limit:collect:%s", userID)
}

// db
func DBKeyLandmark(id string) string {
	return fmt.Sprintf("landmark:%s", strings.ToLower(id))
}

func DBKeyLandmarks(activeOnly bool) string {
	if activeOnly {
		return "landmarks:active"
	}
	return "landmarks:all"
}

func DBKeyUser(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyLeaderboard(limit int) string {
	return fmt.Sprintf("leaderboard:%d", limit)
}

func DBKeyUserRank(userID string) string {
	return fmt.Sprintf("leaderboard:rank:%s", userID)
}

func DBKeySponsors() string {
	return "sponsors:active"
}
