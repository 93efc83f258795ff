package redis_store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinhunt/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboardSnapshot() string {
	return "leaderboard:snapshot"
}

func dbKeyLandmarkLastClaim(landmarkID string) string {
	return fmt.Sprintf("landmark:%s:last_claim", landmarkID)
}

func SetLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable, entries []*models.LeaderboardEntry) error {
	b, err := msgpack.Marshal(entries)
	if err != nil {
		return err
	}

	err = cmd.Set(ctx, dbKeyLeaderboardSnapshot(), b, 0).Err()
	if err != nil {
		return err
	}

	return nil
}

func GetLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable) ([]*models.LeaderboardEntry, error) {
	var v []*models.LeaderboardEntry
	b, err := cmd.Get(ctx, dbKeyLeaderboardSnapshot()).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}

func ClearLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable) error {
	return cmd.Del(ctx, dbKeyLeaderboardSnapshot()).Err()
}

// SetLandmarkLastClaim keeps the claim marker exactly as long as the
// landmark's cooldown window.
func SetLandmarkLastClaim(ctx context.Context, cmd redis.Cmdable, landmarkID string, at time.Time, cooldown time.Duration) error {
	if cooldown <= 0 {
		return nil
	}

	err := cmd.Set(ctx, dbKeyLandmarkLastClaim(landmarkID), at.Format(time.RFC3339Nano), cooldown).Err()
	if err != nil {
		return err
	}

	return nil
}

// LandmarkOnCooldown is a fast-path check; an absent key means the window
// may have expired or was never set, callers still confirm against storage.
func LandmarkOnCooldown(ctx context.Context, cmd redis.Cmdable, landmarkID string) (bool, error) {
	_, err := cmd.Get(ctx, dbKeyLandmarkLastClaim(landmarkID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
