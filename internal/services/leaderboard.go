package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"coinhunt/internal/datastore"
	"coinhunt/internal/datastore/redis_store"
	"coinhunt/internal/models"
	"coinhunt/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceLeaderboard struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	redisDBCache       redis.UniversalClient
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceConfig *ServiceConfig
	serviceUser   *ServiceUser
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	dbRedisCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, db, dbRedisCache, readonlyPostgresDB, cache, readonlyCache, serviceConfig, serviceUser}, nil
}

// SortLeaderboard orders summaries by coin count descending, earliest latest
// claim breaking ties. Stable so equal rows keep their incoming order.
func SortLeaderboard(summaries []*models.CollectionSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].CoinCount != summaries[j].CoinCount {
			return summaries[i].CoinCount > summaries[j].CoinCount
		}
		return summaries[i].LatestCollectedAt.Before(summaries[j].LatestCollectedAt)
	})
}

// rankOf counts the summaries strictly ahead of mine and adds one. A summary
// is ahead with more coins, or the same coins claimed earlier.
func rankOf(summaries []*models.CollectionSummary, mine *models.CollectionSummary) int {
	above := 0
	for _, summary := range summaries {
		if summary.UserID == mine.UserID {
			continue
		}
		if summary.CoinCount > mine.CoinCount {
			above++
			continue
		}
		if summary.CoinCount == mine.CoinCount && summary.LatestCollectedAt.Before(mine.LatestCollectedAt) {
			above++
		}
	}

	return above + 1
}

func (service *ServiceLeaderboard) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit, _ = service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	}

	callback := func() ([]*models.LeaderboardEntry, error) {
		snapshot, err := redis_store.GetLeaderboardSnapshot(ctx, service.redisDB)
		if err == nil && len(snapshot) >= limit {
			return snapshot[:limit], nil
		}

		return service.buildLeaderboard(ctx, limit)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboard(limit), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceLeaderboard) buildLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	summaries, err := service.loadSummaries(ctx)
	if err != nil {
		return nil, err
	}

	SortLeaderboard(summaries)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	ids := make([]string, len(summaries))
	for i, summary := range summaries {
		ids[i] = summary.UserID
	}

	users, err := service.serviceUser.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.LeaderboardEntry, len(summaries))
	for i, summary := range summaries {
		entry := &models.LeaderboardEntry{
			UserID:    summary.UserID,
			CoinCount: summary.CoinCount,
			Rank:      i + 1,
		}
		if user, ok := users[summary.UserID]; ok {
			entry.Username = user.Username
		}
		entries[i] = entry
	}

	return entries, nil
}

func (service *ServiceLeaderboard) GetUserRank(ctx context.Context, userID string) (*models.UserRank, error) {
	callback := func() (*models.UserRank, error) {
		mine, err := datastore.GetUserCollectionSummary(ctx, service.readonlyPostgresDB, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errorx.Wrap(ErrCollectionNotFound, errorx.NotExist)
			}
			return nil, err
		}

		summaries, err := service.loadSummaries(ctx)
		if err != nil {
			return nil, err
		}

		return &models.UserRank{
			UserID:    userID,
			CoinCount: mine.CoinCount,
			Rank:      rankOf(summaries, mine),
		}, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserRank(userID), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceLeaderboard) loadSummaries(ctx context.Context) ([]*models.CollectionSummary, error) {
	var all []*models.CollectionSummary
	for offset := 0; ; offset += LEADERBOARD_SUMMARIES_PAGE_SIZE {
		page, err := datastore.GetCollectionSummaries(ctx, service.readonlyPostgresDB, LEADERBOARD_SUMMARIES_PAGE_SIZE, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < LEADERBOARD_SUMMARIES_PAGE_SIZE {
			break
		}
	}

	return all, nil
}

func (service *ServiceLeaderboard) ClearCache(ctx context.Context) error {
	if err := redis_store.ClearLeaderboardSnapshot(ctx, service.redisDB); err != nil {
		return err
	}

	return caching.DeleteKeys(ctx, service.redisDBCache, "leaderboard:*")
}
