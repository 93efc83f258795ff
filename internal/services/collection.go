package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"coinhunt/internal/datastore"
	"coinhunt/internal/datastore/redis_store"
	"coinhunt/internal/interfaces"
	"coinhunt/internal/models"
	"coinhunt/internal/pkg/caching"
	"coinhunt/internal/pkg/geo"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceCollection struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	redisDBCache       redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	limiter            interfaces.Limiter

	serviceConfig      *ServiceConfig
	serviceEvoucher    *ServiceEvoucher
	serviceLeaderboard *ServiceLeaderboard
}

func NewServiceCollection(container *do.Injector) (*ServiceCollection, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	dbRedisCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
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

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceEvoucher, err := do.Invoke[*ServiceEvoucher](container)
	if err != nil {
		return nil, err
	}

	serviceLeaderboard, err := do.Invoke[*ServiceLeaderboard](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCollection{container, db, dbRedisCache, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, rateLimiter, serviceConfig, serviceEvoucher, serviceLeaderboard}, nil
}

// validateClaim runs the claim checks in their fixed order: distance first,
// then the landmark's global cooldown, the user's own ledger, the per-user
// cap, and finally the remaining supply.
func validateClaim(landmark *models.Landmark, entries []*models.CollectedLandmark, onCooldown bool, userLat, userLong float64) error {
	if geo.Distance(userLat, userLong, landmark.Latitude, landmark.Longitude) > GEOFENCE_RADIUS_METERS {
		return ErrTooFar
	}

	if onCooldown {
		return ErrLandmarkCooldown
	}

	for _, entry := range entries {
		if entry.LandmarkID == landmark.ID {
			return ErrAlreadyCollected
		}
	}

	if len(entries) >= models.MaxLandmarksPerUser {
		return ErrMaxCollected
	}

	if landmark.CoinAmount <= 0 {
		return ErrNoCoinsLeft
	}

	return nil
}

// claimCommitError maps an exhausted decrement to the caller-facing error;
// the race loser sees the same answer as a sequential late claimer.
func claimCommitError(err error) error {
	if errors.Is(err, datastore.ErrSupplyExhausted) {
		return errorx.Wrap(ErrNoCoinsLeft, errorx.Invalid)
	}
	return err
}

func (service *ServiceCollection) CollectCoin(ctx context.Context, user *models.User, landmarkID string, userLat, userLong float64) (*models.CollectResult, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_COLLECT_RATE_LIMIT, COLLECT_RATE_LIMIT_PER_MINUTE)
	err := service.limiter.Allow(ctx, LimitKeyCollect(user.ID), redis_rate.PerMinute(limit))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyCollect(user.ID, landmarkID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrClaimLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	landmark, err := datastore.GetLandmark(ctx, service.postgresDB, landmarkID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrLandmarkNotFound, errorx.NotExist)
		}
		return nil, err
	}

	now := time.Now()
	onCooldown, err := service.landmarkOnCooldown(ctx, landmark, now)
	if err != nil {
		return nil, err
	}

	var entries []*models.CollectedLandmark
	collection, err := datastore.GetCollectionByUser(ctx, service.postgresDB, user.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if collection != nil {
		entries = collection.Landmarks
	}

	if err := validateClaim(landmark, entries, onCooldown, userLat, userLong); err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	err = datastore.SaveClaim(ctx, service.postgresDB, user.ID, landmarkID, now)
	if err != nil {
		return nil, claimCommitError(err)
	}

	// markers and caches are best effort once the claim is committed
	_ = redis_store.SetLandmarkLastClaim(ctx, service.redisDB, landmarkID, now, landmark.Cooldown())
	_ = caching.DeleteKeys(ctx, service.redisDBCache, DBKeyLandmark(landmarkID))
	_ = service.serviceLeaderboard.ClearCache(ctx)

	result := &models.CollectResult{Message: "Coin collected successfully"}

	// the award never blocks a committed collect
	evoucher, err := service.serviceEvoucher.DrawForUser(ctx, user.ID)
	if err != nil {
		log.Println("evoucher draw failed:", err)
	}
	result.Evoucher = evoucher

	return result, nil
}

// landmarkOnCooldown asks Redis first and falls back to the ledger, since
// the marker disappears on restart while the window may still be open.
func (service *ServiceCollection) landmarkOnCooldown(ctx context.Context, landmark *models.Landmark, now time.Time) (bool, error) {
	cooldown := landmark.Cooldown()
	if cooldown <= 0 {
		return false, nil
	}

	onCooldown, err := redis_store.LandmarkOnCooldown(ctx, service.redisDB, landmark.ID)
	if err == nil && onCooldown {
		return true, nil
	}

	return datastore.LandmarkClaimedSince(ctx, service.postgresDB, landmark.ID, now.Add(-cooldown))
}

func (service *ServiceCollection) FindAll(ctx context.Context, filter datastore.CollectionFilter) ([]*models.CoinCollection, error) {
	return datastore.GetCollections(ctx, service.readonlyPostgresDB, filter)
}

func (service *ServiceCollection) FindOne(ctx context.Context, id string) (*models.CoinCollection, error) {
	collection, err := datastore.GetCollectionByID(ctx, service.readonlyPostgresDB, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrCollectionNotFound, errorx.NotExist)
		}
		return nil, err
	}

	return collection, nil
}

func (service *ServiceCollection) FindByUser(ctx context.Context, userID string) (*models.CoinCollection, error) {
	collection, err := datastore.GetCollectionByUser(ctx, service.readonlyPostgresDB, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrCollectionNotFound, errorx.NotExist)
		}
		return nil, err
	}

	return collection, nil
}

func (service *ServiceCollection) Remove(ctx context.Context, id string) (*models.RemoveResult, error) {
	deleted, err := datastore.DeleteCollection(ctx, service.postgresDB, id)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, errorx.Wrap(ErrCollectionNotFound, errorx.NotExist)
	}

	_ = service.serviceLeaderboard.ClearCache(ctx)

	return &models.RemoveResult{Message: "Collection removed", ID: id}, nil
}
