package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coinhunt/internal/datastore"
	"coinhunt/internal/models"
	"coinhunt/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceLandmark struct {
	container          *do.Injector
	redisDBCache       redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceLandmark(container *do.Injector) (*ServiceLandmark, error) {
	dbRedisCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
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

	return &ServiceLandmark{container, dbRedisCache, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceLandmark) Create(ctx context.Context, landmark *models.Landmark) (*models.Landmark, error) {
	if landmark.ID == "" {
		landmark.ID = uuid.NewString()
	}

	now := time.Now()
	landmark.CreatedAt = now
	landmark.UpdatedAt = now

	err := datastore.InsertLandmark(ctx, service.postgresDB, landmark)
	if err != nil {
		return nil, err
	}

	_ = service.invalidate(ctx, landmark.ID)
	return landmark, nil
}

func (service *ServiceLandmark) FindAll(ctx context.Context, activeOnly bool) ([]*models.Landmark, error) {
	callback := func() ([]*models.Landmark, error) {
		return datastore.GetLandmarks(ctx, service.readonlyPostgresDB, activeOnly, 0, 0)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLandmarks(activeOnly), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceLandmark) FindOne(ctx context.Context, id string) (*models.Landmark, error) {
	callback := func() (*models.Landmark, error) {
		landmark, err := datastore.GetLandmark(ctx, service.readonlyPostgresDB, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errorx.Wrap(ErrLandmarkNotFound, errorx.NotExist)
			}
			return nil, err
		}
		return landmark, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLandmark(id), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceLandmark) Update(ctx context.Context, landmark *models.Landmark) (*models.Landmark, error) {
	_, err := datastore.GetLandmark(ctx, service.postgresDB, landmark.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrLandmarkNotFound, errorx.NotExist)
		}
		return nil, err
	}

	landmark, err = datastore.UpdateLandmark(ctx, service.postgresDB, landmark)
	if err != nil {
		return nil, err
	}

	_ = service.invalidate(ctx, landmark.ID)
	return landmark, nil
}

func (service *ServiceLandmark) Remove(ctx context.Context, id string) error {
	deleted, err := datastore.DeleteLandmark(ctx, service.postgresDB, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return errorx.Wrap(ErrLandmarkNotFound, errorx.NotExist)
	}

	_ = service.invalidate(ctx, id)
	return nil
}

func (service *ServiceLandmark) invalidate(ctx context.Context, id string) error {
	err := caching.DeleteKeys(ctx, service.redisDBCache, DBKeyLandmark(id))
	if err != nil {
		return err
	}

	return caching.DeleteKeys(ctx, service.redisDBCache, "landmarks:*")
}
