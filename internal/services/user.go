package services

import (
	"context"
	"errors"

	"coinhunt/internal/datastore"
	"coinhunt/internal/models"
	"coinhunt/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceUser struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
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

	return &ServiceUser{container, db, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceUser) FindOrCreateUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	if userAuth == nil {
		return nil, errors.New("userAuth is nil")
	}

	role := userAuth.Role
	if role == "" {
		role = models.RoleStudent
	}

	user, err := datastore.UpsertUser(ctx, service.postgresDB, &models.User{
		ID:       userAuth.ID,
		Username: userAuth.Username,
		FullName: userAuth.FullName,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.GetUserByID(ctx, service.readonlyPostgresDB, id)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(id), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceUser) FindUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users, err := datastore.GetUsersByIDs(ctx, service.readonlyPostgresDB, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	return byID, nil
}
