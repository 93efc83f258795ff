package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coinhunt/internal/datastore"
	"coinhunt/internal/models"
	"coinhunt/internal/pkg/caching"

	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceEvoucher struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceEvoucher(container *do.Injector) (*ServiceEvoucher, error) {
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

	return &ServiceEvoucher{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// DrawForUser rolls a weighted sponsor pick and hands out one of its codes.
// Returns nil without error when no sponsor or code is available.
func (service *ServiceEvoucher) DrawForUser(ctx context.Context, userID string) (*models.Evoucher, error) {
	sponsors, err := service.activeSponsors(ctx)
	if err != nil {
		return nil, err
	}
	if len(sponsors) == 0 {
		return nil, nil
	}

	choices := make([]weightedrand.Choice[string, int], 0, len(sponsors))
	for _, sponsor := range sponsors {
		if sponsor.Weight <= 0 {
			continue
		}
		choices = append(choices, weightedrand.NewChoice(sponsor.ID, sponsor.Weight))
	}
	if len(choices) == 0 {
		return nil, nil
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	evoucher, err := datastore.ClaimEvoucherCode(ctx, service.postgresDB, chooser.Pick(), userID, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return evoucher, nil
}

func (service *ServiceEvoucher) FindByUser(ctx context.Context, userID string) ([]*models.Evoucher, error) {
	return datastore.GetEvouchersByUser(ctx, service.readonlyPostgresDB, userID)
}

func (service *ServiceEvoucher) activeSponsors(ctx context.Context) ([]*models.Sponsor, error) {
	callback := func() ([]*models.Sponsor, error) {
		return datastore.GetActiveSponsors(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeySponsors(), CACHE_TTL_5_MINS, callback)
}
