package handler

import (
	"coinhunt/internal/datastore"
	"coinhunt/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCollection struct {
	container *do.Injector
}

type collectPayload struct {
	LandmarkID string  `json:"landmarkId"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func (gr *groupCollection) Collect(c echo.Context) error {
	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload collectPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceCollection.CollectCoin(ctx, user, payload.LandmarkID, payload.Latitude, payload.Longitude)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupCollection) Mine(c echo.Context) error {
	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	collection, err := serviceCollection.FindByUser(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, collection, nil)
}

func (gr *groupCollection) FindAll(c echo.Context) error {
	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	_, err = ResolveAdminUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var filter datastore.CollectionFilter
	if err := echo.QueryParamsBinder(c).
		String("userId", &filter.UserID).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError(); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	collections, err := serviceCollection.FindAll(ctx, filter)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, collections, nil)
}

func (gr *groupCollection) FindOne(c echo.Context) error {
	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	_, err = ResolveAdminUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	collection, err := serviceCollection.FindOne(ctx, c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, collection, nil)
}

func (gr *groupCollection) Remove(c echo.Context) error {
	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	_, err = ResolveAdminUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	result, err := serviceCollection.Remove(ctx, c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}
