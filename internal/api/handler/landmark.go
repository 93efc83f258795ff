package handler

import (
	"coinhunt/internal/models"
	"coinhunt/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupLandmark struct {
	container *do.Injector
}

type landmarkPayload struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	CoinAmount int     `json:"coinAmount"`
	Cooldown   int64   `json:"cooldown"`
	HintImage  string  `json:"hintImage"`
	Active     *bool   `json:"active"`
}

func (gr *groupLandmark) FindAll(c echo.Context) error {
	serviceLandmark, err := do.Invoke[*services.ServiceLandmark](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	activeOnly := c.QueryParam("all") == ""
	landmarks, err := serviceLandmark.FindAll(c.Request().Context(), activeOnly)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, landmarks, nil)
}

func (gr *groupLandmark) FindOne(c echo.Context) error {
	serviceLandmark, err := do.Invoke[*services.ServiceLandmark](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	landmark, err := serviceLandmark.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, landmark, nil)
}

func (gr *groupLandmark) Create(c echo.Context) error {
	serviceLandmark, err := do.Invoke[*services.ServiceLandmark](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	_, err = ResolveAdminUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload landmarkPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	landmark, err := serviceLandmark.Create(ctx, &models.Landmark{
		Name:       payload.Name,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		CoinAmount: payload.CoinAmount,
		CooldownMS: payload.Cooldown,
		HintImage:  payload.HintImage,
		Active:     active,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, landmark, nil)
}

func (gr *groupLandmark) Update(c echo.Context) error {
	serviceLandmark, err := do.Invoke[*services.ServiceLandmark](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	_, err = ResolveAdminUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	existing, err := serviceLandmark.FindOne(ctx, c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	payload := landmarkPayload{
		Name:       existing.Name,
		Latitude:   existing.Latitude,
		Longitude:  existing.Longitude,
		CoinAmount: existing.CoinAmount,
		Cooldown:   existing.CooldownMS,
		HintImage:  existing.HintImage,
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	active := existing.Active
	if payload.Active != nil {
		active = *payload.Active
	}

	landmark, err := serviceLandmark.Update(ctx, &models.Landmark{
		ID:         existing.ID,
		Name:       payload.Name,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		CoinAmount: payload.CoinAmount,
		CooldownMS: payload.Cooldown,
		HintImage:  payload.HintImage,
		Active:     active,
		CreatedAt:  existing.CreatedAt,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, landmark, nil)
}

func (gr *groupLandmark) Remove(c echo.Context) error {
	serviceLandmark, err := do.Invoke[*services.ServiceLandmark](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	_, err = ResolveAdminUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	id := c.Param("id")
	if err := serviceLandmark.Remove(ctx, id); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, &models.RemoveResult{Message: "Landmark removed", ID: id}, nil)
}
