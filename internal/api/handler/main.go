package handler

import (
	"net/http"

	"coinhunt/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🪙")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		routesAPIv1User := routesAPIv1.Group("/user")
		{
			u := groupUser{cfg.Container}
			routesAPIv1User.GET("/me", u.Me)
			routesAPIv1User.GET("/evouchers", u.Evouchers)
		}

		lm := groupLandmark{cfg.Container}
		routesAPIv1.GET("/landmarks", lm.FindAll)
		routesAPIv1.POST("/landmarks", lm.Create)
		routesAPIv1.GET("/landmarks/:id", lm.FindOne)
		routesAPIv1.PATCH("/landmarks/:id", lm.Update)
		routesAPIv1.DELETE("/landmarks/:id", lm.Remove)

		l := groupLeaderboard{cfg.Container}
		cc := groupCollection{cfg.Container}
		routesAPIv1CC := routesAPIv1.Group("/coin-collections")
		{
			// fixed paths are registered before :id
			routesAPIv1CC.POST("/collect", cc.Collect)
			routesAPIv1CC.GET("/leaderboard", l.GetLeaderboard)
			routesAPIv1CC.GET("/my-rank", l.GetMyRank)
			routesAPIv1CC.GET("/rank/:userId", l.GetUserRank)
			routesAPIv1CC.GET("/me", cc.Mine)
			routesAPIv1CC.GET("", cc.FindAll)
			routesAPIv1CC.GET("/:id", cc.FindOne)
			routesAPIv1CC.DELETE("/:id", cc.Remove)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
