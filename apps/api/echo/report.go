package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
)

type reportApi struct {
	svc *collections.Service
}

func registerReportAPI(g *echo.Group, svc *collections.Service) {
	api := reportApi{svc: svc}

	g.GET("/collections", api.collections)
	g.GET("/dashboard", api.dashboard)

	rg := g.Group("/reports")
	rg.GET("", api.reports)
	rg.GET("/stats", api.stats)
	rg.GET("/groups", api.groups)
}

func (api *reportApi) collections(ctx echo.Context) error {
	var filter collections.CollectionFilter
	if err := bind(ctx, &filter, "CollectionFilter"); err != nil {
		return err
	}
	view, err := api.svc.Collections(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying collections")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	var rng DateRange
	if err := rng.Bind(ctx); err != nil {
		return err
	}
	dash, err := api.svc.Dashboard(ctx.Request().Context(), rng.DateRange)
	if err != nil {
		return errors.Wrap(err, "computing dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *reportApi) reports(ctx echo.Context) error {
	report, err := api.svc.Reports(ctx.Request().Context(), core.NowFunc())
	if err != nil {
		return errors.Wrap(err, "computing reports")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *reportApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *reportApi) groups(ctx echo.Context) error {
	summaries, err := api.svc.GroupSummaries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing group summaries")
	}
	return ctx.JSON(http.StatusOK, summaries)
}
