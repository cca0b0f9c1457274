package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core/paymentlink"
)

type paymentLinkApi struct {
	svc *paymentlink.Service
}

func registerPaymentLinkAPI(g *echo.Group, svc *paymentlink.Service) {
	api := paymentLinkApi{svc: svc}

	lg := g.Group("/payment-links")
	lg.GET("", api.query)
	lg.POST("", api.create)
	lg.GET("/counts", api.counts)
	lg.GET("/stats", api.stats)

	// detail endpoints
	dg := lg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.POST("/activate", api.activate)
	dg.POST("/deactivate", api.deactivate)
}

func (api *paymentLinkApi) query(ctx echo.Context) error {
	var filter paymentlink.Filter
	if err := bind(ctx, &filter, "Filter"); err != nil {
		return err
	}
	links, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying payment links")
	}
	return ctx.JSON(http.StatusOK, links)
}

func (api *paymentLinkApi) create(ctx echo.Context) error {
	var data paymentlink.NewLink
	if err := bind(ctx, &data, "NewLink"); err != nil {
		return err
	}
	link, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating payment link")
	}
	return ctx.JSON(http.StatusCreated, link)
}

func (api *paymentLinkApi) counts(ctx echo.Context) error {
	counts, err := api.svc.Counts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting payment links")
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *paymentLinkApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing payment link stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *paymentLinkApi) retrieve(ctx echo.Context) error {
	link, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting payment link")
	}
	return ctx.JSON(http.StatusOK, link)
}

func (api *paymentLinkApi) update(ctx echo.Context) error {
	var data paymentlink.Patch
	if err := bind(ctx, &data, "Patch"); err != nil {
		return err
	}
	link, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating payment link")
	}
	return ctx.JSON(http.StatusOK, link)
}

func (api *paymentLinkApi) activate(ctx echo.Context) error {
	return api.setStatus(ctx, true)
}

func (api *paymentLinkApi) deactivate(ctx echo.Context) error {
	return api.setStatus(ctx, false)
}

func (api *paymentLinkApi) setStatus(ctx echo.Context, active bool) error {
	link, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), active)
	if err != nil {
		return errors.Wrap(err, "setting payment link status")
	}
	return ctx.JSON(http.StatusOK, link)
}
