package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core/collections"
)

type setupApi struct {
	svc *collections.Service
}

func registerSetupAPI(g *echo.Group, svc *collections.Service) {
	api := setupApi{svc: svc}

	sg := g.Group("/setup")
	sg.GET("/templates", api.templates)
	sg.GET("/state", api.state)
	sg.POST("", api.setup)
	sg.POST("/demo", api.demo)
}

func (api *setupApi) templates(ctx echo.Context) error {
	templates, err := api.svc.Templates()
	if err != nil {
		return errors.Wrap(err, "querying templates")
	}
	return ctx.JSON(http.StatusOK, templates)
}

func (api *setupApi) state(ctx echo.Context) error {
	state, err := api.svc.State(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting state")
	}
	return ctx.JSON(http.StatusOK, state)
}

func (api *setupApi) setup(ctx echo.Context) error {
	var data collections.SetupRequest
	if err := bind(ctx, &data, "SetupRequest"); err != nil {
		return err
	}
	state, err := api.svc.Setup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "setting up")
	}
	return ctx.JSON(http.StatusOK, state)
}

func (api *setupApi) demo(ctx echo.Context) error {
	state, err := api.svc.SetupDemo(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "setting up demo")
	}
	return ctx.JSON(http.StatusOK, state)
}
