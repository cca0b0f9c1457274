package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
)

type (
	scheduleApi struct {
		svc *collections.Service
	}

	LateFeesResponse struct {
		Updated int `json:"updated"`
	}
)

func registerScheduleAPI(g *echo.Group, svc *collections.Service) {
	api := scheduleApi{svc: svc}

	sg := g.Group("/schedules")
	sg.GET("", api.query)
	sg.POST("", api.generate)
	sg.POST("/late-fees", api.applyLateFees)
	sg.POST("/:id/installments/:installment_id/payments", api.recordPayment)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	schedules, err := api.svc.QuerySchedules(ctx.Request().Context(), ctx.QueryParam("customer_id"))
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	return ctx.JSON(http.StatusOK, schedules)
}

func (api *scheduleApi) generate(ctx echo.Context) error {
	var data collections.NewSchedule
	if err := bind(ctx, &data, "NewSchedule"); err != nil {
		return err
	}
	sch, err := api.svc.GenerateSchedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating schedule")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *scheduleApi) recordPayment(ctx echo.Context) error {
	var data collections.NewPayment
	if err := bind(ctx, &data, "NewPayment"); err != nil {
		return err
	}
	sch, err := api.svc.RecordPayment(ctx.Request().Context(), ctx.Param("id"), ctx.Param("installment_id"), data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *scheduleApi) applyLateFees(ctx echo.Context) error {
	n, err := api.svc.ApplyLateFees(ctx.Request().Context(), core.NowFunc())
	if err != nil {
		return errors.Wrap(err, "applying late fees")
	}
	return ctx.JSON(http.StatusOK, LateFeesResponse{Updated: n})
}
