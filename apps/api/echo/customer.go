package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core/collections"
)

type (
	customerApi struct {
		svc *collections.Service
	}

	ReminderRequest struct {
		GroupID string `json:"group_id"`
	}

	ReminderResponse struct {
		Sent int `json:"sent"`
	}
)

func registerCustomerAPI(g *echo.Group, svc *collections.Service) {
	api := customerApi{svc: svc}

	cg := g.Group("/customers")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/counts", api.counts)
	cg.GET("/suggest", api.suggest)

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.POST("/pause", api.pause)
	dg.POST("/resume", api.resume)
	dg.POST("/discounts", api.applyDiscount)

	ag := g.Group("/activity")
	ag.GET("", api.queryActivity)
	ag.POST("", api.recordActivity)

	g.POST("/reminders", api.sendReminders)
}

func (api *customerApi) query(ctx echo.Context) error {
	var filter collections.CustomerFilter
	if err := bind(ctx, &filter, "CustomerFilter"); err != nil {
		return err
	}
	var ord Ordering
	ord.Bind(ctx)

	customers, err := api.svc.QueryCustomers(ctx.Request().Context(), filter, ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying customers")
	}
	return ctx.JSON(http.StatusOK, customers)
}

func (api *customerApi) create(ctx echo.Context) error {
	var data collections.NewCustomer
	if err := bind(ctx, &data, "NewCustomer"); err != nil {
		return err
	}
	c, err := api.svc.CreateCustomer(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating customer")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *customerApi) counts(ctx echo.Context) error {
	counts, err := api.svc.CustomerStatusCounts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting customers")
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *customerApi) suggest(ctx echo.Context) error {
	customers, err := api.svc.SuggestCustomers(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "suggesting customers")
	}
	return ctx.JSON(http.StatusOK, customers)
}

func (api *customerApi) retrieve(ctx echo.Context) error {
	detail, err := api.svc.CustomerDetail(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting customer detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *customerApi) update(ctx echo.Context) error {
	var data collections.CustomerPatch
	if err := bind(ctx, &data, "CustomerPatch"); err != nil {
		return err
	}
	c, err := api.svc.UpdateCustomer(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating customer")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *customerApi) pause(ctx echo.Context) error {
	c, err := api.svc.PauseCustomer(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "pausing customer")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *customerApi) resume(ctx echo.Context) error {
	c, err := api.svc.ResumeCustomer(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "resuming customer")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *customerApi) applyDiscount(ctx echo.Context) error {
	var data collections.NewCustomerDiscount
	if err := bind(ctx, &data, "NewCustomerDiscount"); err != nil {
		return err
	}
	cd, err := api.svc.ApplyDiscount(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "applying discount")
	}
	return ctx.JSON(http.StatusCreated, cd)
}

func (api *customerApi) queryActivity(ctx echo.Context) error {
	items, err := api.svc.QueryActivity(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying activity")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *customerApi) recordActivity(ctx echo.Context) error {
	var data collections.NewActivity
	if err := bind(ctx, &data, "NewActivity"); err != nil {
		return err
	}
	item, err := api.svc.RecordActivity(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording activity")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *customerApi) sendReminders(ctx echo.Context) error {
	var data ReminderRequest
	if err := bind(ctx, &data, "ReminderRequest"); err != nil {
		return err
	}
	n, err := api.svc.SendReminders(ctx.Request().Context(), data.GroupID)
	if err != nil {
		return errors.Wrap(err, "sending reminders")
	}
	return ctx.JSON(http.StatusOK, ReminderResponse{Sent: n})
}
