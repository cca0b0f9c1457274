package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core/collections"
)

type billingApi struct {
	svc *collections.Service
}

func registerBillingAPI(g *echo.Group, svc *collections.Service) {
	api := billingApi{svc: svc}

	gg := g.Group("/groups")
	gg.GET("", api.queryGroups)
	gg.POST("", api.createGroup)

	cg := g.Group("/components")
	cg.GET("", api.queryComponents)
	cg.POST("", api.createComponent)
	cg.PATCH("/:id", api.updateComponent)
	cg.DELETE("/:id", api.deleteComponent)

	sg := g.Group("/structures")
	sg.GET("", api.queryStructures)
	sg.POST("", api.createStructure)

	dg := g.Group("/discounts")
	dg.GET("", api.queryDiscounts)
	dg.POST("", api.createDiscount)

	pg := g.Group("/plans")
	pg.GET("", api.queryPlans)
	pg.POST("", api.createPlan)

	bg := g.Group("/cycles")
	bg.GET("", api.queryCycles)
	bg.POST("", api.createCycle)
	bg.PATCH("/:id", api.updateCycle)
	bg.POST("/:id/start", api.startCycle)
}

// Groups

func (api *billingApi) queryGroups(ctx echo.Context) error {
	groups, err := api.svc.QueryGroups(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *billingApi) createGroup(ctx echo.Context) error {
	var data collections.NewGroup
	if err := bind(ctx, &data, "NewGroup"); err != nil {
		return err
	}
	grp, err := api.svc.CreateGroup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

// Components

func (api *billingApi) queryComponents(ctx echo.Context) error {
	components, err := api.svc.QueryComponents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying components")
	}
	return ctx.JSON(http.StatusOK, components)
}

func (api *billingApi) createComponent(ctx echo.Context) error {
	var data collections.NewComponent
	if err := bind(ctx, &data, "NewComponent"); err != nil {
		return err
	}
	comp, err := api.svc.CreateComponent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating component")
	}
	return ctx.JSON(http.StatusCreated, comp)
}

func (api *billingApi) updateComponent(ctx echo.Context) error {
	var data collections.ComponentPatch
	if err := bind(ctx, &data, "ComponentPatch"); err != nil {
		return err
	}
	comp, err := api.svc.UpdateComponent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating component")
	}
	return ctx.JSON(http.StatusOK, comp)
}

func (api *billingApi) deleteComponent(ctx echo.Context) error {
	if err := api.svc.DeleteComponent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting component")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Structures

func (api *billingApi) queryStructures(ctx echo.Context) error {
	structures, err := api.svc.QueryStructures(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying structures")
	}
	return ctx.JSON(http.StatusOK, structures)
}

func (api *billingApi) createStructure(ctx echo.Context) error {
	var data collections.NewStructure
	if err := bind(ctx, &data, "NewStructure"); err != nil {
		return err
	}
	s, err := api.svc.CreateStructure(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating structure")
	}
	return ctx.JSON(http.StatusCreated, s)
}

// Discounts

func (api *billingApi) queryDiscounts(ctx echo.Context) error {
	discounts, err := api.svc.QueryDiscounts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying discounts")
	}
	return ctx.JSON(http.StatusOK, discounts)
}

func (api *billingApi) createDiscount(ctx echo.Context) error {
	var data collections.NewDiscount
	if err := bind(ctx, &data, "NewDiscount"); err != nil {
		return err
	}
	d, err := api.svc.CreateDiscount(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating discount")
	}
	return ctx.JSON(http.StatusCreated, d)
}

// Pricing plans

func (api *billingApi) queryPlans(ctx echo.Context) error {
	plans, err := api.svc.QueryPricingPlans(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying pricing plans")
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *billingApi) createPlan(ctx echo.Context) error {
	var data collections.NewPricingPlan
	if err := bind(ctx, &data, "NewPricingPlan"); err != nil {
		return err
	}
	p, err := api.svc.CreatePricingPlan(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating pricing plan")
	}
	return ctx.JSON(http.StatusCreated, p)
}

// Billing cycles

func (api *billingApi) queryCycles(ctx echo.Context) error {
	cycles, err := api.svc.QueryBillingCycles(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying billing cycles")
	}
	return ctx.JSON(http.StatusOK, cycles)
}

func (api *billingApi) createCycle(ctx echo.Context) error {
	var data collections.NewBillingCycle
	if err := bind(ctx, &data, "NewBillingCycle"); err != nil {
		return err
	}
	bc, err := api.svc.CreateBillingCycle(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating billing cycle")
	}
	return ctx.JSON(http.StatusCreated, bc)
}

func (api *billingApi) updateCycle(ctx echo.Context) error {
	var data collections.BillingCyclePatch
	if err := bind(ctx, &data, "BillingCyclePatch"); err != nil {
		return err
	}
	bc, err := api.svc.UpdateBillingCycle(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating billing cycle")
	}
	return ctx.JSON(http.StatusOK, bc)
}

func (api *billingApi) startCycle(ctx echo.Context) error {
	bc, err := api.svc.StartBillingCycle(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "starting billing cycle")
	}
	return ctx.JSON(http.StatusOK, bc)
}
