package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core/transaction"
)

type transactionApi struct {
	svc *transaction.Service
}

func registerTransactionAPI(g *echo.Group, svc *transaction.Service) {
	api := transactionApi{svc: svc}
	g.GET("/transactions", api.search)
}

func (api *transactionApi) search(ctx echo.Context) error {
	res, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "searching transactions")
	}
	return ctx.JSON(http.StatusOK, res)
}
