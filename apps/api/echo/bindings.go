package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
)

const (
	orderingParam = "ordering"
	fromParam     = "from"
	toParam       = "to"
)

type Ordering struct {
	Orderings []core.Ordering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam))
}

// DateRange binds the optional `from` & `to` query params (YYYY-MM-DD); `to` covers its whole day.
type DateRange struct {
	collections.DateRange
}

func (rng *DateRange) Bind(ctx echo.Context) error {
	var flds []core.FieldError
	if from := core.CleanString(ctx.QueryParam(fromParam)); from != "" {
		d, err := core.ParseDate(from)
		if err != nil {
			flds = append(flds, core.FieldError{Field: fromParam, Error: "Enter a valid date (YYYY-MM-DD)"})
		}
		rng.From = d
	}
	if to := core.CleanString(ctx.QueryParam(toParam)); to != "" {
		d, err := core.ParseDate(to)
		if err != nil {
			flds = append(flds, core.FieldError{Field: toParam, Error: "Enter a valid date (YYYY-MM-DD)"})
		}
		rng.To = d.Add(24*time.Hour - time.Nanosecond)
	}
	if len(flds) > 0 {
		return core.NewValidationError(core.ErrInvalidData, flds...)
	}
	return nil
}

// bind decodes the request body into data.
func bind(ctx echo.Context, data interface{}, name string) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding to "+name)
	}
	return nil
}
