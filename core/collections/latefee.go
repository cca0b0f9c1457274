package collections

import (
	"math"
	"time"

	"github.com/manishreddyt/easy-collections/core"
)

// LateFee returns the late fee owed on an installment of amount due on dueDate, as of now.
// Nothing is owed while the fee is disabled or the installment is within its grace period.
func LateFee(conf LateFeeConfig, amount float64, dueDate string, now time.Time) float64 {
	if !conf.Enabled {
		return 0
	}
	due, err := core.ParseDate(dueDate)
	if err != nil {
		return 0
	}
	daysLate := int(math.Floor(now.Sub(due).Hours() / 24))
	if daysLate <= conf.GracePeriodDays {
		return 0
	}

	var fee float64
	switch conf.Type {
	case LateFeeFlat:
		fee = conf.Value
	case LateFeePercentage:
		fee = amount * conf.Value / 100
	case LateFeePerDay:
		fee = conf.Value * float64(daysLate-conf.GracePeriodDays)
	}
	if conf.CapAmount.Valid && fee > conf.CapAmount.Float64 {
		fee = conf.CapAmount.Float64
	}
	return core.Round2(fee)
}
