package collections

import (
	"fmt"
	"time"

	"github.com/manishreddyt/easy-collections/core"
)

// months between 2 installments, per plan type
var planIntervals = map[string]int{
	PlanOneTime:    12,
	PlanMonthly:    1,
	PlanQuarterly:  3,
	PlanSemiAnnual: 6,
	PlanAnnual:     12,
}

// BuildInstallments splits total into plan.SplitCount installments, the first one due on start.
// The last installment absorbs rounding differences.
func BuildInstallments(plan PricingPlan, total float64, start time.Time) []Installment {
	count := plan.SplitCount
	if count < 1 {
		count = 1
	}
	interval, ok := planIntervals[plan.Type]
	if !ok {
		interval = 12 / count
		if interval < 1 {
			interval = 1
		}
	}

	share := core.Round2(total / float64(count))
	installments := make([]Installment, count)
	for i := range installments {
		due := start.AddDate(0, i*interval, 0)
		amount := share
		if i == count-1 {
			amount = core.Round2(total - share*float64(count-1))
		}
		installments[i] = Installment{
			ID:      core.GenerateID("inst", 8),
			Number:  i + 1,
			Label:   installmentLabel(plan.Type, i+1, count, due, interval),
			Amount:  amount,
			DueDate: due.Format(core.DateLayout),
			Status:  InstallmentUpcoming,
		}
	}
	return installments
}

// installmentLabel names an installment by the period it covers (ex: "Q1 (Apr-Jun)", "Jan 2026").
func installmentLabel(planType string, number, count int, due time.Time, interval int) string {
	if count == 1 {
		return "Full Payment"
	}
	periodEnd := due.AddDate(0, interval-1, 0)
	span := fmt.Sprintf("%s-%s", due.Format("Jan"), periodEnd.Format("Jan"))
	switch planType {
	case PlanMonthly:
		return due.Format("Jan 2006")
	case PlanQuarterly:
		return fmt.Sprintf("Q%d (%s)", number, span)
	case PlanSemiAnnual:
		return fmt.Sprintf("H%d (%s)", number, span)
	}
	return fmt.Sprintf("Installment %d (%s)", number, span)
}

func parseDisplayDate(s string) (time.Time, error) {
	return time.ParseInLocation(core.DisplayDateLayout, s, time.UTC)
}
