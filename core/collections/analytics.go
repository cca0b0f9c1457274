package collections

import (
	"math"
	"sort"
	"time"

	"github.com/manishreddyt/easy-collections/core"
)

const (
	maxUpcomingDues   = 5
	maxRecentActivity = 8
)

type (
	ReportTotals struct {
		TotalExpected  float64 `json:"total_expected"`
		TotalCollected float64 `json:"total_collected"`
		TotalOverdue   float64 `json:"total_overdue"`
		TotalCustomers int     `json:"total_customers"`
		OverallRate    float64 `json:"overall_rate"`
	}

	// PaymentShare is a count out of all billable customers, with a rounded percentage.
	PaymentShare struct {
		Count int `json:"count"`
		Total int `json:"total"`
		Pct   int `json:"pct"`
	}

	ComponentRevenueRow struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Expected float64 `json:"expected"`
	}

	ComponentRevenue struct {
		Rows       []ComponentRevenueRow `json:"rows"`
		GrandTotal float64               `json:"grand_total"`
	}

	UpcomingDue struct {
		CustomerName string  `json:"customer_name"`
		Label        string  `json:"label"`
		Amount       float64 `json:"amount"`
		DueDate      string  `json:"due_date"`
	}

	// DateRange bounds dates inclusively; a zero bound is open.
	DateRange struct {
		From time.Time
		To   time.Time
	}
)

// ComputeCollectionStats rolls up the balances of active & paused customers.
func ComputeCollectionStats(customers []Customer) CollectionStats {
	var stats CollectionStats
	var overdue int
	for _, c := range customers {
		if !c.IsBillable() {
			continue
		}
		stats.TotalExpected += c.TotalDue
		stats.TotalCollected += c.TotalPaid
		stats.TotalOverdue += c.TotalOverdue

		if c.TotalPaid >= c.TotalDue {
			stats.OnTimeCount++
		}
		if c.TotalOverdue > 0 {
			overdue++
		}
		if c.TotalPaid == 0 && c.TotalDue > 0 {
			stats.PendingCount++
		}
	}
	stats.CollectionRate = core.Rate(stats.TotalCollected, stats.TotalExpected)
	stats.LateCount = overdue
	stats.OverdueCount = overdue
	return stats
}

// ComputeGroupSummaries rolls up, per group and in groups order, the balances of the group's non-exited customers.
func ComputeGroupSummaries(customers []Customer, groups []CustomerGroup) []GroupCollectionSummary {
	summaries := make([]GroupCollectionSummary, 0, len(groups))
	for _, g := range groups {
		sum := GroupCollectionSummary{GroupID: g.ID, GroupName: g.Name}
		for _, c := range customers {
			if c.GroupID != g.ID || c.Status == StatusExited {
				continue
			}
			sum.Expected += c.TotalDue
			sum.Collected += c.TotalPaid
			sum.Overdue += c.TotalOverdue
			sum.CustomerCount++
		}
		sum.CollectionRate = core.Rate(sum.Collected, sum.Expected)
		summaries = append(summaries, sum)
	}
	return summaries
}

// ComputeReportTotals sums group summaries.
func ComputeReportTotals(summaries []GroupCollectionSummary) ReportTotals {
	var totals ReportTotals
	for _, s := range summaries {
		totals.TotalExpected += s.Expected
		totals.TotalCollected += s.Collected
		totals.TotalOverdue += s.Overdue
		totals.TotalCustomers += s.CustomerCount
	}
	totals.OverallRate = core.Rate(totals.TotalCollected, totals.TotalExpected)
	return totals
}

// ComputePaymentShare expresses count as a share of the billable customers.
func ComputePaymentShare(customers []Customer, count int) PaymentShare {
	var total int
	for _, c := range customers {
		if c.IsBillable() {
			total++
		}
	}
	share := PaymentShare{Count: count, Total: total}
	if total > 0 {
		share.Pct = int(math.Round(float64(count) / float64(total) * 100))
	}
	return share
}

// Defaulters returns customers with an overdue balance, highest overdue first.
func Defaulters(customers []Customer) []Customer {
	out := make([]Customer, 0)
	for _, c := range customers {
		if c.TotalOverdue > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalOverdue > out[j].TotalOverdue })
	return out
}

// OverdueDays returns the number of whole days since the earliest overdue installment of the customer's schedule.
// ok is false when the customer has no schedule or no overdue installment.
func OverdueDays(schedules []PaymentSchedule, customerID string, now time.Time) (days int, ok bool) {
	var sch *PaymentSchedule
	for i := range schedules {
		if schedules[i].CustomerID == customerID {
			sch = &schedules[i]
			break
		}
	}
	if sch == nil {
		return 0, false
	}

	var earliest time.Time
	for _, inst := range sch.Installments {
		if inst.Status != InstallmentOverdue {
			continue
		}
		d, err := core.ParseDate(inst.DueDate)
		if err != nil {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	if earliest.IsZero() {
		return 0, false
	}

	days = int(math.Floor(now.Sub(earliest).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days, true
}

// ComputeComponentRevenue estimates each component's expected revenue: structure amount x group customer count.
func ComputeComponentRevenue(components []BillingComponent, structures []BillingStructure, groups []CustomerGroup) ComponentRevenue {
	rows := make([]ComponentRevenueRow, 0, len(components))
	index := make(map[string]int, len(components))
	for _, comp := range components {
		typ := "One-time"
		if comp.Frequency == FrequencyRecurring {
			typ = "Recurring"
		}
		index[comp.ID] = len(rows)
		rows = append(rows, ComponentRevenueRow{ID: comp.ID, Name: comp.Name, Type: typ})
	}

	for _, st := range structures {
		var count int
		if g, ok := findGroup(groups, st.GroupID); ok {
			count = g.CustomerCount
		}
		for _, sc := range st.Components {
			if i, ok := index[sc.ComponentID]; ok {
				rows[i].Expected += sc.Amount * float64(count)
			}
		}
	}

	var total float64
	for _, r := range rows {
		total += r.Expected
	}
	return ComponentRevenue{Rows: rows, GrandTotal: total}
}

// ActiveBillingCycle returns the first active cycle.
func ActiveBillingCycle(cycles []BillingCycle) (BillingCycle, bool) {
	for _, bc := range cycles {
		if bc.Status == CycleActive {
			return bc, true
		}
	}
	return BillingCycle{}, false
}

func CycleCollectionRate(bc BillingCycle) float64 {
	return core.Rate(bc.TotalCollected, bc.TotalExpected)
}

// UpcomingDues lists the first upcoming installments due within rng.
func UpcomingDues(schedules []PaymentSchedule, customers []Customer, rng DateRange) []UpcomingDue {
	dues := make([]UpcomingDue, 0, maxUpcomingDues)
	for _, sch := range schedules {
		for _, inst := range sch.Installments {
			if inst.Status != InstallmentUpcoming {
				continue
			}
			if d, err := core.ParseDate(inst.DueDate); err == nil && !rng.Contains(d) {
				continue
			}
			name := "Unknown"
			if c, ok := findCustomer(customers, sch.CustomerID); ok {
				name = c.Name
			}
			dues = append(dues, UpcomingDue{CustomerName: name, Label: inst.Label, Amount: inst.Amount, DueDate: inst.DueDate})
			if len(dues) == maxUpcomingDues {
				return dues
			}
		}
	}
	return dues
}

// RecentActivity returns the first activity items within rng.
func RecentActivity(items []ActivityItem, rng DateRange) []ActivityItem {
	out := make([]ActivityItem, 0, maxRecentActivity)
	for _, item := range items {
		if ts, err := time.ParseInLocation(core.TimestampLayout, item.Timestamp, time.UTC); err == nil && !rng.Contains(ts) {
			continue
		}
		out = append(out, item)
		if len(out) == maxRecentActivity {
			break
		}
	}
	return out
}

// Contains reports whether t is within the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

func findGroup(groups []CustomerGroup, id string) (CustomerGroup, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return CustomerGroup{}, false
}

func findCustomer(customers []Customer, id string) (Customer, bool) {
	for _, c := range customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}
