package collections

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
)

type (
	Report struct {
		Totals           ReportTotals             `json:"totals"`
		Groups           []GroupCollectionSummary `json:"groups"`
		OnTime           PaymentShare             `json:"on_time"`
		Overdue          PaymentShare             `json:"overdue"`
		Defaulters       []Defaulter              `json:"defaulters"`
		ComponentRevenue ComponentRevenue         `json:"component_revenue"`
	}

	Defaulter struct {
		Customer    Customer `json:"customer"`
		GroupName   string   `json:"group_name"`
		OverdueDays null.Int `json:"overdue_days"`
	}

	Dashboard struct {
		Stats               CollectionStats          `json:"stats"`
		ActiveCycle         *BillingCycle            `json:"active_cycle"`
		CycleCollectionRate float64                  `json:"cycle_collection_rate"`
		Groups              []GroupCollectionSummary `json:"groups"`
		UpcomingDues        []UpcomingDue            `json:"upcoming_dues"`
		RecentActivity      []ActivityItem           `json:"recent_activity"`
	}
)

func (svc *Service) Stats(ctx context.Context) (CollectionStats, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return CollectionStats{}, err
	}
	return ComputeCollectionStats(st.Customers), nil
}

func (svc *Service) GroupSummaries(ctx context.Context) ([]GroupCollectionSummary, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeGroupSummaries(st.Customers, st.Groups), nil
}

// Reports computes the collection report as of now.
func (svc *Service) Reports(ctx context.Context, now time.Time) (Report, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return Report{}, err
	}

	stats := ComputeCollectionStats(st.Customers)
	summaries := ComputeGroupSummaries(st.Customers, st.Groups)
	report := Report{
		Totals:           ComputeReportTotals(summaries),
		Groups:           summaries,
		OnTime:           ComputePaymentShare(st.Customers, stats.OnTimeCount),
		Overdue:          ComputePaymentShare(st.Customers, stats.OverdueCount),
		Defaulters:       []Defaulter{},
		ComponentRevenue: ComputeComponentRevenue(st.Components, st.Structures, st.Groups),
	}
	for _, c := range Defaulters(st.Customers) {
		d := Defaulter{Customer: c}
		if g, ok := findGroup(st.Groups, c.GroupID); ok {
			d.GroupName = g.Name
		}
		if days, ok := OverdueDays(st.Schedules, c.ID, now); ok {
			d.OverdueDays = null.IntFrom(days)
		}
		report.Defaulters = append(report.Defaulters, d)
	}
	return report, nil
}

// Dashboard computes the dashboard; rng filters upcoming dues & recent activity.
func (svc *Service) Dashboard(ctx context.Context, rng DateRange) (Dashboard, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	dash := Dashboard{
		Stats:          ComputeCollectionStats(st.Customers),
		Groups:         ComputeGroupSummaries(st.Customers, st.Groups),
		UpcomingDues:   UpcomingDues(st.Schedules, st.Customers, rng),
		RecentActivity: RecentActivity(st.RecentActivity, rng),
	}
	if bc, ok := ActiveBillingCycle(st.BillingCycles); ok {
		dash.ActiveCycle = &bc
		dash.CycleCollectionRate = CycleCollectionRate(bc)
	}
	return dash, nil
}

// Collections lists the non-exited customers matching filter, with their totals.
func (svc *Service) Collections(ctx context.Context, filter CollectionFilter) (CollectionView, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return CollectionView{}, err
	}
	filter.Clean()
	customers := FilterCustomers(st.Customers, filter.Match)
	return CollectionView{Customers: customers, Totals: ComputeCollectionTotals(customers)}, nil
}
