package echoapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/manishreddyt/easy-collections/apps/api/echo"
	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
)

func freezeTime(t *testing.T, now time.Time) {
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })
}

func Test_reportApi(t *testing.T) {
	freezeTime(t, time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC))
	app, _ := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "stats",
			method:   http.MethodGet,
			path:     "/v1/reports/stats",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var stats collections.CollectionStats
				decode(t, body, &stats)
				assert.Equal(t, 1117000.0, stats.TotalExpected)
				assert.Equal(t, 80250.0, stats.TotalOverdue)
				assert.Equal(t, 5, stats.OverdueCount)
			},
		},
		{
			name:     "groups",
			method:   http.MethodGet,
			path:     "/v1/reports/groups",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var summaries []collections.GroupCollectionSummary
				decode(t, body, &summaries)
				require.Len(t, summaries, 4)
				assert.Equal(t, "Class 6", summaries[0].GroupName)
				assert.Equal(t, 7, summaries[0].CustomerCount)
			},
		},
		{
			name:     "reports",
			method:   http.MethodGet,
			path:     "/v1/reports",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var report collections.Report
				decode(t, body, &report)
				assert.Equal(t, 80250.0, report.Totals.TotalOverdue)
				assert.Len(t, report.Defaulters, 5)
				assert.Len(t, report.Groups, 4)
			},
		},
		{
			name:     "overdue collections",
			method:   http.MethodGet,
			path:     "/v1/collections?filter=overdue",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var view collections.CollectionView
				decode(t, body, &view)
				assert.Len(t, view.Customers, 5)
				assert.Equal(t, 80250.0, view.Totals.TotalOverdue)
			},
		},
		{
			name:     "paid collections of a group",
			method:   http.MethodGet,
			path:     "/v1/collections?filter=paid&group_id=grp_4",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var view collections.CollectionView
				decode(t, body, &view)
				require.Len(t, view.Customers, 1)
				assert.Equal(t, "Reyansh Joshi", view.Customers[0].Name)
			},
		},
		{
			name:     "dashboard",
			method:   http.MethodGet,
			path:     "/v1/dashboard?from=2025-10-01&to=2025-10-31",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var dash collections.Dashboard
				decode(t, body, &dash)
				require.NotNil(t, dash.ActiveCycle)
				assert.Equal(t, "bc_4", dash.ActiveCycle.ID)
				assert.Len(t, dash.Groups, 4)
			},
		},
		{
			name:     "dashboard with bad dates",
			method:   http.MethodGet,
			path:     "/v1/dashboard?from=yesterday&to=2025-13-01",
			wantCode: http.StatusBadRequest,
			check: wantFields(map[string]string{
				"from": "Enter a valid date (YYYY-MM-DD)",
				"to":   "Enter a valid date (YYYY-MM-DD)",
			}),
		},
	})
}

func Test_scheduleApi(t *testing.T) {
	freezeTime(t, time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC))
	app, svcs := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "query by customer",
			method:   http.MethodGet,
			path:     "/v1/schedules?customer_id=cust_3",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var schedules []collections.PaymentSchedule
				decode(t, body, &schedules)
				require.Len(t, schedules, 1)
				assert.Equal(t, "sch_3", schedules[0].ID)
			},
		},
		{
			name:     "generate",
			method:   http.MethodPost,
			path:     "/v1/schedules",
			body:     `{"customer_id": "cust_2", "start_date": "2026-04-01"}`,
			wantCode: http.StatusCreated,
			check: func(t *testing.T, body []byte) {
				var sch collections.PaymentSchedule
				decode(t, body, &sch)
				assert.Equal(t, "cust_2", sch.CustomerID)
				assert.Equal(t, collections.PlanQuarterly, sch.Type)
				assert.Len(t, sch.Installments, 4)
			},
		},
		{
			name:     "generate twice",
			method:   http.MethodPost,
			path:     "/v1/schedules",
			body:     `{"customer_id": "cust_2", "start_date": "2026-04-01"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "pay part of an overdue installment",
			method:   http.MethodPost,
			path:     "/v1/schedules/sch_3/installments/inst_11/payments",
			body:     `{"amount": 5000, "paid_date": "2026-01-12"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var sch collections.PaymentSchedule
				decode(t, body, &sch)
				assert.Equal(t, collections.InstallmentOverdue, sch.Installments[2].Status)
				assert.Equal(t, 5000.0, sch.Installments[2].PaidAmount)
			},
		},
		{
			name:     "pay the rest",
			method:   http.MethodPost,
			path:     "/v1/schedules/sch_3/installments/inst_11/payments",
			body:     `{"amount": 7750, "paid_date": "2026-01-19"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var sch collections.PaymentSchedule
				decode(t, body, &sch)
				assert.Equal(t, collections.InstallmentPaid, sch.Installments[2].Status)
				assert.Equal(t, 12750.0, sch.Installments[2].PaidAmount)
			},
		},
		{
			name:     "pay paid installment",
			method:   http.MethodPost,
			path:     "/v1/schedules/sch_3/installments/inst_11/payments",
			body:     `{"amount": 100}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "non positive amount",
			method:   http.MethodPost,
			path:     "/v1/schedules/sch_3/installments/inst_12/payments",
			body:     `{"amount": 0}`,
			wantCode: http.StatusBadRequest,
			check:    wantFields(map[string]string{"amount": "Enter a valid amount greater than 0"}),
		},
		{
			name:     "unknown installment",
			method:   http.MethodPost,
			path:     "/v1/schedules/sch_3/installments/inst_99/payments",
			body:     `{"amount": 100}`,
			wantCode: http.StatusNotFound,
			check:    wantError("installment not found"),
		},
	})

	cust, err := svcs.Collections.GetCustomer(context.Background(), "cust_3")
	require.NoError(t, err)
	assert.Equal(t, 38250.0, cust.TotalPaid)
	assert.Equal(t, 0.0, cust.TotalOverdue)
}

func Test_scheduleApi_lateFees(t *testing.T) {
	app, _ := setup(t)
	lateFees := func(now time.Time, want int) {
		freezeTime(t, now)
		req, rec := newRequest(http.MethodPost, "/v1/schedules/late-fees", "")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res LateFeesResponse
		decode(t, rec.Body.Bytes(), &res)
		assert.Equal(t, want, res.Updated, now)
	}

	// the flat fees already charged stay once past the grace period
	lateFees(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 0)
	// within the grace period, no fee is owed
	lateFees(time.Date(2025, time.October, 2, 0, 0, 0, 0, time.UTC), 2)
	lateFees(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 2)
}
