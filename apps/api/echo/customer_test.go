package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishreddyt/easy-collections/core/collections"
)

func customerNames(t *testing.T, body []byte) []string {
	var customers []collections.Customer
	decode(t, body, &customers)
	names := make([]string, len(customers))
	for i, c := range customers {
		names[i] = c.Name
	}
	return names
}

func Test_customerApi_query(t *testing.T) {
	app, _ := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "all",
			method:   http.MethodGet,
			path:     "/v1/customers",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Len(t, customerNames(t, body), 20)
			},
		},
		{
			name:     "paused",
			method:   http.MethodGet,
			path:     "/v1/customers?status=paused",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, []string{"Myra Singh"}, customerNames(t, body))
			},
		},
		{
			name:     "group & search",
			method:   http.MethodGet,
			path:     "/v1/customers?group_id=grp_1&search=sharma",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, []string{"Aarav Sharma"}, customerNames(t, body))
			},
		},
		{
			name:     "counts",
			method:   http.MethodGet,
			path:     "/v1/customers/counts",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var counts collections.CustomerCounts
				decode(t, body, &counts)
				assert.Equal(t, collections.CustomerCounts{All: 20, Active: 18, Paused: 1, Exited: 1}, counts)
			},
		},
		{
			name:     "detail",
			method:   http.MethodGet,
			path:     "/v1/customers/cust_3",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var detail collections.CustomerDetail
				decode(t, body, &detail)
				assert.Equal(t, "Vivaan Patel", detail.Customer.Name)
				assert.Equal(t, "Class 6", detail.GroupName)
				require.NotNil(t, detail.Schedule)
				assert.Equal(t, "sch_3", detail.Schedule.ID)
			},
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/v1/customers/cust_404",
			wantCode: http.StatusNotFound,
			check:    wantError("customer not found"),
		},
	})
}

func Test_customerApi_create(t *testing.T) {
	app, svcs := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "invalid",
			method:   http.MethodPost,
			path:     "/v1/customers",
			body:     `{"email": "nope"}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var flds map[string]string
				decode(t, body, &flds)
				assert.Equal(t, "Name is required", flds["name"])
				assert.Equal(t, "Admission Number is required", flds["customer_id"])
				assert.Contains(t, flds, "email")
			},
		},
		{
			name:     "unknown group",
			method:   http.MethodPost,
			path:     "/v1/customers",
			body:     `{"name": "Tara Menon", "customer_id": "ADM-2025-001", "group_id": "grp_9"}`,
			wantCode: http.StatusBadRequest,
			check:    wantFields(map[string]string{"group_id": "group not found"}),
		},
		{
			name:     "ok",
			method:   http.MethodPost,
			path:     "/v1/customers",
			body:     `{"name": "Tara Menon", "customer_id": "ADM-2025-001", "group_id": "grp_1", "email": "tara.m@email.com"}`,
			wantCode: http.StatusCreated,
			check: func(t *testing.T, body []byte) {
				var cust collections.Customer
				decode(t, body, &cust)
				assert.NotEmpty(t, cust.ID)
				assert.Equal(t, collections.StatusActive, cust.Status)
			},
		},
	})

	customers, err := svcs.Collections.QueryCustomers(context.Background(), collections.CustomerFilter{Search: "Tara"})
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func Test_customerApi_lifecycle(t *testing.T) {
	app, _ := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "pause",
			method:   http.MethodPost,
			path:     "/v1/customers/cust_1/pause",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var cust collections.Customer
				decode(t, body, &cust)
				assert.Equal(t, collections.StatusPaused, cust.Status)
			},
		},
		{
			name:     "resume",
			method:   http.MethodPost,
			path:     "/v1/customers/cust_1/resume",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var cust collections.Customer
				decode(t, body, &cust)
				assert.Equal(t, collections.StatusActive, cust.Status)
			},
		},
		{
			name:     "update",
			method:   http.MethodPatch,
			path:     "/v1/customers/cust_1",
			body:     `{"notes": "Moved to Route B"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var cust collections.Customer
				decode(t, body, &cust)
				assert.Equal(t, "Moved to Route B", cust.Notes)
				assert.Equal(t, "Aarav Sharma", cust.Name)
			},
		},
		{
			name:     "apply discount",
			method:   http.MethodPost,
			path:     "/v1/customers/cust_2/discounts",
			body:     `{"discount_id": "disc_1", "reason": "Sibling"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "unknown discount",
			method:   http.MethodPost,
			path:     "/v1/customers/cust_2/discounts",
			body:     `{"discount_id": "disc_9"}`,
			wantCode: http.StatusBadRequest,
		},
	})
}

func Test_customerApi_reminders(t *testing.T) {
	app, svcs := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "group",
			method:   http.MethodPost,
			path:     "/v1/reminders",
			body:     `{"group_id": "grp_4"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"sent": 2}`, string(body))
			},
		},
		{
			name:     "unknown group",
			method:   http.MethodPost,
			path:     "/v1/reminders",
			body:     `{"group_id": "grp_9"}`,
			wantCode: http.StatusNotFound,
			check:    wantError("group not found"),
		},
		{
			name:     "all",
			method:   http.MethodPost,
			path:     "/v1/reminders",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"sent": 5}`, string(body))
			},
		},
	})
	assert.Len(t, svcs.MailSvc.SentMessages(), 7)
}

func Test_customerApi_activity(t *testing.T) {
	app, _ := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "record",
			method:   http.MethodPost,
			path:     "/v1/activity",
			body:     `{"type": "receipt_generated", "description": "Receipt sent to Neha Joshi", "customer_name": "Reyansh Joshi"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "invalid",
			method:   http.MethodPost,
			path:     "/v1/activity",
			body:     `{"type": "party"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "query",
			method:   http.MethodGet,
			path:     "/v1/activity",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var items []collections.ActivityItem
				decode(t, body, &items)
				require.Len(t, items, 11)
				assert.Equal(t, "Receipt sent to Neha Joshi", items[0].Description)
			},
		},
	})
}
