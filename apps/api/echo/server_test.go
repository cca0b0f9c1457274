package echoapi_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Home(t *testing.T) {
	app, _ := setup(t)
	req, rec := newRequest(http.MethodGet, "/", "")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Easy Collections API!", rec.Body.String())
}

func TestServer_Errors(t *testing.T) {
	app, _ := setup(t)
	runTests(t, app, []httpTest{
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/v1/unknown",
			wantCode: http.StatusNotFound,
			check:    wantError("Not Found"),
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     "/v1/groups",
			body:     `{"name":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "trailing slash",
			method:   http.MethodGet,
			path:     "/v1/groups/",
			wantCode: http.StatusOK,
		},
	})
}

func TestServer_Metrics(t *testing.T) {
	app, _ := setup(t)

	for _, path := range []string{"/v1/customers", "/v1/customers/cust_404", "/v1/customers/counts"} {
		req, rec := newRequest(http.MethodGet, path, "")
		app.ServeHTTP(rec, req)
	}

	req, rec := newRequest(http.MethodGet, "/metrics", "")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `easy_collections_http_requests_total{code="200",method="GET",route="/v1/customers"} 1`)
	assert.Contains(t, out, `easy_collections_http_requests_total{code="404",method="GET",route="/v1/customers/:id"} 1`)
	assert.Contains(t, out, "easy_collections_http_request_duration_seconds_bucket")
	assert.Contains(t, out, "easy_collections_collections_expected_amount 1.117e+06")
	assert.Contains(t, out, "easy_collections_collections_collected_amount 828000")
	assert.Contains(t, out, `easy_collections_collections_customers{status="paused"} 1`)
	assert.Contains(t, out, `easy_collections_collections_customers{status="active"} 18`)
}
