package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/manishreddyt/easy-collections/apps/api/echo"
	"github.com/manishreddyt/easy-collections/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     string
	wantCode int
	check    func(t *testing.T, body []byte)
}

func setup(t *testing.T) (Server, testutil.Services) {
	t.Helper()
	svcs := testutil.NewServices(t)
	return NewServer(&Options{
		DisableReqLogs: true,
		Conf:           svcs.Conf,
		Logger:         svcs.Logger,
		CollectionsSvc: svcs.Collections,
		PaymentLinkSvc: svcs.Links,
		TransactionSvc: svcs.Transactions,
	}), svcs
}

func newRequest(method, path string, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func runTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
		})
	}
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, dst), string(body))
}

// wantFields checks a 400 response body holds the given field errors.
func wantFields(flds map[string]string) func(*testing.T, []byte) {
	return func(t *testing.T, body []byte) {
		var got map[string]string
		decode(t, body, &got)
		assert.Equal(t, flds, got)
	}
}

func wantError(msg string) func(*testing.T, []byte) {
	return func(t *testing.T, body []byte) {
		var got httpErr
		decode(t, body, &got)
		assert.Equal(t, msg, got.Error)
	}
}
