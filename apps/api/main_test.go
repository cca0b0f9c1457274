package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishreddyt/easy-collections/apps/api/echo"
	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/services/email"
	"github.com/manishreddyt/easy-collections/services/logger"
)

func Test_newOptions(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(io.Discard, conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	var opts *echoapi.Options
	require.NotPanics(t, func() {
		var err error
		opts, err = newOptions(conf, logger, mailSvc)
		require.NoError(t, err)
	})
	opts.DisableReqLogs = true
	server := echoapi.NewServer(opts)

	req := httptest.NewRequest(http.MethodGet, "/v1/customers/counts", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"all":20`)

	req = httptest.NewRequest(http.MethodPost, "/v1/reminders", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, mailSvc.SentMessages(), 5)
}
