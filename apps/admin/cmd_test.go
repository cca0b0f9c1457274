package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/services/email"
	"github.com/manishreddyt/easy-collections/services/logger"
	"github.com/manishreddyt/easy-collections/tests"
)

func setup(t *testing.T, tty bool) (*commandLine, *bytes.Buffer, testutil.Services) {
	t.Helper()
	isTerminalFunc = func() bool { return tty }
	t.Cleanup(func() { isTerminalFunc = func() bool { return false } })

	svcs := testutil.NewServices(t)
	out := new(bytes.Buffer)
	return &commandLine{
		out:            out,
		collectionsSvc: svcs.Collections,
		linkSvc:        svcs.Links,
	}, out, svcs
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.True(t, errors.Is(err, tt.wantErr), "cli.run() error = %v, wantErr %v", err, tt.wantErr)
	case tt.wantErrStr != "":
		assert.EqualError(t, err, tt.wantErrStr)
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out, _ := setup(t, false)
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "find: no query", args: []string{"find"}, wantErr: errHelp},
		{name: "find: blank query", args: []string{"find", "-q", "  "}, wantErr: errHelp},
		{name: "remind: unknown flag", args: []string{"remind", "-class", "grp_1"}, wantErr: errHelp},
		{name: "remind: unknown group", args: []string{"remind", "-group", "grp_9"}, wantErrStr: "sending reminders: group not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
	assert.Contains(t, out.String(), "Usage:")
}

func Test_commandLine_json(t *testing.T) {
	core.NowFunc = func() time.Time { return time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { core.NowFunc = time.Now })

	t.Run("stats", func(t *testing.T) {
		cli, out, _ := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "stats"}))
		var stats collections.CollectionStats
		require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
		assert.Equal(t, 828000.0, stats.TotalCollected)
		assert.Equal(t, 5, stats.OnTimeCount)
	})

	t.Run("groups", func(t *testing.T) {
		cli, out, _ := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "groups"}))
		var summaries []collections.GroupCollectionSummary
		require.NoError(t, json.Unmarshal(out.Bytes(), &summaries))
		assert.Len(t, summaries, 4)
	})

	t.Run("defaulters", func(t *testing.T) {
		cli, out, _ := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "defaulters"}))
		var defaulters []collections.Defaulter
		require.NoError(t, json.Unmarshal(out.Bytes(), &defaulters))
		require.Len(t, defaulters, 5)
		for _, d := range defaulters {
			assert.Positive(t, d.Customer.TotalOverdue, d.Customer.Name)
		}
	})

	t.Run("links", func(t *testing.T) {
		cli, out, _ := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "links", "-status", "expired"}))
		var links []paymentlink.Link
		require.NoError(t, json.Unmarshal(out.Bytes(), &links))
		assert.Len(t, links, 3)
	})

	t.Run("find", func(t *testing.T) {
		cli, out, _ := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "find", "-q", "vivan patel"}))
		var customers []collections.Customer
		require.NoError(t, json.Unmarshal(out.Bytes(), &customers))
		require.NotEmpty(t, customers)
		assert.Equal(t, "Vivaan Patel", customers[0].Name)
	})
}

func Test_commandLine_table(t *testing.T) {
	cli, out, _ := setup(t, true)
	require.NoError(t, cli.run([]string{"admin", "groups"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "GROUP  "), lines[0])
	assert.Contains(t, lines[1], "Class 6")
	assert.Contains(t, lines[1], "306000.00")
}

func Test_commandLine_remind(t *testing.T) {
	cli, out, svcs := setup(t, false)

	require.NoError(t, cli.run([]string{"admin", "remind", "-group", "grp_4"}))
	assert.Equal(t, "2 reminder(s) sent\n", out.String())

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "remind"}))
	assert.Equal(t, "5 reminder(s) sent\n", out.String())

	assert.Len(t, svcs.MailSvc.SentMessages(), 7)
}

func Test_newCommandLine(t *testing.T) {
	isTerminalFunc = func() bool { return false }
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(io.Discard, conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	out := new(bytes.Buffer)

	var cli *commandLine
	require.NotPanics(t, func() {
		var err error
		cli, err = newCommandLine(out, conf, logger, mailSvc)
		require.NoError(t, err)
	})

	require.NoError(t, cli.run([]string{"admin", "remind"}))
	assert.Equal(t, "5 reminder(s) sent\n", out.String())
	assert.Len(t, mailSvc.SentMessages(), 5)
}
