package logsvc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/manishreddyt/easy-collections/core"
)

// RollbarLogger reports events to rollbar and prints them through a tint slog handler.
type RollbarLogger struct {
	std  *slog.Logger
	exit func(code int)
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(w io.Writer, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "")

	handler := tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(conf.LogLevel),
		TimeFormat: time.DateTime,
		NoColor:    !conf.Debug,
	})
	return &RollbarLogger{std: slog.New(handler), exit: os.Exit}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// ParseLevel maps debug, warn & error to their slog level; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// attrs turns the expected args (error, map[string]interface{} extras or any value) into slog attributes.
func attrs(args []interface{}) []any {
	out := make([]any, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			out = append(out, tint.Err(a))
		case map[string]interface{}:
			for k, v := range a {
				out = append(out, slog.Any(k, v))
			}
		default:
			out = append(out, slog.Any(fmt.Sprintf("arg%d", i), a))
		}
	}
	return out
}

func (l RollbarLogger) log(level slog.Level, msg string, args []interface{}) {
	l.std.Log(context.Background(), level, msg, attrs(args)...)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(append([]interface{}{msg}, args...)...)
	l.log(slog.LevelDebug, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(append([]interface{}{msg}, args...)...)
	l.log(slog.LevelInfo, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(append([]interface{}{msg}, args...)...)
	l.log(slog.LevelWarn, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(append([]interface{}{msg}, args...)...)
	l.log(slog.LevelError, msg, args)
}

// Fatal reports a critical event, waits for rollbar to flush and exits.
func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(append([]interface{}{msg}, args...)...)
	l.log(slog.LevelError, msg, args)
	rollbar.Wait()
	l.exit(1)
}
