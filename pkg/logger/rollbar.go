package logger

import (
	"github.com/rollbar/rollbar-go"
)

// RollbarOptions identifies this deployment in Rollbar.
type RollbarOptions struct {
	Token       string
	Environment string
	ServerHost  string
	CodeVersion string
}

type rollbarLogger struct {
	next Logger
}

var _ Logger = (*rollbarLogger)(nil)

// WithRollbar reports warnings and errors to Rollbar and forwards every call
// to next. An empty token returns next unchanged.
func WithRollbar(next Logger, opts RollbarOptions) Logger {
	if opts.Token == "" {
		return next
	}

	rollbar.SetToken(opts.Token)
	rollbar.SetEnvironment(opts.Environment)
	rollbar.SetServerHost(opts.ServerHost)
	rollbar.SetCodeVersion(opts.CodeVersion)
	rollbar.SetEnabled(true)

	return &rollbarLogger{next: next}
}

// Flush blocks until queued Rollbar items are sent.
func Flush() {
	rollbar.Wait()
}

func (r *rollbarLogger) Debug(msg string, fields Fields) {
	r.next.Debug(msg, fields)
}

func (r *rollbarLogger) Info(msg string, fields Fields) {
	r.next.Info(msg, fields)
}

func (r *rollbarLogger) Warn(msg string, fields Fields) {
	rollbar.Warning(msg, map[string]interface{}(fields))
	r.next.Warn(msg, fields)
}

func (r *rollbarLogger) Error(msg string, err error, fields Fields) {
	extras := map[string]interface{}{"message": msg}
	for k, v := range fields {
		extras[k] = v
	}
	if err != nil {
		rollbar.Error(err, extras)
	} else {
		rollbar.Error(msg, extras)
	}
	r.next.Error(msg, err, fields)
}
