// Package logger provides the leveled logger used across the service.
package logger

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
)

// Fields are structured key/values attached to a log line.
type Fields map[string]interface{}

// Logger is the logging surface services depend on.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
}

const jsonHeader = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`
const textHeader = `${time_rfc3339} ${level} ${prefix}`

type gommonLogger struct {
	l    *log.Logger
	json bool
}

var _ Logger = (*gommonLogger)(nil)

// New builds a gommon logger writing to out. format is "json" or "text".
func New(prefix, level, format string, out io.Writer) Logger {
	l := log.New(prefix)
	l.SetOutput(out)
	l.SetLevel(parseLevel(level))
	l.DisableColor()

	asJSON := !strings.EqualFold(format, "text")
	if asJSON {
		l.SetHeader(jsonHeader)
	} else {
		l.SetHeader(textHeader)
	}

	return &gommonLogger{l: l, json: asJSON}
}

// Nop discards everything; used by tests.
func Nop() Logger {
	return New("nop", "off", "json", io.Discard)
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func (g *gommonLogger) Debug(msg string, fields Fields) {
	if g.json {
		g.l.Debugj(g.entry(msg, nil, fields))
		return
	}
	g.l.Debug(g.line(msg, nil, fields))
}

func (g *gommonLogger) Info(msg string, fields Fields) {
	if g.json {
		g.l.Infoj(g.entry(msg, nil, fields))
		return
	}
	g.l.Info(g.line(msg, nil, fields))
}

func (g *gommonLogger) Warn(msg string, fields Fields) {
	if g.json {
		g.l.Warnj(g.entry(msg, nil, fields))
		return
	}
	g.l.Warn(g.line(msg, nil, fields))
}

func (g *gommonLogger) Error(msg string, err error, fields Fields) {
	if g.json {
		g.l.Errorj(g.entry(msg, err, fields))
		return
	}
	g.l.Error(g.line(msg, err, fields))
}

func (g *gommonLogger) entry(msg string, err error, fields Fields) log.JSON {
	j := make(log.JSON, len(fields)+2)
	for k, v := range fields {
		j[k] = v
	}
	j["message"] = msg
	if err != nil {
		j["error"] = err.Error()
	}
	return j
}

func (g *gommonLogger) line(msg string, err error, fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}
	return b.String()
}
