// Package cli implements the mindmap command-line interface.
//
// Commands:
//   - optimize: rearrange the nodes of a snapshot
//   - export: render a snapshot as json, dot or svg
//   - serve: run the HTTP layout service
//   - cache: inspect and clear the result cache
//   - config: locate and initialize the config file
//
// A single charmbracelet/log logger is created per process and handed to
// commands through the command context. --verbose lowers it to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Log formats accepted by --log-format.
const (
	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatLogfmt = "logfmt"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to the named formatter. Machine formats use RFC 3339
// timestamps so log shippers can parse them.
func setLogFormat(l *log.Logger, format string) error {
	switch format {
	case "", LogFormatText:
		l.SetFormatter(log.TextFormatter)
		l.SetTimeFormat("15:04:05.00")
	case LogFormatJSON:
		l.SetFormatter(log.JSONFormatter)
		l.SetTimeFormat(time.RFC3339)
	case LogFormatLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
		l.SetTimeFormat(time.RFC3339)
	default:
		return fmt.Errorf("unknown log format %q (want %s, %s or %s)", format, LogFormatText, LogFormatJSON, LogFormatLogfmt)
	}
	return nil
}

// stage times one step of a command and logs it when finished.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) stage {
	l.Debug("stage started", "stage", name)
	return stage{logger: l, name: name, start: time.Now()}
}

// done logs msg with the stage's elapsed time, e.g. "Optimized 42 nodes (1.234s)".
func (s stage) done(msg string, keyvals ...any) {
	kv := append([]any{"stage", s.name}, keyvals...)
	s.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(s.start).Round(time.Millisecond)), kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
