package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{name: "InfoAtInfo", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Info("x") }, wantLog: true},
		{name: "DebugAtInfo", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Debug("x") }},
		{name: "DebugAtDebug", level: log.DebugLevel, logFunc: func(l *log.Logger) { l.Debug("x") }, wantLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	if err := setLogFormat(l, LogFormatJSON); err != nil {
		t.Fatal(err)
	}
	l.Info("listening", "addr", "127.0.0.1:8080")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json output %q: %v", buf.String(), err)
	}
	if entry["msg"] != "listening" || entry["addr"] != "127.0.0.1:8080" {
		t.Errorf("entry = %v", entry)
	}

	buf.Reset()
	if err := setLogFormat(l, LogFormatLogfmt); err != nil {
		t.Fatal(err)
	}
	l.Info("listening", "addr", "x")
	if !strings.Contains(buf.String(), "msg=listening") {
		t.Errorf("logfmt output = %q", buf.String())
	}

	if err := setLogFormat(l, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStageDone(t *testing.T) {
	var buf bytes.Buffer
	s := startStage(newLogger(&buf, log.InfoLevel), "optimize")
	s.done("Optimized 3 nodes", "changes", 2)

	out := buf.String()
	for _, want := range []string{"Optimized 3 nodes (", "stage=optimize", "changes=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected log.Default() without an attached logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext returned a different logger")
	}
}
