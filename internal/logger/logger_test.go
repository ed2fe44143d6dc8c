package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/oggyb/elite-connect/internal/config"
)

// capture points the process logger at a buffer for the duration of the test.
func capture(t *testing.T, c Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	c.Output = &buf
	Init(&c)
	t.Cleanup(func() { Init(nil) })
	return &buf
}

func TestLogger_TextFormat(t *testing.T) {
	buf := capture(t, Config{Level: "debug", Format: FormatText, Component: "test"})
	Info("hello elite", "key", "value")

	out := buf.String()
	for _, want := range []string{"hello elite", "component=test", "key=value"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := capture(t, Config{Level: "info", Format: FormatJSON, Component: "json_test", Service: "elite", Env: "test"})
	Info("json log", "foo", "bar")

	out := buf.String()
	for _, want := range []string{`"msg":"json log"`, `"component":"json_test"`, `"foo":"bar"`, `"service":"elite"`, `"env":"test"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	buf := capture(t, Config{Level: "error", Format: FormatText})
	Info("should not appear")
	Error("should appear")

	if strings.Contains(buf.String(), "should not appear") {
		t.Errorf("info log should not appear, got: %s", buf)
	}
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("error log should appear, got: %s", buf)
	}
}

func TestLogger_SetLevelAtRuntime(t *testing.T) {
	buf := capture(t, Config{Level: "warn", Format: FormatText})
	child := With("req_id", "123")

	child.Info("hidden")
	SetLevel("debug")
	child.Debug("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info below warn leaked: %s", buf)
	}
	if !strings.Contains(buf.String(), "visible") || !strings.Contains(buf.String(), "req_id=123") {
		t.Errorf("child logger should follow the new level, got: %s", buf)
	}
	if !Enabled("debug") {
		t.Error("debug should be enabled after SetLevel")
	}
}

func TestLogger_FromContext(t *testing.T) {
	buf := capture(t, Config{Level: "debug", Format: FormatJSON})
	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "42")
	FromContext(ctx, nil).Info("scoped")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("expected request_id, got: %s", buf)
	}
	if !strings.Contains(buf.String(), `"user_id":"42"`) {
		t.Errorf("expected user_id, got: %s", buf)
	}
	if got := FromContext(context.Background(), nil); got != L() {
		t.Error("empty context should return the base logger untouched")
	}
}

func TestLogger_StdLoggerBridge(t *testing.T) {
	buf := capture(t, Config{Level: "info", Format: FormatText})
	StdLogger(slog.LevelWarn).Printf("slow query %dms", 250)

	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "slow query 250ms") {
		t.Errorf("expected bridged warn line, got: %s", buf)
	}
}

func TestInitFromConfig(t *testing.T) {
	c := &config.Config{}
	c.Log.Level = "WARNING"
	c.Log.Format = "JSON"
	c.App.Name = "svc"
	InitFromConfig(c)
	t.Cleanup(func() { Init(nil) })

	if Enabled("info") {
		t.Error("info should be filtered at warn")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
