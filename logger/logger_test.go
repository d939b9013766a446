package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json", Output: "stdout"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	l := NewFromEnv("env-svc")
	if l.GetLogger().GetLevel().String() != "debug" {
		t.Errorf("expected debug level from env, got %s", l.GetLogger().GetLevel())
	}
}

func TestNewWriter_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug")
	l.Info("provider retained", Fields(FieldProvider, "dummy", FieldPriority, "low"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "provider retained" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
	if entry[FieldProvider] != "dummy" {
		t.Errorf("expected provider field, got %v", entry[FieldProvider])
	}
}

func TestNewWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("nothing", Fields("k", "v"))
	l.WithComponent("x").Info("still nothing")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").WithComponent("coordinator")
	l.Info("hello")
	if !strings.Contains(buf.String(), `"component":"coordinator"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
	if l.service != "test" {
		t.Errorf("service should be preserved, got %q", l.service)
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewNop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when context has no span")
	}
}

func TestWithContext_AddsTraceIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	NewWriter(&buf, "info").WithContext(ctx).Info("traced")
	if !strings.Contains(buf.String(), span.SpanContext().TraceID().String()) {
		t.Errorf("expected trace id in output, got %q", buf.String())
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").WithFields(map[string]interface{}{"key": "value"}).WithError(errors.New("boom"))
	l.Info("x")
	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected fields and error, got %q", out)
	}
}

func TestInit(t *testing.T) {
	Init(&Config{Level: "info", Format: "json", Output: "stdout", ServiceName: "analytics"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "analytics" {
		t.Errorf("expected service from config, got %q", gl.service)
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewNop()
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console stderr", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	l := New(&Config{Level: "info", Format: "console", Output: "stderr", NoColor: true}, "test-svc")
	if l == nil {
		t.Fatal("expected logger with console format")
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewNop()
	restore := Register("my-component", l)
	if Get("my-component") != l {
		t.Error("expected Get to return the registered logger")
	}
	if !slices.Contains(Registered(), "my-component") {
		t.Errorf("expected my-component in %v", Registered())
	}
	restore()
	if Get("my-component") == l {
		t.Error("expected restore to remove the logger")
	}
	if Get("unregistered-component") == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestRegisterRestoresPrevious(t *testing.T) {
	first, second := NewNop(), NewNop()
	defer Register("swap", first)()

	restore := Register("swap", second)
	if Get("swap") != second {
		t.Fatal("expected second logger registered")
	}
	restore()
	if Get("swap") != first {
		t.Error("expected restore to reinstate the first logger")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kvs  []interface{}
		want int
	}{
		{"pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"odd count drops last", []interface{}{"a", 1, "b"}, 1},
		{"non-string key skipped", []interface{}{1, "x", "b", 2}, 1},
		{"empty", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fields(tc.kvs...); len(got) != tc.want {
				t.Errorf("expected %d fields, got %d (%v)", tc.want, len(got), got)
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("start", errors.New("boom"))
	if ef[FieldOperation] != "start" || ef[FieldError] != "boom" {
		t.Errorf("unexpected error fields: %v", ef)
	}
	df := DurationFields("wait", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected error in merged map, got %v", merged)
	}
}

func TestOutputWriter(t *testing.T) {
	if outputWriter("stderr") != os.Stderr {
		t.Error("expected stderr")
	}
	if outputWriter("anything") != os.Stdout {
		t.Error("expected stdout fallback")
	}
}

func TestConsoleWriterTags(t *testing.T) {
	tests := []struct {
		service string
		want    string
	}{
		{"analytics", "[ANA][WRN]"},
		{"default", "[WRN]"},
		{"ab", "[WRN]"},
	}
	for _, tc := range tests {
		t.Run(tc.service, func(t *testing.T) {
			var buf bytes.Buffer
			cw := consoleWriter(&Config{NoColor: true}, tc.service)
			cw.Out = &buf
			l := zerolog.New(cw)
			l.Warn().Msg("hello")
			if !strings.Contains(buf.String(), tc.want+" hello") {
				t.Errorf("expected %q in %q", tc.want, buf.String())
			}
		})
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("PKIT_FLAG", "yes")
	if !envBool("PKIT_FLAG", true) {
		t.Error("expected default for unparsable value")
	}
	t.Setenv("PKIT_FLAG", "false")
	if envBool("PKIT_FLAG", true) {
		t.Error("expected parsed false")
	}
}
