package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "studentstats", &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.Info("page fetched", Fields("page", 2, "students", 20))

	m := decodeLine(t, buf)
	if m["message"] != "page fetched" {
		t.Errorf("message = %v", m["message"])
	}
	if m["service"] != "studentstats" {
		t.Errorf("service = %v", m["service"])
	}
	if m["page"] != float64(2) {
		t.Errorf("page = %v", m["page"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected fallback to info level, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	cl := l.WithComponent("rest")
	if cl.service != "studentstats" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Info("hello")
	if m := decodeLine(t, buf); m[FieldComponent] != "rest" {
		t.Errorf("component = %v", m[FieldComponent])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = trace.ContextWithSpanContext(ctx, sc)

	l.WithContext(ctx).Info("request")
	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v", m[FieldRequestID])
	}
	if m[FieldTraceID] != traceID.String() {
		t.Errorf("trace_id = %v", m[FieldTraceID])
	}
	if m[FieldSpanID] != spanID.String() {
		t.Errorf("span_id = %v", m[FieldSpanID])
	}
}

func TestWithContext_Empty(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithContext(context.Background()).Info("plain")
	m := decodeLine(t, buf)
	if _, ok := m[FieldRequestID]; ok {
		t.Error("expected no request_id without one in context")
	}
	if _, ok := m[FieldTraceID]; ok {
		t.Error("expected no trace_id without a span")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithFields(map[string]interface{}{FieldUnit: "CITS2200"}).WithError(errors.New("boom")).Error("failed")
	m := decodeLine(t, buf)
	if m[FieldUnit] != "CITS2200" || m["error"] != "boom" {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "studentstats", &buf)
	l.Warn("retrying", RetryFields(3, 1, nil))
	out := buf.String()
	if !strings.Contains(out, "[STU][WRN]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "page:") {
		t.Errorf("expected field names, got %q", out)
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}

func TestGlobalLogger(t *testing.T) {
	defer SetGlobalLogger(nil)

	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	Init(Config{Level: "error", Format: FormatJSON}, "studentstats")
	if GetGlobalLogger() == l {
		t.Error("expected Init to replace the global logger")
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
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp to default to true")
	}

	custom := Config{Level: "debug", Format: "json", Output: "stdout"}
	custom.ApplyDefaults()
	if custom.Level != "debug" || custom.Format != "json" || custom.Output != "stdout" {
		t.Errorf("expected explicit values to be kept, got %+v", custom)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"pretty", Config{Level: "debug", Format: "pretty", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterComponents(t *testing.T) {
	first, firstBuf := newJSONLogger(t, "info")
	RegisterComponents(first, ComponentREST, ComponentServer)

	Get(ComponentREST).Info("page fetched")
	if m := decodeLine(t, firstBuf); m[FieldComponent] != ComponentREST || m["service"] != "studentstats" {
		t.Errorf("unexpected line %v", m)
	}

	second, secondBuf := newJSONLogger(t, "info")
	RegisterComponents(second, ComponentREST)
	Get(ComponentREST).Info("replaced")
	if !strings.Contains(secondBuf.String(), "replaced") || strings.Contains(firstBuf.String(), "replaced") {
		t.Errorf("expected re-registration to replace the logger, first=%q second=%q", firstBuf.String(), secondBuf.String())
	}
	if n := strings.Count(secondBuf.String(), `"component"`); n != 1 {
		t.Errorf("expected one component field, got %d in %q", n, secondBuf.String())
	}
}

func TestGet_Unregistered(t *testing.T) {
	if Get("unregistered-component") == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kvs  []interface{}
		want map[string]interface{}
	}{
		{"pairs", []interface{}{"a", 1, "b", "x"}, map[string]interface{}{"a": 1, "b": "x"}},
		{"odd count drops last", []interface{}{"a", 1, "b"}, map[string]interface{}{"a": 1}},
		{"non-string key skipped", []interface{}{42, "x", "b", 2}, map[string]interface{}{"b": 2}},
		{"empty", nil, map[string]interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(tt.kvs...)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("fetch", errors.New("timeout"))
	if f[FieldOperation] != "fetch" || f[FieldError] != "timeout" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestDurationFields(t *testing.T) {
	f := DurationFields("average", 1500*time.Millisecond)
	if f[FieldDuration] != int64(1500) {
		t.Errorf("duration_ms = %v", f[FieldDuration])
	}
}

func TestRetryFields(t *testing.T) {
	f := RetryFields(4, 2, errors.New("query timed out"))
	if f[FieldPage] != 4 || f[FieldAttempt] != 2 || f[FieldError] != "query timed out" {
		t.Errorf("unexpected fields %v", f)
	}
	if _, ok := RetryFields(1, 1, nil)[FieldError]; ok {
		t.Error("expected no error field for nil error")
	}
}
