package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"log/slog"
)

func jsonLogger(buf *bytes.Buffer, opts ...Option) Logger {
	base := []Option{
		WithFormat(FormatJSON),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	}

	return Make(buf, append(base, opts...)...)
}

// decodeLines parses each JSON record written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON record %q: %v", line, err)
		}

		records = append(records, m)
	}

	return records
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	// Must not panic.
	l.Trace("t")
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	if got := l.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want default", got)
	}

	if got := l.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want default", got)
	}

	if l2 := l.With(slog.String("k", "v")); l2.Logger != nil {
		t.Error("With on a zero logger must stay inert")
	}
}

func TestLogger_JSONRecords(t *testing.T) {
	buf := new(bytes.Buffer)
	l := jsonLogger(buf)

	l.Trace("parsing", slog.Int("tokens", 3))
	l.Info("done", slog.String("file", "main.ui"))

	records := decodeLines(t, buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0]["level"] != "TRACE" {
		t.Errorf("trace level rendered as %v, want TRACE", records[0]["level"])
	}

	if records[0]["tokens"] != float64(3) {
		t.Errorf("tokens = %v, want 3", records[0]["tokens"])
	}

	if records[1]["msg"] != "done" || records[1]["file"] != "main.ui" {
		t.Errorf("record = %v", records[1])
	}

	if _, ok := records[0]["time"]; ok {
		t.Error("time should be dropped by the none layout")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	l := Make(buf, WithFormat(FormatJSON), WithLevel(LevelWarn), WithTimeLayout("none"))

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("visible")

	records := decodeLines(t, buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0]["msg"] != "visible" {
		t.Errorf("msg = %v, want visible", records[0]["msg"])
	}
}

func TestLogger_With(t *testing.T) {
	buf := new(bytes.Buffer)
	l := jsonLogger(buf).With(slog.String("component", "resolver"))

	l.Info("pass complete")

	records := decodeLines(t, buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0]["component"] != "resolver" {
		t.Errorf("component = %v, want resolver", records[0]["component"])
	}
}

func TestLogger_Wrap(t *testing.T) {
	buf1 := new(bytes.Buffer)
	buf2 := new(bytes.Buffer)

	l := jsonLogger(buf1)
	wrapped := l.Wrap(WithOutput(buf2), WithLevel(LevelError))

	l.Info("original")
	wrapped.Info("filtered")
	wrapped.Error("rerouted")

	if got := len(decodeLines(t, buf1)); got != 1 {
		t.Errorf("original logger wrote %d records, want 1", got)
	}

	records := decodeLines(t, buf2)
	if len(records) != 1 || records[0]["msg"] != "rerouted" {
		t.Errorf("wrapped records = %v", records)
	}

	if wrapped.Level() != LevelError {
		t.Errorf("wrapped level = %v, want error", wrapped.Level())
	}

	if l.Level() != LevelTrace {
		t.Errorf("original level changed to %v", l.Level())
	}
}

func TestLogger_PrettyText(t *testing.T) {
	buf := new(bytes.Buffer)
	l := Make(buf, WithTimeLayout("none"), WithLevel(LevelTrace))

	l.Info("starting", slog.Int("n", 3), slog.Bool("ok", true))

	out := buf.String()

	for _, want := range []string{"INFO", "starting", "n", "3", "ok", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestLogger_PrettyGroups(t *testing.T) {
	buf := new(bytes.Buffer)
	l := Make(buf, WithTimeLayout("none"))

	l.Info("report", slog.Group("doc", slog.String("path", "a.ui")))

	out := buf.String()
	if !strings.Contains(out, "doc.path") {
		t.Errorf("grouped attr not flattened: %q", out)
	}
}

func TestDefaultLogger_Config(t *testing.T) {
	buf := new(bytes.Buffer)
	prior := Default()

	defer func() { defaultLog = prior }()

	Config(WithOutput(buf), WithFormat(FormatJSON), WithLevel(LevelDebug), WithTimeLayout("none"))

	Debug("through the package logger", slog.String("k", "v"))

	records := decodeLines(t, buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0]["k"] != "v" {
		t.Errorf("record = %v", records[0])
	}
}
