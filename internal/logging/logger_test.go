package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger = NewComponentLogger(logger, "showcache")
	logger.Info("cache saved", String("show", "Breaking Bad"), Int("episodes", 7))

	line := buf.String()
	if !strings.Contains(line, "INFO showcache: cache saved") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, `show="Breaking Bad"`) {
		t.Errorf("missing quoted attr: %q", line)
	}
	if !strings.Contains(line, "episodes=7") {
		t.Errorf("missing int attr: %q", line)
	}
}

func TestConsoleHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Error("mutation failed", Error(errors.New("exit status 2")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["level"] != "error" {
		t.Errorf("level = %v, want error", record["level"])
	}
	if record["msg"] != "mutation failed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["error"] != "exit status 2" {
		t.Errorf("error = %v", record["error"])
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("goes nowhere")
	logger.Error("also nowhere")
}
