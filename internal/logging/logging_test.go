package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerToLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, false)

	logger.Debugw("hidden", "k", 1)
	logger.Warnw("Skipping row pair", "row", 3)
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged without verbose: %s", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "Skipping row pair") {
		t.Errorf("expected warning in output, got: %s", out)
	}
	if !strings.Contains(out, `"row": 3`) {
		t.Errorf("expected structured field in output, got: %s", out)
	}
}

func TestNewLoggerToVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, true)

	logger.Debugw("visible")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug message with verbose, got: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Infow("nothing")
}
