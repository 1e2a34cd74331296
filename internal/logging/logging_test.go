package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_LevelsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown", "step", "pip")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message printed without verbose: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "installer") {
		t.Errorf("expected prefixed info message, got %q", out)
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("verbose logger dropped debug message: %q", buf.String())
	}
}
