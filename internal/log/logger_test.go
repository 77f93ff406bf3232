package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithComponentSingleAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.WithComponent(ComponentHTTP).Info("request handled")

	line := buf.String()
	if got := strings.Count(line, FieldComponent+"="); got != 1 {
		t.Errorf("component attribute appears %d times, want 1: %s", got, line)
	}
	if !strings.Contains(line, FieldComponent+"="+ComponentHTTP) {
		t.Errorf("expected component=%s in: %s", ComponentHTTP, line)
	}
}

func TestWithComponentReplaces(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	// Re-scoping twice must keep exactly one component, the last one.
	logger.WithComponent(ComponentHTTP).WithComponent(ComponentWorker).Info("tick")

	line := buf.String()
	if got := strings.Count(line, FieldComponent+"="); got != 1 {
		t.Errorf("component attribute appears %d times, want 1: %s", got, line)
	}
	if !strings.Contains(line, FieldComponent+"="+ComponentWorker) {
		t.Errorf("expected component=%s in: %s", ComponentWorker, line)
	}
}
