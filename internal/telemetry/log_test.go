package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLoggerWritesJSONToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info")

	log.Info().Str("stage", "ingest").Msg("stage started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["stage"] != "ingest" {
		t.Errorf("stage = %v, want ingest", entry["stage"])
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "error")

	log.Info().Msg("should be filtered out")
	if buf.Len() != 0 {
		t.Errorf("expected no output below the configured level, got %q", buf.String())
	}

	log.Error().Msg("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("expected the error-level line to appear, got %q", buf.String())
	}
}

func TestNewLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "not-a-level")

	log.Info().Msg("visible at the default level")
	if buf.Len() == 0 {
		t.Error("expected an unrecognized level string to fall back to info, not suppress all output")
	}
}

func TestStageLogsStartAndCompletion(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info")

	done := Stage(log, "product_tree", 42)
	done()

	out := buf.String()
	if !strings.Contains(out, "stage started") || !strings.Contains(out, "stage completed") {
		t.Errorf("expected both a start and completion log line, got %q", out)
	}
}
