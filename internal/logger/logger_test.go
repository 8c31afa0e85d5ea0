package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("imported entities", "type", "writers", "count", 3)

	assert.Contains(t, buf.String(), `"msg":"imported entities"`)
	assert.Contains(t, buf.String(), `"count":3`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			log.Info("hello")

			assert.Equal(t, tt.wantJSON, strings.HasPrefix(buf.String(), "{"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelWarn, Format: "pretty", Writer: &buf})

	log.Info("skipped")
	log.Warn("Line ID ABCD already exists")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "Line ID ABCD already exists")
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelDebug, Format: "pretty", Writer: &buf})

	log.WithField("run_id", "r1").WithGroup("import").Info("done", "lines", 5)

	out := buf.String()
	assert.Contains(t, out, "run_id=r1")
	assert.Contains(t, out, "import.lines=5")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.WithError(errors.New("boom")).Error("failed")

	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.WithFields(map[string]any{"run_id": "r1", "lines": 5}).Info("done")

	out := buf.String()
	assert.Contains(t, out, `"run_id":"r1"`)
	assert.Contains(t, out, `"lines":5`)
}

func TestPhase(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	done := log.Phase("banis")
	done("banis", 2)

	out := buf.String()
	assert.Contains(t, out, `"msg":"phase started"`)
	assert.Contains(t, out, `"msg":"phase finished"`)
	assert.Contains(t, out, `"banis":2`)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Info("nothing")
	})
}
