package utils_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fyerfyer/gate-fsim/pkg/utils"
)

// TestLoggerLevels tests that messages below the configured level are dropped
func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := utils.NewLogger("warn", "json", &buf)

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("loud")
	log.Error("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("Expected debug/info to be filtered at warn level, got %q", out)
	}
	if strings.Count(out, "loud") != 2 {
		t.Errorf("Expected 2 warn/error lines, got %q", out)
	}
}

// TestLoggerFields tests key-value fields and child loggers
func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := utils.NewLogger("info", "json", &buf)

	log.WithField("file", "c17.ckt").Info("circuit loaded", "lines", 17)

	out := buf.String()
	for _, want := range []string{`"file":"c17.ckt"`, `"lines":17`, `"circuit loaded"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %s, got %q", want, out)
		}
	}
}

// TestLoggerUnknownLevel tests the info fallback
func TestLoggerUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := utils.NewLogger("chatty", "json", &buf)

	log.Debug("quiet")
	log.Info("kept")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "kept") {
		t.Errorf("Expected fallback to info level, got %q", out)
	}
}
