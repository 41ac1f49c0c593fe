package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		suppressed string
		passed     string
	}{
		{"trace", "", "trace message"},
		{"debug", "trace message", "debug message"},
		{"info", "debug message", "info message"},
		{"warn", "info message", "warn message"},
		{"error", "warn message", "error message"},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tc.level, Output: &buf})

			logger.Trace().Msg("trace message")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Warn().Msg("warn message")
			logger.Error().Msg("error message")

			output := buf.String()
			if tc.suppressed != "" && strings.Contains(output, tc.suppressed) {
				t.Errorf("Expected %q to be filtered at %s level", tc.suppressed, tc.level)
			}
			if !strings.Contains(output, tc.passed) {
				t.Errorf("Expected %q to pass at %s level", tc.passed, tc.level)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseLevel(tc.name); got != tc.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.name, got, tc.expected)
			}
		})
	}
}

func TestNewWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithComponent(Config{Level: "info", Output: &buf}, "expr-evaluator")

	logger.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "expr-evaluator") {
		t.Error("Expected log to contain the component name")
	}
	if !strings.Contains(output, "test message") {
		t.Error("Expected log to contain the message")
	}
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Pretty: true, Output: &buf})

	logger.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Error("Expected pretty output to contain the message")
	}
}

func TestNew_NilOutputDoesNotPanic(t *testing.T) {
	logger := New(Config{Level: "error"})
	logger.Error().Msg("goes to stderr")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "warn" {
		t.Errorf("Expected default level 'warn', got '%s'", cfg.Level)
	}
	if !cfg.Pretty {
		t.Error("Expected default pretty to be true")
	}
}
