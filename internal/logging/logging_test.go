package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"  DEBUG  ", DebugLevel},
		{"INFO", InfoLevel},
		{"WARN", WarnLevel},
		{"WARNING", WarnLevel},
		{"ERROR", ErrorLevel},
		{"FATAL", FatalLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInit_WritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})

	Info().Str("session", "alpha-red").Msg("session created")

	output := buf.String()
	if !strings.Contains(output, `"session":"alpha-red"`) {
		t.Errorf("expected structured field in output: %s", output)
	}
	if !strings.Contains(output, "session created") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestInit_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, Output: &buf})

	Info().Msg("suppressed")
	Warn().Msg("visible")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("info message should have been suppressed: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("warn message should be visible: %s", output)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})

	SetLevel(ErrorLevel)
	Info().Msg("suppressed after SetLevel")

	if strings.Contains(buf.String(), "suppressed after SetLevel") {
		t.Errorf("info message should have been suppressed: %s", buf.String())
	}
}
