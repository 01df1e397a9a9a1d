// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("DefaultConfig().Level = %q, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("DefaultConfig().Format = %q, want json", cfg.Format)
	}
	if cfg.Caller {
		t.Error("DefaultConfig().Caller = true, want false")
	}
	if !cfg.Timestamp {
		t.Error("DefaultConfig().Timestamp = false, want true")
	}
}

// Tests below reconfigure the global logger and must not run in parallel.

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("rider_id", "42").Msg("test message")
	Debug().Msg("debug message")

	output := buf.String()
	for _, want := range []string{"test message", `"level":"info"`, `"rider_id":"42"`, "debug message", `"time"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("hidden")
	Warn().Msg("shown")
	Err(errors.New("boom")).Msg("failed")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message logged at warn level: %s", output)
	}
	if !strings.Contains(output, "shown") || !strings.Contains(output, `"error":"boom"`) {
		t.Errorf("output = %s, want warn and error messages", output)
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("console message")

	output := buf.String()
	if strings.HasPrefix(output, "{") {
		t.Errorf("console output looks like JSON: %s", output)
	}
	if !strings.Contains(output, "console message") {
		t.Errorf("output missing message: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := WithComponent("model_store")
	logger.Info().Msg("saved")

	if !strings.Contains(buf.String(), `"component":"model_store"`) {
		t.Errorf("output missing component: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestInit_ServiceAndEnvironment(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Environment: "staging", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("tagged")

	output := buf.String()
	if !strings.Contains(output, `"service":"ridewise"`) {
		t.Errorf("output missing service field: %s", output)
	}
	if !strings.Contains(output, `"env":"staging"`) {
		t.Errorf("output missing env field: %s", output)
	}
	if strings.Contains(output, `"time"`) {
		t.Errorf("timestamp written with Timestamp=false: %s", output)
	}
}
