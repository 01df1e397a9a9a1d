// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewSlogLogger(zerolog.New(&buf).Level(level)), &buf
}

// --- Test: NewSlogHandler ---

func TestNewSlogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSlogHandler(zerolog.New(&buf))
	if handler == nil {
		t.Fatal("NewSlogHandler() = nil, want non-nil")
	}

	slog.New(handler).Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected 'test message' in output: %s", buf.String())
	}
}

// --- Test: Enabled ---

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}

	for _, tt := range tests {
		if got := handler.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

// --- Test: Handle ---

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, `"level":"debug"`},
		{slog.LevelInfo, `"level":"info"`},
		{slog.LevelWarn, `"level":"warn"`},
		{slog.LevelError, `"level":"error"`},
	}

	for _, tt := range tests {
		logger, buf := newBufferedSlog(zerolog.TraceLevel)
		logger.Log(context.Background(), tt.level, "msg")
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("level %v output = %s, want %s", tt.level, buf.String(), tt.want)
		}
	}
}

func TestSlogHandler_AttributeKinds(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.Info("kinds",
		slog.String("service", "http"),
		slog.Int64("restarts", 3),
		slog.Uint64("attempt", 2),
		slog.Float64("score", 0.5),
		slog.Bool("healthy", true),
		slog.Duration("backoff", time.Second),
		slog.Any("tags", []string{"a"}),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"http"`,
		`"restarts":3`,
		`"attempt":2`,
		`"score":0.5`,
		`"healthy":true`,
		`"backoff":1000`,
		`"tags":["a"]`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.With("layer", "api").WithGroup("svc").With("id", 7).Info("grouped", slog.String("name", "http"),
		slog.Group("limits", slog.Int("max", 5)))

	output := buf.String()
	for _, want := range []string{`"layer":"api"`, `"svc.id":7`, `"svc.name":"http"`, `"svc.limits.max":5`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_EmptyGroupIsNoop(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandler(zerolog.Nop())
	if got := handler.WithGroup(""); got != handler {
		t.Error("WithGroup(\"\") returned a new handler, want the same handler")
	}
}

func TestSlogHandler_ErrorValue(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.TraceLevel)
	logger.Error("service failed", slog.Any("error", errors.New("listen: address in use")))

	if !strings.Contains(buf.String(), `"error":"listen: address in use"`) {
		t.Errorf("output missing error string: %s", buf.String())
	}
}

func TestSlogHandler_DisabledLevelSkipsOutput(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.ErrorLevel)
	logger.Info("quiet", slog.String("k", "v"))

	if buf.Len() != 0 {
		t.Errorf("info logged on error-level logger: %s", buf.String())
	}
}
