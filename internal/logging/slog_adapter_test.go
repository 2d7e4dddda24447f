// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))

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

func TestSlogHandler_Handle(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		level     slog.Level
		wantLevel string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.Level(2), "info"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

			record := slog.NewRecord(time.Now(), tt.level, "service restarted", 0)
			record.AddAttrs(slog.String("service", "http"))
			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			output := buf.String()
			if !strings.Contains(output, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, `"service":"http"`) || !strings.Contains(output, "service restarted") {
				t.Errorf("missing message or attribute: %s", output)
			}
		})
	}
}

func TestAddAttr_Kinds(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := logger.Info()
	e = addAttr(e, slog.String("s", "v"), "")
	e = addAttr(e, slog.Int64("i", -3), "")
	e = addAttr(e, slog.Uint64("u", 7), "")
	e = addAttr(e, slog.Float64("f", 0.5), "")
	e = addAttr(e, slog.Bool("b", true), "")
	e = addAttr(e, slog.Duration("d", time.Second), "")
	e = addAttr(e, slog.Any("a", []int{1}), "")
	e.Msg("kinds")

	output := buf.String()
	for _, want := range []string{`"s":"v"`, `"i":-3`, `"u":7`, `"f":0.5`, `"b":true`, `"d":1000`, `"a":[1]`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_GroupsPrefixKeysInOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

	slogger.WithGroup("supervisor").WithGroup("event").Info("failure", "service", "jobs")
	slogger.Info("nested", slog.Group("restart", slog.Int("count", 2)))

	output := buf.String()
	if !strings.Contains(output, `"supervisor.event.service":"jobs"`) {
		t.Errorf("expected ordered group prefix: %s", output)
	}
	if !strings.Contains(output, `"restart.count":2`) {
		t.Errorf("expected inline group key: %s", output)
	}
}

func TestSlogHandler_AttrsBeforeGroupKeepTheirKey(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

	slogger.With("tree", "soundcluster").WithGroup("event").Info("restart", "service", "job-queue")

	output := buf.String()
	if !strings.Contains(output, `"tree":"soundcluster"`) {
		t.Errorf("attr bound before the group should not be prefixed: %s", output)
	}
	if !strings.Contains(output, `"event.service":"job-queue"`) {
		t.Errorf("record attr should carry the group prefix: %s", output)
	}
}

func TestSlogHandler_WithAttrsIsolated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(zerolog.New(&buf))

	child := base.WithAttrs([]slog.Attr{slog.String("component", "supervisor")})
	if len(base.attrs) != 0 {
		t.Errorf("WithAttrs mutated the parent handler: %v", base.attrs)
	}
	if base.WithGroup("") != base {
		t.Error("WithGroup(\"\") should return the same handler")
	}

	slog.New(child).Info("tree started")
	if !strings.Contains(buf.String(), `"component":"supervisor"`) {
		t.Errorf("expected pre-configured attribute: %s", buf.String())
	}
}

func TestNewSlogLoggerWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewSlogLoggerWithLogger(zerolog.New(&buf)).Warn("backoff", "service", "http")

	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
