// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLogger(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name      string
		log       func(a watermill.LoggerAdapter)
		wantLevel string
	}{
		{"error", func(a watermill.LoggerAdapter) {
			a.Error("handler failed", errors.New("boom"), watermill.LogFields{"topic": "jobs.0"})
		}, "error"},
		{"info is demoted", func(a watermill.LoggerAdapter) {
			a.Info("subscriber started", watermill.LogFields{"topic": "jobs.0"})
		}, "debug"},
		{"debug", func(a watermill.LoggerAdapter) {
			a.Debug("message acked", watermill.LogFields{"topic": "jobs.0"})
		}, "debug"},
		{"trace", func(a watermill.LoggerAdapter) {
			a.Trace("raw", watermill.LogFields{"topic": "jobs.0"})
		}, "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWatermillLogger(zerolog.New(&buf).Level(zerolog.TraceLevel)))

			output := buf.String()
			if !strings.Contains(output, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, `"topic":"jobs.0"`) {
				t.Errorf("expected fields: %s", output)
			}
		})
	}
}

func TestWatermillLogger_With(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	adapter := NewWatermillLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	adapter.With(watermill.LogFields{"handler": "shard-1"}).Debug("processing", nil)

	output := buf.String()
	if !strings.Contains(output, `"handler":"shard-1"`) {
		t.Errorf("expected inherited field: %s", output)
	}
}
