package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")
	tests := []struct {
		opts Options
		want zerolog.Level
	}{
		{Options{}, zerolog.InfoLevel},
		{Options{Quiet: true}, zerolog.WarnLevel},
		{Options{Verbose: true}, zerolog.DebugLevel},
		{Options{Verbose: true, Quiet: true}, zerolog.DebugLevel},
	}
	for _, tc := range tests {
		if got := tc.opts.Level(); got != tc.want {
			t.Errorf("%+v: expected %s, got %s", tc.opts, tc.want, got)
		}
	}
}

func TestLevel_DebugEnv(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	if got := (Options{Quiet: true}).Level(); got != zerolog.DebugLevel {
		t.Errorf("expected debug, got %s", got)
	}
}

func TestSetup_WritesToOut(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	logger := Setup(Options{Out: &buf, NoColor: true})
	logger.Info().Int("files", 3).Msg("discovering files")
	logger.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "discovering files") || !strings.Contains(out, "files=3") {
		t.Errorf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
}
