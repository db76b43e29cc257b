package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		production bool
		level      string
		debug      bool
	}{
		{production: true, level: "", debug: false},
		{production: false, level: "", debug: true},
		{production: true, level: "debug", debug: true},
		{production: false, level: "warn", debug: false},
	}
	for _, tc := range cases {
		logger, err := New(tc.production, tc.level)
		if err != nil {
			t.Fatalf("New(%v, %q): %v", tc.production, tc.level, err)
		}
		if got := logger.Core().Enabled(zap.DebugLevel); got != tc.debug {
			t.Errorf("New(%v, %q): expected debug enabled=%v, got %v", tc.production, tc.level, tc.debug, got)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(false, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
