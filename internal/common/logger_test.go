package common

import (
	"log/slog"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	if err := SetupLogger(slog.LevelInfo, "json"); err != nil {
		t.Errorf("json format should be accepted: %v", err)
	}
	if err := SetupLogger(slog.LevelDebug, "console"); err != nil {
		t.Errorf("console format should be accepted: %v", err)
	}
	if err := SetupLogger(slog.LevelInfo, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
