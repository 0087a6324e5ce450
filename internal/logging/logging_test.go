package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
		{"loud", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		logger, err := New(Config{Level: tt.level})
		if err != nil {
			t.Fatalf("New(%q): %v", tt.level, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("level %q: %v not enabled", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("level %q: %v unexpectedly enabled", tt.level, tt.want-1)
		}
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfd.log")
	logger, err := New(Config{Level: "info", Encoding: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("lesson completed")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"lesson completed"`) {
		t.Errorf("log = %q, want JSON message", data)
	}
}
