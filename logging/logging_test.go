package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		mode  string
		level string
		want  zapcore.Level
	}{
		{mode: "development", level: "", want: zapcore.InfoLevel},
		{mode: "prod", level: "warn", want: zapcore.WarnLevel},
		{mode: "Production", level: "DEBUG", want: zapcore.DebugLevel},
		{mode: "", level: "error", want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.level, func(t *testing.T) {
			log, err := New(tt.mode, tt.level)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if !log.Core().Enabled(tt.want) {
				t.Errorf("expected %s enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
				t.Errorf("expected %s disabled", tt.want-1)
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("development", "chatty")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse log level:") {
		t.Fatalf("expected parse log level prefix, got %v", err)
	}
}
