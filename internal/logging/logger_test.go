package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
	}{
		{name: "default", opts: Options{}, wantDebug: false, wantInfo: true},
		{name: "verbose", opts: Options{Verbose: true}, wantDebug: true, wantInfo: true},
		{name: "quiet", opts: Options{Quiet: true}, wantDebug: false, wantInfo: false},
		{name: "verbose wins over quiet", opts: Options{Verbose: true, Quiet: true}, wantDebug: true, wantInfo: true},
		{name: "json", opts: Options{JSON: true}, wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New(%+v) error = %v", tt.opts, err)
			}
			defer logger.Sync() //nolint:errcheck // best-effort flush

			if got := logger.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Core().Enabled(zap.InfoLevel); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
			// both security records (Error, then Warn) survive every level
			if !logger.Core().Enabled(zap.ErrorLevel) || !logger.Core().Enabled(zap.WarnLevel) {
				t.Error("warn and error levels must always be enabled")
			}
		})
	}
}
