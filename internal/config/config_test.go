package config

import (
	"io/fs"
	"log/slog"
	"testing"
)

func TestFileModeDecode(t *testing.T) {
	tests := []struct {
		input   string
		want    fs.FileMode
		wantErr bool
	}{
		{"0600", 0o600, false},
		{"600", 0o600, false},
		{"0640", 0o640, false},
		{"0777", 0o777, false},
		{"0", 0, true},
		{"01000", 0, true},
		{"0800", 0, true},
		{"", 0, true},
		{"-600", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var m FileMode
			err := m.Decode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q) expected error, got mode %o", tt.input, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", tt.input, err)
			}
			if m.Perm() != tt.want {
				t.Errorf("Decode(%q) = %o, want %o", tt.input, m.Perm(), tt.want)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
