package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.Interval != 20*time.Second {
		t.Errorf("Expected Interval 20s, got %s", s.Interval)
	}
	if s.Listen != ":8080" {
		t.Errorf("Expected Listen :8080, got %s", s.Listen)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default settings should validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s != Default() {
		t.Errorf("Expected defaults %+v, got %+v", Default(), s)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campuslab.yaml")
	body := "interval: 5s\nseed: 42\nlisten: 127.0.0.1:9090\njson_logs: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	v := NewViper()
	if err := ReadFile(v, path, true); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Interval != 5*time.Second || s.Seed != 42 || s.Listen != "127.0.0.1:9090" || !s.JSONLogs {
		t.Errorf("File values not applied: %+v", s)
	}
	if s.OutputDir != DefaultOutputDir {
		t.Errorf("Unset key should keep default, got %q", s.OutputDir)
	}
}

func TestReadFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	if err := ReadFile(NewViper(), missing, false); err != nil {
		t.Errorf("Missing default config should be ignored, got %v", err)
	}
	if err := ReadFile(NewViper(), missing, true); err == nil {
		t.Error("Missing explicit config should fail")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CAMPUSLAB_INTERVAL", "3s")
	t.Setenv("CAMPUSLAB_LOG_LEVEL", "debug")

	s, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Interval != 3*time.Second {
		t.Errorf("Expected env interval 3s, got %s", s.Interval)
	}
	if s.LogLevel != "debug" {
		t.Errorf("Expected env log level debug, got %s", s.LogLevel)
	}
}

func TestInvalidInterval(t *testing.T) {
	v := NewViper()
	v.Set("interval", "0s")

	_, err := Load(v)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("Expected ErrInvalidInterval, got %v", err)
	}
}
