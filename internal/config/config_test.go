package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if cfg.HTTPAddr != ":8089" {
		t.Errorf("HTTPAddr = %q, want default :8089", cfg.HTTPAddr)
	}
	if cfg.ModelPath != "models/hand_landmarks.onnx" {
		t.Errorf("ModelPath = %q, want default", cfg.ModelPath)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handwave.yaml")
	body := "http_addr: \":9000\"\ncamera_device: 2\nscene_seed: 42\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q, want :9000", cfg.HTTPAddr)
	}
	if cfg.CameraDevice != 2 {
		t.Errorf("CameraDevice = %d, want 2", cfg.CameraDevice)
	}
	if cfg.SceneSeed != 42 {
		t.Errorf("SceneSeed = %d, want 42", cfg.SceneSeed)
	}
	// Unset fields keep defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n\t-"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HANDWAVE_ADDR", ":7777")
	t.Setenv("HANDWAVE_CAMERA", "3")
	t.Setenv("HANDWAVE_MUTE", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7777" {
		t.Errorf("HTTPAddr = %q, want :7777", cfg.HTTPAddr)
	}
	if cfg.CameraDevice != 3 {
		t.Errorf("CameraDevice = %d, want 3", cfg.CameraDevice)
	}
	if !cfg.Mute {
		t.Error("Mute should be true")
	}
}
