// Package config provides configuration for handwave commands.
//
// Settings come from three layers, later layers winning: built-in
// defaults, an optional YAML file, and HANDWAVE_* environment
// variables. Command flags are applied on top by each binary.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the cross-cutting settings the binaries wire into the
// packages. Per-package tuning constants live with their packages.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// HTTPAddr is the dashboard listen address, e.g. ":8089".
	HTTPAddr string `yaml:"http_addr"`

	// CameraDevice is the capture device ID passed to OpenCV.
	CameraDevice int `yaml:"camera_device"`

	// ModelPath is the hand-landmark ONNX model location.
	ModelPath string `yaml:"model_path"`

	// ModelURL is where the model is fetched from when ModelPath
	// does not exist. Empty disables fetching.
	ModelURL string `yaml:"model_url"`

	// OutputDir is where recording artifacts are written.
	OutputDir string `yaml:"output_dir"`

	// SceneSeed seeds the procedural scene. 0 means time-based.
	SceneSeed int64 `yaml:"scene_seed"`

	// Mute disables speaker output. The synth stream is only pulled by
	// the speaker, so recordings made while muted are video-only.
	Mute bool `yaml:"mute"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		HTTPAddr:     ":8089",
		CameraDevice: 0,
		ModelPath:    "models/hand_landmarks.onnx",
		OutputDir:    "recordings",
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays HANDWAVE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("HANDWAVE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HANDWAVE_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("HANDWAVE_CAMERA"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			c.CameraDevice = id
		}
	}
	if v := os.Getenv("HANDWAVE_MODEL"); v != "" {
		c.ModelPath = v
	}
	if v := os.Getenv("HANDWAVE_MODEL_URL"); v != "" {
		c.ModelURL = v
	}
	if v := os.Getenv("HANDWAVE_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("HANDWAVE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.SceneSeed = n
		}
	}
	if v := os.Getenv("HANDWAVE_MUTE"); v == "1" || v == "true" {
		c.Mute = true
	}
}
