package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/KevinPriv/canvas-lang/internal/canvas"
)

// defaultConfigFile is read from the working directory when --config is not
// given. Its absence is not an error.
const defaultConfigFile = "canvas.yaml"

// defaultMaxSteps stops runaway scripts in the CLI. Library callers get no
// limit unless they ask for one.
const defaultMaxSteps = 1_000_000

// Config is the CLI configuration file
type Config struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Pen        int    `yaml:"pen"`
	MaxSteps   int    `yaml:"max_steps"`
	LogLevel   string `yaml:"log_level"`
	MinVersion string `yaml:"min_version"`
}

func defaultConfig() Config {
	return Config{
		Width:    canvas.DefaultWidth,
		Height:   canvas.DefaultHeight,
		MaxSteps: defaultMaxSteps,
		LogLevel: "warn",
	}
}

// loadConfig reads path over the defaults. With required unset a missing
// file yields the defaults.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("cannot open config %s", path),
			Details: err.Error(),
		}
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("invalid config %s", path),
			Details: err.Error(),
			Hint:    "known keys: width, height, pen, max_steps, log_level, min_version",
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("invalid config %s", path),
			Details: err.Error(),
		}
	}
	return cfg, nil
}

func (c Config) validate() error {
	var issues []string
	if c.Width <= 0 || c.Height <= 0 {
		issues = append(issues, fmt.Sprintf("canvas size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Pen < 0 || c.Pen > canvas.MaxPen {
		issues = append(issues, fmt.Sprintf("pen must be between 0 and %d, got %d", canvas.MaxPen, c.Pen))
	}
	if c.MaxSteps < 0 {
		issues = append(issues, fmt.Sprintf("max_steps must not be negative, got %d", c.MaxSteps))
	}
	if c.MinVersion != "" && !semver.IsValid(canonicalVersion(c.MinVersion)) {
		issues = append(issues, fmt.Sprintf("min_version %q is not a semantic version", c.MinVersion))
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// checkVersion fails when the running binary is older than min_version
func (c Config) checkVersion(running string) error {
	if c.MinVersion == "" {
		return nil
	}
	required := canonicalVersion(c.MinVersion)
	current := canonicalVersion(running)
	if !semver.IsValid(current) {
		// Development builds are not versioned
		return nil
	}
	if semver.Compare(current, required) < 0 {
		return &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("this script directory needs canvas %s or newer, running %s", required, current),
			Hint:    "upgrade canvas or lower min_version in " + defaultConfigFile,
		}
	}
	return nil
}

// canonicalVersion accepts versions with or without the leading "v"
func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
