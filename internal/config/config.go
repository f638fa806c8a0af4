package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

type Config struct {
	// Site layout, relative to Root unless absolute.
	Root    string
	Input   string
	Output  string
	MinJSON string

	// Preview server
	Addr string

	LogLevel string

	// Optional YAML overlay
	File string

	// Extra column-label synonyms and key priorities from the overlay.
	Labels   map[string]string
	KeyOrder []string
}

// Overlay is the shape of the optional YAML config file.
type Overlay struct {
	Labels   map[string]string `yaml:"labels"`
	KeyOrder []string          `yaml:"keyOrder"`
}

func Load() (Config, error) {
	cfg := Config{
		Root:    envOr("STUDYPLAN_ROOT", "."),
		Input:   envOr("STUDYPLAN_INPUT", "index.html"),
		Output:  envOr("STUDYPLAN_OUTPUT", "data.global.js"),
		MinJSON: envOr("STUDYPLAN_MIN_JSON", "data.min.json"),

		Addr: envOr("STUDYPLAN_ADDR", ":8090"),

		LogLevel: envOr("STUDYPLAN_LOG_LEVEL", "info"),

		File: os.Getenv("STUDYPLAN_CONFIG"),
	}

	if cfg.File != "" {
		if err := cfg.ApplyOverlay(cfg.File); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// ApplyOverlay reads the YAML overlay at path and replaces the labels and
// key order with its contents.
func (c *Config) ApplyOverlay(path string) error {
	ov, err := LoadOverlay(path)
	if err != nil {
		return err
	}
	c.File = path
	c.Labels = ov.Labels
	c.KeyOrder = ov.KeyOrder
	return nil
}

// LoadOverlay reads a YAML overlay. Unknown fields are rejected.
func LoadOverlay(path string) (Overlay, error) {
	var ov Overlay
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ov, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return ov, fmt.Errorf("read config: %w", err)
	}
	if len(data) == 0 {
		return ov, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &ov, yaml.Strict()); err != nil {
		return ov, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return ov, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("STUDYPLAN_INPUT is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("STUDYPLAN_OUTPUT is required")
	}
	if c.InputPath() == c.OutputPath() {
		return fmt.Errorf("input and output resolve to the same file: %s", c.InputPath())
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) InputPath() string   { return c.resolve(c.Input) }
func (c Config) OutputPath() string  { return c.resolve(c.Output) }
func (c Config) MinJSONPath() string { return c.resolve(c.MinJSON) }

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid STUDYPLAN_LOG_LEVEL %q", c.LogLevel)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
