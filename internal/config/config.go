// Package config loads aimaturity settings.
//
// Settings come from three layers, later ones winning:
//
//	.aimaturity/settings.yaml   relative to the working directory
//	.env                        AIMATURITY_* keys, same directory
//	process environment         AIMATURITY_* variables
//
// Command-line flags override all of them and are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "AIMATURITY_"

// Settings holds aimaturity configuration.
type Settings struct {
	// Framework is a maturity framework file; empty means the built-in one.
	Framework string `yaml:"framework"`
	// OutputDir receives generated reports; empty means ~/.aimaturity/reports.
	OutputDir   string `yaml:"output_dir"`
	AssessedBy  string `yaml:"assessed_by"`
	Timezone    string `yaml:"timezone"`
	SheetPrefix string `yaml:"sheet_prefix"`
	// Format is the default report format.
	Format string `yaml:"format"`
	Log    Log    `yaml:"log"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Settings {
	return &Settings{
		AssessedBy: "ISSI",
		Format:     "xlsx",
		Log:        Log{Level: "info", Format: "text"},
	}
}

// Path returns the settings file location under root.
func Path(root string) string {
	return filepath.Join(root, ".aimaturity", "settings.yaml")
}

// Load reads settings for root. A missing settings file or .env is not an
// error.
func Load(root string) (*Settings, error) {
	s := Defaults()

	path := Path(root)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", path, err)
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	s.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return dotenv[key]
	})

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv(lookup func(string) string) {
	for key, field := range map[string]*string{
		"FRAMEWORK":    &s.Framework,
		"OUTPUT_DIR":   &s.OutputDir,
		"ASSESSED_BY":  &s.AssessedBy,
		"TIMEZONE":     &s.Timezone,
		"SHEET_PREFIX": &s.SheetPrefix,
		"FORMAT":       &s.Format,
		"LOG_LEVEL":    &s.Log.Level,
		"LOG_FORMAT":   &s.Log.Format,
	} {
		if v := lookup(EnvPrefix + key); v != "" {
			*field = v
		}
	}
}

// Validate checks the fields that have a closed set of values.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", s.Log.Level)
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", s.Log.Format)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone, or the local one when unset.
func (s *Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
