package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"robo-tools/cmd/robolib/librarian"

	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "robolib"

// Derived env var names, computed once at init from appName.
var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envRecords   = strings.ToUpper(appName) + "_RECORDS"
)

const (
	recordsDirName   = "records"
	settingsFileName = "config.yml"
)

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// resolveSources returns where records are loaded from.
// Order: configDir/records/** → $<APPNAME>_RECORDS → flagPaths.
// Entries of the env var and the flag may name a file or a directory;
// directories are scanned like the config records directory. Paths that do
// not exist are kept as files so the error surfaces at read time.
func resolveSources(configDir string, flagPaths []string) librarian.Config {
	cfg := librarian.Config{
		Dirs:       []string{filepath.Join(configDir, recordsDirName)},
		UseDefault: true,
	}
	paths := splitColon(os.Getenv(envRecords))
	paths = append(paths, flagPaths...)
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			cfg.Dirs = append(cfg.Dirs, p)
			continue
		}
		cfg.Files = append(cfg.Files, p)
	}
	return cfg
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// settings is the optional <config>/config.yml. Command-line flags win over
// every field.
type settings struct {
	Platform  string `yaml:"platform"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// loadSettings reads configDir/config.yml. A missing file yields zero settings.
func loadSettings(configDir string) (settings, error) {
	path := filepath.Join(configDir, settingsFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings{}, nil
	}
	if err != nil {
		return settings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	var s settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return settings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	return s, nil
}
