// Package config loads eventgate configuration from files and environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EventRoute binds an HTTP path to an event name. A POST to Path is ingested
// as an event named Event.
type EventRoute struct {
	Path  string `json:"path" yaml:"path"`
	Event string `json:"event" yaml:"event"`
}

// Config is the application configuration.
type Config struct {
	// Hostname and Port the HTTP server listens on.
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     int    `json:"port" yaml:"port"`
	// CookieName is the session cookie the filter reads and writes.
	CookieName string `json:"cookie" yaml:"cookie"`
	// LogLevel is DEBUG|INFO|WARN|ERROR|FATAL.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	// Events are extra ingress routes besides the generic /event/{name}.
	Events []EventRoute `json:"events" yaml:"events"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Hostname:   "127.0.0.1",
		Port:       8080,
		CookieName: "eventgate-session",
		LogLevel:   "INFO",
	}
}

// candidateFiles lists the config file names probed in each directory.
var candidateFiles = []string{
	"eventgate.json",
	"eventgate.jsonc",
	"eventgate.yaml",
	"eventgate.yml",
}

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.config/eventgate/)
// 2. Project config (the working directory)
// 3. EVENTGATE_CONFIG file
// 4. EVENTGATE_* environment variables
func Load(directory string) (*Config, error) {
	config := Default()

	loaded := make(map[string]bool)
	loadOnce := func(path string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadFile(path, config) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Global config
	if home := os.Getenv("HOME"); home != "" {
		globalDir := filepath.Join(home, ".config", "eventgate")
		for _, name := range candidateFiles {
			loadOnce(filepath.Join(globalDir, name))
		}
	}

	// 2. Project config
	if directory != "" {
		for _, name := range candidateFiles {
			loadOnce(filepath.Join(directory, name))
		}
	}

	// 3. EVENTGATE_CONFIG file override
	if path := os.Getenv("EVENTGATE_CONFIG"); path != "" {
		loadOnce(path)
	}

	// 4. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

// loadFile merges a single config file into config. Missing files are
// reported as errors so the caller can skip them.
func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileConfig Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return err
		}
	default:
		// Strip JSONC comments and trailing commas.
		if err := json.Unmarshal(jsonc.ToJSON(data), &fileConfig); err != nil {
			return err
		}
	}

	merge(config, &fileConfig)
	return nil
}

// merge overlays non-zero fields of src onto dst.
func merge(dst, src *Config) {
	if src.Hostname != "" {
		dst.Hostname = src.Hostname
	}
	if src.Port != 0 {
		dst.Port = src.Port
	}
	if src.CookieName != "" {
		dst.CookieName = src.CookieName
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if len(src.Events) > 0 {
		dst.Events = append(dst.Events, src.Events...)
	}
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("EVENTGATE_HOSTNAME"); v != "" {
		config.Hostname = v
	}
	if v := os.Getenv("EVENTGATE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Port = port
		}
	}
	if v := os.Getenv("EVENTGATE_COOKIE"); v != "" {
		config.CookieName = v
	}
	if v := os.Getenv("EVENTGATE_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}
