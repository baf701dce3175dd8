// Package config loads settings for the Centrinote CLI: built-in defaults,
// then an optional TOML file, then CENTRINOTE_* environment variables.
// Command-line flags are bound onto the loaded Config by the cli package.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const appDir = "centrinote"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the Centrinote server HTTP API.
//   - GRPCAddress: host:port of the server's gRPC health endpoint, used by doctor.
//   - SupabaseURL / SupabaseAnonKey: project endpoint and public key used for login.
//   - DBPath: sqlite file holding local preferences and the session.
//   - RequestTimeout: per-request HTTP timeout.
//   - ZoomSDKKey / ZoomSDKSecret: optional, for offline signature generation.
//   - LogLevel / LogFile: CLI diagnostics go to a rotating file, never the terminal.
type Config struct {
	ServerURL       string
	GRPCAddress     string
	SupabaseURL     string
	SupabaseAnonKey string
	DBPath          string
	RequestTimeout  time.Duration
	ZoomSDKKey      string
	ZoomSDKSecret   string
	LogLevel        string
	LogFile         string
}

// LoadDefaults populates c with local-development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.GRPCAddress = "127.0.0.1:50051"
	c.SupabaseURL = "http://127.0.0.1:54321"
	c.DBPath = filepath.Join(dataDir(), "centrinote.db")
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "warn"
	c.LogFile = filepath.Join(dataDir(), "cli.log")
}

// Load builds a Config from defaults, the TOML file at path (or the default
// location when path is empty) and the environment. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if err := parseFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	parseEnv(cfg, os.LookupEnv)
	return cfg, nil
}

// DefaultConfigPath is $XDG_CONFIG_HOME/centrinote/config.toml, falling
// back to ~/.config. It returns "" when no home directory is known.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDir, "config.toml")
	}
	return ""
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appDir)
	}
	return "."
}
