package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors config.toml. Durations are strings such as "15s".
type fileConfig struct {
	ServerURL       string `toml:"server_url"`
	GRPCAddress     string `toml:"grpc_address"`
	SupabaseURL     string `toml:"supabase_url"`
	SupabaseAnonKey string `toml:"supabase_anon_key"`
	DBPath          string `toml:"db_path"`
	RequestTimeout  string `toml:"request_timeout"`
	ZoomSDKKey      string `toml:"zoom_sdk_key"`
	ZoomSDKSecret   string `toml:"zoom_sdk_secret"`
	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
}

// parseFile overlays non-empty values from the TOML file at path.
func parseFile(cfg *Config, path string, required bool) error {
	if path == "" {
		return nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	set(&cfg.ServerURL, fc.ServerURL)
	set(&cfg.GRPCAddress, fc.GRPCAddress)
	set(&cfg.SupabaseURL, fc.SupabaseURL)
	set(&cfg.SupabaseAnonKey, fc.SupabaseAnonKey)
	set(&cfg.DBPath, expandTilde(fc.DBPath))
	set(&cfg.ZoomSDKKey, fc.ZoomSDKKey)
	set(&cfg.ZoomSDKSecret, fc.ZoomSDKSecret)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFile, expandTilde(fc.LogFile))

	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: request_timeout: %w", path, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func expandTilde(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + string(os.PathSeparator) + rest
		}
	}
	return path
}
