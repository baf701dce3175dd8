package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/centrinote/centrinote/internal/flagx"
	"gopkg.in/yaml.v3"
)

// Duration accepts both "90s"-style strings and integer nanoseconds in
// JSON and YAML config files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case int:
		d.Duration = time.Duration(x)
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// FileConfig mirrors Config for JSON and YAML files. Only non-empty values
// override what is already set.
type FileConfig struct {
	HTTPAddr          string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr          string `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN       string `json:"database_dsn" yaml:"database_dsn"`
	SupabaseJWTSecret string `json:"supabase_jwt_secret" yaml:"supabase_jwt_secret"`

	Log struct {
		Level  string `json:"level" yaml:"level"`
		Format string `json:"format" yaml:"format"`
		File   string `json:"file" yaml:"file"`
	} `json:"log" yaml:"log"`

	Zoom struct {
		SDKKey          string   `json:"sdk_key" yaml:"sdk_key"`
		SDKSecret       string   `json:"sdk_secret" yaml:"sdk_secret"`
		APIKey          string   `json:"api_key" yaml:"api_key"`
		APISecret       string   `json:"api_secret" yaml:"api_secret"`
		AccountID       string   `json:"account_id" yaml:"account_id"`
		ClientID        string   `json:"client_id" yaml:"client_id"`
		ClientSecret    string   `json:"client_secret" yaml:"client_secret"`
		APIBaseURL      string   `json:"api_base_url" yaml:"api_base_url"`
		OAuthTokenURL   string   `json:"oauth_token_url" yaml:"oauth_token_url"`
		WebBaseURL      string   `json:"web_base_url" yaml:"web_base_url"`
		APITimeout      Duration `json:"api_timeout" yaml:"api_timeout"`
		VerifyOnConnect *bool    `json:"verify_on_connect" yaml:"verify_on_connect"`
	} `json:"zoom" yaml:"zoom"`

	Storage struct {
		AccessKey     string   `json:"access_key" yaml:"access_key"`
		SecretKey     string   `json:"secret_key" yaml:"secret_key"`
		Bucket        string   `json:"bucket" yaml:"bucket"`
		Region        string   `json:"region" yaml:"region"`
		BaseEndpoint  string   `json:"base_endpoint" yaml:"base_endpoint"`
		PresignExpiry Duration `json:"presign_expiry" yaml:"presign_expiry"`
	} `json:"storage" yaml:"storage"`

	AdminKeyHash       string   `json:"admin_key_hash" yaml:"admin_key_hash"`
	RateLimitPerMinute *int     `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins"`
}

// parseFile loads the file named by -c/-config, if any, into config.
// A missing or malformed file panics: the operator asked for it explicitly.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	fc, err := readFile(path)
	if err != nil {
		panic(err)
	}
	fc.apply(config)
}

func readFile(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, fc)
	default:
		err = json.Unmarshal(b, fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCAddr, fc.GRPCAddr)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SupabaseJWTSecret, fc.SupabaseJWTSecret)

	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.LogFormat, fc.Log.Format)
	setString(&c.LogFile, fc.Log.File)

	setString(&c.ZoomSDKKey, fc.Zoom.SDKKey)
	setString(&c.ZoomSDKSecret, fc.Zoom.SDKSecret)
	setString(&c.ZoomAPIKey, fc.Zoom.APIKey)
	setString(&c.ZoomAPISecret, fc.Zoom.APISecret)
	setString(&c.ZoomAccountID, fc.Zoom.AccountID)
	setString(&c.ZoomClientID, fc.Zoom.ClientID)
	setString(&c.ZoomClientSecret, fc.Zoom.ClientSecret)
	setString(&c.ZoomAPIBaseURL, fc.Zoom.APIBaseURL)
	setString(&c.ZoomOAuthTokenURL, fc.Zoom.OAuthTokenURL)
	setString(&c.ZoomWebBaseURL, fc.Zoom.WebBaseURL)
	if fc.Zoom.APITimeout.Duration > 0 {
		c.ZoomAPITimeout = fc.Zoom.APITimeout.Duration
	}
	if fc.Zoom.VerifyOnConnect != nil {
		c.ZoomVerifyOnConnect = *fc.Zoom.VerifyOnConnect
	}

	setString(&c.S3AccessKey, fc.Storage.AccessKey)
	setString(&c.S3SecretKey, fc.Storage.SecretKey)
	setString(&c.S3Bucket, fc.Storage.Bucket)
	setString(&c.S3Region, fc.Storage.Region)
	setString(&c.S3BaseEndpoint, fc.Storage.BaseEndpoint)
	if fc.Storage.PresignExpiry.Duration > 0 {
		c.PresignExpiry = fc.Storage.PresignExpiry.Duration
	}

	setString(&c.AdminKeyHash, fc.AdminKeyHash)
	if fc.RateLimitPerMinute != nil {
		c.RateLimitPerMinute = *fc.RateLimitPerMinute
	}
	if len(fc.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = fc.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
