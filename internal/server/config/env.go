package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type lookupFunc func(key string) (string, bool)

var lookupEnv lookupFunc = os.LookupEnv

// parseEnv overlays environment variables. Zoom credentials are expected to
// arrive this way in production.
func parseEnv(c *Config, lookup lookupFunc) {
	strs := map[string]*string{
		"CENTRINOTE_HTTP_ADDR":      &c.HTTPAddr,
		"CENTRINOTE_GRPC_ADDR":      &c.GRPCAddr,
		"DATABASE_URL":              &c.DatabaseDSN,
		"SUPABASE_JWT_SECRET":       &c.SupabaseJWTSecret,
		"LOG_LEVEL":                 &c.LogLevel,
		"LOG_FORMAT":                &c.LogFormat,
		"LOG_FILE":                  &c.LogFile,
		"ZOOM_SDK_KEY":              &c.ZoomSDKKey,
		"ZOOM_SDK_SECRET":           &c.ZoomSDKSecret,
		"ZOOM_API_KEY":              &c.ZoomAPIKey,
		"ZOOM_API_SECRET":           &c.ZoomAPISecret,
		"ZOOM_ACCOUNT_ID":           &c.ZoomAccountID,
		"ZOOM_CLIENT_ID":            &c.ZoomClientID,
		"ZOOM_CLIENT_SECRET":        &c.ZoomClientSecret,
		"ZOOM_API_BASE_URL":         &c.ZoomAPIBaseURL,
		"ZOOM_OAUTH_TOKEN_URL":      &c.ZoomOAuthTokenURL,
		"ZOOM_WEB_BASE_URL":         &c.ZoomWebBaseURL,
		"S3_ACCESS_KEY":             &c.S3AccessKey,
		"S3_SECRET_KEY":             &c.S3SecretKey,
		"S3_BUCKET":                 &c.S3Bucket,
		"S3_REGION":                 &c.S3Region,
		"S3_ENDPOINT":               &c.S3BaseEndpoint,
		"CENTRINOTE_ADMIN_KEY_HASH": &c.AdminKeyHash,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("ZOOM_API_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.ZoomAPITimeout = d
		}
	}
	if v, ok := lookup("ZOOM_VERIFY_ON_CONNECT"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ZoomVerifyOnConnect = b
		}
	}
	// A limit of 0 or less disables rate limiting.
	if v, ok := lookup("CENTRINOTE_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.RateLimitPerMinute = n
		}
	}
	if v, ok := lookup("CENTRINOTE_CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSAllowedOrigins = origins
	}
}
