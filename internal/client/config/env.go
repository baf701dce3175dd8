package config

import "time"

// parseEnv applies CENTRINOTE_* overrides. Unparseable durations are ignored.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := map[string]*string{
		"CENTRINOTE_SERVER_URL":        &cfg.ServerURL,
		"CENTRINOTE_GRPC_ADDRESS":      &cfg.GRPCAddress,
		"CENTRINOTE_SUPABASE_URL":      &cfg.SupabaseURL,
		"CENTRINOTE_SUPABASE_ANON_KEY": &cfg.SupabaseAnonKey,
		"CENTRINOTE_DB_PATH":           &cfg.DBPath,
		"CENTRINOTE_ZOOM_SDK_KEY":      &cfg.ZoomSDKKey,
		"CENTRINOTE_ZOOM_SDK_SECRET":   &cfg.ZoomSDKSecret,
		"CENTRINOTE_LOG_LEVEL":         &cfg.LogLevel,
		"CENTRINOTE_LOG_FILE":          &cfg.LogFile,
	}
	for k, dst := range str {
		if v, ok := lookup(k); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("CENTRINOTE_REQUEST_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
