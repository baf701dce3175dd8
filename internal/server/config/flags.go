package config

import (
	"flag"
	"os"

	"github.com/centrinote/centrinote/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC health bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-s string   Supabase JWT secret
//	-l string   log level
//	-r int      API rate limit per user per minute
//
// Zoom and storage credentials are deliberately not accepted as flags so
// they do not end up in process listings.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-l", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve the HTTP API on")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to serve gRPC health on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SupabaseJWTSecret, "s", config.SupabaseJWTSecret, "Supabase JWT secret")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&config.RateLimitPerMinute, "r", config.RateLimitPerMinute, "API requests per user per minute")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
