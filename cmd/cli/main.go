package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/client/cli"
	"github.com/centrinote/centrinote/internal/client/config"
	"github.com/centrinote/centrinote/internal/client/output"
	"github.com/centrinote/centrinote/internal/client/prefs"
	"github.com/centrinote/centrinote/internal/client/probe"
	"github.com/centrinote/centrinote/internal/client/services"
	"github.com/centrinote/centrinote/internal/client/supabase"
	"github.com/centrinote/centrinote/internal/flagx"
	"github.com/centrinote/centrinote/internal/logging"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(flagx.ConfigFileFlag())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	deps := &cli.Dependencies{
		Config: cfg,
		In:     os.Stdin,
		Out:    os.Stdout,
		Init: func(ctx context.Context, d *cli.Dependencies) error {
			var err error
			closers, err = wire(ctx, d)
			return err
		},
	}

	return cli.NewRootCmd(deps).ExecuteContext(ctx)
}

// wire builds the services from the final config, after flags were applied.
// The returned closers are released when the command finishes.
func wire(ctx context.Context, d *cli.Dependencies) ([]io.Closer, error) {
	cfg := d.Config

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: "text", File: cfg.LogFile, MaxSizeMB: 10, MaxBackups: 3})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	store, err := prefs.Open(ctx, cfg.DBPath, prefs.DefaultRegistry())
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	hp, err := probe.NewGRPCProbe(cfg.GRPCAddress)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("grpc probe: %w", err)
	}

	hc := &http.Client{Timeout: cfg.RequestTimeout}
	auth := services.NewAuthService(store, supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, hc), logger)
	server := api.NewClient(cfg.ServerURL, auth.TokenSource(ctx), cfg.RequestTimeout)

	d.Session = auth
	d.Prefs = store
	d.Server = server
	d.Recordings = services.NewMeetingService(server, nil)
	d.Probe = hp

	logger.Debug(ctx, "cli initialized", "server", cfg.ServerURL, "db", cfg.DBPath)
	return []io.Closer{store, hp}, nil
}
