// Package server wires configuration, storage, the Zoom integration and the
// HTTP and gRPC front ends into a single application and runs it until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrinote/centrinote/internal/logging"
	"github.com/centrinote/centrinote/internal/server/auth"
	"github.com/centrinote/centrinote/internal/server/config"
	"github.com/centrinote/centrinote/internal/server/httpapi"
	"github.com/centrinote/centrinote/internal/server/metrics"
	"github.com/centrinote/centrinote/internal/server/repositories/repomanager"
	"github.com/centrinote/centrinote/internal/server/services"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"github.com/centrinote/centrinote/internal/version"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/centrinote/centrinote/internal/server/grpc"
)

// dbCheckInterval is how often the gRPC database health entry is refreshed.
const dbCheckInterval = 30 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// newRepositoryManager is a seam for tests.
var newRepositoryManager = repomanager.NewPostgresRepositoryManager

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	l, err := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := l.With("app", "centrinote-server")

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	api := newZoomAPI(ctx, c)

	var signer *zoom.Signer
	if c.ZoomSDKConfigured() {
		signer = zoom.NewSigner(c.ZoomSDKKey, c.ZoomSDKSecret)
	}

	ms := services.NewMeetingService(db, rm, api, signer, c, logger)
	cs := services.NewConnectionService(db, rm, api, c.ZoomVerifyOnConnect, logger)
	rs := services.NewRecordingService(db, rm, ms, c, logger)

	hs := httpapi.NewServer(httpapi.Options{
		Address:            c.HTTPAddr,
		APIMode:            c.ZoomAPIMode(),
		StorageConfigured:  c.StorageConfigured(),
		AdminKeyHash:       c.AdminKeyHash,
		RateLimitPerMinute: c.RateLimitPerMinute,
		CORSAllowedOrigins: c.CORSAllowedOrigins,
		Version:            version.Version,
	}, logger, db, auth.NewSessionVerifier(c.SupabaseJWTSecret), ms, cs, rs)

	logger.Info(ctx, "app configured",
		"sdk_configured", c.ZoomSDKConfigured(),
		"api_mode", c.ZoomAPIMode(),
		"storage_configured", c.StorageConfigured(),
	)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: hs,
		grpcServer: gs.NewGRPCServer(c.GRPCAddr, logger, c.ZoomSDKConfigured()),
	}, nil
}

// newZoomAPI picks the REST credentials: server-to-server OAuth wins over
// the legacy JWT app. It returns nil when neither is configured.
func newZoomAPI(ctx context.Context, c *config.Config) services.ZoomAPI {
	hc := &http.Client{Timeout: c.ZoomAPITimeout}
	opts := []zoom.ClientOption{zoom.WithHTTPClient(hc), zoom.WithObserver(metrics.ObserveZoomRequest)}

	switch c.ZoomAPIMode() {
	case "oauth":
		ts := zoom.NewOAuthTokenSource(ctx, c.ZoomAccountID, c.ZoomClientID, c.ZoomClientSecret, c.ZoomOAuthTokenURL, hc)
		return zoom.NewClient(c.ZoomAPIBaseURL, ts, opts...)
	case "jwt":
		ts := zoom.NewJWTTokenSource(zoom.NewSigner(c.ZoomAPIKey, c.ZoomAPISecret))
		return zoom.NewClient(c.ZoomAPIBaseURL, ts, opts...)
	default:
		return nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// monitorDB keeps the gRPC database health entry in sync with the pool.
func (app *App) monitorDB(ctx context.Context) error {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := app.db.PingContext(pingCtx)
		if err != nil && ctx.Err() == nil {
			app.logger.Warn(ctx, "database ping failed", "error", err)
		}
		app.grpcServer.SetDatabaseStatus(err == nil)
	}

	check()
	ticker := time.NewTicker(dbCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			check()
		}
	}
}

// Run starts both servers and blocks until ctx is cancelled, a signal
// arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", version.Version)

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.httpServer.Run(gctx) })
	g.Go(func() error { return app.grpcServer.Run(gctx) })
	g.Go(func() error { return app.monitorDB(gctx) })

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close failed", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
