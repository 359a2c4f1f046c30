package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/pmdash/internal/config"
	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/identity"
	"github.com/rpggio/pmdash/internal/kv"
	"github.com/rpggio/pmdash/internal/mcp"
	"github.com/rpggio/pmdash/internal/metrics"
	"github.com/rpggio/pmdash/internal/redisstore"
	"github.com/rpggio/pmdash/internal/repository"
	"github.com/rpggio/pmdash/internal/sqlite"
	"github.com/rpggio/pmdash/internal/transport"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo123"
	demoName     = "Demo User"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries JSON-RPC in stdio mode.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("PMDASH_LOG_PATH"); logPath != "" {
		fileWriter, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := openKVStore(cfg, db)
	if err != nil {
		logger.Error("failed to open kv store", "driver", cfg.KV.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("kv store ready", "driver", cfg.KV.Driver)

	projectSvc := project.NewService(kv.NewProjectRepository(store), logger)
	preferenceSvc := preference.NewService(kv.NewPreferenceRepository(store), logger)
	identitySvc := identity.NewService(sqlite.NewUserRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)

	if cfg.Identity.SeedDemoUser {
		if err := seedDemoUser(context.Background(), identitySvc, logger); err != nil {
			logger.Error("failed to seed demo account", "error", err)
			os.Exit(1)
		}
	}

	services := mcp.Services{
		Projects:    projectSvc,
		Preferences: preferenceSvc,
	}

	if cfg.Transport.Mode == config.TransportStdio {
		actor, err := stdioActor(context.Background(), identitySvc, cfg.Identity.SeedDemoUser)
		if err != nil {
			logger.Error("failed to resolve stdio actor", "error", err)
			os.Exit(1)
		}
		mcpServer := mcp.NewServer(mcp.Config{
			Services:     services,
			DefaultActor: *actor,
			Logger:       logger,
		})
		runStdioMode(logger, mcpServer, actor.ID)
		return
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services:    services,
		Resolver:    identitySvc,
		AuthEnabled: true,
		Logger:      logger,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(transport.Config{
		Projects:    projectSvc,
		Preferences: preferenceSvc,
		Identity:    identitySvc,
		Metrics:     metrics.New(),
		Logger:      logger,
		AnonKey:     cfg.Auth.AnonKey,
		BasePath:    cfg.Server.BasePath,
		MCP:         mcpHandler,
	})

	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

// openKVStore returns the project and preference store for the configured driver.
func openKVStore(cfg config.Config, db *sqlite.DB) (repository.KVStore, func(), error) {
	if cfg.KV.Driver != config.DriverRedis {
		return sqlite.NewKVStore(db), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := redisstore.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewKVStore(rdb, cfg.Redis.Namespace), func() { _ = rdb.Close() }, nil
}

func seedDemoUser(ctx context.Context, svc *identity.Service, logger *slog.Logger) error {
	created, err := svc.EnsureUser(ctx, session.SignUpRequest{
		Email:    demoEmail,
		Password: demoPassword,
		Name:     demoName,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("seeded demo account", "email", demoEmail)
	}
	return nil
}

// stdioActor picks the actor owning stdio calls: the demo account when it
// is seeded, otherwise a fixed local identity.
func stdioActor(ctx context.Context, svc *identity.Service, seeded bool) (*session.Actor, error) {
	if !seeded {
		return &session.Actor{ID: "local", Email: "local@localhost", Name: "Local User"}, nil
	}
	sess, err := svc.SignIn(ctx, demoEmail, demoPassword)
	if err != nil {
		return nil, fmt.Errorf("sign in demo account: %w", err)
	}
	return &sess.Actor, nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, actorID string) {
	logger.Info("starting stdio transport", "auth", "disabled", "actor_id", actorID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
