package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yukikurage/event-dashboard-api/internal/auth"
	"github.com/yukikurage/event-dashboard-api/internal/config"
	"github.com/yukikurage/event-dashboard-api/internal/database"
	"github.com/yukikurage/event-dashboard-api/internal/metrics"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/server"
	"github.com/yukikurage/event-dashboard-api/internal/web"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (and .env when present)
- Connect to the database selected by DB_DRIVER and migrate it
- Serve the JSON API, the dashboard pages, /health and /metrics
- Rotate the token signing key on SIGHUP
- Shut down gracefully on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Msg("starting event dashboard API")

	gin.SetMode(cfg.GinMode)
	metrics.Init(Version, cfg.Database.Driver)

	repos, closeStore, err := openStore(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	sessionStore, err := web.NewSessionStore(cfg.Session, cfg.GinMode == gin.ReleaseMode)
	if err != nil {
		return err
	}

	if cfg.OpenAIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY not set, task suggestions are disabled")
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: server.NewRouter(server.Dependencies{
			Repositories:   repos,
			Tokens:         tokens,
			SessionStore:   sessionStore,
			Logger:         logger,
			OpenAIKey:      cfg.OpenAIKey,
			LoginPerMinute: cfg.RateLimit.LoginPerMinute,
		}),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case err, ok := <-serverErr:
			if ok {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				rotateSigningKey(tokens, logger)
				continue
			}
			return shutdown(srv, logger)
		}
	}
}

// openStore returns the repositories for the configured driver and a func
// releasing them.
func openStore(cfg config.DatabaseConfig, logger zerolog.Logger) (repository.Repositories, func(), error) {
	if cfg.Driver == "memory" {
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return repository.NewMemoryRepositories(), func() {}, nil
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	if err := database.Migrate(db, logger); err != nil {
		_ = database.Close(db)
		return repository.Repositories{}, nil, err
	}

	closeDB := func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("failed to close database")
		}
	}
	return repository.NewGormRepositories(db), closeDB, nil
}

func rotateSigningKey(tokens *auth.JWTManager, logger zerolog.Logger) {
	secret, err := config.ReloadJWTSecret()
	if err != nil {
		logger.Error().Err(err).Msg("signing key rotation skipped")
		return
	}
	if err := tokens.Rotate(secret); err != nil {
		logger.Error().Err(err).Msg("signing key rotation failed")
		return
	}
	metrics.KeyRotations.Inc()
	logger.Info().Msg("signing key rotated")
}

func shutdown(srv *http.Server, logger zerolog.Logger) error {
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
