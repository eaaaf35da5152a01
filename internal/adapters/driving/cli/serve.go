package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/signin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/signin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/signin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/signin/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/signin/internal/config"
	"github.com/custodia-labs/signin/internal/connectors"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
	"github.com/custodia-labs/signin/internal/core/services"
	"github.com/custodia-labs/signin/internal/logger"
)

// pruneInterval is how often idle sessions are removed.
const pruneInterval = time.Hour

// idlePruner is implemented by session stores that can drop idle sessions.
type idlePruner interface {
	DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

var (
	serveConfigDir string
	serveAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sign-in web server",
	Long: `Start the HTTP server exposing the login routes:

  /                  user profile, or redirect to /login
  /login             redirect to the Google consent screen
  /logout            forget the token, redirect to /
  /login/authorized  OAuth callback
  /token             the stored token tuple as JSON

Configuration is read from <config-dir>/config.toml and can be
overridden with environment variables (GOOGLE_ID, GOOGLE_SECRET,
SIGNIN_ADDR, ...). The file is reloaded when it changes.

Examples:
  GOOGLE_ID=... GOOGLE_SECRET=... signin serve
  signin serve --addr :8080 --config-dir /etc/signin`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigDir, "config-dir", "", "configuration directory (default ~/.signin)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(serveConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	cfg, err := config.Load(store)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger.SetVerbose(verbose || cfg.Verbose)
	logger.Section("Starting signin")
	logger.Debug("config file: %s", store.Path())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := openSessionStore(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer closeSessions()

	provider, err := connectors.NewProvider(connectors.ProviderGoogle, cfg.Google.Provider, connectors.ProviderOptions{
		HTTPClient:        &http.Client{Timeout: cfg.HTTPTimeout},
		RequestsPerSecond: cfg.Google.RequestsPerSecond,
		Burst:             cfg.Google.Burst,
	})
	if err != nil {
		return err
	}

	authService := services.NewAuthService(sessions, provider.OAuth, provider.Profiles)
	handler := httpapi.NewHandler(authService, httpapi.Options{
		PublicURL:    cfg.Server.PublicURL,
		SecureCookie: cfg.Session.SecureCookie,
	})
	server := httpapi.NewServer(cfg.Server.Addr, httpapi.NewRouter(handler))

	watcher, err := file.Watch(store, func(s *file.ConfigStore) {
		reloaded, err := config.Load(s)
		if err != nil {
			logger.Warn("ignoring reloaded config: %v", err)
			return
		}
		logger.SetVerbose(verbose || reloaded.Verbose)
	})
	if err != nil {
		logger.Warn("config reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	if err := server.Start(); err != nil {
		return err
	}
	logger.Info("signin listening on %s (sessions: %s)", server.Addr(), cfg.Session.Driver)
	cmd.Printf("Listening on http://%s\n", server.Addr())

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-server.Errors():
		logger.Error("server failed: %v", serveErr)
	}

	if err := server.Stop(context.Background()); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return serveErr
}

// openSessionStore builds the configured session store and starts idle
// pruning for it. The returned close function releases its resources.
func openSessionStore(ctx context.Context, cfg config.SessionConfig) (driven.SessionStore, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening session database: %w", err)
		}
		logger.Debug("session database: %s", store.Path())
		go pruneIdleSessions(ctx, store, cfg.IdleTTL, pruneInterval)
		return store.SessionStore(), func() { _ = store.Close() }, nil
	default:
		store := memory.NewSessionStore()
		go pruneIdleSessions(ctx, store, cfg.IdleTTL, pruneInterval)
		return store, func() {}, nil
	}
}

// pruneIdleSessions removes sessions idle for longer than ttl until ctx is done.
func pruneIdleSessions(ctx context.Context, store idlePruner, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.DeleteIdle(ctx, now.Add(-ttl))
			if err != nil {
				logger.Warn("pruning sessions: %v", err)
				continue
			}
			if removed > 0 {
				logger.Debug("pruned %d idle sessions", removed)
			}
		}
	}
}
