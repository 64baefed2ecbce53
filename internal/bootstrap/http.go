package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flashbackfa/entreprise-api/config"
	"github.com/flashbackfa/entreprise-api/internal/domain/authz"
	httpx "github.com/flashbackfa/entreprise-api/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:        cfg.Services.Auth,
		Enterprises: cfg.Services.Enterprises,
		Dotations:   cfg.Services.Dotations,
		Impots:      cfg.Services.Impots,
		Blanchiment: cfg.Services.Blanchiment,
		Archives:    cfg.Services.Archives,
		Documents:   cfg.Services.Documents,

		Matrix:  authz.NewDefaultMatrix(),
		Metrics: cfg.Services.Metrics,
		Logger:  logger,

		CookieDomain: appCfg.HTTP.CookieDomain,
		CallbackURL:  callbackURL(appCfg.HTTP.BaseURL),

		AuthRatePerSecond: appCfg.HTTP.AuthRatePerSecond,
		AuthRateBurst:     appCfg.HTTP.AuthRateBurst,
	})

	return startServer(logger, router, appCfg.HTTP.Addr)
}

func callbackURL(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/auth/callback"
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
