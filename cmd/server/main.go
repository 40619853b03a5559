/*
main.go - Application entry point

PURPOSE:
  Starts the fare-engine server: loads configuration, opens the SQLite
  store, rehydrates accounts into the registry, and serves the
  validator-facing API with graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load TOML configuration (defaults when no file exists)
  3. Build logger and metrics
  4. Open SQLite store, rehydrate accounts
  5. Serve HTTP until SIGINT/SIGTERM

COMMAND-LINE FLAGS:
  -config  Path to TOML config file (default: fare.toml)
  -port    Override the configured port
  -db      Override the configured SQLite path (":memory:" supported)

EXAMPLES:
  ./server -config=./deploy/fare.toml
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - config/config.go: File format
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/fare-engine/api"
	"github.com/warp/fare-engine/config"
	"github.com/warp/fare-engine/fare"
	"github.com/warp/fare-engine/logging"
	promMetrics "github.com/warp/fare-engine/metrics/prometheus"
	"github.com/warp/fare-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "fare.toml", "path to TOML config file")
	port := flag.Int("port", 0, "override configured port")
	dbPath := flag.String("db", "", "override configured SQLite path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	store, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	clock := fare.NewSystemClock()
	tariffs := fare.NewTariffTable(
		fare.NewAmount(cfg.Tariffs.Urban),
		fare.NewAmount(cfg.Tariffs.Interurban),
	)
	router := fare.NewRouter(tariffs, clock, logger.Named("engine"))
	registry := fare.NewRegistry()

	// Rehydrate stored accounts
	accounts, err := store.LoadAllAccounts(context.Background())
	if err != nil {
		logger.Fatal("failed to load accounts", zap.Error(err))
	}
	for _, acct := range accounts {
		if err := registry.Add(acct); err != nil {
			logger.Fatal("failed to register account",
				zap.String("account", string(acct.ID())), zap.Error(err))
		}
	}
	logger.Info("accounts rehydrated", zap.Int("count", registry.Len()))

	m := promMetrics.New()
	m.SetAccounts(registry.Len())

	handler := api.NewHandler(registry, router, clock, store, logger.Named("api"), m)
	mux := api.NewRouter(handler, m.Handler())

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
