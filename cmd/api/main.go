package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"server/internal/adapter/memory"
	"server/internal/adapter/repo"
	"server/internal/adapter/sqlitestore"
	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/metrics"
	"server/internal/middleware"
	"server/internal/registry"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var (
		weddings domain.WeddingRepository
		gifts    domain.GiftRepository
		ledger   domain.ContributionLedger
	)
	switch cfg.StorageDriver {
	case infra.DriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		runner := infra.NewSQLRunner(pool, logger)
		weddings = repo.NewWeddingRepository(runner)
		gifts = repo.NewGiftRepository(runner)
		ledger = repo.NewContributionLedger(runner)
	case infra.DriverSQLite:
		store, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("failed to open sqlite store")
		}
		defer store.Close()
		weddings = store.Weddings()
		gifts = store.Gifts()
		ledger = store.Ledger()
	case infra.DriverMemory:
		store := memory.New()
		weddings = store.Weddings()
		gifts = store.Gifts()
		ledger = store.Ledger()
	}
	logger.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	svc := registry.NewService(registry.Deps{
		Weddings:       weddings,
		Gifts:          gifts,
		Ledger:         ledger,
		Logger:         logger,
		Metrics:        m,
		LockTimeout:    cfg.ContributeLockTimeout,
		PaymentTimeout: cfg.PaymentTimeout,
	})

	app := handlers.NewApp(svc, logger)
	app.DefaultCurrency = cfg.DefaultCurrency
	if cfg.MediaPath != "" {
		media, err := storage.NewFileStore(cfg.MediaPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.MediaPath).Msg("failed to open media store")
		}
		app.Media = media
	}
	router := httpapi.NewRouter(httpapi.Deps{
		App:             app,
		Metrics:         m,
		Gatherer:        promRegistry,
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Country:         lookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
