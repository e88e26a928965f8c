package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/amazon/region"
	"github.com/commercekit/amazonpay-gateway/internal/amazon/sns"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/application/services"
	"github.com/commercekit/amazonpay-gateway/internal/config"
	"github.com/commercekit/amazonpay-gateway/internal/infrastructure/persistence"
	"github.com/commercekit/amazonpay-gateway/internal/infrastructure/persistence/postgres"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest/handlers"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest/middleware"
	"github.com/commercekit/amazonpay-gateway/internal/notify"
	"github.com/commercekit/amazonpay-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	settings := cfg.Merchant.Settings()
	logger.Info("starting gateway service",
		"port", cfg.Server.Port,
		"region", settings.Region,
		"sandbox", settings.Sandbox,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db.Pool)
	noteStore := postgres.NewNoteStore(db.Pool)
	scheduleStore := postgres.NewScheduleStore(db.Pool)

	clients, err := buildClients(cfg, settings, logger)
	if err != nil {
		logger.Error("failed to build provider clients", "error", err)
		os.Exit(1)
	}

	notifier := buildNotifier(cfg, logger)

	orchestrator := services.NewOrchestrator(
		orderRepo,
		noteStore,
		scheduleStore,
		clients,
		notifier,
		settings,
		logger,
	)

	verifier := sns.NewVerifier(sns.NewHTTPCertFetcher(), logger)

	mux := http.NewServeMux()
	handlers.NewHandlers(orchestrator, verifier, logger).Register(mux)
	handlers.NewOnboardingHandlers(loadPrivateKey(cfg), logger).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Metrics()(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	recheckWorker := worker.NewRecheckWorker(
		scheduleStore,
		orchestrator,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go recheckWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// buildClients wires both provider generations behind one selector. The
// v2 client is optional: orders annotated with the v2 generation only
// work when its credentials are configured.
func buildClients(cfg *config.Config, settings application.MerchantSettings, logger *slog.Logger) (amazon.Selector, error) {
	mwsURL, mwsPath := region.MWSEndpoint(settings.Region, settings.Sandbox)
	legacy := amazon.NewLegacyClient(amazon.LegacyConfig{
		SellerID:  settings.SellerID,
		AccessKey: cfg.Amazon.AccessKey,
		SecretKey: cfg.Amazon.SecretKey,
		BaseURL:   mwsURL,
		Path:      mwsPath,
		Timeout:   cfg.Amazon.Timeout,
	}, logger)

	selector := amazon.Selector{Legacy: legacy}

	if cfg.Amazon.PublicKeyID != "" && cfg.Amazon.PrivateKeyPath != "" {
		privateKey, err := os.ReadFile(cfg.Amazon.PrivateKeyPath)
		if err != nil {
			return amazon.Selector{}, err
		}

		v2, err := amazon.NewV2Client(amazon.V2Config{
			MerchantID:  settings.SellerID,
			StoreID:     cfg.Amazon.StoreID,
			PublicKeyID: cfg.Amazon.PublicKeyID,
			PrivateKey:  privateKey,
			BaseURL:     region.V2Endpoint(settings.Region, settings.Sandbox),
			RegionCode:  string(settings.Region),
			Timeout:     cfg.Amazon.Timeout,
		}, logger)
		if err != nil {
			return amazon.Selector{}, err
		}
		selector.V2 = v2
	}

	return selector, nil
}

// loadPrivateKey defers reading the key file until a credential payload
// actually arrives, so the service starts without one.
func loadPrivateKey(cfg *config.Config) func() ([]byte, error) {
	return func() ([]byte, error) {
		if cfg.Amazon.PrivateKeyPath == "" {
			return nil, errors.New("no private key path configured")
		}
		return os.ReadFile(cfg.Amazon.PrivateKeyPath)
	}
}

func buildNotifier(cfg *config.Config, logger *slog.Logger) application.Notifier {
	if len(cfg.Notify.Brokers) == 0 {
		logger.Info("no notification brokers configured, logging events only")
		return notify.NewLogNotifier(logger)
	}

	producer, err := notify.NewProducer(cfg.Notify.Brokers)
	if err != nil {
		logger.Error("failed to start notification producer, falling back to log", "error", err)
		return notify.NewLogNotifier(logger)
	}

	return notify.NewKafkaNotifier(producer, cfg.Notify.Topic, logger)
}
