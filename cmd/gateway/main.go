package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/application/services"
	"github.com/fluxpay/payment-gateway/internal/config"
	"github.com/fluxpay/payment-gateway/internal/infrastructure/bank"
	"github.com/fluxpay/payment-gateway/internal/infrastructure/memstore"
	"github.com/fluxpay/payment-gateway/internal/infrastructure/postgres"
	"github.com/fluxpay/payment-gateway/internal/interfaces/rest/handlers"
	"github.com/fluxpay/payment-gateway/internal/interfaces/rest/middleware"
	"github.com/go-chi/chi/v5"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"port", cfg.Server.Port,
		"storage_backend", cfg.Storage.Backend,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	var store application.PaymentStore
	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres:
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewPaymentStore(db)
	case config.StorageBackendMemory:
		logger.Warn("using in-memory storage; payments do not survive a restart")
		store = memstore.NewPaymentStore()
	default:
		logger.Error("unknown storage backend", "backend", cfg.Storage.Backend)
		os.Exit(1)
	}

	bankClient := bank.NewBankClient(cfg.BankClient)

	processService := services.NewProcessService(store, bankClient, logger)
	queryService := services.NewQueryService(store)

	h := handlers.NewHandlers(processService, queryService, logger)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Timeout(cfg.Server.ReadTimeout))
	h.Routes(router)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
