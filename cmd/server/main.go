package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/mini-backoffice/internal/application/service"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/cache"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/config"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/db"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/handler"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	log.Info("Starting mini back-office server", map[string]interface{}{
		"addr":     cfg.Addr(),
		"data_dir": cfg.DataDir,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server stopped with error", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server stopped", nil)
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	// Setup BadgerDB
	badgerDB, err := db.Open(db.Options{
		Dir:        cfg.DataDir,
		SyncWrites: cfg.BadgerSyncWrites,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Initialize repositories
	txRepo, err := db.NewBadgerTransactionRepository(badgerDB)
	if err != nil {
		return err
	}
	defer txRepo.Close()

	accountRepo, err := db.NewBadgerAccountRepository(badgerDB)
	if err != nil {
		return err
	}
	defer accountRepo.Close()

	// Account cache with periodic eviction of expired entries
	accountCache := cache.NewAccountCache(cfg.AccountCacheTTL)
	go accountCache.RunCleanup(ctx, cfg.CacheCleanup, func(removed int) {
		if removed > 0 {
			log.Debug("Expired accounts evicted from cache", map[string]interface{}{"removed": removed})
		}
	})

	// Initialize services
	txService := service.NewTransactionService(txRepo)
	accountService := service.NewAccountService(accountRepo, accountCache, log)
	builder := service.NewTransactionBuilder(accountService, txService, log)

	// Setup router
	router := handler.NewRouter(log,
		handler.NewTransactionHandler(txService, builder, log),
		handler.NewAccountHandler(accountService, log),
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server", map[string]interface{}{"timeout": cfg.ShutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
