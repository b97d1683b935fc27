package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shipping-optimizer/internal/api"
	"shipping-optimizer/internal/common/config"
	"shipping-optimizer/internal/common/database"
	"shipping-optimizer/internal/common/logger"
	"shipping-optimizer/internal/common/observability"
	"shipping-optimizer/internal/melhorenvio"
	"shipping-optimizer/internal/rates"
	"shipping-optimizer/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		log.Warn("operation failed, retrying",
			zap.String("operation", operationName),
			zap.Int("attempt", i+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		time.Sleep(delay)
		delay *= 2
	}
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	zapLogger.Info("starting shipping-optimizer",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("shipping-optimizer")
	defer obs.Shutdown()

	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("failed to create redis client", zap.Error(err))
	}
	defer redisClient.Close()

	if err := retryWithBackoff(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return redisClient.Ping(ctx)
	}, 5, time.Second, zapLogger, "redis ping"); err != nil {
		zapLogger.Fatal("redis unreachable", zap.Error(err))
	}

	limiter := rates.NewSlidingWindowLimiter(
		cfg.RateLimit.MaxPerMinute,
		config.GetDuration(cfg.RateLimit.WindowMs),
		config.GetDuration(cfg.RateLimit.PollMs),
	)

	quoteClient := melhorenvio.NewClient(melhorenvio.Config{
		BaseURL:     cfg.MelhorEnvio.BaseURL,
		Token:       cfg.MelhorEnvio.Token,
		Timeout:     config.GetDuration(cfg.MelhorEnvio.Timeout),
		MaxRetries:  cfg.MelhorEnvio.MaxRetries,
		BackoffBase: config.GetDuration(cfg.MelhorEnvio.BackoffBase),
	}, log, obs)

	executor := rates.NewExecutor(quoteClient, limiter, log)
	orchestrator := rates.NewOrchestrator(executor, limiter, cfg.Batch.Size, log)
	comparer := rates.NewRouteComparisonEngine(executor, log)
	dataStore := store.New(redisClient.Client, log)

	server, err := api.NewServer(orchestrator, comparer, dataStore, executor, redisClient, log)
	if err != nil {
		zapLogger.Fatal("failed to build api server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLogger.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
