// cmd/moderation-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"listing-moderation/internal/common/config"
	"listing-moderation/internal/common/database"
	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/common/observability"
	"listing-moderation/internal/moderation/engine"
	"listing-moderation/internal/moderation/lexicon"
	"listing-moderation/internal/moderation/pipeline"
	"listing-moderation/internal/moderation/price"
	"listing-moderation/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")
	bootLog.Info("Starting moderation service...")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("moderation-service")
	defer obs.Shutdown()

	// --- Load banned-word lexicon ---
	lex := lexicon.Default()
	if cfg.Moderation.LexiconPath != "" {
		lex, err = lexicon.Load(cfg.Moderation.LexiconPath)
		if err != nil {
			zapLog.Fatal("lexicon load failed",
				zap.String("path", cfg.Moderation.LexiconPath),
				zap.Error(err),
			)
		}
	}
	zapLog.Info("Lexicon loaded", zap.Int("terms", lex.TermCount()))

	// --- Init predicted-price cache (optional) ---
	var estimateCache *price.EstimateCache
	if cfg.Cache.Enabled {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Cache)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			// Cache is a soft dependency. Moderation keeps running
			// without it, every estimate just hits the API.
			zapLog.Warn("Redis unavailable, predicted-price cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
			estimateCache = price.NewEstimateCache(redisClient, ttl, log)
			zapLog.Info("Predicted-price cache enabled",
				zap.String("address", cfg.Cache.Address),
				zap.Duration("ttl", ttl),
			)
		}
	}

	// --- Assemble the pipeline ---
	estimatorClient := price.NewClient(cfg.Estimator.URL, config.GetDuration(cfg.Estimator.Timeout))
	priceValidator := price.New(estimatorClient, log,
		price.WithCache(estimateCache),
		price.WithFallbackScore(cfg.Estimator.FallbackScore),
	)

	decisionEngine := engine.New(log,
		engine.WithThresholds(cfg.Moderation.AutoApproveAbove, cfg.Moderation.RejectBelow),
	)

	moderationPipeline := pipeline.New(lex, priceValidator, decisionEngine, log,
		pipeline.WithObservability(obs),
		pipeline.WithBatchWorkers(cfg.Moderation.BatchWorkers),
	)

	// --- HTTP surface ---
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.New(moderationPipeline, log, cfg.App.Name, cfg.App.Version).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Moderation service stopped")
}
