package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/biohackher/vitality-api/internal/cache"
	"github.com/biohackher/vitality-api/internal/config"
	"github.com/biohackher/vitality-api/internal/database"
	"github.com/biohackher/vitality-api/internal/logger"
	"github.com/biohackher/vitality-api/internal/mealplan"
	"github.com/biohackher/vitality-api/internal/planner"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/biohackher/vitality-api/internal/workers"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("Starting worker",
		zap.Bool("debug_mode", debugMode),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	zapLogger.Info("Connected to database")

	// Plan snapshots go to Redis
	planCache, err := cache.New(cfg.RedisURL, cfg.PlanCacheTTL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := planCache.Close(); err != nil {
			zapLogger.Warn("Failed to close Redis connection", zap.Error(err))
		}
	}()

	zapLogger.Info("Connected to Redis")

	// Load the meal template catalog
	catalog, err := mealplan.LoadDefault()
	if err != nil {
		zapLogger.Fatal("Failed to load meal catalog", zap.Error(err))
	}

	// Initialize repositories and the plan engine
	sources := planner.Sources{
		Protocols:   database.NewProtocolRepository(db),
		Goals:       database.NewGoalRepository(db),
		Energy:      database.NewEnergyActionRepository(db),
		Nutrition:   database.NewNutritionPrefsRepository(db),
		Meals:       catalog,
		Completions: database.NewCompletionRepository(db),
	}
	dailyBuilder := planner.NewDailyBuilder(sources, zapLogger)
	weeklyBuilder := planner.NewWeeklyBuilder(sources, zapLogger)
	recomputer := planner.NewRecomputer(dailyBuilder, weeklyBuilder, planCache, zapLogger)

	// Initialize RabbitMQ queue
	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("Failed to close RabbitMQ connection", zap.Error(err))
		}
	}()

	zapLogger.Info("Connected to RabbitMQ",
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	// Create plan recomputer worker
	worker := workers.NewPlanRecomputer(recomputer, zapLogger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// The worker owns DLQ hygiene
	dlqGC := queue.NewGarbageCollector(jobQueue, cfg.DLQGCInterval, cfg.DLQRetention, zapLogger)
	go func() {
		if err := dlqGC.Start(ctx); err != nil && err != context.Canceled {
			zapLogger.Error("DLQ garbage collector stopped with error", zap.Error(err))
		}
	}()
	zapLogger.Info("Started DLQ garbage collector",
		zap.Duration("interval", cfg.DLQGCInterval),
		zap.Duration("retention", cfg.DLQRetention),
	)

	// Start consuming messages
	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("Failed to start consuming messages", zap.Error(err))
	}

	zapLogger.Info("Worker started, consuming messages from queue")

	// Process messages
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("Message channel closed")
					return
				}

				// Process job
				if err := worker.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("Failed to process job",
						zap.Error(err),
						zap.String("job_id", msg.GetJob().ID.String()),
						zap.String("job_type", string(msg.GetJob().Type)),
					)
				}
			}
		}
	}()

	// Handle errors
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("Queue error", zap.Error(err))
			}
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	zapLogger.Info("Shutdown signal received, stopping worker...")

	// Cancel context to stop processing
	cancel()

	zapLogger.Info("Worker stopped")
}
