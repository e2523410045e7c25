package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"pickem/application"
	"pickem/config"
	"pickem/database"
	"pickem/infrastructure"
	"pickem/metrics"
	"pickem/repository"
)

// Run initializes and starts the wagering engine
func Run(ctx context.Context) error {
	log.Println("Starting pickem engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Run pending migrations
	log.Println("Running database migrations...")
	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize NATS connection and domain event publisher
	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Println("NATS connection established successfully")

	// Initialize Redis odds provider
	log.Printf("Connecting to Redis at %s...", cfg.RedisAddr)
	rdb, err := infrastructure.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	oddsProvider := infrastructure.NewRedisOddsProvider(rdb)
	log.Println("Redis connection established successfully")

	// Initialize unit of work factory and engine
	uowFactory := repository.NewUnitOfWorkFactory(db, eventPublisher)
	engine := application.NewEngine(uowFactory, oddsProvider)

	// Expose engine operations over NATS request-reply
	commandConsumer := infrastructure.NewCommandConsumer(natsClient, engine)
	if err := commandConsumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start command consumer: %w", err)
	}

	// Serve /metrics and /healthz
	metricsServer := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.Ping(ctx)
	})
	log.Printf("Metrics server listening on port %s", cfg.MetricsPort)

	// Wait for context cancellation
	log.Printf("Engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics server: %v", err)
	}

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
