// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"course-booking/cmd"
	"course-booking/internal/data/repository"
	"course-booking/internal/usecase"
	"course-booking/internal/wire"
	"course-booking/pkg/cache"
	"course-booking/pkg/database"
	"course-booking/pkg/messaging"
	"course-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, config *utils.Config, logger *zap.Logger) error {
	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.RunMigrations {
		if err := database.RunMigrations(database.DSN(config.Database), logger); err != nil {
			return err
		}
	}

	// Cache is optional
	lessonCache := cache.NewNopLessonCache()
	if config.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, lesson cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			lessonCache = cache.NewRedisLessonCache(client, config.Redis.TTL)
			logger.Info("Lesson cache enabled", zap.String("addr", config.Redis.Addr))
		}
	}

	// Events are optional too
	var events usecase.EventPublisher = messaging.NopPublisher{}
	if config.AMQP.URL != "" {
		conn, publisher, err := messaging.Dial(config.AMQP.URL, config.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
		} else {
			defer conn.Close()
			defer publisher.Close()
			events = publisher
			logger.Info("Event publishing enabled", zap.String("exchange", config.AMQP.Exchange))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, lessonCache, events, config, logger)

	// --seed: replace the catalog and exit
	if config.SeedFile != "" {
		count, err := app.Service.Seed.SeedFromFile(ctx, config.SeedFile)
		if err != nil {
			return err
		}
		logger.Info("Seed complete", zap.String("file", config.SeedFile), zap.Int64("count", count))
		return nil
	}

	return cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
}
