package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"usermgmt/internal/config"
	"usermgmt/internal/database"
	"usermgmt/internal/handlers"
	"usermgmt/internal/repositories"
	"usermgmt/internal/server"
	"usermgmt/internal/services"
	"usermgmt/pkg/logger"
	"usermgmt/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{
		AppName: "usermgmt",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})

	app, cleanup, err := buildApp(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start")
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("server listening")
		if err := app.Listen(cfg.Addr()); err != nil {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	<-quit
	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("error during Fiber shutdown")
	}
	log.Info("server gracefully stopped")
}

// buildApp wires the store, the optional event publisher and the HTTP app.
// The returned cleanup releases the store and broker connections.
func buildApp(cfg *config.Config, log *logrus.Logger) (*fiber.App, func(), error) {
	var (
		repo    repositories.UserRepository
		ping    handlers.Pinger
		closers []func()
		db      *gorm.DB
		err     error
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.DBDriver {
	case database.DriverMemory:
		log.Warn("using in-memory user store; data is lost on restart")
		repo = repositories.NewMemoryUserRepository()
	default:
		db, err = database.Open(cfg.DBDriver, cfg.DatabaseURL, log.GetLevel() < logrus.DebugLevel)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			if err := database.Close(db); err != nil {
				log.WithError(err).Error("failed to close database")
			}
		})
		repo = repositories.NewGORMUserRepository(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
		log.WithField("driver", cfg.DBDriver).Info("database connected")
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue, Logger: log})
		if err != nil {
			// Events are optional; the API keeps working without a broker.
			log.WithError(err).Warn("RabbitMQ unavailable, user events disabled")
		} else {
			publisher = mq
			closers = append(closers, func() {
				if err := mq.Close(); err != nil {
					log.WithError(err).Error("failed to close RabbitMQ client")
				}
			})
		}
	}

	userService := services.NewUserService(repo, publisher, log)
	return server.New(cfg, userService, ping, log), cleanup, nil
}
