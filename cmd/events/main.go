// Command events tails the user lifecycle queue and logs each event.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"usermgmt/internal/config"
	"usermgmt/pkg/logger"
	"usermgmt/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{AppName: "usermgmt-events", Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})

	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}
	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue, Logger: log})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer mq.Close()

	stopped, err := mq.ConsumeUserEvents(func(e rabbitmq.UserEvent) error {
		log.WithFields(logrus.Fields{
			"type":        e.Type,
			"user_id":     e.UserID,
			"email":       e.Email,
			"occurred_at": e.OccurredAt,
		}).Info("user event")
		return nil
	})
	if err != nil {
		log.WithError(err).Fatal("failed to start consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("consumer stopped")
	case <-stopped:
		log.Error("lost connection to RabbitMQ, exiting")
		mq.Close()
		os.Exit(1)
	}
}
