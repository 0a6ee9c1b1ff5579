package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"usermgmt/internal/config"
	"usermgmt/internal/database"
	"usermgmt/internal/repositories"
	"usermgmt/internal/services"
	"usermgmt/pkg/logger"
)

var seedUsers = []services.CreateUserInput{
	{Email: "john@example.com", Name: "John Doe"},
	{Email: "jane@example.com", Name: "Jane Smith"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{AppName: "usermgmt-seed", Env: cfg.Env, Level: cfg.LogLevel})

	if cfg.DBDriver == database.DriverMemory {
		log.Fatal("seeding needs a persistent DB_DRIVER")
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, true)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := database.Reset(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to clear users")
	}

	svc := services.NewUserService(repositories.NewGORMUserRepository(db), nil, log)
	for _, in := range seedUsers {
		user, err := svc.Create(ctx, in)
		if err != nil {
			log.WithError(err).WithField("email", in.Email).Fatal("failed to seed user")
		}
		log.WithFields(logrus.Fields{"id": user.ID, "email": user.Email}).Info("seeded user")
	}
}
