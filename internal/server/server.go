package server

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"usermgmt/internal/config"
	"usermgmt/internal/handlers"
	"usermgmt/internal/middleware"
	"usermgmt/internal/services"
	"usermgmt/pkg/response"
)

// New assembles the Fiber app: middleware, /api routes, metrics and, in
// production, the single-page front end.
func New(cfg *config.Config, users *services.UserService, ping handlers.Pinger, log logrus.FieldLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "usermgmt",
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(middleware.Metrics())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.ClientURL,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if cfg.HTTPLogEnabled {
		app.Use(logger.New())
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	if cfg.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).
					JSON(response.Error("Too many requests, please try again later"))
			},
		}))
	}

	handlers.NewHealthHandler(cfg.Env, ping).RegisterRoutes(api)
	handlers.NewUserHandler(users).RegisterRoutes(api)
	api.Use(handlers.NotFound)

	if cfg.IsProduction() && cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
		index := filepath.Join(cfg.StaticDir, "index.html")
		app.Get("/*", func(c *fiber.Ctx) error {
			return c.SendFile(index)
		})
	}

	app.Use(handlers.NotFound)
	return app
}
