package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"usermgmt/pkg/response"
)

// Pinger checks the store. A nil Pinger means there is no external store.
type Pinger func(ctx context.Context) error

// HealthHandler serves the operational probe.
type HealthHandler struct {
	env  string
	ping Pinger
}

func NewHealthHandler(env string, ping Pinger) *HealthHandler {
	return &HealthHandler{env: env, ping: ping}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth reports "ok" unless the store cannot be reached.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, database, code := "ok", "up", fiber.StatusOK
	if h.ping == nil {
		database = "memory"
	} else {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status, database, code = "degraded", "down", fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"status":      status,
		"environment": h.env,
		"database":    database,
		"timestamp":   response.Timestamp(time.Now()),
	})
}
