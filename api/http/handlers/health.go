package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/artem13815/assignment-helper/pkg/health"
)

const readyTimeout = time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	readiness health.ReadinessUseCase
}

func NewHealthHandler(readiness health.ReadinessUseCase) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

// Health reports that the process is serving requests.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready runs all dependency checks and lists each one's state.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router  /api/v1/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	report := h.readiness.Ready(ctx)
	status, code := "ready", fiber.StatusOK
	if err := report.Err(); err != nil {
		log.Warnw("not ready", "error", err)
		status, code = "not_ready", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": report.Status(),
	})
}
