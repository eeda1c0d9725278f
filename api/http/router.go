package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/assignment-helper/api/http/handlers"
)

// AnswerPath is the single public endpoint.
const AnswerPath = "/api/"

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, health *handlers.HealthHandler, answer *handlers.AnswerHandler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	app.Post(AnswerPath, answer.Answer)
}
