package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/artem13815/assignment-helper/api/http/handlers"
)

type ServerOptions struct {
	BodyLimit    int
	AllowOrigins string
	// RequestLog enables the access log middleware.
	RequestLog bool
}

// NewApp builds the Fiber app with middleware and the answer-aware error handler.
func NewApp(opts ServerOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "assignment-helper",
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          handlers.ErrorHandler(AnswerPath),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.RequestLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{AllowOrigins: opts.AllowOrigins}))
	return app
}
