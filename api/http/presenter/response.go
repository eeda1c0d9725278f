package presenter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/mo"
)

// ErrorPrefix starts every failed answer; clients tell errors apart only by this text.
const ErrorPrefix = "Error processing request: "

type ErrorResponse struct {
	Message string `json:"message"`
}

// AnswerResponse is the only body the answer endpoint ever returns.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// Answer writes a result as {"answer": ...} with status 200 on both sides.
func Answer(c *fiber.Ctx, res mo.Result[string]) error {
	text, err := res.Get()
	if err != nil {
		text = ErrorPrefix + err.Error()
	}
	return JSON(c, fiber.StatusOK, AnswerResponse{Answer: text})
}
