package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/mo"

	"github.com/artem13815/assignment-helper/api/http/presenter"
	"github.com/artem13815/assignment-helper/pkg/assistant"
)

type AnswerHandler struct {
	svc assistant.UseCase
}

func NewAnswerHandler(svc assistant.UseCase) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

// Answer takes a question and an optional CSV/ZIP upload and returns the model's reply.
// @Summary Answer an assignment question
// @Description Reads the "answer" column from an optional CSV (or the first CSV inside a ZIP) and asks the LLM. Failures are reported inside the answer text; the status is always 200.
// @Tags    answer
// @Accept  multipart/form-data
// @Produce json
// @Param   question formData string true  "Question text"
// @Param   file     formData file   false "CSV or ZIP file"
// @Success 200 {object} presenter.AnswerResponse
// @Router  /api/ [post]
func (h *AnswerHandler) Answer(c *fiber.Ctx) error {
	q, closeFn, err := readQuestion(c)
	if err != nil {
		return presenter.Answer(c, mo.Err[string](err))
	}
	defer closeFn()

	res := h.svc.Answer(c.UserContext(), q)
	if err := res.Error(); err != nil {
		log.Warnw("answer failed", "requestId", c.Locals("requestid"), "error", err)
	}
	return presenter.Answer(c, res)
}

func readQuestion(c *fiber.Ctx) (assistant.Question, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		return assistant.Question{}, noop, fmt.Errorf("invalid multipart form: %w", err)
	}
	q := assistant.Question{Upload: mo.None[assistant.Upload]()}
	if v := form.Value["question"]; len(v) > 0 {
		q.Text = v[0]
	}
	if q.Text == "" {
		return assistant.Question{}, noop, assistant.ErrEmptyQuestion
	}
	files := form.File["file"]
	if len(files) == 0 {
		return q, noop, nil
	}
	if len(files) > 1 {
		return assistant.Question{}, noop, errors.New("only one file may be uploaded")
	}
	f, err := files[0].Open()
	if err != nil {
		return assistant.Question{}, noop, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	q.Upload = mo.Some(assistant.Upload{Filename: files[0].Filename, Content: f})
	return q, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

// ErrorHandler keeps the answer route on its 200 envelope even for errors raised
// outside the handler (body limit, recovered panics). Other routes get a JSON error.
func ErrorHandler(answerPath string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if c.Method() == fiber.MethodPost && isPath(c.Path(), answerPath) {
			log.Errorw("answer request failed", "status", code, "error", err)
			return presenter.Answer(c, mo.Err[string](err))
		}
		return presenter.Error(c, code, err.Error())
	}
}

func isPath(got, want string) bool {
	trim := func(s string) string {
		for len(s) > 1 && s[len(s)-1] == '/' {
			s = s[:len(s)-1]
		}
		return s
	}
	return trim(got) == trim(want)
}
