package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apihttp "github.com/artem13815/assignment-helper/api/http"
	"github.com/artem13815/assignment-helper/api/http/handlers"
	"github.com/artem13815/assignment-helper/api/http/presenter"
	"github.com/artem13815/assignment-helper/pkg/assistant"
	"github.com/artem13815/assignment-helper/pkg/health"
	"github.com/artem13815/assignment-helper/pkg/health/checkers"
	"github.com/artem13815/assignment-helper/pkg/llm/llmtest"
	"github.com/artem13815/assignment-helper/pkg/storage/scratch"
)

type testServer struct {
	app   *fiber.App
	model *llmtest.ChatModel
	root  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newLimitedTestServer(t, 4<<20)
}

func newLimitedTestServer(t *testing.T, bodyLimit int) *testServer {
	t.Helper()
	root := t.TempDir()
	dir, err := scratch.New(root, 0)
	require.NoError(t, err)

	model := new(llmtest.ChatModel)
	app := apihttp.NewApp(apihttp.ServerOptions{BodyLimit: bodyLimit, AllowOrigins: "*"})
	apihttp.Register(app,
		handlers.NewHealthHandler(health.NewService(checkers.NewScratchChecker(root))),
		handlers.NewAnswerHandler(assistant.NewService(model, dir, assistant.Options{})),
	)
	return &testServer{app: app, model: model, root: root}
}

type filePart struct{ name, body string }

func multipartRequest(t *testing.T, path string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		w, err := mw.CreateFormFile("file", file.name)
		require.NoError(t, err)
		_, err = io.WriteString(w, file.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, presenter.AnswerResponse) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out presenter.AnswerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (s *testServer) assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(s.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnswer_QuestionOnly(t *testing.T) {
	s := newTestServer(t)
	s.model.On("Ask", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "no file") && strings.Contains(p, "What is 2+2?")
	})).Return("4", nil).Twice()

	for _, path := range []string{"/api/", "/api"} {
		status, body := s.do(t, multipartRequest(t, path, map[string]string{"question": "What is 2+2?"}, nil))
		assert.Equal(t, fiber.StatusOK, status, path)
		assert.Equal(t, "4", body.Answer, path)
	}
	s.model.AssertExpectations(t)
}

func TestAnswer_CSVUpload(t *testing.T) {
	s := newTestServer(t)
	s.model.On("Ask", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "here is its content: 42\n") && strings.Contains(p, "Question: confirm")
	})).Return("The answer is 42", nil).Once()

	status, body := s.do(t, multipartRequest(t, "/api/",
		map[string]string{"question": "confirm"},
		&filePart{name: "data.csv", body: "id,answer\n1,42\n"}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "The answer is 42", body.Answer)
	s.model.AssertExpectations(t)
	s.assertNoTempFiles(t)
}

func TestAnswer_ErrorsStay200(t *testing.T) {
	t.Run("completion timeout", func(t *testing.T) {
		s := newTestServer(t)
		s.model.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return("", context.DeadlineExceeded).Once()

		status, body := s.do(t, multipartRequest(t, "/api/",
			map[string]string{"question": "confirm"},
			&filePart{name: "data.csv", body: "answer\n42\n"}))

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Error processing request: context deadline exceeded", body.Answer)
		s.assertNoTempFiles(t)
	})

	t.Run("missing question", func(t *testing.T) {
		s := newTestServer(t)
		status, body := s.do(t, multipartRequest(t, "/api/", nil, &filePart{name: "data.csv", body: "answer\n1\n"}))

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Error processing request: question is required", body.Answer)
		s.model.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not multipart", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/", strings.NewReader(`{"question":"hi"}`))
		req.Header.Set("Content-Type", "application/json")

		status, body := s.do(t, req)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, strings.HasPrefix(body.Answer, "Error processing request: invalid multipart form"))
	})

	t.Run("body over limit", func(t *testing.T) {
		s := newLimitedTestServer(t, 64)
		// app.Test reports the limit as a client error, so go through a real listener
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		go func() { _ = s.app.Listener(ln) }()
		t.Cleanup(func() { _ = s.app.Shutdown() })

		req := multipartRequest(t, "/api/", map[string]string{"question": strings.Repeat("q", 500)}, nil)
		httpReq, err := http.NewRequest(http.MethodPost, "http://"+ln.Addr().String()+"/api/", req.Body)
		require.NoError(t, err)
		httpReq.Header.Set("Content-Type", req.Header.Get("Content-Type"))
		httpReq.ContentLength = req.ContentLength

		resp, err := http.DefaultClient.Do(httpReq)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body presenter.AnswerResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Error processing request: Request Entity Too Large", body.Answer)
		s.model.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
		s.assertNoTempFiles(t)
	})

	t.Run("panic recovered", func(t *testing.T) {
		s := newTestServer(t)
		s.model.On("Ask", mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { panic("boom") }).Return("", nil).Once()

		status, body := s.do(t, multipartRequest(t, "/api/", map[string]string{"question": "q"}, nil))
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Error processing request: boom", body.Answer)
	})
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/ready"} {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil), -1)
	require.NoError(t, err)
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, map[string]string{"scratch": "ok"}, ready.Checks)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
