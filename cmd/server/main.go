// @title         assignment-helper API
// @version       1.0
// @description   Answers data science assignment questions with an LLM, optionally using the "answer" column of an uploaded CSV or ZIP.
// @BasePath      /
// @schemes       http
// @host          localhost:8000
package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	swagger "github.com/gofiber/swagger"

	_ "github.com/artem13815/assignment-helper/docs"

	// internal imports
	"github.com/artem13815/assignment-helper/api/http"
	"github.com/artem13815/assignment-helper/api/http/handlers"
	"github.com/artem13815/assignment-helper/pkg/assistant"
	"github.com/artem13815/assignment-helper/pkg/config"
	"github.com/artem13815/assignment-helper/pkg/health"
	"github.com/artem13815/assignment-helper/pkg/health/checkers"
	"github.com/artem13815/assignment-helper/pkg/llm/openai"
	"github.com/artem13815/assignment-helper/pkg/llm/openrouter"
	"github.com/artem13815/assignment-helper/pkg/storage/scratch"
)

func main() {
	// Load configuration from env/.env (and CONFIG_FILE, if set)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(parseLevel(cfg.LogLevel))

	dir, err := scratch.New(cfg.ScratchDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("init scratch storage: %v", err)
	}

	llmClient := newLLMClient(cfg.LLM)
	if !llmClient.Configured() {
		log.Warnf("no API key for provider %q: every answer will report an error", cfg.LLM.Provider)
	}

	if cfg.LLM.Temperature == 0 {
		log.Warn("LLM_TEMPERATURE is 0: the field is omitted from requests and the provider default applies")
	}

	answerSvc := assistant.NewService(llmClient, dir, assistant.Options{
		MaxContentChars: cfg.MaxContentChars,
		Timeout:         time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	answerHandler := handlers.NewAnswerHandler(answerSvc)

	// Health service: compose checkers
	readiness := health.NewService(
		checkers.NewScratchChecker(dir.Root()),
		checkers.NewLLMChecker(llmClient),
	)
	healthHandler := handlers.NewHealthHandler(readiness)

	app := http.NewApp(http.ServerOptions{
		BodyLimit:    cfg.BodyLimitBytes,
		AllowOrigins: cfg.CORSAllowOrigins,
		RequestLog:   true,
	})
	http.Register(app, healthHandler, answerHandler)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	log.Infow("HTTP server listening", "port", cfg.Port, "provider", cfg.LLM.Provider, "model", llmClient.Model, "scratch", dir.Root())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLLMClient(c config.LLMConfig) *openai.Client {
	opts := openai.Options{
		APIKey:      c.APIKey(),
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     time.Duration(c.TimeoutSeconds) * time.Second,
	}
	if c.Provider == config.ProviderOpenRouter {
		opts.BaseURL = c.OpenRouterBaseURL
		return openrouter.New(opts, c.OpenRouterAppTitle, c.OpenRouterReferer)
	}
	opts.BaseURL = c.OpenAIBaseURL
	return openai.New(opts)
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
