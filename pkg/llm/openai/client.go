package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel     = goopenai.GPT4
	DefaultMaxTokens = 500
	DefaultTimeout   = 60 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults above,
// except Temperature: it is sent as given, and go-openai omits a zero value,
// leaving the provider default in effect.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	// Headers are added to every request, e.g. provider attribution headers.
	Headers map[string]string
}

// Client is a chat completions client for OpenAI-compatible APIs.
type Client struct {
	api         *goopenai.Client
	apiKey      string
	Model       string
	temperature float32
	maxTokens   int
}

func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	var transport http.RoundTripper = http.DefaultTransport
	if len(opts.Headers) > 0 {
		transport = headerTransport{base: transport, headers: opts.Headers}
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout, Transport: transport}

	return &Client{
		api:         goopenai.NewClientWithConfig(cfg),
		apiKey:      opts.APIKey,
		Model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Ask sends one system and one user message and returns the first choice, trimmed.
func (c *Client) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("llm api key is empty")
	}
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
