package openrouter

import (
	"github.com/artem13815/assignment-helper/pkg/llm/openai"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// New returns an OpenAI-compatible client pointed at OpenRouter.
// appTitle and referer are sent as X-Title and HTTP-Referer when set.
func New(opts openai.Options, appTitle, referer string) *openai.Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	headers := make(map[string]string, len(opts.Headers)+2)
	for k, v := range opts.Headers {
		headers[k] = v
	}
	headers["HTTP-Referer"] = referer
	headers["X-Title"] = appTitle
	opts.Headers = headers
	return openai.New(opts)
}
