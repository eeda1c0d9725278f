package llm

import "context"

// ChatModel is a minimal abstraction for chat-based LLMs.
// Implementations return transport and API failures to the caller untouched.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
