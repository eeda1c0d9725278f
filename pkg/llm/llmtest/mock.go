// Package llmtest provides a testify mock for llm.ChatModel.
package llmtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/artem13815/assignment-helper/pkg/llm"
)

type ChatModel struct {
	mock.Mock
}

var _ llm.ChatModel = (*ChatModel)(nil)

func (m *ChatModel) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}
