package checkers

import (
	"context"
	"errors"
)

// Configurable is satisfied by chat clients that know whether they hold credentials.
type Configurable interface {
	Configured() bool
}

// LLMChecker reports not ready until the completion provider has an API key.
// It does not call the provider.
type LLMChecker struct {
	client Configurable
}

func NewLLMChecker(client Configurable) *LLMChecker {
	return &LLMChecker{client: client}
}

func (c *LLMChecker) Name() string { return "llm" }

func (c *LLMChecker) Check(context.Context) error {
	if !c.client.Configured() {
		return errors.New("api key is not configured")
	}
	return nil
}
