package llm

import (
	"context"
	"fmt"

	"github.com/confideai/confide-agent/internal/domain"
)

// MockLLM is a deterministic local provider for development and tests, so the
// full request path can run without credentials.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(ctx context.Context, systemPrompt string, history []domain.ChatTurn) (string, error) {
	last := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			last = history[i].Text
			break
		}
	}
	return fmt.Sprintf("I hear you. You said %q. Tell me a little more about how that makes you feel.", last), nil
}

func (m *MockLLM) Summarize(ctx context.Context, prompt string) (string, error) {
	return "You took time to check in with yourself today and put your feelings into words. That is a meaningful step, whatever kind of day it was.", nil
}
