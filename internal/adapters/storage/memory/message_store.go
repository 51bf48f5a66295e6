package memory

import (
	"context"
	"sync"

	"github.com/confideai/confide-agent/internal/domain"
)

// MessageStore is an in-memory, append-only message log. NOT persistent;
// suitable for development and tests only.
type MessageStore struct {
	mu   sync.RWMutex
	msgs []*domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *MessageStore) ListMessages(ctx context.Context) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Message, len(s.msgs))
	copy(out, s.msgs)
	return out, nil
}

func (s *MessageStore) ClearMessages(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = nil
	return nil
}
