package memory

import (
	"context"
	"sync"

	"github.com/confideai/confide-agent/internal/domain"
)

// DraftStore holds the single in-progress draft slot.
type DraftStore struct {
	mu    sync.RWMutex
	draft *domain.DraftState
}

func NewDraftStore() *DraftStore {
	return &DraftStore{}
}

func (s *DraftStore) SaveDraft(ctx context.Context, draft *domain.DraftState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = draft
	return nil
}

func (s *DraftStore) LoadDraft(ctx context.Context) (*domain.DraftState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.draft == nil {
		return nil, domain.ErrNoDraft
	}
	return s.draft, nil
}

func (s *DraftStore) ClearDraft(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = nil
	return nil
}
