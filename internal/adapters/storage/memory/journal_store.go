package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/confideai/confide-agent/internal/domain"
)

// JournalStore is an in-memory implementation of domain.JournalStore.
type JournalStore struct {
	mu      sync.RWMutex
	entries map[domain.JournalEntryID]*domain.JournalEntry
}

func NewJournalStore() *JournalStore {
	return &JournalStore{
		entries: make(map[domain.JournalEntryID]*domain.JournalEntry),
	}
}

func (s *JournalStore) UpsertEntry(ctx context.Context, entry *domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.ID] = entry.Clone()
	return nil
}

func (s *JournalStore) GetEntry(ctx context.Context, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e.Clone(), nil
}

func (s *JournalStore) DeleteEntry(ctx context.Context, id domain.JournalEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// ListEntries returns all entries sorted by Date descending.
func (s *JournalStore) ListEntries(ctx context.Context) ([]*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}
