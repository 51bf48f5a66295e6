package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoDraft is returned by DraftStore.LoadDraft when the slot is empty.
var ErrNoDraft = errors.New("no draft in progress")

// LLMClient defines how the core talks to the text-completion provider.
type LLMClient interface {
	// Complete sends the ordered conversation history plus a system prompt
	// and returns the provider's single text completion.
	Complete(ctx context.Context, systemPrompt string, history []ChatTurn) (string, error)

	// Summarize sends a single rendered prompt and returns a short narrative
	// summary.
	Summarize(ctx context.Context, prompt string) (string, error)
}

// MessageStore persists the append-only conversation log.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	// ListMessages returns the full log in append order.
	ListMessages(ctx context.Context) ([]*Message, error)
	// ClearMessages erases the whole log (the user-facing "clear history"
	// action).
	ClearMessages(ctx context.Context) error
}

// JournalStore persists saved journal entries.
type JournalStore interface {
	// UpsertEntry inserts the entry, or replaces the stored entry with the
	// same ID.
	UpsertEntry(ctx context.Context, entry *JournalEntry) error
	GetEntry(ctx context.Context, id JournalEntryID) (*JournalEntry, error)
	DeleteEntry(ctx context.Context, id JournalEntryID) error
	// ListEntries returns all entries sorted by Date descending.
	ListEntries(ctx context.Context) ([]*JournalEntry, error)
}

// DraftStore persists the single draft slot, keyed independently of journal
// entries.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *DraftState) error
	LoadDraft(ctx context.Context) (*DraftState, error)
	ClearDraft(ctx context.Context) error
}
