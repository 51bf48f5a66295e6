// Package journal owns the guided journal-entry lifecycle: the stepped,
// mood-conditional prompt form, continuous draft autosave, save-with-summary,
// and soft delete with a bounded undo window.
package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/confideai/confide-agent/internal/app/gateway"
	"github.com/confideai/confide-agent/internal/domain"
	"github.com/confideai/confide-agent/internal/observability"
)

// State of the lifecycle manager. Saving is only reachable from the final
// Answering step and always returns to Idle.
type State string

const (
	StateIdle      State = "idle"
	StateAnswering State = "answering"
	StateSaving    State = "saving"
)

var (
	// ErrMoodRequired rejects a save attempt without a mood selection; no
	// state is mutated.
	ErrMoodRequired = errors.New("select a mood before saving")

	// ErrNotAnswering rejects form operations while no entry is in progress.
	ErrNotAnswering = errors.New("no journal entry in progress")

	// ErrNotFinalStep rejects a save attempt from a non-final step.
	ErrNotFinalStep = errors.New("entry can only be saved from the final step")
)

// ResponseKind distinguishes the main answer from a prompt's sub-question and
// follow-up answers, which are stored under suffixed keys.
type ResponseKind string

const (
	ResponseMain     ResponseKind = "main"
	ResponseSub      ResponseKind = "sub"
	ResponseFollowUp ResponseKind = "followup"
)

// DefaultUndoWindow is how long a soft-deleted entry stays recoverable.
const DefaultUndoWindow = 5 * time.Second

type Manager struct {
	gw      *gateway.Gateway
	entries domain.JournalStore
	drafts  domain.DraftStore

	now        func() time.Time
	newID      func() string
	undoWindow time.Duration

	mu           sync.Mutex
	state        State
	step         int
	date         time.Time
	responses    map[string]domain.Answer
	selectedMood string
	editingID    domain.JournalEntryID
	pending      *pendingDeletion
}

type Option func(*Manager)

// WithUndoWindow overrides the soft-delete grace period.
func WithUndoWindow(d time.Duration) Option {
	return func(m *Manager) { m.undoWindow = d }
}

func NewManager(gw *gateway.Gateway, entries domain.JournalStore, drafts domain.DraftStore, opts ...Option) *Manager {
	m := &Manager{
		gw:         gw,
		entries:    entries,
		drafts:     drafts,
		now:        time.Now,
		newID:      uuid.NewString,
		undoWindow: DefaultUndoWindow,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartEntry begins a fresh entry for the given date (today when zero). Any
// pending draft is discarded silently, without merging.
func (m *Manager) StartEntry(ctx context.Context, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if date.IsZero() {
		date = m.now()
	}
	m.resetLocked()
	m.state = StateAnswering
	m.date = date
	return m.persistDraftLocked(ctx)
}

// StartEdit loads an existing entry into the form. The pending draft, if any,
// is discarded silently.
func (m *Manager) StartEdit(ctx context.Context, id domain.JournalEntryID) error {
	entry, err := m.entries.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked()
	m.state = StateAnswering
	m.date = entry.Date
	m.selectedMood = entry.Mood
	m.editingID = entry.ID
	for k, v := range entry.Responses {
		m.responses[k] = v
	}
	return m.persistDraftLocked(ctx)
}

// Resume restores the draft slot after a restart. Returns false when no draft
// exists.
func (m *Manager) Resume(ctx context.Context) (bool, error) {
	draft, err := m.drafts.LoadDraft(ctx)
	if errors.Is(err, domain.ErrNoDraft) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked()
	m.state = StateAnswering
	m.step = draft.Step
	m.date = draft.Date
	m.selectedMood = draft.SelectedMood
	m.editingID = draft.EditingID
	for k, v := range draft.Responses {
		m.responses[k] = v
	}
	return true, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Step() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Prompts returns the current prompt sequence, which grows when the selected
// mood adds a follow-up block.
func (m *Manager) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return PromptsFor(m.selectedMood)
}

// Next advances one step, clamped at the final prompt.
func (m *Manager) Next(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnswering {
		return ErrNotAnswering
	}
	if m.step < len(PromptsFor(m.selectedMood))-1 {
		m.step++
	}
	return m.persistDraftLocked(ctx)
}

// Previous steps back, clamped at the first prompt.
func (m *Manager) Previous(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnswering {
		return ErrNotAnswering
	}
	if m.step > 0 {
		m.step--
	}
	return m.persistDraftLocked(ctx)
}

// SetResponse records an answer and autosaves the draft. Answering the
// mood-selector updates the selected mood, which may extend the prompt
// sequence.
func (m *Manager) SetResponse(ctx context.Context, promptID string, kind ResponseKind, ans domain.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnswering {
		return ErrNotAnswering
	}

	key := promptID
	switch kind {
	case ResponseSub:
		key += "_sub"
	case ResponseFollowUp:
		key += "_followup"
	}
	m.responses[key] = ans

	if promptID == MoodPromptID && kind == ResponseMain {
		m.selectedMood = ans.Text
	}
	return m.persistDraftLocked(ctx)
}

// Save finalizes the entry: generates the narrative summary through the
// gateway (which never fails) and inserts the entry, or replaces the edited
// entry under its original id. Only valid from the final step and with a
// non-empty mood selection; rejected saves mutate nothing. On success the
// draft slot is cleared and the form returns to Idle.
func (m *Manager) Save(ctx context.Context) (*domain.JournalEntry, error) {
	m.mu.Lock()

	if m.state != StateAnswering {
		m.mu.Unlock()
		return nil, ErrNotAnswering
	}
	if m.step != len(PromptsFor(m.selectedMood))-1 {
		m.mu.Unlock()
		return nil, ErrNotFinalStep
	}
	if a, ok := m.responses[MoodPromptID]; !ok || a.IsEmpty() || m.selectedMood == "" {
		m.mu.Unlock()
		return nil, ErrMoodRequired
	}

	m.state = StateSaving
	mood := m.selectedMood
	date := m.date
	editingID := m.editingID
	responses := cloneResponses(m.responses)
	m.mu.Unlock()

	// The only suspension point: the summarization call. Re-entry is blocked
	// because the form is in Saving, not Answering.
	summary := m.gw.Summarize(ctx, responses, mood)

	entry := &domain.JournalEntry{
		ID:        editingID,
		Date:      date,
		CreatedAt: m.now(),
		Mood:      mood,
		Responses: responses,
		Summary:   summary,
	}
	if entry.ID == "" {
		entry.ID = domain.JournalEntryID(m.newID())
	}
	if entry.Mood == "" {
		entry.Mood = domain.MoodUnknown
	}

	log := observability.LoggerFromContext(ctx).With("entry_id", entry.ID, "mood", entry.Mood)

	if err := m.entries.UpsertEntry(ctx, entry); err != nil {
		log.Error("failed to save journal entry", "error", err)
		m.mu.Lock()
		m.state = StateAnswering
		m.mu.Unlock()
		return nil, err
	}

	if err := m.drafts.ClearDraft(ctx); err != nil {
		log.Warn("failed to clear draft slot", "error", err)
	}

	m.mu.Lock()
	m.resetLocked()
	m.mu.Unlock()

	log.Info("journal entry saved", "edited", editingID != "")
	return entry, nil
}

// Entries lists saved entries, newest date first.
func (m *Manager) Entries(ctx context.Context) ([]*domain.JournalEntry, error) {
	return m.entries.ListEntries(ctx)
}

// MoodStats counts saved entries per self-reported mood.
func (m *Manager) MoodStats(ctx context.Context) (map[string]int, error) {
	entries, err := m.entries.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int)
	for _, e := range entries {
		if e.Mood != "" {
			stats[e.Mood]++
		}
	}
	return stats, nil
}

// Delete soft-deletes an entry: it leaves the store immediately but is held
// in the single pending slot for the undo window. A second delete within the
// window makes the previous pending deletion permanent.
func (m *Manager) Delete(ctx context.Context, id domain.JournalEntryID) error {
	entry, err := m.entries.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := m.entries.DeleteEntry(ctx, id); err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With("entry_id", id)

	m.mu.Lock()
	if m.pending != nil {
		m.pending.task.Cancel()
		m.pending = nil
	}

	p := &pendingDeletion{entry: entry}
	p.task = scheduleTask(m.undoWindow, func() {
		m.mu.Lock()
		if m.pending == p {
			m.pending = nil
		}
		m.mu.Unlock()
		log.Info("deletion became permanent")
	})
	m.pending = p

	// Deleting the entry currently being edited abandons the form.
	resetForm := m.editingID == id
	if resetForm {
		m.resetLocked()
	}
	m.mu.Unlock()

	if resetForm {
		if err := m.drafts.ClearDraft(ctx); err != nil {
			log.Warn("failed to clear draft slot", "error", err)
		}
	}

	log.Info("journal entry soft-deleted", "undo_window", m.undoWindow)
	return nil
}

// Undo restores the pending soft-deleted entry, byte for byte, to its sorted
// position. It is a no-op when nothing is pending or the window has elapsed.
func (m *Manager) Undo(ctx context.Context) error {
	m.mu.Lock()
	p := m.pending
	if p == nil || !p.task.Cancel() {
		m.mu.Unlock()
		return nil
	}
	m.pending = nil
	m.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("deletion undone", "entry_id", p.entry.ID)
	return m.entries.UpsertEntry(ctx, p.entry)
}

func (m *Manager) resetLocked() {
	m.state = StateIdle
	m.step = 0
	m.date = time.Time{}
	m.responses = make(map[string]domain.Answer)
	m.selectedMood = ""
	m.editingID = ""
}

func (m *Manager) persistDraftLocked(ctx context.Context) error {
	return m.drafts.SaveDraft(ctx, &domain.DraftState{
		Responses:    cloneResponses(m.responses),
		SelectedMood: m.selectedMood,
		Step:         m.step,
		EditingID:    m.editingID,
		Date:         m.date,
	})
}

func cloneResponses(in map[string]domain.Answer) map[string]domain.Answer {
	out := make(map[string]domain.Answer, len(in))
	for k, v := range in {
		if v.Options != nil {
			v.Options = append([]string(nil), v.Options...)
		}
		out[k] = v
	}
	return out
}
