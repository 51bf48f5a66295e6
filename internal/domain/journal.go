package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MoodUnknown is stored when a journal entry somehow lacks a self-reported
// mood (should not happen through the lifecycle manager, which rejects such
// saves, but old persisted data may carry it).
const MoodUnknown = "Unknown"

// Answer holds the response to one journal prompt. Prompt types map to either
// free text (text, scale, mood-selector) or a list of selected options
// (multiSelect, checklist). On the wire an Answer is a bare JSON string or a
// JSON array of strings, matching the persisted format across reloads.
type Answer struct {
	Text    string
	Options []string
}

// IsEmpty reports whether the answer carries no content.
func (a Answer) IsEmpty() bool {
	return a.Text == "" && len(a.Options) == 0
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Options != nil {
		return json.Marshal(a.Options)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Text = s
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		a.Options = list
		return nil
	}
	return fmt.Errorf("answer must be a string or a list of strings: %s", data)
}

// TextAnswer builds a free-text answer.
func TextAnswer(s string) Answer { return Answer{Text: s} }

// ListAnswer builds a multi-select answer.
func ListAnswer(opts ...string) Answer { return Answer{Options: opts} }

// JournalEntry is a completed, saved journal record. Created on explicit
// save; edits replace the whole entry under the same ID.
type JournalEntry struct {
	ID        JournalEntryID    `json:"id"`
	Date      time.Time         `json:"date"`
	CreatedAt time.Time         `json:"timestamp"`
	Mood      string            `json:"mood"`
	Responses map[string]Answer `json:"responses"`
	Summary   string            `json:"summary"`
}

// Clone returns a deep copy, so held copies (pending deletion, undo) cannot
// be mutated through the original.
func (e *JournalEntry) Clone() *JournalEntry {
	if e == nil {
		return nil
	}
	cp := *e
	if e.Responses != nil {
		cp.Responses = make(map[string]Answer, len(e.Responses))
		for k, v := range e.Responses {
			if v.Options != nil {
				v.Options = append([]string(nil), v.Options...)
			}
			cp.Responses[k] = v
		}
	}
	return &cp
}

// DraftState is the single-slot, in-progress journal entry. At most one
// draft exists at a time; it is overwritten on every change and cleared on a
// successful save.
type DraftState struct {
	Responses    map[string]Answer `json:"responses"`
	SelectedMood string            `json:"selected_mood,omitempty"`
	Step         int               `json:"current_step"`
	EditingID    JournalEntryID    `json:"editing_id,omitempty"`
	Date         time.Time         `json:"date"`
}
