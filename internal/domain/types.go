package domain

import "time"

type SessionID string
type MessageID string
type JournalEntryID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mood is the coarse emotional-state label the classifier assigns to a
// single message.
type Mood string

const (
	MoodDistressed Mood = "distressed"
	MoodAnxious    Mood = "anxious"
	MoodDepressed  Mood = "depressed"
	MoodAngry      Mood = "angry"
	MoodHappy      Mood = "happy"
	MoodNeutral    Mood = "neutral"
)

// Moods lists every classifier label in priority order. The classifier walks
// its keyword tables in exactly this order and stops at the first match.
var Moods = []Mood{
	MoodDistressed,
	MoodAnxious,
	MoodDepressed,
	MoodAngry,
	MoodHappy,
	MoodNeutral,
}

type Timestamp = time.Time
