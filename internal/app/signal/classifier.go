// Package signal classifies raw user text into a mood label and a crisis
// flag. Classification is deterministic keyword matching: it makes no claim
// of clinical accuracy and exists only to shape the assistant's tone and to
// trigger the scripted safety response.
package signal

import (
	"strings"

	"github.com/confideai/confide-agent/internal/domain"
)

// Signal is the classifier output for one piece of text.
type Signal struct {
	Mood     domain.Mood
	IsCrisis bool
}

// crisisPhrases are matched case-insensitively anywhere in the text. Any hit
// sets the crisis flag regardless of the mood result.
var crisisPhrases = []string{
	"suicide",
	"kill myself",
	"end it all",
	"want to die",
	"no point living",
	"better off dead",
	"harm myself",
}

// moodTable is evaluated in order; the first table with a keyword hit wins.
// The order is deliberate: the darker signals outrank the brighter ones, so
// "hopeless but trying to stay happy" classifies as distressed.
var moodTable = []struct {
	mood     domain.Mood
	keywords []string
}{
	{domain.MoodDistressed, []string{"hopeless", "cant go on", "helpless", "desperate"}},
	{domain.MoodAnxious, []string{"anxiety", "worried", "panic", "stress", "overwhelm"}},
	{domain.MoodDepressed, []string{"depressed", "sad", "lonely", "worthless", "empty"}},
	{domain.MoodAngry, []string{"angry", "mad", "furious", "rage", "hate"}},
	{domain.MoodHappy, []string{"happy", "good", "great", "wonderful", "blessed"}},
	{domain.MoodNeutral, []string{"okay", "fine", "alright", "normal"}},
}

// Classify maps text to a mood label and a crisis flag. Every input resolves
// to exactly one of the six labels (neutral when nothing matches); the crisis
// check is independent of the mood check, so a message can carry both a
// crisis flag and a non-distressed mood.
func Classify(text string) Signal {
	lower := strings.ToLower(text)

	sig := Signal{Mood: domain.MoodNeutral}

	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			sig.IsCrisis = true
			break
		}
	}

	for _, row := range moodTable {
		if containsAny(lower, row.keywords) {
			sig.Mood = row.mood
			break
		}
	}

	return sig
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
