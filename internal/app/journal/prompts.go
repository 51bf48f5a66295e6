package journal

// PromptType selects the input widget a consumer should render for a prompt.
// The lifecycle manager only cares about whether answers are free text or
// option lists.
type PromptType string

const (
	PromptMoodSelector PromptType = "mood-selector"
	PromptText         PromptType = "text"
	PromptMultiSelect  PromptType = "multiSelect"
	PromptChecklist    PromptType = "checklist"
	PromptScale        PromptType = "scale"
)

// Prompt is one step of the guided journal form.
type Prompt struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Type        PromptType `json:"type"`
	Options     []string   `json:"options,omitempty"`
	SubQuestion string     `json:"sub_question,omitempty"`
	FollowUp    string     `json:"follow_up,omitempty"`
	HelpText    string     `json:"help_text,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// MoodPromptID is the mood-selector step; an entry cannot be saved until it
// has a non-empty answer.
const MoodPromptID = "emotionalState"

// Self-reported moods that extend the base sequence with follow-up blocks.
const (
	moodAnxious     = "Anxious"
	moodSad         = "Sad"
	moodOverwhelmed = "Overwhelmed"
)

var basePrompts = []Prompt{
	{
		ID:       MoodPromptID,
		Question: "How are you feeling emotionally right now?",
		Type:     PromptMoodSelector,
		Options: []string{
			"Calm", "Anxious", "Happy", "Sad", "Angry",
			"Overwhelmed", "Content", "Frustrated", "Hopeful",
		},
		SubQuestion: "What do you think triggered these feelings?",
	},
	{
		ID:          "dayReflection",
		Question:    "Let's reflect on your day. What moment or situation had the strongest emotional impact on you?",
		Type:        PromptText,
		Placeholder: "Describe the situation and how it made you feel...",
	},
	{
		ID:       "copingStrategies",
		Question: "How did you handle difficult moments today?",
		Type:     PromptMultiSelect,
		Options: []string{
			"Talked to someone",
			"Took deep breaths",
			"Went for a walk",
			"Listened to music",
			"Practiced mindfulness",
			"Took a break",
			"Journaled",
			"Exercise",
			"Other",
		},
		FollowUp: "Which strategy worked best for you?",
	},
	{
		ID:          "thoughtPatterns",
		Question:    "Did you notice any recurring thoughts today?",
		Type:        PromptText,
		Placeholder: "What thoughts kept coming back to your mind?",
		HelpText:    "Understanding our thought patterns helps us manage them better",
	},
	{
		ID:       "selfCare",
		Question: "How did you take care of yourself today?",
		Type:     PromptChecklist,
		Options: []string{
			"Got enough sleep",
			"Ate regular meals",
			"Moved my body",
			"Took breaks",
			"Connected with others",
			"Made time for things I enjoy",
			"Set boundaries",
		},
	},
	{
		ID:       "support",
		Question: "Do you feel you have the support you need right now?",
		Type:     PromptScale,
		Options:  []string{"Not at all", "Somewhat", "Mostly", "Yes, definitely"},
		FollowUp: "What kind of support would be most helpful?",
	},
	{
		ID:          "tomorrow",
		Question:    "Looking ahead to tomorrow, what's one small thing you can do to support your emotional wellbeing?",
		Type:        PromptText,
		Placeholder: "It could be as simple as taking a 5-minute break or sending a message to a friend",
	},
	{
		ID:          "gratitude",
		Question:    "Even on difficult days, can you identify something positive, no matter how small?",
		Type:        PromptText,
		Placeholder: "This helps train our brain to notice positive aspects alongside challenges",
	},
}

var anxietyPrompts = []Prompt{
	{
		ID:       "anxietyTriggers",
		Question: "Were there specific situations that triggered anxiety today?",
		Type:     PromptText,
		FollowUp: "How intense was the anxiety on a scale of 1-10?",
	},
	{
		ID:       "bodilySensations",
		Question: "What physical sensations did you notice during anxious moments?",
		Type:     PromptMultiSelect,
		Options: []string{
			"Racing heart",
			"Tight chest",
			"Sweating",
			"Nausea",
			"Muscle tension",
			"Shallow breathing",
			"Other",
		},
	},
}

var moodSupportPrompts = []Prompt{
	{
		ID:       "energyLevels",
		Question: "How were your energy levels today?",
		Type:     PromptScale,
		Options:  []string{"Very low", "Low", "Moderate", "Good", "High"},
	},
	{
		ID:       "activities",
		Question: "Were you able to engage in any activities you usually enjoy?",
		Type:     PromptText,
		FollowUp: "How did these activities make you feel?",
	},
}

// PromptsFor returns the prompt sequence for the given self-reported mood:
// the base sequence, extended with the anxiety block for "Anxious" and the
// mood-support block for "Sad" or "Overwhelmed".
func PromptsFor(selectedMood string) []Prompt {
	prompts := append([]Prompt(nil), basePrompts...)
	switch selectedMood {
	case moodAnxious:
		prompts = append(prompts, anxietyPrompts...)
	case moodSad, moodOverwhelmed:
		prompts = append(prompts, moodSupportPrompts...)
	}
	return prompts
}
