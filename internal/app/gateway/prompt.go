package gateway

import (
	"strings"

	"github.com/confideai/confide-agent/internal/domain"
)

const personaPrompt = `You are an experienced, empathetic therapist.

Your approach should be:
1. Show deep empathy and understanding
2. Help explore and process emotions safely
3. Validate feelings while maintaining professional boundaries
4. Keep responses concise but meaningful (2-3 sentences)`

const crisisDirectives = `CRITICAL: User may be in crisis. Always:
- Express immediate concern for their safety
- Provide crisis resources (911, 988 Lifeline, Crisis Text Line: 741741)
- Encourage professional help
- Maintain calm, supportive presence`

const copingDirective = `Note: User shows signs of distress. Focus on emotional support and coping strategies.`

// CrisisResources is the fixed resource block appended to crisis replies and
// embedded in the scripted safety message.
const CrisisResources = "Important Resources:\n" +
	"🚨 Emergency: 911\n" +
	"🆘 24/7 Crisis Support: 988\n" +
	"💭 Crisis Text Line: Text HOME to 741741"

// scriptedCrisisReply is returned without any provider call when the latest
// user message carries the crisis flag.
const scriptedCrisisReply = `I'm very concerned about what you're sharing. Your life matters and help is available:

- Emergency: Call 911
- 24/7 Crisis Support: Call 988
- Crisis Text Line: Text HOME to 741741

Would you like to talk about what's bringing up these thoughts?`

// apologyReply is the fixed local fallback persisted when the provider fails
// during chat.
const apologyReply = "I'm sorry, I'm having trouble responding right now. " +
	"Please give me a moment and try again — I'm still here with you."

// BuildSystemPrompt composes the persona instruction for one conversation
// turn. It always states the detected mood and crisis status; crisis turns
// get the mandatory safety directives, and distressed/depressed turns get an
// extra coping-strategy note. Pure string assembly, cannot fail.
func BuildSystemPrompt(mood domain.Mood, isCrisis bool) string {
	var b strings.Builder

	b.WriteString(personaPrompt)
	b.WriteString("\n\nCurrent context:\n")
	b.WriteString("- User's detected mood: ")
	b.WriteString(string(mood))
	b.WriteString("\n- Crisis status: ")
	if isCrisis {
		b.WriteString("POTENTIAL CRISIS")
	} else {
		b.WriteString("Normal")
	}

	if isCrisis {
		b.WriteString("\n\n")
		b.WriteString(crisisDirectives)
	}

	if mood == domain.MoodDistressed || mood == domain.MoodDepressed {
		b.WriteString("\n\n")
		b.WriteString(copingDirective)
	}

	return b.String()
}

// summaryInstructions frame the journal summarization request.
const summaryInstructions = `You are a compassionate journaling assistant. Please create a brief, coherent summary of this journal entry.

Requirements:
1. Write in a natural, conversational tone
2. Focus on the key emotional insights and activities
3. Create clear, grammatically correct sentences
4. Keep the summary concise (3-4 sentences maximum)
5. Write in a neutral third person, without repeating "you" at the start of each sentence
6. Connect ideas smoothly using transitions
7. Fix any typos or grammatical errors from the original entries
8. Maintain a supportive and understanding tone`

// BuildSummaryPrompt renders a journal entry's structured answers into a
// single summarization prompt. Missing text fields render as "Not provided"
// and missing list fields as "None", so the prompt is total over sparse
// entries.
func BuildSummaryPrompt(responses map[string]domain.Answer, mood string) string {
	text := func(key string) string {
		if a, ok := responses[key]; ok && a.Text != "" {
			return a.Text
		}
		return "Not provided"
	}
	list := func(key string) string {
		if a, ok := responses[key]; ok && len(a.Options) > 0 {
			return strings.Join(a.Options, ", ")
		}
		return "None"
	}

	var b strings.Builder
	b.WriteString(summaryInstructions)
	b.WriteString("\n\nJournal Entry to Summarize:\n")
	b.WriteString("Today's Journal Entry:\n")
	b.WriteString("- Current Mood: " + mood + "\n")
	b.WriteString("- Daily Reflection: " + text("dayReflection") + "\n")
	b.WriteString("- Coping Strategies Used: " + list("copingStrategies") + "\n")
	b.WriteString("- Self-Care Activities: " + list("selfCare") + "\n")
	b.WriteString("- Thought Patterns: " + text("thoughtPatterns") + "\n")
	b.WriteString("- Gratitude: " + text("gratitude") + "\n")
	b.WriteString("- Plans for Tomorrow: " + text("tomorrow") + "\n")
	return b.String()
}
