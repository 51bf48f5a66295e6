package domain

// Message is a single entry in the append-only conversation log.
// Once appended it is never mutated.
type Message struct {
	ID        MessageID `json:"id"`
	SessionID SessionID `json:"session_id,omitempty"`
	Author    Role      `json:"author"`
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"created_at"`

	// Signal metadata attached at append time. Mood is only meaningful on
	// user messages; IsCrisis marks both the triggering user message and the
	// scripted assistant reply.
	Mood     Mood `json:"mood,omitempty"`
	IsCrisis bool `json:"is_crisis,omitempty"`

	// Fallback marks assistant messages produced locally after a provider
	// failure instead of by the model.
	Fallback bool `json:"fallback,omitempty"`
}

// Session is a derived view: a contiguous run of messages presented as one
// conversation thread. Sessions are computed by the threader, not stored.
type Session struct {
	ID           SessionID  `json:"id,omitempty"`
	Title        string     `json:"title"`
	StartedAt    Timestamp  `json:"started_at"`
	DominantMood Mood       `json:"dominant_mood,omitempty"`
	Messages     []*Message `json:"messages"`
}

// ChatTurn is the minimal role+text pair forwarded to the LLM provider.
type ChatTurn struct {
	Role Role
	Text string
}
