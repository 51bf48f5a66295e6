package conversation

import (
	"sort"
	"time"

	"github.com/confideai/confide-agent/internal/domain"
)

// InactivityGap is the silence after which the gap heuristic opens a new
// session when messages carry no explicit session id.
const InactivityGap = 30 * time.Minute

// sessionTitleLen is how much of the first message becomes the thread title.
const sessionTitleLen = 50

// GroupSessions partitions the flat, time-ordered message log into discrete
// sessions, most recent first.
//
// When every message carries a session id, messages are grouped by that id
// (preferred mode). Otherwise the log is scanned in order and a new session
// opens whenever the gap since the previous message exceeds InactivityGap
// (legacy mode, for logs persisted before explicit ids existed).
//
// Either way the result is an exact partition: every message lands in exactly
// one session, relative order within a session is preserved, and sessions are
// sorted descending by start timestamp.
func GroupSessions(msgs []*domain.Message) []*domain.Session {
	if len(msgs) == 0 {
		return nil
	}

	var sessions []*domain.Session
	if allHaveSessionID(msgs) {
		sessions = groupByID(msgs)
	} else {
		sessions = groupByGap(msgs)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions
}

func allHaveSessionID(msgs []*domain.Message) bool {
	for _, m := range msgs {
		if m.SessionID == "" {
			return false
		}
	}
	return true
}

func groupByID(msgs []*domain.Message) []*domain.Session {
	byID := make(map[domain.SessionID]*domain.Session)
	var order []*domain.Session

	for _, m := range msgs {
		sess, ok := byID[m.SessionID]
		if !ok {
			sess = newSession(m)
			sess.ID = m.SessionID
			byID[m.SessionID] = sess
			order = append(order, sess)
		}
		sess.Messages = append(sess.Messages, m)
	}
	return order
}

func groupByGap(msgs []*domain.Message) []*domain.Session {
	var sessions []*domain.Session
	var current *domain.Session
	var last time.Time

	for _, m := range msgs {
		if current == nil || m.CreatedAt.Sub(last) > InactivityGap {
			current = newSession(m)
			sessions = append(sessions, current)
		}
		current.Messages = append(current.Messages, m)
		last = m.CreatedAt
	}
	return sessions
}

func newSession(first *domain.Message) *domain.Session {
	return &domain.Session{
		Title:        sessionTitle(first.Text),
		StartedAt:    first.CreatedAt,
		DominantMood: first.Mood,
	}
}

func sessionTitle(text string) string {
	runes := []rune(text)
	if len(runes) > sessionTitleLen {
		runes = runes[:sessionTitleLen]
	}
	return string(runes) + "..."
}
