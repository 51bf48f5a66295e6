package conversation_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/confideai/confide-agent/internal/app/conversation"
	"github.com/confideai/confide-agent/internal/domain"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func msgAt(offset time.Duration, sessionID, text string) *domain.Message {
	return &domain.Message{
		ID:        domain.MessageID(fmt.Sprintf("m-%d", offset/time.Second)),
		SessionID: domain.SessionID(sessionID),
		Author:    domain.RoleUser,
		Text:      text,
		CreatedAt: t0.Add(offset),
	}
}

func TestGroupSessionsGapHeuristic(t *testing.T) {
	// 0:00, 0:05, 0:40, 0:45 — the 35 min gap splits, the 5 min gaps do not.
	msgs := []*domain.Message{
		msgAt(0, "", "first"),
		msgAt(5*time.Minute, "", "second"),
		msgAt(40*time.Minute, "", "third"),
		msgAt(45*time.Minute, "", "fourth"),
	}

	sessions := conversation.GroupSessions(msgs)
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}

	// Most recent first.
	if got := sessions[0].Messages[0].Text; got != "third" {
		t.Fatalf("sessions[0] starts with %q, want %q", got, "third")
	}
	if len(sessions[0].Messages) != 2 || len(sessions[1].Messages) != 2 {
		t.Fatalf("session sizes = %d,%d, want 2,2",
			len(sessions[0].Messages), len(sessions[1].Messages))
	}
	if got := sessions[1].Messages[1].Text; got != "second" {
		t.Fatalf("relative order broken in older session: %q", got)
	}
}

func TestGroupSessionsExplicitIDs(t *testing.T) {
	msgs := []*domain.Message{
		msgAt(0, "a", "a1"),
		msgAt(1*time.Minute, "a", "a2"),
		// Long gap inside the same explicit session must NOT split it.
		msgAt(2*time.Hour, "a", "a3"),
		msgAt(3*time.Hour, "b", "b1"),
	}

	sessions := conversation.GroupSessions(msgs)
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "b" || sessions[1].ID != "a" {
		t.Fatalf("order = [%s %s], want [b a]", sessions[0].ID, sessions[1].ID)
	}
	if len(sessions[1].Messages) != 3 {
		t.Fatalf("session a has %d messages, want 3", len(sessions[1].Messages))
	}
}

func TestGroupSessionsAttributes(t *testing.T) {
	long := strings.Repeat("x", 60)
	msgs := []*domain.Message{
		{ID: "1", Text: long, Mood: domain.MoodAnxious, CreatedAt: t0},
		{ID: "2", Text: "reply", CreatedAt: t0.Add(time.Minute)},
	}

	sessions := conversation.GroupSessions(msgs)
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	s := sessions[0]
	if want := strings.Repeat("x", 50) + "..."; s.Title != want {
		t.Fatalf("title = %q, want %q", s.Title, want)
	}
	if s.DominantMood != domain.MoodAnxious {
		t.Fatalf("dominant mood = %q", s.DominantMood)
	}
	if !s.StartedAt.Equal(t0) {
		t.Fatalf("started at = %v", s.StartedAt)
	}
}

func TestGroupSessionsEmptyLog(t *testing.T) {
	if got := conversation.GroupSessions(nil); len(got) != 0 {
		t.Fatalf("expected no sessions, got %d", len(got))
	}
}

// partition flattens a session list into message-ID groups for comparison.
func partition(sessions []*domain.Session) [][]domain.MessageID {
	out := make([][]domain.MessageID, 0, len(sessions))
	for _, s := range sessions {
		ids := make([]domain.MessageID, 0, len(s.Messages))
		for _, m := range s.Messages {
			ids = append(ids, m.ID)
		}
		out = append(out, ids)
	}
	return out
}

// TestGroupSessionsIdempotent checks that regrouping the flattened output
// reproduces the same partition, for arbitrary logs in both modes.
func TestGroupSessionsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(rt, "n")
		explicit := rapid.Bool().Draw(rt, "explicit_ids")

		ids := []string{"s1", "s2", "s3"}
		msgs := make([]*domain.Message, 0, n)
		at := t0
		for i := 0; i < n; i++ {
			at = at.Add(time.Duration(rapid.IntRange(1, 120).Draw(rt, "gap_min")) * time.Minute)
			m := &domain.Message{
				ID:        domain.MessageID(fmt.Sprintf("m%d", i)),
				Text:      fmt.Sprintf("msg %d", i),
				CreatedAt: at,
			}
			if explicit {
				m.SessionID = domain.SessionID(rapid.SampledFrom(ids).Draw(rt, "sid"))
			}
			msgs = append(msgs, m)
		}

		first := conversation.GroupSessions(msgs)

		// Flatten back to a chronological log and regroup.
		asc := append([]*domain.Session(nil), first...)
		sort.SliceStable(asc, func(i, j int) bool {
			return asc[i].StartedAt.Before(asc[j].StartedAt)
		})
		var flat []*domain.Message
		for _, s := range asc {
			flat = append(flat, s.Messages...)
		}
		if len(flat) != n {
			rt.Fatalf("partition lost messages: %d of %d", len(flat), n)
		}

		second := conversation.GroupSessions(flat)

		got, want := partition(second), partition(first)
		if len(got) != len(want) {
			rt.Fatalf("partition count changed: %d vs %d", len(got), len(want))
		}
		for i := range got {
			if len(got[i]) != len(want[i]) {
				rt.Fatalf("session %d size changed: %d vs %d", i, len(got[i]), len(want[i]))
			}
			for j := range got[i] {
				if got[i][j] != want[i][j] {
					rt.Fatalf("session %d message %d: %s vs %s", i, j, got[i][j], want[i][j])
				}
			}
		}
	})
}
