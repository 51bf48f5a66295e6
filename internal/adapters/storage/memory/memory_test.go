package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/confideai/confide-agent/internal/adapters/storage/memory"
	"github.com/confideai/confide-agent/internal/domain"
)

func TestMessageStoreAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := memory.NewMessageStore()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.AppendMessage(ctx, &domain.Message{ID: domain.MessageID(id)}); err != nil {
			t.Fatal(err)
		}
	}
	msgs, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 || msgs[0].ID != "a" || msgs[2].ID != "c" {
		t.Fatalf("unexpected log: %+v", msgs)
	}

	if err := s.ClearMessages(ctx); err != nil {
		t.Fatal(err)
	}
	msgs, _ = s.ListMessages(ctx)
	if len(msgs) != 0 {
		t.Fatalf("expected empty log, got %d", len(msgs))
	}
}

func TestJournalStoreSortsByDateDesc(t *testing.T) {
	ctx := context.Background()
	s := memory.NewJournalStore()

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	for _, e := range []*domain.JournalEntry{
		{ID: "a", Date: day(10), CreatedAt: day(10)},
		{ID: "b", Date: day(14), CreatedAt: day(14)},
		{ID: "c", Date: day(12), CreatedAt: day(12)},
	} {
		if err := s.UpsertEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	out, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ID != "b" || out[1].ID != "c" || out[2].ID != "a" {
		t.Fatalf("unexpected order: %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestJournalStoreReturnsClones(t *testing.T) {
	ctx := context.Background()
	s := memory.NewJournalStore()

	if err := s.UpsertEntry(ctx, &domain.JournalEntry{
		ID:        "e1",
		Responses: map[string]domain.Answer{"dayReflection": domain.TextAnswer("original")},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntry(ctx, "e1")
	if err != nil {
		t.Fatal(err)
	}
	got.Responses["dayReflection"] = domain.TextAnswer("mutated")

	again, _ := s.GetEntry(ctx, "e1")
	if again.Responses["dayReflection"].Text != "original" {
		t.Fatal("store handed out a shared entry")
	}
}

func TestDraftStoreSingleSlot(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDraftStore()

	if _, err := s.LoadDraft(ctx); err != domain.ErrNoDraft {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}

	if err := s.SaveDraft(ctx, &domain.DraftState{Step: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDraft(ctx, &domain.DraftState{Step: 4}); err != nil {
		t.Fatal(err)
	}

	d, err := s.LoadDraft(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Step != 4 {
		t.Fatalf("step = %d, want 4 (second save overwrites)", d.Step)
	}

	if err := s.ClearDraft(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadDraft(ctx); err != domain.ErrNoDraft {
		t.Fatalf("expected ErrNoDraft after clear, got %v", err)
	}
}
