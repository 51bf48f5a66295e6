package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/confideai/confide-agent/internal/domain"
)

func TestAnswerJSONShapes(t *testing.T) {
	// Text answers are bare strings, list answers are string arrays.
	b, err := json.Marshal(domain.TextAnswer("a long day"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"a long day"` {
		t.Fatalf("text answer = %s", b)
	}

	b, err = json.Marshal(domain.ListAnswer("Journaled", "Exercise"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["Journaled","Exercise"]` {
		t.Fatalf("list answer = %s", b)
	}

	var a domain.Answer
	if err := json.Unmarshal([]byte(`"hello"`), &a); err != nil {
		t.Fatal(err)
	}
	if a.Text != "hello" || a.Options != nil {
		t.Fatalf("decoded %+v", a)
	}
	if err := json.Unmarshal([]byte(`["x"]`), &a); err != nil {
		t.Fatal(err)
	}
	if len(a.Options) != 1 || a.Text != "" {
		t.Fatalf("decoded %+v", a)
	}
	if err := json.Unmarshal([]byte(`42`), &a); err == nil {
		t.Fatal("expected error for non-string answer")
	}
}

func TestJournalEntryCloneIsDeep(t *testing.T) {
	e := &domain.JournalEntry{
		ID:        "e1",
		Responses: map[string]domain.Answer{"copingStrategies": domain.ListAnswer("Exercise")},
	}
	cp := e.Clone()

	cp.Responses["copingStrategies"].Options[0] = "mutated"
	cp.Responses["new"] = domain.TextAnswer("x")

	if e.Responses["copingStrategies"].Options[0] != "Exercise" {
		t.Fatal("clone shares option slices with the original")
	}
	if _, ok := e.Responses["new"]; ok {
		t.Fatal("clone shares the responses map with the original")
	}
}
