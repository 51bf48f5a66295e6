// Package gateway mediates every exchange with the text-completion provider.
// It owns the crisis branch (scripted reply, no provider call), the prompt
// construction, and the local fallbacks that keep provider failures from ever
// reaching the user as errors.
package gateway

import (
	"context"
	"strings"

	"github.com/confideai/confide-agent/internal/app/signal"
	"github.com/confideai/confide-agent/internal/domain"
	"github.com/confideai/confide-agent/internal/observability"
)

type Gateway struct {
	llm domain.LLMClient
}

func New(llm domain.LLMClient) *Gateway {
	return &Gateway{llm: llm}
}

// ReplyOutput is the result of one chat turn through the gateway.
type ReplyOutput struct {
	Text string

	// IsCrisis is set when the reply is the scripted safety message or had
	// the crisis resources appended.
	IsCrisis bool

	// Fallback is set when the provider failed and Text is the local apology.
	Fallback bool
}

// Reply answers the latest user turn in history. When sig.IsCrisis is set the
// provider is never invoked: the scripted safety message is returned
// immediately. Otherwise the history plus a freshly built system prompt goes
// to the provider; the last user turn is re-classified independently so the
// crisis resources are still appended if the caller's signal missed it.
// Provider failures degrade to a fixed apology, never an error.
func (g *Gateway) Reply(ctx context.Context, history []domain.ChatTurn, sig signal.Signal) ReplyOutput {
	log := observability.LoggerFromContext(ctx).With("mood", sig.Mood, "is_crisis", sig.IsCrisis)

	if sig.IsCrisis {
		log.Info("crisis detected, returning scripted reply without provider call")
		return ReplyOutput{Text: scriptedCrisisReply, IsCrisis: true}
	}

	system := BuildSystemPrompt(sig.Mood, sig.IsCrisis)

	reply, err := g.llm.Complete(ctx, system, history)
	if err != nil {
		log.Error("provider completion failed, using apology fallback", "error", err)
		return ReplyOutput{Text: apologyReply, Fallback: true}
	}

	// Defense in depth: even if the caller's signal said no crisis, re-check
	// the latest user turn before handing the reply back.
	if recheck := signal.Classify(lastUserText(history)); recheck.IsCrisis {
		log.Warn("crisis phrase found on recheck, appending resources")
		return ReplyOutput{Text: reply + "\n\n" + CrisisResources, IsCrisis: true}
	}

	return ReplyOutput{Text: reply}
}

// Summarize produces the 3-4 sentence narrative summary for a journal entry.
// It tolerates sparse responses and never fails: on any provider error it
// falls back to a deterministic one-liner built from the mood and the raw
// day-reflection answer, so the save operation always completes.
func (g *Gateway) Summarize(ctx context.Context, responses map[string]domain.Answer, mood string) string {
	log := observability.LoggerFromContext(ctx).With("mood", mood)

	prompt := BuildSummaryPrompt(responses, mood)

	summary, err := g.llm.Summarize(ctx, prompt)
	if err == nil && strings.TrimSpace(summary) != "" {
		return strings.TrimSpace(summary)
	}
	if err != nil {
		log.Error("summary generation failed, using templated fallback", "error", err)
	} else {
		log.Warn("provider returned empty summary, using templated fallback")
	}

	return fallbackSummary(responses, mood)
}

// SummarizeText runs an already-rendered prompt through the provider, for
// callers that build their own summary prompt. Like Summarize it never fails:
// provider trouble degrades to a fixed acknowledgement.
func (g *Gateway) SummarizeText(ctx context.Context, prompt string) string {
	summary, err := g.llm.Summarize(ctx, prompt)
	if err != nil || strings.TrimSpace(summary) == "" {
		observability.LoggerFromContext(ctx).Error("raw summary generation failed", "error", err)
		return "Thank you for taking the time to reflect on your day."
	}
	return strings.TrimSpace(summary)
}

func fallbackSummary(responses map[string]domain.Answer, mood string) string {
	s := "Today you're feeling " + mood + "."
	if a, ok := responses["dayReflection"]; ok && a.Text != "" {
		s += " " + a.Text
	}
	return s
}

func lastUserText(history []domain.ChatTurn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Text
		}
	}
	return ""
}
