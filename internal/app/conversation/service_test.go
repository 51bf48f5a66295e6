package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/confideai/confide-agent/internal/adapters/storage/memory"
	"github.com/confideai/confide-agent/internal/app/conversation"
	"github.com/confideai/confide-agent/internal/app/gateway"
	"github.com/confideai/confide-agent/internal/domain"
)

type stubLLM struct {
	calls int
	reply string
	err   error
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt string, history []domain.ChatTurn) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubLLM) Summarize(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not used")
}

func TestSendMessagePersistsBothSides(t *testing.T) {
	ctx := context.Background()
	llm := &stubLLM{reply: "I'm listening."}
	store := memory.NewMessageStore()
	svc := conversation.NewService(gateway.New(llm), store)

	sid := svc.NewSession()
	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: sid,
		Text:      "rough week, feeling worried",
	})
	require.NoError(t, err)

	require.Equal(t, domain.RoleUser, out.UserMessage.Author)
	require.Equal(t, domain.MoodAnxious, out.UserMessage.Mood)
	require.Equal(t, "I'm listening.", out.AssistantMessage.Text)

	msgs, err := store.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, sid, msgs[0].SessionID)
	require.Equal(t, sid, msgs[1].SessionID)
}

func TestSendMessageCrisisSkipsProvider(t *testing.T) {
	ctx := context.Background()
	llm := &stubLLM{reply: "unused"}
	svc := conversation.NewService(gateway.New(llm), memory.NewMessageStore())

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: svc.NewSession(),
		Text:      "I feel like I want to die",
	})
	require.NoError(t, err)

	require.Zero(t, llm.calls, "provider must not be invoked on a crisis turn")
	require.True(t, out.UserMessage.IsCrisis)
	require.True(t, out.AssistantMessage.IsCrisis)
	require.Contains(t, out.AssistantMessage.Text, "988")
}

func TestSendMessageProviderFailureIsFlagged(t *testing.T) {
	ctx := context.Background()
	llm := &stubLLM{err: errors.New("boom")}
	store := memory.NewMessageStore()
	svc := conversation.NewService(gateway.New(llm), store)

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: svc.NewSession(),
		Text:      "hello there",
	})
	require.NoError(t, err, "provider failure must not fail the turn")
	require.True(t, out.AssistantMessage.Fallback)

	msgs, _ := store.ListMessages(ctx)
	require.Len(t, msgs, 2, "fallback reply is still persisted")
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	svc := conversation.NewService(gateway.New(&stubLLM{}), memory.NewMessageStore())

	_, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{Text: "   "})
	require.ErrorIs(t, err, conversation.ErrEmptyMessage)
}

func TestNewSessionDoesNotTouchLog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMessageStore()
	svc := conversation.NewService(gateway.New(&stubLLM{reply: "ok"}), store)

	first := svc.NewSession()
	_, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: first, Text: "hi"})
	require.NoError(t, err)

	second := svc.NewSession()
	require.NotEqual(t, first, second)

	msgs, _ := store.ListMessages(ctx)
	for _, m := range msgs {
		require.Equal(t, first, m.SessionID, "existing messages keep their session")
	}
}

func TestListSessionsThreadsLog(t *testing.T) {
	ctx := context.Background()
	svc := conversation.NewService(gateway.New(&stubLLM{reply: "ok"}), memory.NewMessageStore())

	a := svc.NewSession()
	_, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: a, Text: "first thread"})
	require.NoError(t, err)

	b := svc.NewSession()
	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: b, Text: "second thread"})
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, b, sessions[0].ID, "most recent session first")
}
