package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/confideai/confide-agent/internal/app/gateway"
	"github.com/confideai/confide-agent/internal/app/signal"
	"github.com/confideai/confide-agent/internal/domain"
	"github.com/confideai/confide-agent/internal/observability"
)

// historyLimit caps how many log entries are forwarded to the provider per
// turn.
const historyLimit = 20

// ErrEmptyMessage rejects blank user input before any classification or
// provider work happens.
var ErrEmptyMessage = errors.New("message text is required")

type Service struct {
	gw       *gateway.Gateway
	messages domain.MessageStore
	now      func() time.Time
	newID    func() string
}

func NewService(gw *gateway.Gateway, messages domain.MessageStore) *Service {
	return &Service{
		gw:       gw,
		messages: messages,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewSession mints a fresh session identifier. It does not touch the message
// log: existing messages keep the sessions they were appended under.
func (s *Service) NewSession() domain.SessionID {
	return domain.SessionID(s.newID())
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}

// SendMessage runs one conversation turn: classify the text, persist the user
// message with its signal metadata, answer through the gateway, persist the
// assistant message. Provider trouble surfaces as a flagged fallback message
// in the log, not as an error.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyMessage
	}

	sig := signal.Classify(in.Text)

	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"mood", sig.Mood,
		"is_crisis", sig.IsCrisis,
	)
	log.Info("handling message")

	userMsg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: in.SessionID,
		Author:    domain.RoleUser,
		Text:      in.Text,
		CreatedAt: s.now(),
		Mood:      sig.Mood,
		IsCrisis:  sig.IsCrisis,
	}
	if err := s.messages.AppendMessage(ctx, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	history, err := s.sessionHistory(ctx, in.SessionID)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}

	out := s.gw.Reply(ctx, history, sig)

	assistantMsg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: in.SessionID,
		Author:    domain.RoleAssistant,
		Text:      out.Text,
		CreatedAt: s.now(),
		IsCrisis:  out.IsCrisis,
		Fallback:  out.Fallback,
	}
	if err := s.messages.AppendMessage(ctx, assistantMsg); err != nil {
		log.Error("failed to append assistant message", "error", err)
		return nil, err
	}

	log.Info("turn completed", "fallback", out.Fallback)

	return &SendMessageOutput{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// ListSessions returns the threaded view of the whole message log, most
// recent session first.
func (s *Service) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	msgs, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	return GroupSessions(msgs), nil
}

// ClearHistory erases the entire message log.
func (s *Service) ClearHistory(ctx context.Context) error {
	observability.LoggerFromContext(ctx).Info("clearing chat history")
	return s.messages.ClearMessages(ctx)
}

// sessionHistory returns the last historyLimit turns for the session,
// including the just-appended user message. Messages without a session id
// (legacy log) are scoped by the gap heuristic instead.
func (s *Service) sessionHistory(ctx context.Context, id domain.SessionID) ([]domain.ChatTurn, error) {
	msgs, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, err
	}

	var scoped []*domain.Message
	if id != "" {
		for _, m := range msgs {
			if m.SessionID == id {
				scoped = append(scoped, m)
			}
		}
	} else if sessions := GroupSessions(msgs); len(sessions) > 0 {
		// Gap mode: the current turn lives in the most recent session.
		scoped = sessions[0].Messages
	}

	if len(scoped) > historyLimit {
		scoped = scoped[len(scoped)-historyLimit:]
	}

	turns := make([]domain.ChatTurn, 0, len(scoped))
	for _, m := range scoped {
		turns = append(turns, domain.ChatTurn{Role: m.Author, Text: m.Text})
	}
	return turns, nil
}
