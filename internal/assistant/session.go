// Package assistant runs the conversation with the remote shopping assistant
// and converts its replies into cache invalidation signals. The assistant is
// opaque: this package never interprets the user's message, only the reply's
// refresh markers.
package assistant

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatfit/internal/api"
	"chatfit/internal/signal"
)

// refreshCartMarker is appended by the backend to replies that changed the
// cart. It is stripped before display and converted into a cart signal.
const refreshCartMarker = "[REFRESH_CART]"

// orderHint guesses that a reply reported an order mutation. The backend has
// no explicit marker for orders; until it grows one, the text heuristic from
// the original client is kept, isolated here.
var orderHint = regexp.MustCompile(`(?i)order|placed|success`)

// Role labels one side of the conversation.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one conversation entry, with any quick-reply buttons the
// assistant suggested.
type Message struct {
	Role    Role
	Text    string
	Buttons []api.ActionButton
}

// Session holds one conversation with the assistant.
type Session struct {
	client *api.Client
	bus    *signal.Bus
	logger *zap.Logger
	id     string

	mu      sync.Mutex
	history []Message
}

// NewSession opens a conversation seeded with the assistant's greeting.
func NewSession(client *api.Client, bus *signal.Bus, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:  client,
		bus:     bus,
		logger:  logger,
		id:      uuid.NewString(),
		history: []Message{welcome()},
	}
}

func welcome() Message {
	return Message{
		Role: RoleBot,
		Text: "Hello! How can I help you with t-shirts today?",
		Buttons: []api.ActionButton{
			{Label: "Show Products", Value: "show products"},
			{Label: "View Cart", Value: "view cart"},
			{Label: "My Orders", Value: "my orders"},
		},
	}
}

// ID returns the session identifier sent with every message.
func (s *Session) ID() string { return s.id }

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Send forwards one user message, records the exchange, publishes any
// invalidation topics the reply implies, and returns the assistant message.
// On error the history gets a fallback bot message and no topic is published.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	s.append(Message{Role: RoleUser, Text: text})

	reply, err := s.client.Chat(ctx, text, s.id)
	if err != nil {
		s.logger.Warn("chat request failed", zap.Error(err))
		msg := Message{Role: RoleBot, Text: "Error communicating with server."}
		s.append(msg)
		return msg, err
	}

	display, topics := parseReply(reply.Response)
	msg := Message{Role: RoleBot, Text: display, Buttons: reply.ActionButtons}
	s.append(msg)

	for _, topic := range topics {
		s.logger.Debug("assistant reply invalidates resource",
			zap.String("topic", string(topic)))
		s.bus.Publish(topic)
	}
	return msg, nil
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.history = append(s.history, m)
	s.mu.Unlock()
}

// parseReply strips control markers from the reply text and returns the
// topics it invalidates.
func parseReply(raw string) (string, []signal.Topic) {
	var topics []signal.Topic
	display := raw
	if strings.Contains(raw, refreshCartMarker) {
		display = strings.ReplaceAll(display, "\n\n"+refreshCartMarker, "")
		display = strings.ReplaceAll(display, refreshCartMarker, "")
		topics = append(topics, signal.TopicCart)
	}
	if orderHint.MatchString(raw) {
		topics = append(topics, signal.TopicOrders)
	}
	return strings.TrimSpace(display), topics
}
