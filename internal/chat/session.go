package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/klemjul/chatrelay/internal/llm"
)

var (
	ErrBusy         = errors.New("a reply is already pending")
	ErrEmptyMessage = errors.New("message is empty")
)

const GenericErrorMessage = "Something went wrong"

// Relay answers a conversation with a single assistant message.
type Relay interface {
	Chat(ctx context.Context, sessionID string, history []llm.Message) (llm.Message, error)
}

// Session is the client side of a conversation. At most one turn is in flight;
// a failed turn keeps the user's message in the history.
type Session struct {
	mu      sync.Mutex
	id      string
	history *History
	busy    bool
	err     error
}

func NewSession(messages ...llm.Message) *Session {
	return &Session{
		id:      uuid.NewString(),
		history: NewHistory(messages...),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Begin starts a turn and returns the history to send.
func (s *Session) Begin(text string) ([]llm.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, ErrBusy
	}

	s.history.AppendUser(llm.Message{Role: llm.User, Content: text})
	s.busy = true
	s.err = nil
	return s.history.Messages(), nil
}

// Complete ends the pending turn with the relay's reply.
func (s *Session) Complete(reply llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.AppendReply(reply)
	s.busy = false
}

// Fail ends the pending turn without a reply.
func (s *Session) Fail(err error) {
	if err == nil {
		err = errors.New(GenericErrorMessage)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.busy = false
}

// Send runs a whole turn against relay.
func (s *Session) Send(ctx context.Context, relay Relay, text string) (llm.Message, error) {
	history, err := s.Begin(text)
	if err != nil {
		return llm.Message{}, err
	}

	reply, err := relay.Chat(ctx, s.id, history)
	if err != nil {
		s.Fail(err)
		return llm.Message{}, err
	}

	s.Complete(reply)
	return reply, nil
}

func (s *Session) Messages() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Messages()
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Err is the error of the last turn, nil once a new turn begins.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ErrorText is what the UI shows for the last failed turn.
func (s *Session) ErrorText() string {
	err := s.Err()
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
