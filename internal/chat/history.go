package chat

import "github.com/klemjul/chatrelay/internal/llm"

const (
	HistoryLimit = 10
	HistoryTrim  = 2
)

// History is the visible conversation, oldest first. It never grows past
// HistoryLimit: when an append would overflow, the HistoryTrim oldest
// messages are dropped.
type History struct {
	messages []llm.Message
}

func NewHistory(messages ...llm.Message) *History {
	h := &History{}
	h.messages = append(h.messages, messages...)
	return h
}

// AppendUser adds the user's turn. One slot is kept free for the reply that
// follows, so the trim triggers as soon as the history reaches the limit.
func (h *History) AppendUser(msg llm.Message) {
	h.append(msg, 1)
}

// AppendReply adds the assistant's turn.
func (h *History) AppendReply(msg llm.Message) {
	h.append(msg, 0)
}

func (h *History) append(msg llm.Message, reserve int) {
	next := append(h.messages, msg)
	if len(next)+reserve > HistoryLimit {
		next = next[HistoryTrim:]
	}
	h.messages = next
}

// Messages returns a copy safe to hand to another goroutine.
func (h *History) Messages() []llm.Message {
	out := make([]llm.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	return len(h.messages)
}
