package llm

type MessageRole string

const (
	Assistant MessageRole = "assistant"
	User      MessageRole = "user"
	System    MessageRole = "system"
)

type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	// Hidden messages are kept in the conversation but not rendered.
	Hidden bool `json:"-"`
}
