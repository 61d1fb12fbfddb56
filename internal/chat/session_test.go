package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/klemjul/chatrelay/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Chat(ctx context.Context, sessionID string, history []llm.Message) (llm.Message, error) {
	args := m.Called(ctx, sessionID, history)
	return args.Get(0).(llm.Message), args.Error(1)
}

func TestSession_Send_Success(t *testing.T) {
	session := NewSession()
	relay := new(MockRelay)
	relay.On("Chat", t.Context(), session.ID(), []llm.Message{{Role: llm.User, Content: "hi"}}).
		Return(llm.Message{Role: llm.Assistant, Content: "hello"}, nil)

	reply, err := session.Send(t.Context(), relay, "  hi  ")

	require.NoError(t, err)
	assert.Equal(t, llm.Message{Role: llm.Assistant, Content: "hello"}, reply)
	assert.Equal(t, []llm.Message{
		{Role: llm.User, Content: "hi"},
		{Role: llm.Assistant, Content: "hello"},
	}, session.Messages())
	assert.False(t, session.Busy())
	assert.NoError(t, session.Err())
	relay.AssertExpectations(t)
}

func TestSession_Send_EmptyText(t *testing.T) {
	session := NewSession()
	relay := new(MockRelay)

	_, err := session.Send(t.Context(), relay, "   \n")

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, session.Messages())
	relay.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_Send_FailureKeepsUserMessage(t *testing.T) {
	session := NewSession()
	relay := new(MockRelay)
	relay.On("Chat", t.Context(), session.ID(), mock.Anything).
		Return(llm.Message{}, errors.New("No content from model"))

	_, err := session.Send(t.Context(), relay, "hi")

	assert.EqualError(t, err, "No content from model")
	assert.Equal(t, []llm.Message{{Role: llm.User, Content: "hi"}}, session.Messages())
	assert.False(t, session.Busy())
	assert.Equal(t, "No content from model", session.ErrorText())
}

func TestSession_Begin_WhileBusy(t *testing.T) {
	session := NewSession()

	_, err := session.Begin("first")
	require.NoError(t, err)
	assert.True(t, session.Busy())

	_, err = session.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, []llm.Message{{Role: llm.User, Content: "first"}}, session.Messages())
}

func TestSession_Send_WhileBusyIsNoop(t *testing.T) {
	session := NewSession()
	_, err := session.Begin("pending")
	require.NoError(t, err)
	relay := new(MockRelay)

	_, err = session.Send(t.Context(), relay, "another")

	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, session.Messages(), 1)
	relay.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_BeginClearsPreviousError(t *testing.T) {
	session := NewSession()
	_, _ = session.Begin("hi")
	session.Fail(errors.New("boom"))
	require.Equal(t, "boom", session.ErrorText())

	_, err := session.Begin("again")

	require.NoError(t, err)
	assert.NoError(t, session.Err())
	assert.Equal(t, "", session.ErrorText())
}

func TestSession_FailWithoutError(t *testing.T) {
	session := NewSession()
	_, _ = session.Begin("hi")

	session.Fail(nil)

	assert.Equal(t, GenericErrorMessage, session.ErrorText())
}

func TestSession_SendsTrimmedHistory(t *testing.T) {
	session := NewSession(numbered(9)...)
	relay := new(MockRelay)
	relay.On("Chat", t.Context(), session.ID(), mock.Anything).
		Return(llm.Message{Role: llm.Assistant, Content: "reply"}, nil)

	_, err := session.Send(t.Context(), relay, "new")
	require.NoError(t, err)

	sent := relay.Calls[0].Arguments.Get(2).([]llm.Message)
	assert.Len(t, sent, 8)
	assert.Equal(t, "m2", sent[0].Content)
	assert.Equal(t, "new", sent[7].Content)
	assert.Len(t, session.Messages(), 9)
}

func TestSession_IDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewSession().ID(), NewSession().ID())
	assert.NotEmpty(t, NewSession().ID())
}
