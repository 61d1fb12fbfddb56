package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klemjul/chatrelay/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Chat_Success(t *testing.T) {
	var gotBody ChatRequest
	var gotSession, gotContentType, gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotSession = r.Header.Get(SessionIDHeader)
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"hello"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", nil)
	reply, err := client.Chat(t.Context(), "session-1", []llm.Message{{Role: llm.User, Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, llm.Message{Role: llm.Assistant, Content: "hello"}, reply)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, ChatPath, gotPath)
	assert.Equal(t, "session-1", gotSession)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, ChatRequest{Messages: []llm.Message{{Role: llm.User, Content: "hi"}}}, gotBody)
}

func TestClient_Chat_ErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "relay error text",
			status:   http.StatusBadGateway,
			body:     "No content from model",
			expected: "No content from model",
		},
		{
			name:     "empty body",
			status:   http.StatusInternalServerError,
			body:     "",
			expected: "Request failed with 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, server.Client()).Chat(t.Context(), "", []llm.Message{{Role: llm.User, Content: "hi"}})

			var relayErr *RelayError
			require.ErrorAs(t, err, &relayErr)
			assert.Equal(t, tc.status, relayErr.StatusCode)
			assert.EqualError(t, err, tc.expected)
		})
	}
}

func TestClient_Chat_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Chat(t.Context(), "", []llm.Message{{Role: llm.User, Content: "hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding chat response")
}

func TestClient_Chat_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil).Chat(t.Context(), "", []llm.Message{{Role: llm.User, Content: "hi"}})

	assert.Error(t, err)
}
