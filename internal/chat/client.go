package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klemjul/chatrelay/internal/llm"
)

const (
	ChatPath        = "/api/chat"
	SessionIDHeader = "X-Session-ID"
)

type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type ChatResponse struct {
	Message llm.Message `json:"message"`
}

// RelayError carries the text of a failed relay response.
type RelayError struct {
	StatusCode int
	Text       string
}

func (e *RelayError) Error() string {
	return e.Text
}

// Client talks to a relay over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Chat(ctx context.Context, sessionID string, history []llm.Message) (llm.Message, error) {
	payload, err := json.Marshal(ChatRequest{Messages: history})
	if err != nil {
		return llm.Message{}, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(payload))
	if err != nil {
		return llm.Message{}, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionIDHeader, sessionID)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return llm.Message{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = fmt.Sprintf("Request failed with %d", res.StatusCode)
		}
		return llm.Message{}, &RelayError{StatusCode: res.StatusCode, Text: text}
	}

	var data ChatResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return llm.Message{}, fmt.Errorf("decoding chat response: %w", err)
	}
	return data.Message, nil
}
