package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/klemjul/chatrelay/internal/chat"
	"github.com/klemjul/chatrelay/internal/llm"
	"go.uber.org/zap"
)

const (
	invalidPayloadText  = "Invalid payload: messages[] required"
	noContentText       = "No content from model"
	unexpectedErrorText = "Unexpected error"
)

type ClientFactory interface {
	NewClient(provider llm.LLMProvider, opts llm.LLMClientOptions) (llm.LLMClient, error)
}

type Options struct {
	Provider     llm.LLMProvider
	Client       llm.LLMClientOptions
	SystemPrompt string
}

// Handler serves the chat endpoint. It holds no conversation state; every
// request carries the whole history.
type Handler struct {
	clients ClientFactory
	opts    Options
	logger  *zap.SugaredLogger
}

func NewHandler(clients ClientFactory, opts Options, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		clients: clients,
		opts:    opts,
		logger:  logger,
	}
}

type chatPayload struct {
	Messages json.RawMessage `json:"messages"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(chat.SessionIDHeader)

	// The credential is checked first so a misconfigured relay fails every request.
	client, err := h.clients.NewClient(h.opts.Provider, h.opts.Client)
	if err != nil {
		h.logger.Errorw("upstream client unavailable", "session", sessionID, "error", err)
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}

	messages, err := decodeMessages(r)
	if err != nil {
		h.logger.Infow("rejected chat payload", "session", sessionID, "error", err)
		writeText(w, http.StatusBadRequest, invalidPayloadText)
		return
	}

	payload := make([]llm.Message, 0, len(messages)+1)
	payload = append(payload, llm.Message{Role: llm.System, Content: h.opts.SystemPrompt})
	payload = append(payload, messages...)

	res, err := client.Send(r.Context(), payload)
	if err != nil {
		status, text := classify(err)
		h.logger.Warnw("upstream call failed",
			"session", sessionID,
			"messages", len(messages),
			"status", status,
			"error", err,
		)
		writeText(w, status, text)
		return
	}

	h.logger.Infow("upstream replied",
		"session", sessionID,
		"messages", len(messages),
		"estimated_tokens", llm.RoughEstimateMessagesTokens(payload),
		"input_tokens", res.Usage.InputTokens,
		"output_tokens", res.Usage.OutputTokens,
	)
	writeJSON(w, http.StatusOK, chat.ChatResponse{
		Message: llm.Message{Role: llm.Assistant, Content: res.Content},
	})
}

func decodeMessages(r *http.Request) ([]llm.Message, error) {
	var body chatPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	raw := bytes.TrimSpace(body.Messages)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("messages is not an array")
	}

	var messages []llm.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decoding messages: %w", err)
	}
	return messages, nil
}

// classify maps an upstream failure to the relay's status and response text.
func classify(err error) (int, string) {
	var upstreamErr *llm.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		if upstreamErr.Body == "" {
			return http.StatusBadGateway, fmt.Sprintf("Upstream error %d", upstreamErr.StatusCode)
		}
		return http.StatusBadGateway, upstreamErr.Body
	case errors.Is(err, llm.ErrNoContent):
		return http.StatusBadGateway, noContentText
	case err.Error() == "":
		return http.StatusInternalServerError, unexpectedErrorText
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
