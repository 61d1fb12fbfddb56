package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaChatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

type llmClientOllama struct {
	client      ollamaChatter
	model       string
	temperature float64
}

func newOllamaClient(localEndpoint url.URL, opts LLMClientOptions) *llmClientOllama {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &llmClientOllama{
		client:      api.NewClient(&localEndpoint, httpClient),
		model:       opts.Model,
		temperature: opts.Temperature,
	}
}

func (ai *llmClientOllama) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	stream := false
	var content strings.Builder
	var usage LLMTokenUsage

	err := ai.client.Chat(ctx, &api.ChatRequest{
		Model:    ai.model,
		Messages: ai.toOllamaMessages(messages),
		Stream:   &stream,
		Options:  map[string]any{"temperature": ai.temperature},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			usage = LLMTokenUsage{
				InputTokens:  int64(resp.PromptEvalCount),
				OutputTokens: int64(resp.EvalCount),
			}
		}
		return nil
	})

	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return nil, &UpstreamError{StatusCode: statusErr.StatusCode, Body: statusErr.ErrorMessage}
		}
		return nil, err
	}

	if content.Len() == 0 {
		return nil, ErrNoContent
	}

	return &LLMSendResponse{
		Content: content.String(),
		Usage:   usage,
	}, nil
}

func (ai *llmClientOllama) toOllamaMessages(messages []Message) []api.Message {
	var ollamaMessages []api.Message
	for _, msg := range messages {
		ollamaMessages = append(ollamaMessages, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return ollamaMessages
}
