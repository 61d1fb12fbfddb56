package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

type openaiChatCompletions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type llmClientOpenAi struct {
	client      openaiChatCompletions
	model       string
	temperature float64
	store       bool
}

func newOpenAIClient(opts LLMClientOptions) *llmClientOpenAi {
	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
		option.WithMiddleware(upstreamErrorMiddleware),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	client := openai.NewClient(requestOpts...)
	return &llmClientOpenAi{
		client:      &client.Chat.Completions,
		model:       opts.Model,
		temperature: opts.Temperature,
		store:       opts.Store,
	}
}

// upstreamErrorMiddleware keeps the raw body of failed responses. The SDK only
// understands OpenAI shaped JSON errors and drops anything else.
func upstreamErrorMiddleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	res, err := next(req)
	if err != nil || res.StatusCode < http.StatusBadRequest {
		return res, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream error body: %w", err)
	}
	return nil, &UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
}

func (ai *llmClientOpenAi) toOpenAiMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	var openAiMessages []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case User:
			openAiMessages = append(openAiMessages, openai.UserMessage(msg.Content))
		case Assistant:
			openAiMessages = append(openAiMessages, openai.AssistantMessage(msg.Content))
		case System:
			openAiMessages = append(openAiMessages, openai.SystemMessage(msg.Content))
		default:
			// Unknown roles are forwarded untouched and left to the upstream to judge.
			openAiMessages = append(openAiMessages, param.Override[openai.ChatCompletionMessageParamUnion](
				map[string]string{"role": string(msg.Role), "content": msg.Content},
			))
		}
	}
	return openAiMessages
}

func (ai *llmClientOpenAi) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	res, err := ai.client.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model:       ai.model,
			Messages:    ai.toOpenAiMessages(messages),
			Temperature: openai.Float(ai.temperature),
			Store:       openai.Bool(ai.store),
		},
	)

	if err != nil {
		return nil, err
	}

	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return nil, ErrNoContent
	}

	return &LLMSendResponse{
		Content: res.Choices[0].Message.Content,
		Usage: LLMTokenUsage{
			InputTokens:  res.Usage.PromptTokens,
			OutputTokens: res.Usage.CompletionTokens,
		},
	}, nil
}
