package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/klemjul/chatrelay/internal/config"
)

type LLMTokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

type LLMSendResponse struct {
	Content string
	Usage   LLMTokenUsage
}

type LLMClient interface {
	Send(ctx context.Context, messages []Message) (*LLMSendResponse, error)
}

type LLMProvider string

const (
	LLMProviderOpenAI LLMProvider = "openai"
	LLMProviderOllama LLMProvider = "ollama"
)

var LLMProviders = []LLMProvider{LLMProviderOpenAI, LLMProviderOllama}

type LLMClientOptions struct {
	Model string
	// BaseURL of an OpenAI compatible API. Empty means the SDK default.
	BaseURL        string
	APIKey         string
	OllamaEndpoint string
	Temperature    float64
	Store          bool
	// HTTPClient is used for upstream calls when set.
	HTTPClient *http.Client
}

func NewClient(provider LLMProvider, opts LLMClientOptions) (LLMClient, error) {
	switch provider {
	case LLMProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("%w: %s is not set", ErrMissingCredential, config.ENV_OPENPIPE_API_KEY)
		}
		return newOpenAIClient(opts), nil
	case LLMProviderOllama:
		if opts.OllamaEndpoint == "" {
			return nil, fmt.Errorf("%w: %s is not set", ErrMissingCredential, config.ENV_OLLAMA_ENDPOINT)
		}
		localEndpoint, err := url.Parse(opts.OllamaEndpoint)
		if err != nil {
			return nil, fmt.Errorf("%s URL is invalid: %v", config.ENV_OLLAMA_ENDPOINT, err)
		}
		return newOllamaClient(*localEndpoint, opts), nil
	default:
		return nil, fmt.Errorf("%s: invalid provider", provider)
	}
}
