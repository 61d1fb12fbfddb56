package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klemjul/chatrelay/internal/chat"
	"github.com/klemjul/chatrelay/internal/format"
	"github.com/klemjul/chatrelay/internal/llm"
	"github.com/klemjul/chatrelay/internal/relay"
	"github.com/klemjul/chatrelay/internal/ui"
	"go.uber.org/zap"
)

type TUIService interface {
	InitialModel(opts ui.InitialModelOptions) ui.ChatTUIModel
	Run(model ui.ChatTUIModel) (returnModel tea.Model, returnErr error)
}

type LLMService interface {
	NewClient(provider llm.LLMProvider, opts llm.LLMClientOptions) (llm.LLMClient, error)
}

type TextFormatService interface {
	FormatMarkdown(text string) (string, error)
}

// RelayService runs the relay HTTP server until ctx is done.
type RelayService interface {
	Serve(ctx context.Context, addr string, opts relay.Options, logger *zap.SugaredLogger) error
}

// ChatService opens client connections to a running relay.
type ChatService interface {
	NewRelay(baseURL string) chat.Relay
}

type App interface {
	TUI() TUIService
	LLM() LLMService
	Format() TextFormatService
	Relay() RelayService
	Chat() ChatService
}

type DefaultTUIService struct{}

type DefaultLLMService struct{}

type DefaultTextFormatService struct{}

type DefaultRelayService struct {
	clients relay.ClientFactory
}

type DefaultChatService struct{}

type DefaultApp struct {
	tui    TUIService
	llm    LLMService
	format TextFormatService
	relay  RelayService
	chat   ChatService
}

func (a *DefaultApp) TUI() TUIService           { return a.tui }
func (a *DefaultApp) LLM() LLMService           { return a.llm }
func (a *DefaultApp) Format() TextFormatService { return a.format }
func (a *DefaultApp) Relay() RelayService       { return a.relay }
func (a *DefaultApp) Chat() ChatService         { return a.chat }

func (c *DefaultTUIService) InitialModel(opts ui.InitialModelOptions) ui.ChatTUIModel {
	return ui.InitialModel(opts)
}
func (c *DefaultTUIService) Run(model ui.ChatTUIModel) (returnModel tea.Model, returnErr error) {
	return tea.NewProgram(model, tea.WithAltScreen()).Run()
}

func (l *DefaultLLMService) NewClient(provider llm.LLMProvider, opts llm.LLMClientOptions) (llm.LLMClient, error) {
	return llm.NewClient(provider, opts)
}

func (l *DefaultTextFormatService) FormatMarkdown(text string) (string, error) {
	return format.FormatMarkdown(text)
}

func (r *DefaultRelayService) Serve(ctx context.Context, addr string, opts relay.Options, logger *zap.SugaredLogger) error {
	handler := relay.NewHandler(r.clients, opts, logger)
	return relay.NewServer(addr, relay.NewRouter(handler, logger), logger).Run(ctx)
}

func (c *DefaultChatService) NewRelay(baseURL string) chat.Relay {
	return chat.NewClient(baseURL, nil)
}

func NewDefaultApp() App {
	llmService := &DefaultLLMService{}
	return &DefaultApp{
		tui:    &DefaultTUIService{},
		llm:    llmService,
		format: &DefaultTextFormatService{},
		relay:  &DefaultRelayService{clients: llmService},
		chat:   &DefaultChatService{},
	}
}
