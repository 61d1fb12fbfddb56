package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klemjul/chatrelay/internal/app"
	"github.com/klemjul/chatrelay/internal/chat"
	"github.com/klemjul/chatrelay/internal/config"
	"github.com/klemjul/chatrelay/internal/llm"
	"github.com/klemjul/chatrelay/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func chatCommand(app app.App) *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the persona through a running relay.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, app)
		},
	}

	chatCmd.Flags().SortFlags = false

	chatCmd.Flags().StringP("message", "m", "", "Send a single message, print the reply and exit.")
	chatCmd.Flags().String("relay-url", config.DEFAULT_RELAY_URL,
		fmt.Sprintf("Base URL of the relay. (env: %s)", config.GetEnvWithPrefix(config.ENV_RELAY_URL)))
	chatCmd.Flags().String("assistant-name", config.DEFAULT_ASSISTANT_NAME,
		fmt.Sprintf("Label shown for the assistant. (env: %s)", config.GetEnvWithPrefix(config.ENV_ASSISTANT_NAME)))
	chatCmd.Flags().String("user-name", config.DEFAULT_USER_NAME,
		fmt.Sprintf("Label shown for you. (env: %s)", config.GetEnvWithPrefix(config.ENV_USER_NAME)))

	viper.BindPFlag(config.ENV_RELAY_URL, chatCmd.Flags().Lookup("relay-url"))
	viper.BindPFlag(config.ENV_ASSISTANT_NAME, chatCmd.Flags().Lookup("assistant-name"))
	viper.BindPFlag(config.ENV_USER_NAME, chatCmd.Flags().Lookup("user-name"))

	return chatCmd
}

func runChat(cmd *cobra.Command, app app.App) error {
	cfg := config.LoadChat()
	relayClient := app.Chat().NewRelay(cfg.RelayURL)
	session := chat.NewSession()

	message, err := cmd.Flags().GetString("message")
	if err != nil {
		message = ""
	}

	if message != "" {
		reply, err := session.Send(cmd.Context(), relayClient, message)
		if err != nil {
			return fmt.Errorf("failed to send message: %v", err)
		}
		formattedRes, err := app.Format().FormatMarkdown(reply.Content)
		if err != nil {
			return fmt.Errorf("failed to format response: %v", err)
		}
		cmd.OutOrStdout().Write([]byte(formattedRes))
		return nil
	}

	TUIModel := app.TUI().InitialModel(ui.InitialModelOptions{
		Title:          fmt.Sprintf("%s (%s)", cfg.AssistantName, cfg.RelayURL),
		Names:          ui.Names{Assistant: cfg.AssistantName, User: cfg.UserName},
		Session:        session,
		GetBotResponse: makeRelayResponder(cmd.Context(), relayClient, session),
	})
	if _, err := app.TUI().Run(TUIModel); err != nil {
		return fmt.Errorf("error running chat: %v", err)
	}
	return nil
}

func makeRelayResponder(ctx context.Context, relay chat.Relay, session *chat.Session) func([]llm.Message) tea.Cmd {
	return func(messages []llm.Message) tea.Cmd {
		return func() tea.Msg {
			reply, err := relay.Chat(ctx, session.ID(), messages)
			if err != nil {
				return ui.ReplyErrMsg{Err: err}
			}
			return reply
		}
	}
}
