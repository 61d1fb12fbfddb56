package cmd

import (
	"github.com/klemjul/chatrelay/internal/app"
	"github.com/klemjul/chatrelay/internal/config"
	"github.com/spf13/cobra"
)

func RootCommand(app app.App) *cobra.Command {
	config.Setup()

	rootCmd := &cobra.Command{
		Use:   "chatrelay",
		Short: "Chat with a hosted persona model through a small relay server.",
		Example: `
chatrelay serve   # Run the relay on :3000
chatrelay chat   # Open the chat UI against the local relay
chatrelay chat -m "hey"   # Send one message and print the reply
	`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCommand(app), chatCommand(app))

	return rootCmd
}
