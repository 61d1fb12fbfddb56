package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/klemjul/chatrelay/internal/app"
	"github.com/klemjul/chatrelay/internal/config"
	"github.com/klemjul/chatrelay/internal/llm"
	"github.com/klemjul/chatrelay/internal/logging"
	"github.com/klemjul/chatrelay/internal/relay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCommand(app app.App) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat relay HTTP server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
		PreRunE: validateServe,
	}

	serveCmd.Flags().SortFlags = false

	serveCmd.Flags().String("addr", config.DEFAULT_ADDR,
		fmt.Sprintf("Address the relay listens on. (env: %s)", config.GetEnvWithPrefix(config.ENV_ADDR)))
	serveCmd.Flags().String("provider", config.DEFAULT_PROVIDER,
		fmt.Sprintf("Upstream provider, one of %v. (env: %s)", llm.LLMProviders, config.GetEnvWithPrefix(config.ENV_PROVIDER)))
	serveCmd.Flags().String("model", config.DEFAULT_MODEL,
		fmt.Sprintf("Upstream model. (env: %s)", config.GetEnvWithPrefix(config.ENV_MODEL)))
	serveCmd.Flags().String("upstream-url", config.DEFAULT_UPSTREAM_URL,
		fmt.Sprintf("Base URL of the OpenAI compatible upstream. (env: %s)", config.GetEnvWithPrefix(config.ENV_UPSTREAM_URL)))
	serveCmd.Flags().String("system-prompt", config.DEFAULT_SYSTEM_PROMPT,
		fmt.Sprintf("System prompt prepended to every conversation. (env: %s)", config.GetEnvWithPrefix(config.ENV_SYSTEM_PROMPT)))
	serveCmd.Flags().Bool("debug", false,
		fmt.Sprintf("Human readable debug logs. (env: %s)", config.GetEnvWithPrefix(config.ENV_DEBUG)))

	viper.BindPFlag(config.ENV_ADDR, serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag(config.ENV_PROVIDER, serveCmd.Flags().Lookup("provider"))
	viper.BindPFlag(config.ENV_MODEL, serveCmd.Flags().Lookup("model"))
	viper.BindPFlag(config.ENV_UPSTREAM_URL, serveCmd.Flags().Lookup("upstream-url"))
	viper.BindPFlag(config.ENV_SYSTEM_PROMPT, serveCmd.Flags().Lookup("system-prompt"))
	viper.BindPFlag(config.ENV_DEBUG, serveCmd.Flags().Lookup("debug"))

	return serveCmd
}

func validateServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadRelay()
	if !slices.Contains(llm.LLMProviders, llm.LLMProvider(cfg.Provider)) {
		return fmt.Errorf("invalid provider '%s'. Valid providers are: %v", cfg.Provider, llm.LLMProviders)
	}
	if cfg.Model == "" {
		return fmt.Errorf("model must be specified '%s'", cfg.Model)
	}
	return nil
}

func runServe(cmd *cobra.Command, app app.App) error {
	cfg := config.LoadRelay()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	provider := llm.LLMProvider(cfg.Provider)
	switch {
	case provider == llm.LLMProviderOpenAI && cfg.APIKey == "":
		logger.Warnw("upstream credential missing, chat requests will fail", "env", config.ENV_OPENPIPE_API_KEY)
	case provider == llm.LLMProviderOllama && cfg.OllamaEndpoint == "":
		logger.Warnw("ollama endpoint missing, chat requests will fail", "env", config.ENV_OLLAMA_ENDPOINT)
	}

	opts := relay.Options{
		Provider: provider,
		Client: llm.LLMClientOptions{
			Model:          cfg.Model,
			BaseURL:        cfg.UpstreamURL,
			APIKey:         cfg.APIKey,
			OllamaEndpoint: cfg.OllamaEndpoint,
			Temperature:    0,
			Store:          true,
		},
		SystemPrompt: cfg.SystemPrompt,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("starting relay", "addr", cfg.Addr, "provider", cfg.Provider, "model", cfg.Model)
	if err := app.Relay().Serve(ctx, cfg.Addr, opts, logger); err != nil {
		return fmt.Errorf("relay stopped: %v", err)
	}
	return nil
}
