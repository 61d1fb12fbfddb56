package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type RelayConfig struct {
	Addr           string
	Provider       string
	Model          string
	UpstreamURL    string
	APIKey         string
	OllamaEndpoint string
	SystemPrompt   string
	Debug          bool
}

type ChatConfig struct {
	RelayURL      string
	AssistantName string
	UserName      string
}

// Setup prepares the global viper instance: defaults, the CHATRELAY_ env prefix
// and the unprefixed names kept for compatibility. A .env file in the working
// directory is loaded first if present; variables already set win over it.
func Setup() {
	_ = godotenv.Load()

	viper.SetDefault(ENV_PROVIDER, DEFAULT_PROVIDER)
	viper.SetDefault(ENV_MODEL, DEFAULT_MODEL)
	viper.SetDefault(ENV_UPSTREAM_URL, DEFAULT_UPSTREAM_URL)
	viper.SetDefault(ENV_SYSTEM_PROMPT, DEFAULT_SYSTEM_PROMPT)
	viper.SetDefault(ENV_ADDR, DEFAULT_ADDR)
	viper.SetDefault(ENV_RELAY_URL, DEFAULT_RELAY_URL)
	viper.SetDefault(ENV_ASSISTANT_NAME, DEFAULT_ASSISTANT_NAME)
	viper.SetDefault(ENV_USER_NAME, DEFAULT_USER_NAME)

	viper.SetEnvPrefix(ENV_PREFIX)
	viper.AutomaticEnv()

	viper.BindEnv(ENV_API_KEY, GetEnvWithPrefix(ENV_API_KEY), ENV_OPENPIPE_API_KEY)
	viper.BindEnv(ENV_OLLAMA_ENDPOINT, ENV_OLLAMA_ENDPOINT)
}

func LoadRelay() RelayConfig {
	return RelayConfig{
		Addr:           viper.GetString(ENV_ADDR),
		Provider:       viper.GetString(ENV_PROVIDER),
		Model:          viper.GetString(ENV_MODEL),
		UpstreamURL:    viper.GetString(ENV_UPSTREAM_URL),
		APIKey:         viper.GetString(ENV_API_KEY),
		OllamaEndpoint: viper.GetString(ENV_OLLAMA_ENDPOINT),
		SystemPrompt:   viper.GetString(ENV_SYSTEM_PROMPT),
		Debug:          viper.GetBool(ENV_DEBUG),
	}
}

func LoadChat() ChatConfig {
	return ChatConfig{
		RelayURL:      viper.GetString(ENV_RELAY_URL),
		AssistantName: viper.GetString(ENV_ASSISTANT_NAME),
		UserName:      viper.GetString(ENV_USER_NAME),
	}
}
