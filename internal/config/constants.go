package config

import "fmt"

const (
	ENV_PREFIX         = "CHATRELAY"
	ENV_API_KEY        = "API_KEY"
	ENV_PROVIDER       = "PROVIDER"
	ENV_MODEL          = "MODEL"
	ENV_UPSTREAM_URL   = "UPSTREAM_URL"
	ENV_SYSTEM_PROMPT  = "SYSTEM_PROMPT"
	ENV_ADDR           = "ADDR"
	ENV_RELAY_URL      = "RELAY_URL"
	ENV_ASSISTANT_NAME = "ASSISTANT_NAME"
	ENV_USER_NAME      = "USER_NAME"
	ENV_DEBUG          = "DEBUG"

	// Unprefixed names read as-is from the environment.
	ENV_OPENPIPE_API_KEY = "OPENPIPE_API_KEY"
	ENV_OLLAMA_ENDPOINT  = "OLLAMA_ENDPOINT"
)

const (
	DEFAULT_PROVIDER       = "openai"
	DEFAULT_MODEL          = "openpipe:fruity-brandon"
	DEFAULT_UPSTREAM_URL   = "https://app.openpipe.ai/api/v1"
	DEFAULT_SYSTEM_PROMPT  = "Brandon is chatting with Leo on WhatsApp"
	DEFAULT_ADDR           = ":3000"
	DEFAULT_RELAY_URL      = "http://localhost:3000"
	DEFAULT_ASSISTANT_NAME = "Brandon"
	DEFAULT_USER_NAME      = "Leo"
)

func GetEnvWithPrefix(env string) string {
	return fmt.Sprintf("%s_%s", ENV_PREFIX, env)
}
