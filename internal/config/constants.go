package config

import "time"

const (
	// Location of .env and the default database
	DataDir = "~/.mind"

	// Conversation context
	DefaultContextWindowSize = 10

	// History browsing
	DefaultHistoryCount = 20

	// AI request timeout
	RequestTimeout = 120 * time.Second

	// Model cache duration
	ModelCacheDuration = 1 * time.Hour

	// Prompt search results shown by default
	PromptSearchLimit = 20
)

// DefaultModels is the allow-list used when MIND_MODELS is unset.
var DefaultModels = []string{
	"deepseek/deepseek-chat-v3-0324:free",
	"openai/gpt-4o-mini",
	"openai/gpt-4o",
	"anthropic/claude-3.5-sonnet",
	"meta-llama/llama-3-8b-instruct",
	"z-ai/glm-4.5-air:free",
}
