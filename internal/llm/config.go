package llm

// Provider represents an LLM provider.
type Provider string

// Supported judge providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config holds the judge model configuration.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
}

// Default judge models per provider.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// DefaultConfig returns the default configuration (Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultGeminiModel,
	}
}

// DefaultModel returns the default judge model for a provider.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultGeminiModel
	}
}
