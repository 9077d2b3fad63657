package models

// Provider names accepted by the backend factory
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderEcho   = "echo"
)

// Default endpoints
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOllamaBaseURL = "http://localhost:11434"
)

// Providers returns every supported provider name
func Providers() []string {
	return []string{
		ProviderOpenAI,
		ProviderGemini,
		ProviderOllama,
		ProviderEcho,
	}
}

// IsProvider reports whether name is a supported provider
func IsProvider(name string) bool {
	for _, p := range Providers() {
		if p == name {
			return true
		}
	}
	return false
}

// DefaultModelFor returns the model used when none is configured
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOllama:
		return "llama3.2"
	case ProviderEcho:
		return "echo"
	default:
		return "gpt-4o-mini"
	}
}

// APIKeyEnv returns the conventional environment variable holding the provider's API key
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// RequiresAPIKey reports whether the provider refuses to start without an API key
func RequiresAPIKey(provider string) bool {
	return provider == ProviderOpenAI || provider == ProviderGemini
}
