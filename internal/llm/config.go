package llm

import "strings"

// Config holds provider settings. Fields carry env tags so the config
// package can parse them with a prefix.
type Config struct {
	Endpoint      string   `env:"ENDPOINT" envDefault:"https://api.openai.com"`
	APIKey        string   `env:"API_KEY"`
	Model         string   `env:"MODEL" envDefault:"gpt-4o-mini"`
	AllowedModels []string `env:"ALLOWED_MODELS" envSeparator:"," envDefault:"gpt-4o-mini,gpt-4o,gpt-4.1-mini,gpt-4.1"`
	TimeoutMs     int      `env:"TIMEOUT_MS" envDefault:"45000"`
	MaxTokens     int      `env:"MAX_TOKENS" envDefault:"2000"`
	Temperature   float64  `env:"TEMPERATURE" envDefault:"0.2"`
}

// DefaultConfig mirrors the envDefault tags for callers that do not parse
// the environment.
func DefaultConfig() Config {
	return Config{
		Endpoint:      "https://api.openai.com",
		Model:         "gpt-4o-mini",
		AllowedModels: []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini", "gpt-4.1"},
		TimeoutMs:     45000,
		MaxTokens:     2000,
		Temperature:   0.2,
	}
}

// ResolveModel returns requested if it is on the allow-list, otherwise the
// configured default model.
func (c Config) ResolveModel(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return c.Model
	}
	for _, m := range c.AllowedModels {
		if strings.EqualFold(strings.TrimSpace(m), requested) {
			return strings.TrimSpace(m)
		}
	}
	return c.Model
}

// HasCredentials reports whether an API key is configured.
func (c Config) HasCredentials() bool {
	return strings.TrimSpace(c.APIKey) != ""
}
