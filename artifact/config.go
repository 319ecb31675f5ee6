package artifact

import (
	"encoding/json"
	"os"
)

// LLMConfig selects and configures the model provider.
type LLMConfig struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	APIKey    string `json:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}

// Config is the component configuration file (JSON).
type Config struct {
	LLM         *LLMConfig `json:"llm,omitempty"`
	ServerAddr  string     `json:"server_addr,omitempty"`
	OutputDir   string     `json:"output_dir,omitempty"`
	BlockPolicy string     `json:"block_policy,omitempty"`
}

// LoadConfig reads the JSON config. A missing file is not an error: every
// field has a usable default and the API key can come from the environment.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured key, or the value of api_key_env
// (default OPENAI_API_KEY) when the key itself is not inlined.
func (c *LLMConfig) ResolveAPIKey() string {
	if c == nil {
		return os.Getenv("OPENAI_API_KEY")
	}
	if c.APIKey != "" {
		return c.APIKey
	}
	env := c.APIKeyEnv
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	return os.Getenv(env)
}
