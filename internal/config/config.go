package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds configuration for an OpenAI-compatible API.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GeminiConfig holds configuration for the Google Gemini API.
type GeminiConfig struct {
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type       string        `yaml:"type"`
	Dimensions int           `yaml:"dimensions"`
	OpenAI     *OpenAIConfig `yaml:"openai,omitempty"`
}

// VectorStoreConfig selects and configures the vector index implementation.
type VectorStoreConfig struct {
	Type      string           `yaml:"type"`
	Dimension int              `yaml:"dimension"`
	Pinecone  *PineconeConfig  `yaml:"pinecone,omitempty"`
	Qdrant    *QdrantConfig    `yaml:"qdrant,omitempty"`
	Memory    *MemoryIndexSeed `yaml:"memory,omitempty"`
}

// PineconeConfig contains connection details for a Pinecone index.
type PineconeConfig struct {
	Host        string `yaml:"host"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Namespace   string `yaml:"namespace"`
	APIVersion  string `yaml:"api_version"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// MemoryIndexSeed points the in-memory index at a YAML file of records.
type MemoryIndexSeed struct {
	Path string `yaml:"path"`
}

// LLMConfig selects and configures the language model.
type LLMConfig struct {
	Type           string        `yaml:"type"`
	MaxPromptChars int           `yaml:"max_prompt_chars"` // 0 = unlimited
	OpenAI         *OpenAIConfig `yaml:"openai,omitempty"`
	Gemini         *GeminiConfig `yaml:"gemini,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // log destination while the TUI owns the terminal
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references first.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/bookchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/bookchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks backend selections and their required settings.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "openai":
	default:
		return fmt.Errorf("unknown embedder %q", c.Embedder.Type)
	}
	switch c.VectorStore.Type {
	case "pinecone":
		if c.VectorStore.Pinecone == nil || c.VectorStore.Pinecone.Host == "" {
			return errors.New("vector_store.pinecone.host is required")
		}
	case "qdrant":
		q := c.VectorStore.Qdrant
		if q == nil || q.URL == "" || q.Collection == "" {
			return errors.New("vector_store.qdrant.url and collection are required")
		}
	case "memory":
		if c.VectorStore.Memory == nil || c.VectorStore.Memory.Path == "" {
			return errors.New("vector_store.memory.path is required")
		}
	default:
		return fmt.Errorf("unknown vector store %q", c.VectorStore.Type)
	}
	switch c.LLM.Type {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm %q", c.LLM.Type)
	}
	if c.LLM.MaxPromptChars < 0 {
		return fmt.Errorf("llm.max_prompt_chars must not be negative, got %d", c.LLM.MaxPromptChars)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bookchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder: EmbedderConfig{Type: "openai"},
		VectorStore: VectorStoreConfig{
			Type:     "pinecone",
			Pinecone: &PineconeConfig{Host: os.Getenv("PINECONE_HOST")},
		},
		LLM:     LLMConfig{Type: "openai"},
		Logging: LoggingConfig{Level: "info"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-ada-002")
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "pinecone"
	}
	if p := cfg.VectorStore.Pinecone; p != nil {
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = "PINECONE_API_KEY"
		}
		if p.APIVersion == "" {
			p.APIVersion = "2024-07"
		}
		if p.TimeoutSecs == 0 {
			p.TimeoutSecs = 15
		}
	}
	if q := cfg.VectorStore.Qdrant; q != nil && q.TimeoutSecs == 0 {
		q.TimeoutSecs = 15
	}

	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "openai"
	}
	switch cfg.LLM.Type {
	case "openai":
		if cfg.LLM.OpenAI == nil {
			cfg.LLM.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.LLM.OpenAI, "gpt-3.5-turbo")
	case "gemini":
		if cfg.LLM.Gemini == nil {
			cfg.LLM.Gemini = &GeminiConfig{}
		}
		g := cfg.LLM.Gemini
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "GEMINI_API_KEY"
		}
		if g.Model == "" {
			g.Model = "gemini-1.5-flash"
		}
		if g.TimeoutSecs == 0 {
			g.TimeoutSecs = 60
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "bookchat.log"
	}
}

func applyOpenAIDefaults(c *OpenAIConfig, model string) {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 30
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
