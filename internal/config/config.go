// Package config handles configuration loading and on-disk paths for ragchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/diogo/ragchat/internal/models"
)

// ServerConfig configures the question-answering service run by `ragchat serve`
type ServerConfig struct {
	Addr              string `mapstructure:"addr" json:"addr"`
	VectorStore       string `mapstructure:"vector_store" json:"vector_store"`
	Docs              string `mapstructure:"docs" json:"docs"`
	TopK              int    `mapstructure:"top_k" json:"top_k"`
	ChunkSize         int    `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap      int    `mapstructure:"chunk_overlap" json:"chunk_overlap"`
	LLMProvider       string `mapstructure:"llm_provider" json:"llm_provider"`             // "fallback", "openai" or "gemini"
	EmbeddingProvider string `mapstructure:"embedding_provider" json:"embedding_provider"` // "fallback", "openai" or "gemini"
	OpenAIChatModel   string `mapstructure:"openai_chat_model" json:"openai_chat_model"`
	OpenAIEmbedModel  string `mapstructure:"openai_embed_model" json:"openai_embed_model"`
	GeminiChatModel   string `mapstructure:"gemini_chat_model" json:"gemini_chat_model"`
	GeminiEmbedModel  string `mapstructure:"gemini_embed_model" json:"gemini_embed_model"`

	// Credentials come from the environment only and are never written to disk.
	OpenAIAPIKey string `mapstructure:"openai_api_key" json:"-"`
	GeminiAPIKey string `mapstructure:"gemini_api_key" json:"-"`
}

// Config represents the user configuration
type Config struct {
	APIURL string `mapstructure:"api_url" json:"api_url"`
	// RequestTimeout bounds each request to the service, as a Go duration
	// string. "0s" leaves requests unbounded.
	RequestTimeout  string       `mapstructure:"request_timeout" json:"request_timeout"`
	Markdown        bool         `mapstructure:"markdown" json:"markdown"`
	Verbose         bool         `mapstructure:"verbose" json:"verbose"`
	CopyToClipboard bool         `mapstructure:"copy_to_clipboard" json:"copy_to_clipboard"`
	TUITheme        string       `mapstructure:"tui_theme" json:"tui_theme,omitempty"`
	MarkdownStyle   string       `mapstructure:"markdown_style" json:"markdown_style,omitempty"`
	LogFile         string       `mapstructure:"log_file" json:"log_file,omitempty"`
	Server          ServerConfig `mapstructure:"server" json:"server"`
}

// Timeout parses RequestTimeout. Invalid or negative values mean unbounded.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// DefaultServerConfig returns the default service configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":8000",
		VectorStore:       filepath.Join("data", "vector_store.json"),
		Docs:              filepath.Join("data", "docs.json"),
		TopK:              3,
		ChunkSize:         300,
		ChunkOverlap:      50,
		LLMProvider:       "fallback",
		EmbeddingProvider: "fallback",
		OpenAIChatModel:   "gpt-4o-mini",
		OpenAIEmbedModel:  "text-embedding-3-small",
		GeminiChatModel:   "gemini-1.5-flash",
		GeminiEmbedModel:  "text-embedding-004",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIURL:          models.DefaultBaseURL,
		RequestTimeout:  "0s",
		Markdown:        false,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		MarkdownStyle:   "dark",
		Server:          DefaultServerConfig(),
	}
}

// GetConfigDir returns the configuration directory path.
// RAGCHAT_HOME overrides the default of ~/.ragchat.
func GetConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("RAGCHAT_HOME")); dir != "" {
		return filepath.Abs(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".ragchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the session identifier
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetStatePath returns the path to the key-value state file
func GetStatePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "state.json"), nil
}

// GetLogPath returns the log file path from config, defaulting into the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ragchat.log"), nil
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from path, layering environment
// variables (RAGCHAT_*, plus VITE_API_URL, OPENAI_API_KEY and GEMINI_API_KEY)
// over the file, and the file over defaults. A missing file is not an error.
func LoadConfigFrom(path string) (Config, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// newViper returns a viper instance seeded with defaults and env bindings
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("markdown", def.Markdown)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("copy_to_clipboard", def.CopyToClipboard)
	v.SetDefault("tui_theme", def.TUITheme)
	v.SetDefault("markdown_style", def.MarkdownStyle)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.vector_store", def.Server.VectorStore)
	v.SetDefault("server.docs", def.Server.Docs)
	v.SetDefault("server.top_k", def.Server.TopK)
	v.SetDefault("server.chunk_size", def.Server.ChunkSize)
	v.SetDefault("server.chunk_overlap", def.Server.ChunkOverlap)
	v.SetDefault("server.llm_provider", def.Server.LLMProvider)
	v.SetDefault("server.embedding_provider", def.Server.EmbeddingProvider)
	v.SetDefault("server.openai_chat_model", def.Server.OpenAIChatModel)
	v.SetDefault("server.openai_embed_model", def.Server.OpenAIEmbedModel)
	v.SetDefault("server.gemini_chat_model", def.Server.GeminiChatModel)
	v.SetDefault("server.gemini_embed_model", def.Server.GeminiEmbedModel)
	v.SetDefault("server.openai_api_key", "")
	v.SetDefault("server.gemini_api_key", "")

	v.SetEnvPrefix("RAGCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names used by the original web build and the provider SDKs
	_ = v.BindEnv("api_url", "RAGCHAT_API_URL", "VITE_API_URL")
	_ = v.BindEnv("server.addr", "RAGCHAT_SERVER_ADDR", "PORT")
	_ = v.BindEnv("server.llm_provider", "RAGCHAT_SERVER_LLM_PROVIDER", "LLM_PROVIDER")
	_ = v.BindEnv("server.embedding_provider", "RAGCHAT_SERVER_EMBEDDING_PROVIDER", "EMBEDDING_PROVIDER")
	_ = v.BindEnv("server.openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("server.gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("server.openai_chat_model", "RAGCHAT_SERVER_OPENAI_CHAT_MODEL", "OPENAI_CHAT_MODEL")
	_ = v.BindEnv("server.openai_embed_model", "RAGCHAT_SERVER_OPENAI_EMBED_MODEL", "OPENAI_EMBED_MODEL")
	_ = v.BindEnv("server.gemini_chat_model", "RAGCHAT_SERVER_GEMINI_CHAT_MODEL", "GEMINI_CHAT_MODEL")
	_ = v.BindEnv("server.gemini_embed_model", "RAGCHAT_SERVER_GEMINI_EMBED_MODEL", "GEMINI_EMBED_MODEL")

	return v
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ListenAddr normalizes a PORT-style value ("8000", ":8000", "127.0.0.1:8000")
// into a listen address.
func ListenAddr(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return ":8000", nil
	}
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid listen address: %q", port)
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	return ":" + port, nil
}
