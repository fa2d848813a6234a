package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/smishguard/")
	v.AddConfigPath("$HOME/.smishguard")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SMISHGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Corpus defaults
	v.SetDefault("corpus.source", "json")
	v.SetDefault("corpus.asset_dir", "./assets")
	v.SetDefault("corpus.sqlite_path", "./assets/corpus.db")

	// Retrieval defaults
	v.SetDefault("retrieval.top_k", 2)

	// Prompt defaults
	v.SetDefault("prompt.template_path", "./assets/prompt_template.txt")

	// Inference defaults
	v.SetDefault("inference.endpoint", "http://localhost:11434/v1")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.preferred_model", "gemma-2-2b-it")
	v.SetDefault("inference.candidate_models", []string{"gemma-2-2b-it", "phi-3-mini", "qwen2.5-1.5b"})
	v.SetDefault("inference.model_dir", "./models")
	v.SetDefault("inference.max_tokens", 512)
	v.SetDefault("inference.temperature", 0.1)
	v.SetDefault("inference.top_p", 0.9)
	v.SetDefault("inference.timeout", "30s")
	v.SetDefault("inference.max_body_size", 2048)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
