package config

import "time"

// CorpusConfig represents the configuration for corpus asset loading
type CorpusConfig struct {
	Source     string
	AssetDir   string
	SQLitePath string
}

// RetrievalConfig represents the configuration for example retrieval
type RetrievalConfig struct {
	TopK int
}

// PromptConfig represents the configuration for prompt assembly
type PromptConfig struct {
	TemplatePath string
}

// InferenceConfig represents the configuration for the local inference gateway
type InferenceConfig struct {
	Endpoint        string
	APIKey          string
	PreferredModel  string
	CandidateModels []string
	ModelDir        string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	Timeout         time.Duration
	MaxBodySize     int
}

// GetCorpus returns the corpus configuration
func (c *Config) GetCorpus() CorpusConfig {
	return CorpusConfig{
		Source:     c.GetString("corpus.source"),
		AssetDir:   c.GetString("corpus.asset_dir"),
		SQLitePath: c.GetString("corpus.sqlite_path"),
	}
}

// GetRetrieval returns the retrieval configuration
func (c *Config) GetRetrieval() RetrievalConfig {
	return RetrievalConfig{
		TopK: c.GetInt("retrieval.top_k"),
	}
}

// GetPrompt returns the prompt configuration
func (c *Config) GetPrompt() PromptConfig {
	return PromptConfig{
		TemplatePath: c.GetString("prompt.template_path"),
	}
}

// GetInference returns the inference configuration
func (c *Config) GetInference() InferenceConfig {
	timeout, err := c.GetDuration("inference.timeout")
	if err != nil {
		timeout = 30 * time.Second
	}
	return InferenceConfig{
		Endpoint:        c.GetString("inference.endpoint"),
		APIKey:          c.GetString("inference.api_key"),
		PreferredModel:  c.GetString("inference.preferred_model"),
		CandidateModels: c.GetStringSlice("inference.candidate_models"),
		ModelDir:        c.GetString("inference.model_dir"),
		MaxTokens:       c.GetInt("inference.max_tokens"),
		Temperature:     float32(c.GetFloat64("inference.temperature")),
		TopP:            float32(c.GetFloat64("inference.top_p")),
		Timeout:         timeout,
		MaxBodySize:     c.GetInt("inference.max_body_size"),
	}
}
