package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "json", cfg.GetCorpus().Source)
	assert.Equal(t, 2, cfg.GetRetrieval().TopK)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GetInference().Endpoint)
	assert.Equal(t, "gemma-2-2b-it", cfg.GetInference().PreferredModel)
	assert.NotEmpty(t, cfg.GetInference().CandidateModels)
	assert.Equal(t, "info", cfg.GetString("logging.level"))
}

func TestInferenceTimeout(t *testing.T) {
	v := NewEmptyViper()
	v.Set("inference.timeout", "45s")
	cfg := NewFromViper(v)

	assert.Equal(t, 45*time.Second, cfg.GetInference().Timeout)
}

func TestInferenceTimeoutFallback(t *testing.T) {
	v := NewEmptyViper()
	v.Set("inference.timeout", "not-a-duration")
	cfg := NewFromViper(v)

	// Unparseable timeouts fall back to the 30 second bound.
	assert.Equal(t, 30*time.Second, cfg.GetInference().Timeout)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("corpus.source", "sqlite")
	v.Set("corpus.sqlite_path", "/tmp/corpus.db")
	v.Set("retrieval.top_k", 5)
	cfg := NewFromViper(v)

	require.Equal(t, "sqlite", cfg.GetCorpus().Source)
	assert.Equal(t, "/tmp/corpus.db", cfg.GetCorpus().SQLitePath)
	assert.Equal(t, 5, cfg.GetRetrieval().TopK)
}
