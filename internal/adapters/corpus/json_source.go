package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// corpusFile mirrors the bundled asset format: parallel arrays of example
// texts and their precomputed embeddings.
type corpusFile struct {
	Texts      []string    `json:"texts"`
	Embeddings [][]float32 `json:"embeddings"`
}

// JSONSource loads label corpora from per-label JSON asset files named
// <label>_embeddings.json in a fixed asset directory.
type JSONSource struct {
	assetDir string
	logger   *zap.Logger
}

// NewJSONSource creates a JSON-backed corpus source
func NewJSONSource(assetDir string, logger *zap.Logger) *JSONSource {
	return &JSONSource{
		assetDir: assetDir,
		logger:   logger,
	}
}

// Load reads and decodes the corpus file for the given label
func (s *JSONSource) Load(ctx context.Context, label core.Label) ([]core.LabeledExample, error) {
	path := filepath.Join(s.assetDir, fmt.Sprintf("%s_embeddings.json", label))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus asset %s: %w", path, err)
	}

	var file corpusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode corpus asset %s: %w", path, err)
	}

	if len(file.Texts) != len(file.Embeddings) {
		return nil, fmt.Errorf("corpus asset %s has %d texts but %d embeddings",
			path, len(file.Texts), len(file.Embeddings))
	}

	examples := make([]core.LabeledExample, len(file.Texts))
	for i := range file.Texts {
		examples[i] = core.LabeledExample{
			Text:      file.Texts[i],
			Label:     label,
			Embedding: file.Embeddings[i],
		}
	}

	s.logger.Debug("Loaded corpus asset",
		zap.String("label", string(label)),
		zap.String("path", path),
		zap.Int("examples", len(examples)))

	return examples, nil
}
