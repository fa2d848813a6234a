// Package modelfs exposes the local model directory as the model storage
// collaborator: a model counts as downloaded when its weights file exists.
package modelfs

import (
	"os"
	"path/filepath"

	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// Storage lists models under a fixed directory in a fixed order.
type Storage struct {
	modelDir string
	known    []string
	logger   *zap.Logger
}

// NewStorage creates a storage view over modelDir. The known list fixes the
// enumeration order of ListAvailable.
func NewStorage(modelDir string, known []string, logger *zap.Logger) *Storage {
	return &Storage{
		modelDir: modelDir,
		known:    known,
		logger:   logger,
	}
}

// IsDownloaded reports whether the model's weights file is present.
func (s *Storage) IsDownloaded(model core.ModelDescriptor) bool {
	path := model.Path
	if path == "" {
		path = s.pathFor(model.Name)
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// ListAvailable returns all known models in the configured order.
func (s *Storage) ListAvailable() []core.ModelDescriptor {
	models := make([]core.ModelDescriptor, 0, len(s.known))
	for _, name := range s.known {
		models = append(models, core.ModelDescriptor{
			Name: name,
			Path: s.pathFor(name),
		})
	}
	return models
}

func (s *Storage) pathFor(name string) string {
	return filepath.Join(s.modelDir, name+".gguf")
}
