package factory

import (
	"fmt"

	"github.com/smishguard/smishguard/internal/adapters/corpus"
	"github.com/smishguard/smishguard/internal/config"
	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// CorpusFactory creates corpus sources
type CorpusFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCorpusFactory creates a new corpus factory
func NewCorpusFactory(cfg *config.Config, logger *zap.Logger) *CorpusFactory {
	return &CorpusFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCorpusSource creates a corpus source based on the configuration
func (f *CorpusFactory) CreateCorpusSource() (core.CorpusSource, error) {
	corpusCfg := f.cfg.GetCorpus()

	switch corpusCfg.Source {
	case "json":
		return corpus.NewJSONSource(corpusCfg.AssetDir, f.logger), nil
	case "sqlite":
		return corpus.NewSQLiteSource(corpusCfg.SQLitePath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported corpus source: %s", corpusCfg.Source)
	}
}
