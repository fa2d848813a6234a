package factory

import (
	"github.com/smishguard/smishguard/internal/adapters/local"
	"github.com/smishguard/smishguard/internal/adapters/modelfs"
	"github.com/smishguard/smishguard/internal/config"
	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// InferenceFactory creates the inference gateway and its model storage view
type InferenceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewInferenceFactory creates a new inference factory
func NewInferenceFactory(cfg *config.Config, logger *zap.Logger) *InferenceFactory {
	return &InferenceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGateway creates the local inference gateway
func (f *InferenceFactory) CreateGateway() core.InferenceGateway {
	infCfg := f.cfg.GetInference()
	return local.NewGateway(
		infCfg.Endpoint,
		infCfg.APIKey,
		infCfg.MaxTokens,
		infCfg.Temperature,
		infCfg.TopP,
		f.logger,
	)
}

// CreateModelStorage creates the filesystem-backed model storage view
func (f *InferenceFactory) CreateModelStorage() core.ModelStorage {
	infCfg := f.cfg.GetInference()
	return modelfs.NewStorage(infCfg.ModelDir, infCfg.CandidateModels, f.logger)
}
