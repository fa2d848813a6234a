package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smishguard/smishguard/internal/config"
	"github.com/smishguard/smishguard/internal/retrieval"
	"github.com/smishguard/smishguard/internal/scheduler"
	"github.com/smishguard/smishguard/internal/store"
)

func testFlags() *CLIFlags {
	return &CLIFlags{
		Endpoint:     "http://localhost:8080/v1",
		Model:        "phi-3-mini",
		MaxTokens:    256,
		Temperature:  0.2,
		TopP:         0.9,
		MaxBodySize:  1024,
		Timeout:      "15s",
		ModelDir:     "./models",
		TopK:         3,
		AssetDir:     "./assets",
		TemplatePath: "./assets/prompt_template.txt",
	}
}

func TestBuildCLIContainerProvidesConsoleLogger(t *testing.T) {
	flags := testFlags()
	flags.Verbose = true

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(logger *zap.Logger) {
		defer logger.Sync()
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerConfigFromFlags(t *testing.T) {
	container, err := BuildCLIContainer(testFlags())
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config) {
		inf := cfg.GetInference()
		assert.Equal(t, "http://localhost:8080/v1", inf.Endpoint)
		assert.Equal(t, "phi-3-mini", inf.PreferredModel)
		assert.Equal(t, 3, cfg.GetRetrieval().TopK)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerResolvesPipeline(t *testing.T) {
	container, err := BuildCLIContainer(testFlags())
	require.NoError(t, err)

	err = container.Invoke(func(
		logger *zap.Logger,
		engine *retrieval.Engine,
		sched *scheduler.Scheduler,
		msgStore *store.MessageStore,
	) {
		defer logger.Sync()
		assert.NotNil(t, engine)
		assert.NotNil(t, sched)
		assert.NotNil(t, msgStore)
	})
	require.NoError(t, err)
}

func TestBuildContainerResolvesPipeline(t *testing.T) {
	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(
		logger *zap.Logger,
		engine *retrieval.Engine,
		sched *scheduler.Scheduler,
		msgStore *store.MessageStore,
	) {
		defer logger.Sync()
		assert.NotNil(t, engine)
		assert.NotNil(t, sched)
		assert.NotNil(t, msgStore)
	})
	require.NoError(t, err)
}
