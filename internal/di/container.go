package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/smishguard/smishguard/internal/config"
	"github.com/smishguard/smishguard/internal/core"
	"github.com/smishguard/smishguard/internal/factory"
	"github.com/smishguard/smishguard/internal/interpret"
	"github.com/smishguard/smishguard/internal/logging"
	"github.com/smishguard/smishguard/internal/prompt"
	"github.com/smishguard/smishguard/internal/retrieval"
	"github.com/smishguard/smishguard/internal/scheduler"
	"github.com/smishguard/smishguard/internal/store"
	"github.com/smishguard/smishguard/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// driven by the config file
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := registerPipeline(container); err != nil {
		return nil, err
	}

	return container, nil
}

// registerPipeline registers the analysis pipeline providers shared by the
// config-file and flag-driven containers
func registerPipeline(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewCorpusFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewInferenceFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}

	// Register corpus source
	if err := container.Provide(func(f *factory.CorpusFactory) (core.CorpusSource, error) {
		return f.CreateCorpusSource()
	}); err != nil {
		return err
	}

	// Register retrieval engine, both as itself and as the Retriever port
	if err := container.Provide(retrieval.NewEngine); err != nil {
		return err
	}
	if err := container.Provide(func(e *retrieval.Engine) core.Retriever {
		return e
	}); err != nil {
		return err
	}

	// Register prompt assembler
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *prompt.Assembler {
		return prompt.NewAssembler(cfg.GetPrompt().TemplatePath, logger)
	}); err != nil {
		return err
	}

	// Register response interpreter
	if err := container.Provide(interpret.NewInterpreter); err != nil {
		return err
	}

	// Register inference gateway and model storage
	if err := container.Provide(func(f *factory.InferenceFactory) core.InferenceGateway {
		return f.CreateGateway()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.InferenceFactory) core.ModelStorage {
		return f.CreateModelStorage()
	}); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register message store
	if err := container.Provide(store.NewMessageStore); err != nil {
		return err
	}

	// Register scheduler
	if err := container.Provide(func(
		gateway core.InferenceGateway,
		storage core.ModelStorage,
		retriever core.Retriever,
		assembler *prompt.Assembler,
		interpreter *interpret.Interpreter,
		msgStore *store.MessageStore,
		textProc *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) *scheduler.Scheduler {
		return scheduler.New(
			gateway,
			storage,
			retriever,
			assembler,
			interpreter,
			msgStore,
			textProc,
			cfg.GetInference(),
			cfg.GetRetrieval().TopK,
			logger,
		)
	}); err != nil {
		return err
	}

	return nil
}
