package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/smishguard/smishguard/internal/config"
	"github.com/smishguard/smishguard/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Inference flags
	Endpoint    string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int
	Timeout     string
	ModelDir    string

	// Retrieval flags
	TopK     int
	AssetDir string

	// Prompt flags
	TemplatePath string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Inference flags
	flag.StringVar(&flags.Endpoint, "endpoint", "http://localhost:11434/v1", "OpenAI-compatible endpoint of the local inference server")
	flag.StringVar(&flags.Model, "model", "gemma-2-2b-it", "Preferred inference model")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 512, "Maximum tokens for the model response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 2048, "Maximum message body size to send to the model")
	flag.StringVar(&flags.Timeout, "timeout", "30s", "Inference timeout")
	flag.StringVar(&flags.ModelDir, "model-dir", "./models", "Directory holding downloaded model weights")

	// Retrieval flags
	flag.IntVar(&flags.TopK, "top-k", 2, "Retrieved examples per label")
	flag.StringVar(&flags.AssetDir, "asset-dir", "./assets", "Directory holding the corpus assets")

	// Prompt flags
	flag.StringVar(&flags.TemplatePath, "template", "./assets/prompt_template.txt", "Prompt template file")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input file with one message per line (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application, with a console logger and flag-driven config
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags) *config.Config {
		return createConfigFromFlags(flags)
	}); err != nil {
		return nil, err
	}

	if err := registerPipeline(container); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("corpus.asset_dir", flags.AssetDir)
	v.Set("retrieval.top_k", flags.TopK)
	v.Set("prompt.template_path", flags.TemplatePath)

	v.Set("inference.endpoint", flags.Endpoint)
	v.Set("inference.preferred_model", flags.Model)
	v.Set("inference.model_dir", flags.ModelDir)
	v.Set("inference.max_tokens", flags.MaxTokens)
	v.Set("inference.temperature", flags.Temperature)
	v.Set("inference.top_p", flags.TopP)
	v.Set("inference.timeout", flags.Timeout)
	v.Set("inference.max_body_size", flags.MaxBodySize)

	return config.NewFromViper(v)
}
