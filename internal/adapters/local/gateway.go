// Package local implements the inference gateway against a local
// OpenAI-compatible inference server (llama.cpp server or Ollama) listening
// on localhost. Nothing leaves the machine.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// Gateway streams completions from the local inference server.
type Gateway struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger

	mu    sync.Mutex
	model string
}

// NewGateway creates a gateway against the given OpenAI-compatible endpoint.
func NewGateway(endpoint, apiKey string, maxTokens int, temperature, topP float32, logger *zap.Logger) *Gateway {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = endpoint

	return &Gateway{
		client:      openai.NewClientWithConfig(cfg),
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Initialize binds the gateway to a model. The local server loads weights
// lazily on the first completion, so this only records the selection.
func (g *Gateway) Initialize(ctx context.Context, model core.ModelDescriptor) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if model.Name == "" {
		return fmt.Errorf("model descriptor has no name")
	}
	g.model = model.Name
	g.logger.Info("Inference gateway bound to model", zap.String("model", model.Name))
	return nil
}

// Infer streams the model's response for a prompt. onChunk receives each
// delivered delta and exactly one final call, whose text may be empty.
func (g *Gateway) Infer(ctx context.Context, prompt string, onChunk core.ChunkFunc) error {
	g.mu.Lock()
	model := g.model
	g.mu.Unlock()

	if model == "" {
		return fmt.Errorf("inference gateway not initialized")
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
		Stream:      true,
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to open completion stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			onChunk("", true)
			return nil
		}
		if err != nil {
			return fmt.Errorf("completion stream failed: %w", err)
		}
		if len(resp.Choices) > 0 {
			onChunk(resp.Choices[0].Delta.Content, false)
		}
	}
}
