package core

import (
	"context"
	"errors"
)

var (
	// ErrCorpusLoad is returned when a corpus asset is missing or malformed.
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrNotInitialized is returned when retrieval is used before loading.
	ErrNotInitialized = errors.New("retrieval engine not initialized")
	// ErrNoModelAvailable is returned when no usable inference model is downloaded.
	ErrNoModelAvailable = errors.New("no inference model available")
	// ErrInferenceTimeout is returned when the gateway does not finish in the bound.
	ErrInferenceTimeout = errors.New("inference timed out")
)

// ChunkFunc receives incremental model output. It is called zero or more
// times with partial text and exactly once with final = true, whose text
// may be empty.
type ChunkFunc func(text string, final bool)

// InferenceGateway defines the interface to the inference engine. The
// pipeline holds at most one Infer call in flight at any time.
type InferenceGateway interface {
	// Initialize prepares the gateway to serve the given model.
	Initialize(ctx context.Context, model ModelDescriptor) error

	// Infer streams the model's response for a prompt through onChunk.
	Infer(ctx context.Context, prompt string, onChunk ChunkFunc) error
}

// CorpusSource loads a labeled example corpus from static storage.
type CorpusSource interface {
	// Load returns all examples for the given label.
	Load(ctx context.Context, label Label) ([]LabeledExample, error)
}

// ModelStorage exposes the model download/storage collaborator.
type ModelStorage interface {
	// IsDownloaded reports whether the model's weights are present locally.
	IsDownloaded(model ModelDescriptor) bool

	// ListAvailable returns all known models in a fixed order.
	ListAvailable() []ModelDescriptor
}

// Retriever returns the nearest labeled examples for a text.
type Retriever interface {
	Retrieve(text string, k int) (*RetrievalResult, error)
}
