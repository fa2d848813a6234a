// Package retrieval implements nearest-example search over the two bundled
// labeled corpora. The corpora are small enough that a linear scan per query
// beats any index structure, so none is used.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// DefaultTopK is the number of examples returned per label when the caller
// does not override it.
const DefaultTopK = 2

// Engine retrieves the most similar labeled examples for a query text.
// Corpora are loaded once via Initialize and shared read-only across
// concurrent Retrieve calls.
type Engine struct {
	source   core.CorpusSource
	embedder *Embedder
	logger   *zap.Logger

	mu          sync.RWMutex
	benign      []core.LabeledExample
	smishing    []core.LabeledExample
	initialized bool
}

// NewEngine creates a retrieval engine backed by the given corpus source.
func NewEngine(source core.CorpusSource, logger *zap.Logger) *Engine {
	return &Engine{
		source:   source,
		embedder: NewEmbedder(core.EmbeddingDim),
		logger:   logger,
	}
}

// Initialize loads both corpora. On any load or validation error the engine
// stays uninitialized and the error wraps core.ErrCorpusLoad.
func (e *Engine) Initialize(ctx context.Context) error {
	benign, err := e.loadCorpus(ctx, core.LabelBenign)
	if err != nil {
		return err
	}
	smishing, err := e.loadCorpus(ctx, core.LabelSmishing)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.benign = benign
	e.smishing = smishing
	e.initialized = true
	e.mu.Unlock()

	e.logger.Info("Retrieval engine initialized",
		zap.Int("benign_examples", len(benign)),
		zap.Int("smishing_examples", len(smishing)))

	return nil
}

// loadCorpus fetches one label's corpus and validates embedding dimensions.
func (e *Engine) loadCorpus(ctx context.Context, label core.Label) ([]core.LabeledExample, error) {
	examples, err := e.source.Load(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrCorpusLoad, label, err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: %s corpus is empty", core.ErrCorpusLoad, label)
	}
	for i, ex := range examples {
		if len(ex.Embedding) != e.embedder.Dimensions() {
			return nil, fmt.Errorf("%w: %s corpus entry %d has dimension %d, want %d",
				core.ErrCorpusLoad, label, i, len(ex.Embedding), e.embedder.Dimensions())
		}
	}
	return examples, nil
}

// Retrieve embeds the text and returns the top-k most similar examples per
// label, sorted by non-increasing similarity. Ties keep corpus order.
func (e *Engine) Retrieve(text string, k int) (*core.RetrievalResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return nil, core.ErrNotInitialized
	}
	if k <= 0 {
		k = DefaultTopK
	}

	query := e.embedder.Embed(text)

	result := &core.RetrievalResult{
		Benign:   topK(query, e.benign, k),
		Smishing: topK(query, e.smishing, k),
	}

	e.logger.Debug("Retrieved examples",
		zap.Int("k", k),
		zap.Int("benign", len(result.Benign)),
		zap.Int("smishing", len(result.Smishing)))

	return result, nil
}

// Reset discards the loaded corpora, returning the engine to uninitialized.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.benign = nil
	e.smishing = nil
	e.initialized = false
}

// topK scores every example against the query and returns the k best.
func topK(query []float32, corpus []core.LabeledExample, k int) []core.ScoredExample {
	scored := make([]core.ScoredExample, len(corpus))
	for i, ex := range corpus {
		scored[i] = core.ScoredExample{
			Text:  ex.Text,
			Score: dot(query, ex.Embedding),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
