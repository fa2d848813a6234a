package core

import (
	"time"
)

// Label identifies which corpus a retrieval example came from.
type Label string

const (
	LabelBenign   Label = "benign"
	LabelSmishing Label = "smishing"
)

// EmbeddingDim is the fixed dimension of all corpus and query embeddings.
const EmbeddingDim = 384

// AnalysisState tracks where a message is in the analysis pipeline.
type AnalysisState int

const (
	// StatePending means the message is waiting for analysis.
	StatePending AnalysisState = iota
	// StateRunning means the message's task currently holds the inference resource.
	StateRunning
	// StateComplete means an outcome has been attached.
	StateComplete
	// StateFailed means analysis failed or timed out; no outcome was written.
	StateFailed
)

// String returns a human-readable name for the state.
func (s AnalysisState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Message represents a received SMS message and its analysis progress.
type Message struct {
	ID         string
	Sender     string
	Body       string
	ReceivedAt time.Time
	State      AnalysisState
	Outcome    *AnalysisOutcome
}

// AnalysisOutcome is the structured result parsed from the model's response.
// Immutable once constructed; attached to exactly one message.
type AnalysisOutcome struct {
	IsSmishing  bool
	Explanation string
	Tips        string
	Confidence  float64
	AnalyzedAt  time.Time
	ModelUsed   string
}

// AnalysisTask carries everything the scheduler needs to analyze one message.
type AnalysisTask struct {
	MessageID  string
	Sender     string
	Body       string
	EnqueuedAt time.Time
}

// LabeledExample is one corpus entry: text plus its precomputed embedding.
type LabeledExample struct {
	Text      string
	Label     Label
	Embedding []float32
}

// ScoredExample is a corpus entry paired with its similarity to a query.
type ScoredExample struct {
	Text  string
	Score float32
}

// RetrievalResult holds the nearest examples per label, ordered by
// non-increasing similarity and truncated to the requested k.
type RetrievalResult struct {
	Benign   []ScoredExample
	Smishing []ScoredExample
}

// ModelDescriptor identifies an inference model known to the storage layer.
type ModelDescriptor struct {
	Name string
	Path string
}
