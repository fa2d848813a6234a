// Package store holds the ordered list of received messages and publishes
// snapshots to subscribers on every mutation.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// Snapshot is an immutable copy of the message list, most recent first.
type Snapshot []core.Message

// Subscriber receives the full snapshot after each mutation. Callbacks run
// synchronously on the mutating goroutine and must not block for long.
type Subscriber func(Snapshot)

// MessageStore owns all received messages. Writes are serialized; snapshot
// reads may run concurrently.
type MessageStore struct {
	// notifyMu orders publications with their mutations; it is acquired
	// before mu and held across the subscriber callbacks.
	notifyMu sync.Mutex

	mu       sync.RWMutex
	messages []core.Message
	subs     map[int]Subscriber
	nextSub  int

	logger *zap.Logger
}

// NewMessageStore creates an empty message store
func NewMessageStore(logger *zap.Logger) *MessageStore {
	return &MessageStore{
		subs:   make(map[int]Subscriber),
		logger: logger,
	}
}

// Ingest creates a pending message, prepends it to the list and publishes
// the updated snapshot. It returns the new message's identity.
func (s *MessageStore) Ingest(sender, body string) string {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	msg := core.Message{
		ID:         uuid.NewString(),
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now(),
		State:      core.StatePending,
	}

	s.mu.Lock()
	s.messages = append([]core.Message{msg}, s.messages...)
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("Message ingested",
		zap.String("message_id", msg.ID),
		zap.String("sender", sender))

	notify(subs, snap)
	return msg.ID
}

// ApplyOutcome attaches an analysis outcome to the message with the given
// identity and republishes. An unknown identity is a reported no-op.
func (s *MessageStore) ApplyOutcome(messageID string, outcome *core.AnalysisOutcome) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	idx := s.indexLocked(messageID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("Outcome for unknown message dropped",
			zap.String("message_id", messageID))
		return
	}
	// An existing outcome is only replaced through re-analysis, which
	// resets the state to pending first. Anything else is stale.
	if s.messages[idx].State == core.StateComplete && s.messages[idx].Outcome != nil {
		s.mu.Unlock()
		s.logger.Warn("Stale outcome dropped",
			zap.String("message_id", messageID))
		return
	}
	s.messages[idx].Outcome = outcome
	s.messages[idx].State = core.StateComplete
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// SetState updates a message's analysis state and republishes. An unknown
// identity is a reported no-op.
func (s *MessageStore) SetState(messageID string, state core.AnalysisState) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	idx := s.indexLocked(messageID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("State change for unknown message dropped",
			zap.String("message_id", messageID),
			zap.String("state", state.String()))
		return
	}
	s.messages[idx].State = state
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Clear empties the list and publishes an empty snapshot.
func (s *MessageStore) Clear() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.messages = nil
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Get returns the message with the given identity.
func (s *MessageStore) Get(messageID string) (core.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(messageID)
	if idx < 0 {
		return core.Message{}, false
	}
	return s.messages[idx], true
}

// Snapshot returns a copy of the current message list, most recent first.
func (s *MessageStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Snapshot, len(s.messages))
	copy(snap, s.messages)
	return snap
}

// Subscribe registers fn to receive every published snapshot. The returned
// function removes the subscription.
func (s *MessageStore) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// indexLocked finds a message by identity. Callers must hold mu.
func (s *MessageStore) indexLocked(messageID string) int {
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

// snapshotLocked copies the list and the subscriber set. Callers must hold mu.
func (s *MessageStore) snapshotLocked() (Snapshot, []Subscriber) {
	snap := make(Snapshot, len(s.messages))
	copy(snap, s.messages)

	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func notify(subs []Subscriber, snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
