package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smishguard/smishguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore() *MessageStore {
	return NewMessageStore(zap.NewNop())
}

func TestIngestMostRecentFirst(t *testing.T) {
	s := newStore()

	first := s.Ingest("555-0100", "first message")
	second := s.Ingest("555-0101", "second message")

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, second, snap[0].ID)
	assert.Equal(t, first, snap[1].ID)
	assert.Equal(t, core.StatePending, snap[0].State)
	assert.Nil(t, snap[0].Outcome)
}

func TestIngestPublishesSnapshot(t *testing.T) {
	s := newStore()

	var got Snapshot
	s.Subscribe(func(snap Snapshot) {
		got = snap
	})

	id := s.Ingest("555-0100", "hello")

	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
}

func TestApplyOutcome(t *testing.T) {
	s := newStore()
	id := s.Ingest("555-0100", "verify your account")

	published := 0
	s.Subscribe(func(snap Snapshot) {
		published++
	})

	outcome := &core.AnalysisOutcome{
		IsSmishing:  true,
		Explanation: "credential harvesting",
		Tips:        "do not click",
		AnalyzedAt:  time.Now(),
	}
	s.ApplyOutcome(id, outcome)

	msg, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, core.StateComplete, msg.State)
	assert.Same(t, outcome, msg.Outcome)
	assert.Equal(t, 1, published)
}

func TestApplyOutcomeUnknownIDIsNoOp(t *testing.T) {
	s := newStore()
	s.Ingest("555-0100", "hello")

	published := 0
	s.Subscribe(func(Snapshot) { published++ })

	s.ApplyOutcome("missing-id", &core.AnalysisOutcome{})

	assert.Equal(t, 0, published)
	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Nil(t, snap[0].Outcome)
}

func TestApplyOutcomeDoesNotOverwrite(t *testing.T) {
	s := newStore()
	id := s.Ingest("555-0100", "hello")

	first := &core.AnalysisOutcome{Explanation: "first"}
	s.ApplyOutcome(id, first)

	// A second outcome without a preceding re-analysis reset is stale.
	s.ApplyOutcome(id, &core.AnalysisOutcome{Explanation: "stale"})

	msg, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, first, msg.Outcome)
}

func TestApplyOutcomeAfterReanalysisReset(t *testing.T) {
	s := newStore()
	id := s.Ingest("555-0100", "hello")

	s.ApplyOutcome(id, &core.AnalysisOutcome{Explanation: "first"})
	s.SetState(id, core.StatePending)

	second := &core.AnalysisOutcome{Explanation: "second"}
	s.ApplyOutcome(id, second)

	msg, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, second, msg.Outcome)
}

func TestSetState(t *testing.T) {
	s := newStore()
	id := s.Ingest("555-0100", "hello")

	s.SetState(id, core.StateFailed)

	msg, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, core.StateFailed, msg.State)
	assert.Nil(t, msg.Outcome)
}

func TestClear(t *testing.T) {
	s := newStore()
	s.Ingest("555-0100", "one")
	s.Ingest("555-0101", "two")

	var got Snapshot
	cleared := false
	s.Subscribe(func(snap Snapshot) {
		got = snap
		cleared = true
	})

	s.Clear()

	assert.True(t, cleared)
	assert.Empty(t, got)
	assert.Empty(t, s.Snapshot())
}

func TestGetNotFound(t *testing.T) {
	s := newStore()

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := newStore()

	calls := 0
	unsubscribe := s.Subscribe(func(Snapshot) { calls++ })

	s.Ingest("555-0100", "one")
	unsubscribe()
	s.Ingest("555-0100", "two")

	assert.Equal(t, 1, calls)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStore()
	id := s.Ingest("555-0100", "hello")

	snap := s.Snapshot()
	snap[0].Body = "mutated"

	msg, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Body)
}

func TestConcurrentIngest(t *testing.T) {
	s := newStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Ingest("555-0100", fmt.Sprintf("message %d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Snapshot(), n)
}
