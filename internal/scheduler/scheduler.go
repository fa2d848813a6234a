// Package scheduler serializes analysis tasks onto the single inference
// resource. Tasks run strictly FIFO on one worker goroutine, which is what
// enforces the at-most-one-in-flight invariant.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/smishguard/smishguard/internal/config"
	"github.com/smishguard/smishguard/internal/core"
	"github.com/smishguard/smishguard/internal/interpret"
	"github.com/smishguard/smishguard/internal/prompt"
	"github.com/smishguard/smishguard/internal/store"
	"github.com/smishguard/smishguard/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scheduler owns the analysis pipeline: it dequeues one task at a time,
// builds the prompt, drives the inference gateway and writes the parsed
// outcome back into the message store.
type Scheduler struct {
	gateway     core.InferenceGateway
	storage     core.ModelStorage
	retriever   core.Retriever
	assembler   *prompt.Assembler
	interpreter *interpret.Interpreter
	msgStore    *store.MessageStore
	textProc    *utils.TextProcessor
	infCfg      config.InferenceConfig
	topK        int
	logger      *zap.Logger

	qmu   sync.Mutex
	queue []core.AnalysisTask
	wake  chan struct{}

	// model selection happens once, on the worker goroutine, so concurrent
	// tasks cannot race on gateway initialization.
	model      core.ModelDescriptor
	modelReady bool

	group  *errgroup.Group
	cancel context.CancelFunc
}

// New creates a scheduler. Call Start before submitting tasks.
func New(
	gateway core.InferenceGateway,
	storage core.ModelStorage,
	retriever core.Retriever,
	assembler *prompt.Assembler,
	interpreter *interpret.Interpreter,
	msgStore *store.MessageStore,
	textProc *utils.TextProcessor,
	infCfg config.InferenceConfig,
	topK int,
	logger *zap.Logger,
) *Scheduler {
	if infCfg.Timeout <= 0 {
		infCfg.Timeout = 30 * time.Second
	}
	return &Scheduler{
		gateway:     gateway,
		storage:     storage,
		retriever:   retriever,
		assembler:   assembler,
		interpreter: interpreter,
		msgStore:    msgStore,
		textProc:    textProc,
		infCfg:      infCfg,
		topK:        topK,
		logger:      logger,
		wake:        make(chan struct{}, 1),
	}
}

// Start launches the worker goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.group, ctx = errgroup.WithContext(ctx)
	s.group.Go(func() error {
		return s.run(ctx)
	})
}

// Stop shuts the worker down and waits for the in-flight task, if any, to
// finish its current step.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.group != nil {
		_ = s.group.Wait()
	}
}

// Submit ingests a message into the store and enqueues its analysis task.
// It returns the new message's identity.
func (s *Scheduler) Submit(sender, body string) string {
	id := s.msgStore.Ingest(sender, body)
	s.enqueue(core.AnalysisTask{
		MessageID:  id,
		Sender:     sender,
		Body:       body,
		EnqueuedAt: time.Now(),
	})
	return id
}

// Reanalyze re-enqueues an already stored message. This is the only path
// that may overwrite an existing outcome.
func (s *Scheduler) Reanalyze(messageID string) error {
	msg, ok := s.msgStore.Get(messageID)
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}
	s.msgStore.SetState(messageID, core.StatePending)
	s.enqueue(core.AnalysisTask{
		MessageID:  msg.ID,
		Sender:     msg.Sender,
		Body:       msg.Body,
		EnqueuedAt: time.Now(),
	})
	return nil
}

// Pending returns the number of tasks waiting in the queue.
func (s *Scheduler) Pending() int {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	return len(s.queue)
}

func (s *Scheduler) enqueue(task core.AnalysisTask) {
	s.qmu.Lock()
	s.queue = append(s.queue, task)
	s.qmu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) dequeue() (core.AnalysisTask, bool) {
	s.qmu.Lock()
	defer s.qmu.Unlock()

	if len(s.queue) == 0 {
		return core.AnalysisTask{}, false
	}
	task := s.queue[0]
	s.queue = s.queue[1:]
	return task, true
}

// run is the single worker loop. Draining the queue here, one task at a
// time, is the mutual-exclusion gate over the inference resource.
func (s *Scheduler) run(ctx context.Context) error {
	for {
		for {
			task, ok := s.dequeue()
			if !ok {
				break
			}
			s.process(ctx, task)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

// process drives one task to a terminal state.
func (s *Scheduler) process(ctx context.Context, task core.AnalysisTask) {
	logger := s.logger.With(zap.String("message_id", task.MessageID))
	logger.Debug("Task in flight",
		zap.Duration("queued_for", time.Since(task.EnqueuedAt)))

	s.msgStore.SetState(task.MessageID, core.StateRunning)

	outcome, err := s.analyze(ctx, task)
	if err != nil {
		// Failed and timed-out tasks write no outcome; the failed state
		// keeps them distinguishable from "still analyzing".
		logger.Error("Analysis failed", zap.Error(err))
		s.msgStore.SetState(task.MessageID, core.StateFailed)
		return
	}

	s.msgStore.ApplyOutcome(task.MessageID, outcome)
	logger.Info("Analysis complete",
		zap.Bool("is_smishing", outcome.IsSmishing),
		zap.String("model", outcome.ModelUsed))
}

// analyze runs the full pipeline for one task.
func (s *Scheduler) analyze(ctx context.Context, task core.AnalysisTask) (*core.AnalysisOutcome, error) {
	if err := s.ensureModel(ctx); err != nil {
		return nil, err
	}

	text := s.textProc.ProcessText(task.Body, s.infCfg.MaxBodySize)

	// Retrieval is an optional enhancement: on failure the prompt simply
	// carries no examples block.
	retrieval, err := s.retriever.Retrieve(text, s.topK)
	if err != nil {
		s.logger.Warn("Example retrieval unavailable, prompting without examples",
			zap.Error(err))
		retrieval = nil
	}

	p := s.assembler.Build(text, retrieval)

	raw, err := s.runInference(ctx, p)
	if err != nil {
		return nil, err
	}

	outcome := s.interpreter.Parse(raw)
	outcome.ModelUsed = s.model.Name
	return outcome, nil
}

// ensureModel selects and initializes the inference model once. It runs on
// the worker goroutine only, so initialization cannot race.
func (s *Scheduler) ensureModel(ctx context.Context) error {
	if s.modelReady {
		return nil
	}

	model, err := s.selectModel()
	if err != nil {
		return err
	}

	if err := s.gateway.Initialize(ctx, model); err != nil {
		return fmt.Errorf("failed to initialize inference gateway: %w", err)
	}

	s.model = model
	s.modelReady = true
	s.logger.Info("Inference model ready", zap.String("model", model.Name))
	return nil
}

// selectModel picks the preferred model if downloaded, otherwise the first
// downloaded candidate, in the configured order.
func (s *Scheduler) selectModel() (core.ModelDescriptor, error) {
	available := s.storage.ListAvailable()

	if s.infCfg.PreferredModel != "" {
		for _, m := range available {
			if m.Name == s.infCfg.PreferredModel && s.storage.IsDownloaded(m) {
				return m, nil
			}
		}
	}

	for _, name := range s.infCfg.CandidateModels {
		for _, m := range available {
			if m.Name == name && s.storage.IsDownloaded(m) {
				return m, nil
			}
		}
	}

	return core.ModelDescriptor{}, core.ErrNoModelAvailable
}

// runInference drives one gateway call, accumulating streamed chunks until
// the final marker, bounded by the configured timeout. A completion that
// arrives after the timeout is discarded so a stale outcome is never
// written over newer state.
func (s *Scheduler) runInference(ctx context.Context, p string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.infCfg.Timeout)
	defer cancel()

	done := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		var sb strings.Builder
		err := s.gateway.Infer(ctx, p, func(text string, final bool) {
			sb.WriteString(text)
			if final {
				done <- sb.String()
			}
		})
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case raw := <-done:
		return raw, nil
	case err := <-errCh:
		return "", fmt.Errorf("inference gateway error: %w", err)
	case <-ctx.Done():
		return "", core.ErrInferenceTimeout
	}
}
