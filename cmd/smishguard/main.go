package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/smishguard/smishguard/internal/core"
	"github.com/smishguard/smishguard/internal/di"
	"github.com/smishguard/smishguard/internal/retrieval"
	"github.com/smishguard/smishguard/internal/scheduler"
	"github.com/smishguard/smishguard/internal/store"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container. With -config the container
	// is driven by the config file, otherwise by the command line flags.
	var (
		container *dig.Container
		err       error
	)
	if flags.ConfigFile != "" {
		container, err = di.BuildContainer()
	} else {
		container, err = di.BuildCLIContainer(flags)
	}
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(func(
		logger *zap.Logger,
		engine *retrieval.Engine,
		sched *scheduler.Scheduler,
		msgStore *store.MessageStore,
	) error {
		return run(flags, logger, engine, sched, msgStore)
	}); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	engine *retrieval.Engine,
	sched *scheduler.Scheduler,
	msgStore *store.MessageStore,
) error {
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Retrieval is optional: without it the prompt simply carries no examples.
	if err := engine.Initialize(ctx); err != nil {
		logger.Warn("Retrieval unavailable, analyzing without examples", zap.Error(err))
	}

	sched.Start(ctx)
	defer sched.Stop()

	// Print each message once it reaches a terminal state.
	var mu sync.Mutex
	printed := make(map[string]bool)
	submitted := 0
	settled := 0
	inputDone := false
	drained := make(chan struct{}, 1)

	unsubscribe := msgStore.Subscribe(func(snap store.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		for _, msg := range snap {
			if printed[msg.ID] {
				continue
			}
			switch msg.State {
			case core.StateComplete:
				printed[msg.ID] = true
				settled++
				printOutcome(msg)
			case core.StateFailed:
				printed[msg.ID] = true
				settled++
				fmt.Printf("\nFrom: %s\n%s\n=> analysis failed, retry available\n", msg.Sender, msg.Body)
			}
		}
		if inputDone && settled == submitted {
			select {
			case drained <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	// Read messages as "sender|body" lines
	var reader io.Reader = os.Stdin
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Error("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
			return err
		}
		defer file.Close()
		reader = file
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sender := "unknown"
		body := line
		if idx := strings.Index(line, "|"); idx >= 0 {
			sender = strings.TrimSpace(line[:idx])
			body = strings.TrimSpace(line[idx+1:])
		}
		mu.Lock()
		submitted++
		mu.Unlock()
		sched.Submit(sender, body)
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Failed to read input", zap.Error(err))
		return err
	}

	// Wait for outstanding analyses, or an interrupt
	mu.Lock()
	inputDone = true
	allDone := settled == submitted
	mu.Unlock()
	if !allDone {
		select {
		case <-drained:
		case <-sigCh:
			logger.Info("Interrupted, shutting down",
				zap.Int("pending_tasks", sched.Pending()))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

func printOutcome(msg core.Message) {
	verdict := "benign"
	if msg.Outcome.IsSmishing {
		verdict = "SMISHING"
	}
	fmt.Printf("\nFrom: %s\n%s\n=> %s\nExplanation: %s\nTips: %s\n",
		msg.Sender, msg.Body, verdict, msg.Outcome.Explanation, msg.Outcome.Tips)
}
