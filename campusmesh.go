// Package campusmesh provides a high-level façade over the university support
// system: the agent registry, handoff router, tool gateway and conversation
// loop driver. Most applications interact with this package by:
//  1. Creating a CampusMesh via New() with a storage path and an executor
//  2. Asking questions with Ask() or AskWithVars()
//
// The façade delegates orchestration to runner.Runner while keeping setup
// ergonomics concise. Defaults are safe for local development; production
// deployments typically supply a structured logger.
package campusmesh

import (
	"context"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
	"github.com/campusmesh/campusmesh/gateway"
	"github.com/campusmesh/campusmesh/handoff"
	"github.com/campusmesh/campusmesh/logging"
	"github.com/campusmesh/campusmesh/runner"
	"github.com/campusmesh/campusmesh/storage"
	"github.com/campusmesh/campusmesh/university"
)

// Options configures the CampusMesh instance.
type Options struct {
	// InstructionsDir optionally overrides built-in agent instructions with
	// per-agent text files.
	InstructionsDir string

	// MaxTurns bounds the number of conversation turns per session.
	MaxTurns int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// CampusMesh is the high-level façade aggregating the storage layer and the
// conversation loop driver.
type CampusMesh struct {
	store  *storage.SQLiteStore
	runner *runner.Runner
}

// New opens the campus database at storagePath, applies migrations and wires
// the full agent set around the given executor.
func New(storagePath string, exec executor.Executor, optFns ...func(o *Options)) (*CampusMesh, error) {
	opts := Options{
		MaxTurns: 10,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	store, err := storage.Open(storagePath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		return nil, err
	}

	reg, err := university.NewRegistry(university.NewInstructionSource(opts.InstructionsDir, opts.Logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	router := handoff.NewRouter(gateway.New(store, func(o *gateway.Options) {
		o.Logger = opts.Logger
	}), func(o *handoff.Options) {
		o.Logger = opts.Logger
	})

	run := runner.New(reg, router, exec, university.TriageAgent, func(o *runner.Options) {
		o.MaxTurns = opts.MaxTurns
		o.ClosingSentinel = university.ClosingMessage
		o.Logger = opts.Logger
	})

	return &CampusMesh{store: store, runner: run}, nil
}

// Ask runs a full session for the given user query under a fresh session id.
func (m *CampusMesh) Ask(ctx context.Context, query string) core.Outcome {
	return m.runner.Run(ctx, core.NewID(), query)
}

// AskWithVars is Ask with pre-seeded context variables.
func (m *CampusMesh) AskWithVars(ctx context.Context, query string, seed core.Vars) core.Outcome {
	return m.runner.RunWithVars(ctx, core.NewID(), query, seed)
}

// Close releases the underlying storage.
func (m *CampusMesh) Close() error { return m.store.Close() }
