// Package runner implements the conversation loop driver: it invokes the
// active agent through the external executor, appends produced messages to
// the transcript, applies the handoff router's decisions and detects
// termination. Turns within a session execute strictly sequentially; tool
// invocations inside a turn may be resolved concurrently but are always
// joined before the next transition is decided.
package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
	"github.com/campusmesh/campusmesh/handoff"
	"github.com/campusmesh/campusmesh/logging"
	"github.com/campusmesh/campusmesh/registry"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxTurns bounds the number of conversation turns per session. The
	// limit exists to stop executors that keep producing handoffs; 0 means
	// unlimited.
	MaxTurns int
	// MaxParallelResolves bounds concurrent tool resolution within one turn
	// for agents with ParallelToolCalls enabled.
	MaxParallelResolves int
	// ClosingSentinel is the transcript substring recognized as a completed
	// closing when an agent finalizes via plain text instead of a tool.
	ClosingSentinel string
	// Logger receives structured session-scoped entries.
	Logger logging.Logger
}

// Runner drives sessions from the initial user query to a terminal state.
// It is safe for concurrent use; each Run owns its session exclusively.
type Runner struct {
	registry   *registry.Registry
	router     *handoff.Router
	exec       executor.Executor
	dispatcher string

	maxTurns            int
	maxParallelResolves int
	closingSentinel     string
	logger              logging.Logger
}

// New constructs a Runner starting every session at the named dispatcher.
func New(reg *registry.Registry, router *handoff.Router, exec executor.Executor, dispatcher string, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxTurns:            10,
		MaxParallelResolves: 4,
		Logger:              logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		registry:            reg,
		router:              router,
		exec:                exec,
		dispatcher:          dispatcher,
		maxTurns:            opts.MaxTurns,
		maxParallelResolves: opts.MaxParallelResolves,
		closingSentinel:     opts.ClosingSentinel,
		logger:              opts.Logger,
	}
}

// Run executes a full session for the given user query and returns the
// caller-facing outcome. Executor failures are fatal and never retried; the
// partial transcript is preserved in the failure outcome.
func (r *Runner) Run(ctx context.Context, sessionID, userQuery string) core.Outcome {
	return r.RunWithVars(ctx, sessionID, userQuery, nil)
}

// RunWithVars is Run with pre-seeded context variables.
func (r *Runner) RunWithVars(ctx context.Context, sessionID, userQuery string, seed core.Vars) core.Outcome {
	log := logging.WithSession(r.logger, sessionID)

	if _, err := r.registry.Resolve(r.dispatcher); err != nil {
		return core.Failure(nil, err)
	}

	sess := core.NewSession(sessionID, r.dispatcher)
	sess.MergeVars(seed)
	sess.Append(0, core.NewUserMessage(userQuery))

	log.Info("runner.session.start", "agent", r.dispatcher)

	limiter := core.NewTurnLimiter(r.maxTurns)

	for turn := 0; ; turn++ {
		if err := limiter.Increment(); err != nil {
			log.Error("runner.turn.limit", "turns", limiter.Count())
			return core.Failure(sess, core.NewExecutorError(sess.GetActiveAgent(), err))
		}

		done, outcome := r.runTurn(ctx, sess, turn, log)
		if done {
			return outcome
		}
	}
}

// runTurn executes one turn; it returns (true, outcome) when the session
// reached a terminal state.
func (r *Runner) runTurn(ctx context.Context, sess *core.Session, turn int, log logging.Logger) (bool, core.Outcome) {
	agent := sess.GetActiveAgent()

	desc, err := r.registry.Resolve(agent)
	if err != nil {
		return true, core.Failure(sess, err)
	}

	log.Debug("runner.turn.start", "turn", turn, "agent", agent)

	result, err := r.exec.Invoke(ctx, desc, sess.GetTranscript(), sess.GetVars())
	if err != nil {
		log.Error("runner.executor.error", "turn", turn, "agent", agent, "error", err.Error())
		return true, core.Failure(sess, core.NewExecutorError(agent, err))
	}

	for _, msg := range result.Messages {
		sess.Append(turn, msg)
	}

	// Context as returned by the executor; DataResult calls never alter it.
	sess.MergeVars(result.Vars)

	transitions := r.resolveInvocations(ctx, desc, result.ToolInvocations, sess.GetVars())

	var terminate *core.Terminate
	var lastContinue *core.ContinueWith

	for i, tr := range transitions {
		inv := result.ToolInvocations[i]
		switch t := tr.(type) {
		case core.Terminate:
			if terminate == nil {
				terminate = &t
			}
		case core.ContinueWith:
			// Last ContinueWith wins when several are issued in one turn.
			lastContinue = &t
		case core.DataResult:
			sess.Append(turn, core.NewToolMessage(agent, encodeRows(inv.Name, t.Rows)))
		case core.Rejected:
			sess.Append(turn, core.NewToolMessage(agent, fmt.Sprintf("tool %s failed: %v", inv.Name, t.Err)))
		}
	}

	if terminate != nil {
		sess.MergeVars(terminate.Vars)
		sess.Append(turn, core.NewAgentMessage(agent, terminate.Payload))
		sess.SetActiveAgent("")
		log.Info("runner.session.terminated", "turn", turn, "agent", agent)
		return true, core.Success(sess)
	}

	if lastContinue != nil {
		if _, err := r.registry.Resolve(lastContinue.Target); err != nil {
			sess.Append(turn, core.NewToolMessage(agent, fmt.Sprintf("handoff failed: %v", err)))
		} else {
			sess.SetActiveAgent(lastContinue.Target)
			log.Info("runner.handoff", "turn", turn, "from_agent", agent, "to_agent", lastContinue.Target)
			return false, core.Outcome{}
		}
	}

	if result.NextAgent != "" {
		if _, err := r.registry.Resolve(result.NextAgent); err == nil {
			sess.SetActiveAgent(result.NextAgent)
			log.Info("runner.handoff.hint", "turn", turn, "from_agent", agent, "to_agent", result.NextAgent)
			return false, core.Outcome{}
		}
		log.Warn("runner.hint.unknown_agent", "turn", turn, "agent", result.NextAgent)
	}

	if len(result.ToolInvocations) > 0 {
		// Data queries or rejections only: same agent takes another turn.
		return false, core.Outcome{}
	}

	// No further agent and no tool invoked. Terminate deterministically when
	// the closing sentinel is already present; terminate anyway otherwise so
	// unexpected executor output can never loop forever.
	if r.closingSentinel != "" && sess.ContainsContent(r.closingSentinel) {
		log.Info("runner.session.closed_by_sentinel", "turn", turn, "agent", agent)
	} else {
		log.Info("runner.session.fallback_termination", "turn", turn, "agent", agent)
	}
	sess.SetActiveAgent("")

	return true, core.Success(sess)
}

func encodeRows(tool string, rows []map[string]any) string {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Sprintf("%s returned %d rows", tool, len(rows))
	}
	return fmt.Sprintf("%s result: %s", tool, payload)
}
