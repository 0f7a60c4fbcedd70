package core

import (
	"errors"
	"fmt"
)

// Shared error taxonomy of the orchestration engine. Structural errors
// (configuration, registry misuse) abort before any transcript exists;
// per-tool errors degrade gracefully within a turn; executor errors are
// session-fatal.
var (
	// ErrConfiguration indicates missing required setup, e.g. an unset
	// storage location. Fatal before any session starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrDuplicateAgent is returned when registering an agent identifier
	// that already exists.
	ErrDuplicateAgent = errors.New("duplicate agent")

	// ErrUnknownAgent is returned when resolving an agent identifier that
	// was never registered.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrUnauthorizedTool marks a tool invocation outside the agent's
	// declared handler set. Recorded as a turn-level failure; the session
	// continues with the same active agent.
	ErrUnauthorizedTool = errors.New("unauthorized tool")

	// ErrScopeViolation marks a data query outside the agent's declared
	// external-tool scopes.
	ErrScopeViolation = errors.New("scope violation")

	// ErrStorageUnavailable indicates the storage collaborator could not be
	// reached. Surfaced to the requesting agent as a tool failure result;
	// not fatal to the session.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ExecutorError wraps a failure reported by the external executor during a
// turn. It is fatal to the session: the loop never retries and returns a
// failure outcome carrying the cause.
type ExecutorError struct {
	Agent string // agent active when the failure occurred
	Cause error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("executor error invoking agent %s: %v", e.Agent, e.Cause)
}

func (e *ExecutorError) Unwrap() error { return e.Cause }

// NewExecutorError wraps cause as a session-fatal executor failure.
func NewExecutorError(agent string, cause error) *ExecutorError {
	return &ExecutorError{Agent: agent, Cause: cause}
}
