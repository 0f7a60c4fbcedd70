package core

// Transition is the result of resolving a tool invocation issued by the
// active agent. Concrete transition types implement the unexported
// isTransition marker enabling a closed set:
//
//   - ContinueWith: switch the active agent to Target
//   - Terminate: end the session with a closing Payload
//   - DataResult: pass-through data query rows, active agent unchanged
//   - Rejected: the invocation was not permitted or failed, recorded as a
//     turn-level failure, active agent unchanged
type Transition interface{ isTransition() }

// ContinueWith is a routing decision handing off control to another agent.
type ContinueWith struct {
	Target string // target agent identifier
}

func (ContinueWith) isTransition() {}

// Terminate ends the session. Payload becomes the final agent message in the
// transcript; Vars is the context as returned by the finalize handler.
type Terminate struct {
	Payload string
	Vars    Vars
}

func (Terminate) isTransition() {}

// DataResult carries raw rows returned by a pass-through data query.
type DataResult struct {
	Rows []map[string]any
}

func (DataResult) isTransition() {}

// Rejected marks an invocation that was refused or failed. The wrapped error
// is recorded in the transcript; the session continues with the same agent.
type Rejected struct {
	Err error
}

func (Rejected) isTransition() {}
