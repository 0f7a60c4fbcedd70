package core

// Handler is a tool handler declared by an agent descriptor. Resolve is a
// pure function of the supplied context variables: the same vars in produce
// the same transition out. Routing never depends on transcript history.
type Handler struct {
	// Name is the tool name the model invokes (snake_case).
	Name string
	// Description is shown to the model to guide tool selection.
	Description string
	// Resolve maps the current context variables to a transition.
	Resolve func(vars Vars) Transition
}

// Descriptor describes a conversational agent: its identifier, instruction
// text, the ordered set of tool handlers it may invoke and the external-tool
// scopes it is permitted to use. Descriptors are created at startup and are
// immutable for the lifetime of the process.
type Descriptor struct {
	// Name is the unique agent identifier.
	Name string
	// Instruction is the system prompt for the session (immutable).
	Instruction string
	// Handlers are the handoff / finalize tools this agent may invoke,
	// in declaration order.
	Handlers []Handler
	// Scopes lists external data tools the agent may call through the
	// gateway (e.g. "read_query").
	Scopes []string
	// ParallelToolCalls permits invocations issued within a single turn to
	// be resolved concurrently. All results are still joined before the
	// next transition is decided.
	ParallelToolCalls bool
}

// Handler returns the declared handler with the given tool name.
func (d *Descriptor) Handler(name string) (Handler, bool) {
	for _, h := range d.Handlers {
		if h.Name == name {
			return h, true
		}
	}
	return Handler{}, false
}

// HasScope reports whether the descriptor declares the external-tool scope.
func (d *Descriptor) HasScope(name string) bool {
	for _, s := range d.Scopes {
		if s == name {
			return true
		}
	}
	return false
}
