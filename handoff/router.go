// Package handoff resolves tool invocations issued by the active agent into
// transitions: a routing decision, a termination, a pass-through data result
// or a rejection. Handlers are declared per agent in a closed table; there is
// no runtime string matching beyond the table lookup.
package handoff

import (
	"context"
	"fmt"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/gateway"
	"github.com/campusmesh/campusmesh/logging"
)

// Options holds overrides passed to NewRouter().
type Options struct {
	Logger logging.Logger
}

// Router translates a raw tool invocation plus context variables into a
// core.Transition using the issuing agent's declared handler table. Data
// query names within the agent's scopes are delegated to the gateway.
type Router struct {
	gateway *gateway.Gateway
	logger  logging.Logger
}

// NewRouter constructs a Router. The gateway may be nil when no agent
// declares external-tool scopes.
func NewRouter(gw *gateway.Gateway, optFns ...func(o *Options)) *Router {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{gateway: gw, logger: opts.Logger}
}

// Resolve maps an invocation to a transition:
//   - a declared handler resolves through its table entry (pure in vars)
//   - a declared scope forwards to the gateway and wraps rows in DataResult
//   - anything else is Rejected with ErrUnauthorizedTool.
//
// Rejections and gateway failures are per-turn conditions; the loop driver
// records them and continues with the same active agent.
func (r *Router) Resolve(ctx context.Context, desc *core.Descriptor, inv core.ToolInvocation, vars core.Vars) core.Transition {
	if h, ok := desc.Handler(inv.Name); ok {
		tr := h.Resolve(vars)
		r.logTransition(desc.Name, inv.Name, tr)
		return tr
	}

	if desc.HasScope(inv.Name) {
		if r.gateway == nil {
			return core.Rejected{Err: fmt.Errorf("%w: no gateway configured for %s", core.ErrStorageUnavailable, inv.Name)}
		}
		rows, err := r.gateway.Execute(ctx, inv.Name, inv.Arguments, desc)
		if err != nil {
			return core.Rejected{Err: err}
		}
		return core.DataResult{Rows: rows}
	}

	r.logger.Warn("router.tool.unauthorized", "agent", desc.Name, "tool", inv.Name)

	return core.Rejected{Err: fmt.Errorf("%w: %s is not declared by agent %s", core.ErrUnauthorizedTool, inv.Name, desc.Name)}
}

func (r *Router) logTransition(agent, tool string, tr core.Transition) {
	switch t := tr.(type) {
	case core.ContinueWith:
		r.logger.Info("router.handoff", "from_agent", agent, "to_agent", t.Target, "tool", tool)
	case core.Terminate:
		r.logger.Info("router.finalize", "agent", agent, "tool", tool)
	case core.Rejected:
		r.logger.Warn("router.rejected", "agent", agent, "tool", tool, "error", t.Err)
	}
}

// RouteHandler declares a dispatcher tool that always hands off to target.
// The decision is a pure function of the tool identity, never of vars or
// transcript history.
func RouteHandler(toolName, target, description string) core.Handler {
	return core.Handler{
		Name:        toolName,
		Description: description,
		Resolve: func(core.Vars) core.Transition {
			return core.ContinueWith{Target: target}
		},
	}
}

// FinalizeHandler declares a specialist tool that terminates the session.
// payload receives the current vars so closings may branch on context flags;
// the vars travel unchanged into the Terminate transition.
func FinalizeHandler(toolName, description string, payload func(vars core.Vars) string) core.Handler {
	return core.Handler{
		Name:        toolName,
		Description: description,
		Resolve: func(vars core.Vars) core.Transition {
			return core.Terminate{Payload: payload(vars), Vars: vars}
		},
	}
}
