package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusmesh/campusmesh/core"
)

// resolveInvocations resolves every tool invocation of a turn through the
// router in issue order. Agents with ParallelToolCalls enabled have their
// invocations dispatched concurrently (bounded by MaxParallelResolves), but
// results are always joined and returned in the original order; no
// partial-turn transition is observable by the caller.
func (r *Runner) resolveInvocations(ctx context.Context, desc *core.Descriptor, invs []core.ToolInvocation, vars core.Vars) []core.Transition {
	n := len(invs)
	if n == 0 {
		return nil
	}

	if !desc.ParallelToolCalls || n == 1 {
		out := make([]core.Transition, n)
		for i, inv := range invs {
			out[i] = r.resolveOne(ctx, desc, inv, vars)
		}
		return out
	}

	maxPar := r.maxParallelResolves
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	out := make([]core.Transition, n)
	sem := make(chan struct{}, maxPar)
	var wg sync.WaitGroup

	for i := range invs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, inv core.ToolInvocation) {
			defer wg.Done()
			defer func() { <-sem }()

			out[idx] = r.resolveOne(ctx, desc, inv, vars)
		}(i, invs[i])
	}

	wg.Wait()

	for i := range out {
		if out[i] == nil { // cancelled before dispatch
			out[i] = core.Rejected{Err: ctx.Err()}
		}
	}

	return out
}

// resolveOne guards a single router resolution against handler panics.
func (r *Runner) resolveOne(ctx context.Context, desc *core.Descriptor, inv core.ToolInvocation, vars core.Vars) (tr core.Transition) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("runner.resolve.panic", "agent", desc.Name, "tool", inv.Name, "recover", rec)
			tr = core.Rejected{Err: fmt.Errorf("tool %s panicked: %v", inv.Name, rec)}
		}
	}()

	return r.router.Resolve(ctx, desc, inv, vars)
}
