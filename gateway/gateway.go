// Package gateway forwards agent-issued data-query tool calls to the storage
// collaborator. It is purely pass-through: the only logic it owns is the
// caller's scope check. It never caches, retries or transforms results.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/logging"
	"github.com/campusmesh/campusmesh/storage"
)

// ReadQueryTool is the external-tool name specialists use to run read
// queries against the storage collaborator.
const ReadQueryTool = "read_query"

// queryArgs is the expected argument payload for read_query invocations.
type queryArgs struct {
	Query string `json:"query"`
}

// Options holds overrides passed to New().
type Options struct {
	Logger logging.Logger
}

// Gateway verifies caller scopes and forwards queries to the collaborator.
type Gateway struct {
	store  storage.Querier
	logger logging.Logger
}

// New constructs a Gateway over the given storage collaborator.
func New(store storage.Querier, optFns ...func(o *Options)) *Gateway {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{store: store, logger: opts.Logger}
}

// Execute verifies the caller's declared external-tool scope includes
// toolName, then forwards the query to the storage collaborator and returns
// raw result rows.
func (g *Gateway) Execute(ctx context.Context, toolName, args string, caller *core.Descriptor) ([]map[string]any, error) {
	if caller == nil || !caller.HasScope(toolName) {
		name := "<nil>"
		if caller != nil {
			name = caller.Name
		}
		g.logger.Warn("gateway.scope.denied", "tool", toolName, "agent", name)
		return nil, fmt.Errorf("%w: agent %s may not call %s", core.ErrScopeViolation, name, toolName)
	}

	var qa queryArgs
	if args != "" {
		if err := json.Unmarshal([]byte(args), &qa); err != nil {
			return nil, fmt.Errorf("invalid %s arguments: %w", toolName, err)
		}
	}
	if qa.Query == "" {
		return nil, fmt.Errorf("missing required field 'query'")
	}

	start := time.Now()
	rows, err := g.store.Query(ctx, qa.Query)
	if err != nil {
		g.logger.Error("gateway.query.error", "tool", toolName, "agent", caller.Name, "error", err.Error())
		return nil, err
	}

	g.logger.Info("gateway.query.success", "tool", toolName, "agent", caller.Name, "rows", len(rows), "duration_ms", time.Since(start).Milliseconds())

	return rows, nil
}
