package dispatch

import (
	"context"
	"strconv"

	"github.com/booger-dev/booger/internal/errkit"
)

// Call is one (name, arguments) pair as submitted to a tool-call
// handler, batched or not.
type Call struct {
	Name      string
	Arguments map[string]any
}

// Handler invokes one named tool with its arguments and returns its
// shaped result or a tool-level error.
type Handler func(ctx context.Context, call Call) (string, error)

// batchToolName is the reserved tool name that triggers batch dispatch
// instead of being routed to a handler.
const batchToolName = "batch"

// RunBatch executes calls through handle in submission order, one
// after another, and collects one result per call. It rejects more
// than BatchLimit calls or a nested batch before running any inner
// call, per spec.md's batching rule.
func RunBatch(ctx context.Context, calls []Call, handle Handler) ([]string, error) {
	if len(calls) > BatchLimit {
		return nil, errkit.New(errkit.ErrCodeBatchLimit, "batch exceeds the maximum of 20 calls", nil).
			WithDetail("count", strconv.Itoa(len(calls)))
	}
	for _, c := range calls {
		if c.Name == batchToolName {
			return nil, errkit.New(errkit.ErrCodeBatchLimit, "nested batch calls are not allowed", nil)
		}
	}

	results := make([]string, 0, len(calls))
	for _, c := range calls {
		out, err := handle(ctx, c)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}
