package mcpserver

import (
	"errors"
	"fmt"

	"github.com/booger-dev/booger/internal/errkit"
)

// Tool-level errors surface as a result payload with an isError flag,
// never as a JSON-RPC protocol error — the go-sdk's stdio transport
// already produces the -32700/-32600/-32601/-32602/-32603 family for
// malformed requests, unknown methods, and bad params before a request
// ever reaches a tool handler, so this package never constructs those
// codes itself.

// ToolError is what a tool handler returns for a validation or
// precondition failure; its Error() text is what the client sees.
type ToolError struct {
	Code    string
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

// mapToolError converts an internal error into a client-facing one,
// preserving a BoogerError's human-readable message and dropping
// internal stack/cause detail that isn't the caller's business.
func mapToolError(err error) error {
	if err == nil {
		return nil
	}
	var be *errkit.BoogerError
	if errors.As(err, &be) {
		return &ToolError{Code: be.Code, Message: be.Message}
	}
	return &ToolError{Code: errkit.ErrCodeInternal, Message: fmt.Sprintf("internal error: %v", err)}
}
