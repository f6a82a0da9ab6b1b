package mcpserver

import "github.com/booger-dev/booger/internal/chunk"

// Tool arguments arrive as map[string]any decoded from JSON, so numbers
// surface as float64 and lists as []any regardless of the schema. These
// helpers centralize that coercion so individual tool handlers stay
// readable.

func argString(args map[string]any, key string) string {
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	return v
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func argStringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func argKind(args map[string]any, key string) chunk.Kind {
	return chunk.Kind(argString(args, key))
}
