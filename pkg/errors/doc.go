// Package errors provides structured error types for better observability
// and programmatic error handling across craftgraph.
//
// Registry builds distinguish a source that could not be read from a source
// that was read but holds a bad entry:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeMalformed,
//	    "invalid stack in crafting recipe",
//	    parseErr,
//	    map[string]any{
//	        "path":  "recipes/vanilla.yaml",
//	        "index": 3,
//	    },
//	)
//
// Callers branch on the code with CodeOf or HasCode.
package errors
