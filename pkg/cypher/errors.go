// Error types for the Cypher query builder.
//
// Validation is eager: a malformed node records its error at construction
// time, and the first recorded error aborts the enclosing Build call. The
// builder never retries, never suppresses, and never emits partial query
// text.

package cypher

import "fmt"

// ConstructionError reports a clause or expression assembled without a
// required child, for example a Merge with a nil pattern. It is created at
// the constructor call that received the bad input and surfaced from Build.
type ConstructionError struct {
	// Node names the AST constructor that rejected its input.
	Node string
	// Reason describes what was missing or malformed.
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cypher: invalid %s: %s", e.Node, e.Reason)
}

// ConflictError reports two creation-time assignments targeting the same
// property with different intended values. Neither value is silently
// preferred; the caller must resolve the overlap.
type ConflictError struct {
	// Property is the rendered-style target, e.g. "year".
	Property string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cypher: conflicting assignments for property %q", e.Property)
}

// RenderError reports a state discovered only during the render pass, such
// as two named variables claiming the same identifier. These are rare by
// construction since most invariants are checked eagerly.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "cypher: render failed: " + e.Reason
}

func constructionErrorf(node, format string, args ...any) error {
	return &ConstructionError{Node: node, Reason: fmt.Sprintf(format, args...)}
}

func renderErrorf(format string, args ...any) error {
	return &RenderError{Reason: fmt.Sprintf(format, args...)}
}
