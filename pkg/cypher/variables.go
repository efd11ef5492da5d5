// Variable references for the Cypher query builder.
//
// A reference is an opaque identity handle awaiting a rendered name. Identity
// is pointer identity, not the hint: two nodes created with the same labels
// are distinct entities and will receive distinct names from the Environment.
// References are immutable after construction; their assigned name lives in
// the Environment, never on the reference itself.

package cypher

import "strings"

// Reference is an identity handle for a node, relationship or variable. Its
// rendered form is simply its Environment-assigned name.
type Reference interface {
	Expression

	// hint is the human-readable seed the Environment derives a name from.
	hint() string
}

// Node is a reference to a graph node, optionally constrained by a static
// label set. The labels render inside patterns, not at reference sites.
type Node struct {
	labels   []string
	nameHint string
}

// NewNode returns a node reference carrying the given labels. Generated names
// derive from the hint "this".
func NewNode(labels ...string) *Node {
	return &Node{labels: labels}
}

// NewNodeWithHint is NewNode with a custom naming hint, for callers that
// want readable generated names (e.g. "movie" instead of "this0"). The hint
// is advisory; the Environment still disambiguates collisions.
func NewNodeWithHint(hint string, labels ...string) *Node {
	return &Node{labels: labels, nameHint: hint}
}

// Labels returns the node's static label constraints.
func (n *Node) Labels() []string { return n.labels }

// Property returns a reference to a property of this node, e.g. this0.title.
func (n *Node) Property(name string) *PropertyRef {
	return &PropertyRef{owner: n, name: name}
}

func (n *Node) hint() string {
	if n.nameHint == "" {
		return "this"
	}
	return n.nameHint
}

// Render emits the node's assigned name.
func (n *Node) Render(env *Environment) (string, error) {
	return env.NameOf(n)
}

// Relationship is a reference to a relationship, optionally constrained by a
// static type.
type Relationship struct {
	relType  string
	nameHint string
}

// NewRelationship returns a relationship reference with the given type.
// An empty type matches any relationship when used in a pattern.
func NewRelationship(relType string) *Relationship {
	return &Relationship{relType: relType}
}

// NewRelationshipWithHint is NewRelationship with a custom naming hint.
func NewRelationshipWithHint(hint, relType string) *Relationship {
	return &Relationship{relType: relType, nameHint: hint}
}

// Type returns the relationship's static type constraint.
func (r *Relationship) Type() string { return r.relType }

// Property returns a reference to a property of this relationship.
func (r *Relationship) Property(name string) *PropertyRef {
	return &PropertyRef{owner: r, name: name}
}

func (r *Relationship) hint() string {
	if r.nameHint == "" {
		return "this"
	}
	return r.nameHint
}

// Render emits the relationship's assigned name.
func (r *Relationship) Render(env *Environment) (string, error) {
	return env.NameOf(r)
}

// Variable is a generic reference, used for projection aliases, UNWIND
// bindings and comprehension/predicate bound variables.
type Variable struct {
	nameHint string
}

// NewVariable returns a fresh variable. The optional hint seeds the rendered
// name; it defaults to "var".
func NewVariable(hint ...string) *Variable {
	v := &Variable{}
	if len(hint) > 0 {
		v.nameHint = hint[0]
	}
	return v
}

// Property returns a reference to a property of this variable.
func (v *Variable) Property(name string) *PropertyRef {
	return &PropertyRef{owner: v, name: name}
}

func (v *Variable) hint() string {
	if v.nameHint == "" {
		return "var"
	}
	return v.nameHint
}

// Render emits the variable's assigned name.
func (v *Variable) Render(env *Environment) (string, error) {
	return env.NameOf(v)
}

// NamedVariable is a reference whose rendered name is fixed by the caller
// rather than generated. The Environment reserves the name on first render;
// a second distinct reference can never claim it.
type NamedVariable struct {
	name string
}

// NewNamedVariable returns a variable that renders verbatim as name.
func NewNamedVariable(name string) *NamedVariable {
	return &NamedVariable{name: name}
}

// Property returns a reference to a property of this variable.
func (v *NamedVariable) Property(name string) *PropertyRef {
	return &PropertyRef{owner: v, name: name}
}

func (v *NamedVariable) hint() string { return v.name }

// Render emits the fixed name, reserving it in the Environment.
func (v *NamedVariable) Render(env *Environment) (string, error) {
	return env.NameOf(v)
}

// PropertyRef is a property access on a reference, e.g. this0.year. It is
// both an expression and the assignment target of SET and ON CREATE SET.
type PropertyRef struct {
	owner Reference
	name  string
}

// Name returns the property name without its owner.
func (p *PropertyRef) Name() string { return p.name }

// Render emits owner.property with the owner's assigned name.
func (p *PropertyRef) Render(env *Environment) (string, error) {
	owner, err := env.NameOf(p.owner)
	if err != nil {
		return "", err
	}
	return owner + "." + escapeIdentifier(p.name), nil
}

// escapeIdentifier backtick-quotes identifiers that are not plain
// letter/digit/underscore names, per Cypher quoting rules.
func escapeIdentifier(name string) string {
	plain := name != ""
	for i, r := range name {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			continue
		}
		if '0' <= r && r <= '9' && i > 0 {
			continue
		}
		plain = false
		break
	}
	if plain {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
