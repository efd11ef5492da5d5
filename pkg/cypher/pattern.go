// Graph patterns for MATCH, CREATE and MERGE clauses.
//
// A pattern is an ordered chain of node and relationship steps with optional
// property-equality constraints, e.g.
//
//	(this0:Movie { title: $param0 })<-[this1:ACTED_IN]-(this2:Person)
//
// Patterns are stateless once constructed; names and parameter keys are
// resolved by the Environment at render time.

package cypher

import (
	"sort"
	"strings"
)

// Direction is the orientation of a relationship step relative to the
// preceding node.
type Direction int

const (
	// Outgoing renders -[...]->.
	Outgoing Direction = iota
	// Incoming renders <-[...]-.
	Incoming
	// Undirected renders -[...]-.
	Undirected
)

type patternNode struct {
	node  *Node
	props map[string]Expression
}

type patternRel struct {
	rel       *Relationship
	direction Direction
	props     map[string]Expression
}

// Pattern describes a node/relationship chain. Build one with NewPattern,
// then alternate Related and To calls; Props constrains the most recently
// added step.
type Pattern struct {
	nodes   []*patternNode
	rels    []*patternRel
	pending bool
	err     error
}

// NewPattern starts a pattern at n.
func NewPattern(n *Node) *Pattern {
	p := &Pattern{}
	if n == nil {
		p.err = constructionErrorf("Pattern", "starting node is nil")
		return p
	}
	p.nodes = append(p.nodes, &patternNode{node: n})
	return p
}

// Props adds property-equality constraints to the most recently added step.
// Values are typically parameters; ConvertValue is convenient for raw maps.
func (p *Pattern) Props(props map[string]Expression) *Pattern {
	if p.err != nil {
		return p
	}
	if p.pending {
		last := p.rels[len(p.rels)-1]
		if last.props == nil {
			last.props = make(map[string]Expression, len(props))
		}
		for k, v := range props {
			last.props[k] = v
		}
		return p
	}
	last := p.nodes[len(p.nodes)-1]
	if last.props == nil {
		last.props = make(map[string]Expression, len(props))
	}
	for k, v := range props {
		last.props[k] = v
	}
	return p
}

// Related extends the pattern with a relationship step. It must be followed
// by To before the pattern renders.
func (p *Pattern) Related(r *Relationship, dir Direction) *Pattern {
	if p.err != nil {
		return p
	}
	if r == nil {
		p.err = constructionErrorf("Pattern", "relationship is nil")
		return p
	}
	if p.pending {
		p.err = constructionErrorf("Pattern", "two consecutive relationship steps; call To between Related calls")
		return p
	}
	p.rels = append(p.rels, &patternRel{rel: r, direction: dir})
	p.pending = true
	return p
}

// To closes the most recent Related step with its target node.
func (p *Pattern) To(n *Node) *Pattern {
	if p.err != nil {
		return p
	}
	if n == nil {
		p.err = constructionErrorf("Pattern", "target node is nil")
		return p
	}
	if !p.pending {
		p.err = constructionErrorf("Pattern", "To without a preceding Related")
		return p
	}
	p.nodes = append(p.nodes, &patternNode{node: n})
	p.pending = false
	return p
}

// Render emits the full pattern fragment.
func (p *Pattern) Render(env *Environment) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.pending {
		return "", constructionErrorf("Pattern", "relationship step has no target node")
	}

	var b strings.Builder
	text, err := renderNodeStep(env, p.nodes[0])
	if err != nil {
		return "", err
	}
	b.WriteString(text)
	for i, rel := range p.rels {
		relText, err := renderRelStep(env, rel)
		if err != nil {
			return "", err
		}
		b.WriteString(relText)
		nodeText, err := renderNodeStep(env, p.nodes[i+1])
		if err != nil {
			return "", err
		}
		b.WriteString(nodeText)
	}
	return b.String(), nil
}

func renderNodeStep(env *Environment, step *patternNode) (string, error) {
	name, err := env.NameOf(step.node)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, label := range step.node.Labels() {
		b.WriteByte(':')
		b.WriteString(escapeIdentifier(label))
	}
	props, err := renderProps(env, step.props)
	if err != nil {
		return "", err
	}
	b.WriteString(props)
	b.WriteByte(')')
	return b.String(), nil
}

func renderRelStep(env *Environment, step *patternRel) (string, error) {
	name, err := env.NameOf(step.rel)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(name)
	if t := step.rel.Type(); t != "" {
		b.WriteByte(':')
		b.WriteString(escapeIdentifier(t))
	}
	props, err := renderProps(env, step.props)
	if err != nil {
		return "", err
	}
	b.WriteString(props)
	b.WriteByte(']')

	switch step.direction {
	case Incoming:
		return "<-" + b.String() + "-", nil
	case Undirected:
		return "-" + b.String() + "-", nil
	default:
		return "-" + b.String() + "->", nil
	}
}

// renderProps emits an inline property map, keys sorted for deterministic
// output. An empty map renders to nothing.
func renderProps(env *Environment, props map[string]Expression) (string, error) {
	if len(props) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		text, err := props[k].Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = escapeIdentifier(k) + ": " + text
	}
	return " { " + strings.Join(parts, ", ") + " }", nil
}
