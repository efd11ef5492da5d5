// Package queryspec compiles declarative YAML query descriptions into
// parameterized Cypher through the builder.
//
// A query description names its references, describes one or more graph
// patterns, filters, and projections, and supplies parameter values. The
// compiler translates it into a clause tree and builds it; it never parses
// Cypher text itself.
//
// Example document:
//
//	name: movies-by-actor
//	match:
//	  - pattern:
//	      - node: { ref: person, labels: [Person], props: { name: $actor } }
//	      - rel: { type: ACTED_IN, direction: out }
//	      - node: { ref: movie, labels: [Movie] }
//	    where:
//	      - { field: movie.year, op: gt, value: 1990 }
//	return:
//	  items:
//	    - { expr: movie.title, as: title }
//	  order_by:
//	    - { expr: movie.year, desc: true }
//	  limit: 10
//	params:
//	  actor: Keanu Reeves
//
// A property or filter value written as "$name" resolves against the
// document's params table and binds as a named parameter; any other value
// binds as an anonymous parameter.
package queryspec

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orneryd/cypherbuild/pkg/cypher"
)

// Document is the root of a YAML query description.
type Document struct {
	Name   string         `yaml:"name"`
	Prefix string         `yaml:"prefix"`
	Match  []MatchSpec    `yaml:"match"`
	Unwind *UnwindSpec    `yaml:"unwind"`
	Create *CreateSpec    `yaml:"create"`
	Merge  *MergeSpec     `yaml:"merge"`
	Return *ReturnSpec    `yaml:"return"`
	Params map[string]any `yaml:"params"`
}

// MatchSpec describes one MATCH clause.
type MatchSpec struct {
	Pattern  []StepSpec  `yaml:"pattern"`
	Optional bool        `yaml:"optional"`
	Where    []WhereSpec `yaml:"where"`
}

// StepSpec is one step of a pattern: exactly one of Node or Rel is set.
type StepSpec struct {
	Node *NodeSpec `yaml:"node,omitempty"`
	Rel  *RelSpec  `yaml:"rel,omitempty"`
}

// NodeSpec describes a node step.
type NodeSpec struct {
	Ref    string         `yaml:"ref"`
	Labels []string       `yaml:"labels"`
	Props  map[string]any `yaml:"props"`
}

// RelSpec describes a relationship step between two node steps.
type RelSpec struct {
	Ref       string `yaml:"ref"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"` // out (default), in, both
}

// WhereSpec is a single filter condition; conditions on one clause AND
// together.
type WhereSpec struct {
	Field string `yaml:"field"` // ref or ref.property
	Op    string `yaml:"op"`
	Value any    `yaml:"value,omitempty"`
}

// UnwindSpec describes an UNWIND clause binding As over a parameter list.
type UnwindSpec struct {
	List any    `yaml:"list"` // usually "$name"
	As   string `yaml:"as"`
}

// CreateSpec describes a CREATE clause.
type CreateSpec struct {
	Pattern []StepSpec     `yaml:"pattern"`
	Set     map[string]any `yaml:"set"` // "ref.property" -> value
}

// MergeSpec describes a MERGE clause with creation-branch assignments.
type MergeSpec struct {
	Pattern  []StepSpec     `yaml:"pattern"`
	OnCreate map[string]any `yaml:"on_create"` // "ref.property" -> value
}

// ReturnSpec describes the RETURN clause.
type ReturnSpec struct {
	Items    []ItemSpec  `yaml:"items"`
	Distinct bool        `yaml:"distinct"`
	OrderBy  []OrderSpec `yaml:"order_by"`
	Skip     int         `yaml:"skip"`
	Limit    int         `yaml:"limit"`
}

// ItemSpec is one projection: a reference or property, optionally wrapped in
// an aggregate function and optionally aliased.
type ItemSpec struct {
	Expr string `yaml:"expr"` // ref or ref.property
	Fn   string `yaml:"fn,omitempty"`
	As   string `yaml:"as,omitempty"`
}

// OrderSpec is one sort key.
type OrderSpec struct {
	Expr string `yaml:"expr"`
	Desc bool   `yaml:"desc"`
}

// Parse unmarshals and validates a YAML query description.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("queryspec: parse: %w", err)
	}
	if len(doc.Match) == 0 && doc.Create == nil && doc.Merge == nil && doc.Unwind == nil {
		return nil, fmt.Errorf("queryspec: document %q has no clauses", doc.Name)
	}
	return &doc, nil
}

// Compile translates a parsed document into a built query.
func Compile(doc *Document) (*cypher.Result, error) {
	c := &compiler{doc: doc, refs: make(map[string]cypher.Reference)}
	root, err := c.clauses()
	if err != nil {
		return nil, err
	}
	return cypher.Build(root, doc.Prefix)
}

// compiler tracks the document's named references so that filters and
// projections resolve to the same builder objects as the patterns that
// introduced them.
type compiler struct {
	doc  *Document
	refs map[string]cypher.Reference
}

func (c *compiler) clauses() (cypher.Clause, error) {
	var parts []cypher.Clause

	for i := range c.doc.Match {
		clause, err := c.matchClause(&c.doc.Match[i])
		if err != nil {
			return nil, err
		}
		parts = append(parts, clause)
	}
	if c.doc.Unwind != nil {
		clause, err := c.unwindClause(c.doc.Unwind)
		if err != nil {
			return nil, err
		}
		parts = append(parts, clause)
	}
	if c.doc.Create != nil {
		clause, err := c.createClause(c.doc.Create)
		if err != nil {
			return nil, err
		}
		parts = append(parts, clause)
	}
	if c.doc.Merge != nil {
		clause, err := c.mergeClause(c.doc.Merge)
		if err != nil {
			return nil, err
		}
		parts = append(parts, clause)
	}
	if c.doc.Return != nil {
		clause, err := c.returnClause(c.doc.Return)
		if err != nil {
			return nil, err
		}
		parts = append(parts, clause)
	}
	return cypher.Concat(parts...), nil
}

func (c *compiler) matchClause(spec *MatchSpec) (cypher.Clause, error) {
	pattern, err := c.pattern(spec.Pattern)
	if err != nil {
		return nil, err
	}
	var match *cypher.Match
	if spec.Optional {
		match = cypher.NewOptionalMatch(pattern)
	} else {
		match = cypher.NewMatch(pattern)
	}
	for _, w := range spec.Where {
		pred, err := c.condition(&w)
		if err != nil {
			return nil, err
		}
		match.Where(pred)
	}
	return match, nil
}

func (c *compiler) unwindClause(spec *UnwindSpec) (cypher.Clause, error) {
	if spec.As == "" {
		return nil, fmt.Errorf("queryspec: unwind requires 'as'")
	}
	v := cypher.NewVariable(spec.As)
	c.refs[spec.As] = v
	return cypher.NewUnwind(c.value(spec.List), v), nil
}

func (c *compiler) createClause(spec *CreateSpec) (cypher.Clause, error) {
	pattern, err := c.pattern(spec.Pattern)
	if err != nil {
		return nil, err
	}
	create := cypher.NewCreate(pattern)
	if err := c.assignments(spec.Set, func(target *cypher.PropertyRef, value cypher.Expression) {
		create.Set(target, value)
	}); err != nil {
		return nil, err
	}
	return create, nil
}

func (c *compiler) mergeClause(spec *MergeSpec) (cypher.Clause, error) {
	pattern, err := c.pattern(spec.Pattern)
	if err != nil {
		return nil, err
	}
	merge := cypher.NewMerge(pattern)
	if err := c.assignments(spec.OnCreate, func(target *cypher.PropertyRef, value cypher.Expression) {
		merge.OnCreate(target, value)
	}); err != nil {
		return nil, err
	}
	return merge, nil
}

// assignments applies "ref.property" -> value maps in sorted key order so
// compilation is deterministic.
func (c *compiler) assignments(m map[string]any, apply func(*cypher.PropertyRef, cypher.Expression)) error {
	for _, field := range sortedKeys(m) {
		target, err := c.property(field)
		if err != nil {
			return err
		}
		apply(target, c.value(m[field]))
	}
	return nil
}

func (c *compiler) returnClause(spec *ReturnSpec) (cypher.Clause, error) {
	if len(spec.Items) == 0 {
		return nil, fmt.Errorf("queryspec: return requires at least one item")
	}
	items := make([]cypher.Expression, len(spec.Items))
	for i, item := range spec.Items {
		expr, err := c.item(&item)
		if err != nil {
			return nil, err
		}
		items[i] = expr
	}
	ret := cypher.NewReturn(items...)
	if spec.Distinct {
		ret.Distinct()
	}
	for _, o := range spec.OrderBy {
		expr, err := c.expr(o.Expr)
		if err != nil {
			return nil, err
		}
		if o.Desc {
			ret.OrderByDesc(expr)
		} else {
			ret.OrderBy(expr)
		}
	}
	if spec.Skip > 0 {
		ret.Skip(spec.Skip)
	}
	if spec.Limit > 0 {
		ret.Limit(spec.Limit)
	}
	return ret, nil
}

func (c *compiler) item(spec *ItemSpec) (cypher.Expression, error) {
	var expr cypher.Expression
	if spec.Fn == "count" && spec.Expr == "*" {
		expr = cypher.CountStar()
	} else {
		inner, err := c.expr(spec.Expr)
		if err != nil {
			return nil, err
		}
		expr = inner
		if spec.Fn != "" {
			switch spec.Fn {
			case "count":
				expr = cypher.Count(inner)
			case "min":
				expr = cypher.Min(inner)
			case "max":
				expr = cypher.Max(inner)
			case "avg":
				expr = cypher.Avg(inner)
			case "sum":
				expr = cypher.Sum(inner)
			case "collect":
				expr = cypher.Collect(inner)
			default:
				return nil, fmt.Errorf("queryspec: unknown aggregate %q", spec.Fn)
			}
		}
	}
	if spec.As != "" {
		expr = cypher.As(expr, spec.As)
	}
	return expr, nil
}

// pattern builds the alternating node/rel chain, registering every named
// reference as it is introduced.
func (c *compiler) pattern(steps []StepSpec) (*cypher.Pattern, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("queryspec: pattern is empty")
	}

	node, props, err := c.nodeStep(&steps[0])
	if err != nil {
		return nil, err
	}
	pattern := cypher.NewPattern(node)
	if len(props) > 0 {
		pattern.Props(props)
	}

	i := 1
	for i < len(steps) {
		step := steps[i]
		if step.Rel == nil {
			return nil, fmt.Errorf("queryspec: pattern step %d: expected a rel step", i)
		}
		rel, dir, err := c.relStep(step.Rel)
		if err != nil {
			return nil, err
		}
		i++
		if i >= len(steps) || steps[i].Node == nil {
			return nil, fmt.Errorf("queryspec: pattern step %d: rel step has no target node", i-1)
		}
		target, targetProps, err := c.nodeStep(&steps[i])
		if err != nil {
			return nil, err
		}
		pattern.Related(rel, dir).To(target)
		if len(targetProps) > 0 {
			pattern.Props(targetProps)
		}
		i++
	}
	return pattern, nil
}

func (c *compiler) nodeStep(step *StepSpec) (*cypher.Node, map[string]cypher.Expression, error) {
	if step.Node == nil {
		return nil, nil, fmt.Errorf("queryspec: pattern must start with a node step")
	}
	spec := step.Node

	var node *cypher.Node
	if spec.Ref != "" {
		if existing, ok := c.refs[spec.Ref]; ok {
			n, isNode := existing.(*cypher.Node)
			if !isNode {
				return nil, nil, fmt.Errorf("queryspec: ref %q is not a node", spec.Ref)
			}
			node = n
		} else {
			node = cypher.NewNodeWithHint(spec.Ref, spec.Labels...)
			c.refs[spec.Ref] = node
		}
	} else {
		node = cypher.NewNode(spec.Labels...)
	}

	var props map[string]cypher.Expression
	if len(spec.Props) > 0 {
		props = make(map[string]cypher.Expression, len(spec.Props))
		for k, v := range spec.Props {
			props[k] = c.value(v)
		}
	}
	return node, props, nil
}

func (c *compiler) relStep(spec *RelSpec) (*cypher.Relationship, cypher.Direction, error) {
	var rel *cypher.Relationship
	if spec.Ref != "" {
		rel = cypher.NewRelationshipWithHint(spec.Ref, spec.Type)
		c.refs[spec.Ref] = rel
	} else {
		rel = cypher.NewRelationship(spec.Type)
	}

	switch spec.Direction {
	case "", "out":
		return rel, cypher.Outgoing, nil
	case "in":
		return rel, cypher.Incoming, nil
	case "both":
		return rel, cypher.Undirected, nil
	default:
		return nil, 0, fmt.Errorf("queryspec: unknown direction %q", spec.Direction)
	}
}

func (c *compiler) condition(spec *WhereSpec) (cypher.Expression, error) {
	field, err := c.expr(spec.Field)
	if err != nil {
		return nil, err
	}
	switch spec.Op {
	case "eq":
		return cypher.Eq(field, c.value(spec.Value)), nil
	case "gt":
		return cypher.Gt(field, c.value(spec.Value)), nil
	case "gte":
		return cypher.Gte(field, c.value(spec.Value)), nil
	case "lt":
		return cypher.Lt(field, c.value(spec.Value)), nil
	case "lte":
		return cypher.Lte(field, c.value(spec.Value)), nil
	case "in":
		return cypher.In(field, c.value(spec.Value)), nil
	case "contains":
		return cypher.Contains(field, c.value(spec.Value)), nil
	case "starts_with":
		return cypher.StartsWith(field, c.value(spec.Value)), nil
	case "ends_with":
		return cypher.EndsWith(field, c.value(spec.Value)), nil
	case "matches":
		return cypher.Matches(field, c.value(spec.Value)), nil
	case "is_null":
		return cypher.IsNull(field), nil
	case "is_not_null":
		return cypher.IsNotNull(field), nil
	default:
		return nil, fmt.Errorf("queryspec: unknown operator %q", spec.Op)
	}
}

// expr resolves "ref" to a registered reference and "ref.property" to a
// property access on one.
func (c *compiler) expr(field string) (cypher.Expression, error) {
	if field == "" {
		return nil, fmt.Errorf("queryspec: empty expression")
	}
	name, prop, hasProp := strings.Cut(field, ".")
	ref, ok := c.refs[name]
	if !ok {
		return nil, fmt.Errorf("queryspec: unknown ref %q", name)
	}
	if !hasProp {
		return ref, nil
	}
	return c.propertyOf(ref, name, prop)
}

func (c *compiler) property(field string) (*cypher.PropertyRef, error) {
	name, prop, hasProp := strings.Cut(field, ".")
	if !hasProp {
		return nil, fmt.Errorf("queryspec: %q is not a ref.property target", field)
	}
	ref, ok := c.refs[name]
	if !ok {
		return nil, fmt.Errorf("queryspec: unknown ref %q", name)
	}
	return c.propertyOf(ref, name, prop)
}

func (c *compiler) propertyOf(ref cypher.Reference, name, prop string) (*cypher.PropertyRef, error) {
	switch r := ref.(type) {
	case *cypher.Node:
		return r.Property(prop), nil
	case *cypher.Relationship:
		return r.Property(prop), nil
	case *cypher.Variable:
		return r.Property(prop), nil
	default:
		return nil, fmt.Errorf("queryspec: ref %q does not support properties", name)
	}
}

// value turns a document value into an expression. "$name" binds the
// document parameter of that name; anything else binds anonymously.
func (c *compiler) value(v any) cypher.Expression {
	if s, ok := v.(string); ok && strings.HasPrefix(s, "$") {
		name := s[1:]
		if bound, ok := c.doc.Params[name]; ok {
			return cypher.NewNamedParam(name, bound)
		}
		return cypher.NewNamedParam(name, nil)
	}
	return cypher.ConvertValue(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
