// Statement-level clauses: MATCH, CREATE, WITH, RETURN, UNWIND, UNION,
// DELETE, SET, REMOVE, and the Concat sequencing helper.
//
// Each clause renders to one or more lines in Cypher's own grammatical
// order (MATCH before its WHERE, RETURN before ORDER BY / SKIP / LIMIT).
// Clauses are sequenced top-to-bottom with Concat, which threads one shared
// Environment through every child; Concat is associative, so only the
// top-level ordering affects the rendered text.

package cypher

import (
	"strconv"
	"strings"
)

// ========================================
// Aliased projections
// ========================================

type aliased struct {
	expr  Expression
	alias Expression
	err   error
}

func (a *aliased) Render(env *Environment) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	expr, err := a.expr.Render(env)
	if err != nil {
		return "", err
	}
	alias, err := a.alias.Render(env)
	if err != nil {
		return "", err
	}
	return expr + " AS " + alias, nil
}

// As aliases a projection item under a fixed name: expr AS alias.
func As(expr Expression, alias string) Expression {
	a := &aliased{expr: expr, alias: rawFragment(escapeIdentifier(alias))}
	if expr == nil {
		a.err = constructionErrorf("As", "expression is nil")
	}
	return a
}

// AsRef aliases a projection item under a reference's assigned name, so
// later clauses can mention the projected value through ref.
func AsRef(expr Expression, ref Reference) Expression {
	a := &aliased{expr: expr, alias: ref}
	if expr == nil || ref == nil {
		a.err = constructionErrorf("AsRef", "expression and reference are both required")
	}
	return a
}

// ========================================
// MATCH / OPTIONAL MATCH
// ========================================

// Match renders a MATCH clause over a pattern with an optional WHERE line.
type Match struct {
	pattern  *Pattern
	optional bool
	where    []Expression
	err      error
}

// NewMatch returns a MATCH clause over pattern.
func NewMatch(pattern *Pattern) *Match {
	m := &Match{pattern: pattern}
	if pattern == nil {
		m.err = constructionErrorf("Match", "pattern is nil")
	}
	return m
}

// NewOptionalMatch returns an OPTIONAL MATCH clause over pattern.
func NewOptionalMatch(pattern *Pattern) *Match {
	m := NewMatch(pattern)
	m.optional = true
	return m
}

// Where adds a filter predicate. Multiple calls combine with AND.
func (m *Match) Where(predicate Expression) *Match {
	if m.err == nil && predicate == nil {
		m.err = constructionErrorf("Match", "Where predicate is nil")
	}
	m.where = append(m.where, predicate)
	return m
}

func (m *Match) isClause() {}

// Render emits the MATCH line plus a WHERE line when filters are present.
func (m *Match) Render(env *Environment) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	pattern, err := m.pattern.Render(env)
	if err != nil {
		return "", err
	}
	keyword := "MATCH "
	if m.optional {
		keyword = "OPTIONAL MATCH "
	}
	if len(m.where) == 0 {
		return keyword + pattern, nil
	}
	where, err := And(m.where...).Render(env)
	if err != nil {
		return "", err
	}
	return keyword + pattern + "\nWHERE " + where, nil
}

// ========================================
// CREATE
// ========================================

// Create renders a CREATE clause over a pattern with optional SET
// assignments.
type Create struct {
	pattern *Pattern
	set     []assignment
	err     error
}

// NewCreate returns a CREATE clause over pattern.
func NewCreate(pattern *Pattern) *Create {
	c := &Create{pattern: pattern}
	if pattern == nil {
		c.err = constructionErrorf("Create", "pattern is nil")
	}
	return c
}

// Set appends a property assignment rendered on a SET line after the CREATE.
func (c *Create) Set(target *PropertyRef, value Expression) *Create {
	if c.err == nil && (target == nil || value == nil) {
		c.err = constructionErrorf("Create", "Set requires a property reference and a value")
	}
	c.set = append(c.set, assignment{target: target, value: value})
	return c
}

func (c *Create) isClause() {}

// Render emits the CREATE line plus a SET line when assignments are present.
func (c *Create) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	pattern, err := c.pattern.Render(env)
	if err != nil {
		return "", err
	}
	if len(c.set) == 0 {
		return "CREATE " + pattern, nil
	}
	set, err := renderAssignments(env, c.set)
	if err != nil {
		return "", err
	}
	return "CREATE " + pattern + "\nSET " + set, nil
}

// ========================================
// WITH / RETURN
// ========================================

type orderItem struct {
	expr       Expression
	descending bool
}

// projectionClause is the shared body of WITH and RETURN: comma-separated
// projections with optional DISTINCT, ORDER BY, SKIP and LIMIT lines.
type projectionClause struct {
	keyword  string
	items    []Expression
	distinct bool
	orderBy  []orderItem
	skip     Expression
	limit    Expression
	err      error
}

func newProjectionClause(keyword string, items []Expression) *projectionClause {
	p := &projectionClause{keyword: keyword, items: items}
	if len(items) == 0 {
		p.err = constructionErrorf(keyword, "requires at least one projection")
	}
	for _, item := range items {
		if item == nil {
			p.err = constructionErrorf(keyword, "projection is nil")
			break
		}
	}
	return p
}

func (p *projectionClause) isClause() {}

func (p *projectionClause) Render(env *Environment) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	parts := make([]string, len(p.items))
	for i, item := range p.items {
		text, err := item.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	var b strings.Builder
	b.WriteString(p.keyword)
	b.WriteByte(' ')
	if p.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(parts, ", "))
	if len(p.orderBy) > 0 {
		ordered := make([]string, len(p.orderBy))
		for i, item := range p.orderBy {
			text, err := item.expr.Render(env)
			if err != nil {
				return "", err
			}
			if item.descending {
				text += " DESC"
			} else {
				text += " ASC"
			}
			ordered[i] = text
		}
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(ordered, ", "))
	}
	if p.skip != nil {
		text, err := p.skip.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString("\nSKIP ")
		b.WriteString(text)
	}
	if p.limit != nil {
		text, err := p.limit.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString("\nLIMIT ")
		b.WriteString(text)
	}
	return b.String(), nil
}

// With renders a WITH clause. RawCypher items can be projected alongside
// references, which is how externally supplied metadata fragments join a
// projection.
type With struct{ projectionClause }

// NewWith returns a WITH clause projecting items.
func NewWith(items ...Expression) *With {
	return &With{projectionClause: *newProjectionClause("WITH", items)}
}

// Distinct marks the projection DISTINCT.
func (w *With) Distinct() *With { w.distinct = true; return w }

// OrderBy appends an ascending sort key.
func (w *With) OrderBy(expr Expression) *With {
	w.orderBy = append(w.orderBy, orderItem{expr: expr})
	return w
}

// OrderByDesc appends a descending sort key.
func (w *With) OrderByDesc(expr Expression) *With {
	w.orderBy = append(w.orderBy, orderItem{expr: expr, descending: true})
	return w
}

// Skip sets the SKIP count.
func (w *With) Skip(n int) *With { w.skip = rawFragment(strconv.Itoa(n)); return w }

// Limit sets the LIMIT count.
func (w *With) Limit(n int) *With { w.limit = rawFragment(strconv.Itoa(n)); return w }

// Return renders a RETURN clause.
type Return struct{ projectionClause }

// NewReturn returns a RETURN clause projecting items.
func NewReturn(items ...Expression) *Return {
	return &Return{projectionClause: *newProjectionClause("RETURN", items)}
}

// Distinct marks the projection DISTINCT.
func (r *Return) Distinct() *Return { r.distinct = true; return r }

// OrderBy appends an ascending sort key.
func (r *Return) OrderBy(expr Expression) *Return {
	r.orderBy = append(r.orderBy, orderItem{expr: expr})
	return r
}

// OrderByDesc appends a descending sort key.
func (r *Return) OrderByDesc(expr Expression) *Return {
	r.orderBy = append(r.orderBy, orderItem{expr: expr, descending: true})
	return r
}

// Skip sets the SKIP count.
func (r *Return) Skip(n int) *Return { r.skip = rawFragment(strconv.Itoa(n)); return r }

// Limit sets the LIMIT count.
func (r *Return) Limit(n int) *Return { r.limit = rawFragment(strconv.Itoa(n)); return r }

// ========================================
// UNWIND
// ========================================

// Unwind renders UNWIND list AS variable.
type Unwind struct {
	list     Expression
	variable Reference
	err      error
}

// NewUnwind binds each element of list to variable in subsequent clauses.
func NewUnwind(list Expression, variable Reference) *Unwind {
	u := &Unwind{list: list, variable: variable}
	if list == nil {
		u.err = constructionErrorf("Unwind", "list expression is nil")
	} else if variable == nil {
		u.err = constructionErrorf("Unwind", "bound variable is nil")
	}
	return u
}

func (u *Unwind) isClause() {}

// Render emits the UNWIND line, naming the bound variable.
func (u *Unwind) Render(env *Environment) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	list, err := u.list.Render(env)
	if err != nil {
		return "", err
	}
	name, err := env.NameOf(u.variable)
	if err != nil {
		return "", err
	}
	return "UNWIND " + list + " AS " + name, nil
}

// ========================================
// UNION
// ========================================

// Union combines the results of two or more subqueries.
type Union struct {
	subqueries []Clause
	all        bool
	err        error
}

// NewUnion joins subqueries with UNION, removing duplicate rows.
func NewUnion(subqueries ...Clause) *Union {
	u := &Union{subqueries: subqueries}
	if len(subqueries) < 2 {
		u.err = constructionErrorf("Union", "requires at least two subqueries")
	}
	for _, s := range subqueries {
		if s == nil {
			u.err = constructionErrorf("Union", "subquery is nil")
			break
		}
	}
	return u
}

// NewUnionAll joins subqueries with UNION ALL, keeping duplicates.
func NewUnionAll(subqueries ...Clause) *Union {
	u := NewUnion(subqueries...)
	u.all = true
	return u
}

func (u *Union) isClause() {}

// Render emits the subqueries separated by UNION lines.
func (u *Union) Render(env *Environment) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	separator := "\nUNION\n"
	if u.all {
		separator = "\nUNION ALL\n"
	}
	parts := make([]string, len(u.subqueries))
	for i, s := range u.subqueries {
		text, err := s.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return strings.Join(parts, separator), nil
}

// ========================================
// DELETE / SET / REMOVE
// ========================================

// Delete renders DELETE (or DETACH DELETE) over references.
type Delete struct {
	refs   []Reference
	detach bool
	err    error
}

// NewDelete deletes the given references.
func NewDelete(refs ...Reference) *Delete {
	d := &Delete{refs: refs}
	if len(refs) == 0 {
		d.err = constructionErrorf("Delete", "requires at least one reference")
	}
	return d
}

// NewDetachDelete deletes nodes along with their relationships.
func NewDetachDelete(refs ...Reference) *Delete {
	d := NewDelete(refs...)
	d.detach = true
	return d
}

func (d *Delete) isClause() {}

// Render emits the delete line.
func (d *Delete) Render(env *Environment) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	parts := make([]string, len(d.refs))
	for i, ref := range d.refs {
		name, err := env.NameOf(ref)
		if err != nil {
			return "", err
		}
		parts[i] = name
	}
	keyword := "DELETE "
	if d.detach {
		keyword = "DETACH DELETE "
	}
	return keyword + strings.Join(parts, ", "), nil
}

// Set renders a standalone SET clause of property assignments.
type Set struct {
	items []assignment
	err   error
}

// NewSet starts a SET clause with one assignment; chain Add for more.
func NewSet(target *PropertyRef, value Expression) *Set {
	s := &Set{}
	return s.Add(target, value)
}

// Add appends another assignment.
func (s *Set) Add(target *PropertyRef, value Expression) *Set {
	if s.err == nil && (target == nil || value == nil) {
		s.err = constructionErrorf("Set", "requires a property reference and a value")
	}
	s.items = append(s.items, assignment{target: target, value: value})
	return s
}

func (s *Set) isClause() {}

// Render emits the SET line.
func (s *Set) Render(env *Environment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	items, err := renderAssignments(env, s.items)
	if err != nil {
		return "", err
	}
	return "SET " + items, nil
}

// Remove renders a REMOVE clause over property references.
type Remove struct {
	props []*PropertyRef
	err   error
}

// NewRemove removes the given properties.
func NewRemove(props ...*PropertyRef) *Remove {
	r := &Remove{props: props}
	if len(props) == 0 {
		r.err = constructionErrorf("Remove", "requires at least one property")
	}
	return r
}

func (r *Remove) isClause() {}

// Render emits the REMOVE line.
func (r *Remove) Render(env *Environment) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	parts := make([]string, len(r.props))
	for i, p := range r.props {
		text, err := p.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return "REMOVE " + strings.Join(parts, ", "), nil
}

// ========================================
// Concat
// ========================================

type concatClause struct {
	children []Clause
}

func (c *concatClause) isClause() {}

func (c *concatClause) Render(env *Environment) (string, error) {
	parts := make([]string, 0, len(c.children))
	for _, child := range c.children {
		text, err := child.Render(env)
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// Concat sequences clauses top-to-bottom under one Environment and one
// parameter table. Nil children are skipped and nested Concats flatten, so
// Concat(Concat(a, b), c) renders identically to Concat(a, Concat(b, c)).
// It is the only supported way to join independently constructed trees.
func Concat(clauses ...Clause) Clause {
	out := &concatClause{}
	for _, c := range clauses {
		if c == nil {
			continue
		}
		if nested, ok := c.(*concatClause); ok {
			out.children = append(out.children, nested.children...)
			continue
		}
		out.children = append(out.children, c)
	}
	return out
}

// ========================================
// Assignments (shared by CREATE SET, SET, ON CREATE SET)
// ========================================

type assignment struct {
	target *PropertyRef
	value  Expression
}

func renderAssignments(env *Environment, items []assignment) (string, error) {
	parts := make([]string, len(items))
	for i, a := range items {
		target, err := a.target.Render(env)
		if err != nil {
			return "", err
		}
		value, err := a.value.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = target + " = " + value
	}
	return strings.Join(parts, ", "), nil
}
