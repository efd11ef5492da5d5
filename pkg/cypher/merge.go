// MERGE clause with ON CREATE SET support.
//
//	MERGE (this0:Movie { title: $param0 })
//	ON CREATE SET this0.year = $param1
//
// ON CREATE assignments are scoped to the creation branch only. Explicit
// input values always win over generated defaults: when two assignments
// target the same property with different intended values, the overlap is a
// ConflictError raised when the second assignment is added, never a silent
// preference for one of them.

package cypher

import "reflect"

// Merge renders a MERGE clause over a pattern, with optional ON CREATE SET
// assignments.
type Merge struct {
	pattern  *Pattern
	onCreate []assignment
	err      error
}

// NewMerge returns a MERGE clause over pattern. Matching properties belong
// on the pattern itself (Pattern.Props).
func NewMerge(pattern *Pattern) *Merge {
	m := &Merge{pattern: pattern}
	if pattern == nil {
		m.err = constructionErrorf("Merge", "pattern is nil")
	}
	return m
}

// OnCreate adds a property assignment applied only when the merge creates
// the pattern. A repeated assignment with an equal value is dropped; a
// repeated assignment with a different value records a ConflictError.
func (m *Merge) OnCreate(target *PropertyRef, value Expression) *Merge {
	if m.err != nil {
		return m
	}
	if target == nil || value == nil {
		m.err = constructionErrorf("Merge", "OnCreate requires a property reference and a value")
		return m
	}
	for _, existing := range m.onCreate {
		if existing.target.owner != target.owner || existing.target.name != target.name {
			continue
		}
		if sameIntendedValue(existing.value, value) {
			return m
		}
		m.err = &ConflictError{Property: target.name}
		return m
	}
	m.onCreate = append(m.onCreate, assignment{target: target, value: value})
	return m
}

func (m *Merge) isClause() {}

// Render emits the MERGE line plus an ON CREATE SET line when assignments
// are present.
func (m *Merge) Render(env *Environment) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	pattern, err := m.pattern.Render(env)
	if err != nil {
		return "", err
	}
	if len(m.onCreate) == 0 {
		return "MERGE " + pattern, nil
	}
	set, err := renderAssignments(env, m.onCreate)
	if err != nil {
		return "", err
	}
	return "MERGE " + pattern + "\nON CREATE SET " + set, nil
}

// sameIntendedValue reports whether two assignment values would bind the
// same data. Parameters compare by wrapped value; other expressions compare
// structurally.
func sameIntendedValue(a, b Expression) bool {
	if pa, ok := a.(*Param); ok {
		if pb, ok := b.(*Param); ok {
			return reflect.DeepEqual(pa.value, pb.value)
		}
		return false
	}
	if pa, ok := a.(*NamedParam); ok {
		if pb, ok := b.(*NamedParam); ok {
			return pa.name == pb.name && reflect.DeepEqual(pa.value, pb.value)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
