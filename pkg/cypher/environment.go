// Environment - the per-build naming authority and parameter accumulator.
//
// One Environment exists per Build call and is discarded after rendering.
// It owns two tables:
//
//   - reference identity -> final variable name (a bijection within the build)
//   - parameter key -> bound value
//
// Names are assigned at a reference's first render in document order and
// memoized, so the same reference resolves identically everywhere it appears,
// including inside CALL subqueries and RawCypher callbacks.

package cypher

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// reservedWords are Cypher keywords that may never be used verbatim as a
// generated variable name. A hint that sanitizes to one of these always
// receives a numeric suffix.
var reservedWords = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "ascending": true,
	"by": true, "call": true, "case": true, "contains": true, "create": true,
	"delete": true, "desc": true, "descending": true, "detach": true,
	"distinct": true, "else": true, "end": true, "ends": true, "exists": true,
	"false": true, "in": true, "is": true, "limit": true, "match": true,
	"merge": true, "not": true, "null": true, "on": true, "optional": true,
	"or": true, "order": true, "remove": true, "return": true, "set": true,
	"skip": true, "starts": true, "then": true, "true": true, "union": true,
	"unwind": true, "when": true, "where": true, "with": true, "xor": true,
}

// Environment maps references to rendered names and accumulates bound
// parameters for one Build invocation. It is not safe for concurrent use;
// independent builds each own their own Environment.
type Environment struct {
	names  map[Reference]string
	used   map[string]bool
	params map[string]any
	keys   map[*Param]string
	prefix string
	nextP  int
}

// NewEnvironment returns an empty Environment. Anonymous parameter keys are
// allocated as prefix + "param" + N.
func NewEnvironment(paramPrefix string) *Environment {
	return &Environment{
		names:  make(map[Reference]string),
		used:   make(map[string]bool),
		params: make(map[string]any),
		keys:   make(map[*Param]string),
		prefix: paramPrefix,
	}
}

// NameOf returns the final rendered name for ref, allocating one on first
// encounter. Allocation derives the name from the reference's hint, sanitized
// to a valid identifier, with a numeric suffix appended when the bare hint is
// reserved or already claimed by a different reference. A reference is never
// renamed after its first allocation within the same build.
func (e *Environment) NameOf(ref Reference) (string, error) {
	if name, ok := e.names[ref]; ok {
		return name, nil
	}

	if nv, ok := ref.(*NamedVariable); ok {
		if e.used[nv.name] {
			return "", renderErrorf("name %q already assigned to a different reference", nv.name)
		}
		e.names[ref] = nv.name
		e.used[nv.name] = true
		return nv.name, nil
	}

	base := sanitizeHint(ref.hint())
	name := base
	if reservedWords[strings.ToLower(name)] || e.used[name] {
		for i := 0; ; i++ {
			name = base + strconv.Itoa(i)
			if !e.used[name] {
				break
			}
		}
	}
	e.names[ref] = name
	e.used[name] = true
	return name, nil
}

// Params returns a copy of the accumulated parameter table.
func (e *Environment) Params() map[string]any {
	out := make(map[string]any, len(e.params))
	for k, v := range e.params {
		out[k] = v
	}
	return out
}

// keyFor allocates (or returns the memoized) parameter key for p. Two
// distinct Param instances are independent bindings even when they wrap equal
// values; a single instance reachable twice binds exactly once.
func (e *Environment) keyFor(p *Param) string {
	if key, ok := e.keys[p]; ok {
		return key
	}
	key := e.prefix + "param" + strconv.Itoa(e.nextP)
	e.nextP++
	e.keys[p] = key
	e.params[key] = p.value
	return key
}

// bind records a caller-chosen parameter key, as used by NamedParam and by
// parameter maps returned from RawCypher callbacks. Re-binding the same key
// to an equal value is a no-op; a differing value is a render error.
func (e *Environment) bind(key string, value any) error {
	if existing, ok := e.params[key]; ok {
		if !reflect.DeepEqual(existing, value) {
			return renderErrorf("parameter %q bound twice with different values", key)
		}
		return nil
	}
	e.params[key] = value
	return nil
}

// sanitizeHint reduces a naming hint to a valid Cypher identifier: letters,
// digits and underscores, starting with a letter or underscore. An empty or
// fully stripped hint falls back to "var".
func sanitizeHint(hint string) string {
	var b strings.Builder
	for _, r := range hint {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		}
	}
	if b.Len() == 0 {
		return "var"
	}
	return b.String()
}
