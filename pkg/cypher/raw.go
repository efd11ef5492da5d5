// RawCypher - the hand-authored escape hatch.
//
// A RawCypher callback runs during the render pass with the live
// Environment, so a hand-written fragment can look up the assigned name of
// any other tree member and contribute its own parameters to the shared
// table. Fragments should only reference nodes guaranteed to have been
// visited earlier in document order; asking NameOf for an unseen reference
// allocates its name at that point.

package cypher

import "sort"

// RawCallback produces a Cypher fragment and optional parameters given the
// build's Environment. The returned map may be nil.
type RawCallback func(env *Environment) (string, map[string]any, error)

// RawCypher embeds a caller-authored fragment into the tree. It can stand in
// expression or clause position.
type RawCypher struct {
	fn  RawCallback
	err error
}

// NewRawCypher returns a fragment produced by fn at render time.
func NewRawCypher(fn RawCallback) *RawCypher {
	r := &RawCypher{fn: fn}
	if fn == nil {
		r.err = constructionErrorf("RawCypher", "callback is nil")
	}
	return r
}

// NewRawCypherString returns a fixed fragment with no parameters.
func NewRawCypherString(text string) *RawCypher {
	return NewRawCypher(func(*Environment) (string, map[string]any, error) {
		return text, nil, nil
	})
}

func (r *RawCypher) isClause() {}

// Render invokes the callback and merges its parameters into the table.
// Keys bind in sorted order so repeated builds fail deterministically on a
// conflicting key.
func (r *RawCypher) Render(env *Environment) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	text, params, err := r.fn(env)
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := env.bind(k, params[k]); err != nil {
				return "", err
			}
		}
	}
	return text, nil
}
