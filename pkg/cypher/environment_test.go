// Unit tests for the Environment naming authority.

package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========================================
// Name Allocation Tests
// ========================================

func TestNameOfDistinctReferences(t *testing.T) {
	env := NewEnvironment("")

	n1 := NewNode("Movie")
	n2 := NewNode("Movie")
	r1 := NewRelationship("ACTED_IN")

	name1, err := env.NameOf(n1)
	require.NoError(t, err)
	name2, err := env.NameOf(n2)
	require.NoError(t, err)
	name3, err := env.NameOf(r1)
	require.NoError(t, err)

	assert.Equal(t, "this", name1)
	assert.Equal(t, "this0", name2)
	assert.Equal(t, "this1", name3)
}

func TestNameOfIsMemoized(t *testing.T) {
	env := NewEnvironment("")
	n := NewNode()

	first, err := env.NameOf(n)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := env.NameOf(n)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNameOfHintSanitization(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want string
	}{
		{name: "plain hint", hint: "movie", want: "movie"},
		{name: "spaces and punctuation stripped", hint: "my var!", want: "myvar"},
		{name: "leading digits dropped", hint: "123abc", want: "abc"},
		{name: "interior digits kept", hint: "node42", want: "node42"},
		{name: "empty hint falls back", hint: "", want: "var"},
		{name: "symbols only falls back", hint: "$$$", want: "var"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironment("")
			name, err := env.NameOf(NewVariable(tt.hint))
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestNameOfReservedKeyword(t *testing.T) {
	env := NewEnvironment("")

	// A hint that sanitizes to a Cypher keyword is suffixed, never emitted
	// bare and never dropped.
	name, err := env.NameOf(NewVariable("match"))
	require.NoError(t, err)
	assert.Equal(t, "match0", name)

	name, err = env.NameOf(NewVariable("Where"))
	require.NoError(t, err)
	assert.Equal(t, "Where0", name)
}

func TestNameOfNamedVariable(t *testing.T) {
	env := NewEnvironment("")

	nv := NewNamedVariable("userNode")
	name, err := env.NameOf(nv)
	require.NoError(t, err)
	assert.Equal(t, "userNode", name)

	// Generated allocation skips the reserved name.
	v := NewVariable("userNode")
	generated, err := env.NameOf(v)
	require.NoError(t, err)
	assert.Equal(t, "userNode0", generated)
}

func TestNamedVariableCollisionIsRenderError(t *testing.T) {
	env := NewEnvironment("")

	_, err := env.NameOf(NewNamedVariable("n"))
	require.NoError(t, err)

	_, err = env.NameOf(NewNamedVariable("n"))
	require.Error(t, err)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

// ========================================
// Build-level Naming Properties
// ========================================

func TestBuildNamesAreBijective(t *testing.T) {
	// Composing fragments built in isolation may rename references, but
	// within one build no two references ever share a name.
	nodes := make([]*Node, 10)
	clauses := make([]Clause, 10)
	for i := range nodes {
		nodes[i] = NewNode("Thing")
		clauses[i] = NewMatch(NewPattern(nodes[i]))
	}

	result, err := Build(Concat(clauses...), "")
	require.NoError(t, err)

	env := NewEnvironment("")
	seen := make(map[string]bool)
	for _, n := range nodes {
		name, err := env.NameOf(n)
		require.NoError(t, err)
		assert.False(t, seen[name], "name %q assigned twice", name)
		seen[name] = true
	}
	assert.NotEmpty(t, result.Query)
}

func TestBuildIsDeterministic(t *testing.T) {
	build := func() *Result {
		movie := NewNode("Movie")
		match := NewMatch(NewPattern(movie)).
			Where(Eq(movie.Property("title"), NewParam("The Matrix")))
		result, err := Build(Concat(match, NewReturn(movie)), "")
		require.NoError(t, err)
		return result
	}

	first := build()
	second := build()
	assert.Equal(t, first.Query, second.Query)
	assert.Equal(t, first.Params, second.Params)
}

func TestConcatIsAssociative(t *testing.T) {
	makeClauses := func() (Clause, Clause, Clause) {
		movie := NewNode("Movie")
		person := NewNode("Person")
		a := NewMatch(NewPattern(movie))
		b := NewMatch(NewPattern(person))
		c := NewReturn(movie, person)
		return a, b, c
	}

	a, b, c := makeClauses()
	left, err := Build(Concat(Concat(a, b), c), "")
	require.NoError(t, err)

	a, b, c = makeClauses()
	right, err := Build(Concat(a, Concat(b, c)), "")
	require.NoError(t, err)

	assert.Equal(t, left.Query, right.Query)
	assert.Equal(t, left.Params, right.Params)
}
