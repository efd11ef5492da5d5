package queryspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Parsing
// ============================================================================

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse([]byte("name: empty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clauses")
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("match: [unclosed"))
	require.Error(t, err)
}

// ============================================================================
// Match documents
// ============================================================================

func TestCompileMatchDocument(t *testing.T) {
	doc, err := Parse([]byte(`
name: movies-by-actor
match:
  - pattern:
      - node: { ref: person, labels: [Person], props: { name: $actor } }
      - rel: { type: ACTED_IN, direction: out }
      - node: { ref: movie, labels: [Movie] }
    where:
      - { field: movie.year, op: gt, value: 1990 }
return:
  items:
    - { expr: movie.title, as: title }
  order_by:
    - { expr: movie.year, desc: true }
  limit: 10
params:
  actor: Keanu Reeves
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)

	expected := "MATCH (person:Person { name: $actor })-[this:ACTED_IN]->(movie:Movie)\n" +
		"WHERE movie.year > $param0\n" +
		"RETURN movie.title AS title\n" +
		"ORDER BY movie.year DESC\n" +
		"LIMIT 10"
	assert.Equal(t, expected, result.Query)
	assert.Equal(t, map[string]any{
		"actor":  "Keanu Reeves",
		"param0": 1990,
	}, result.Params)
}

func TestCompileOptionalMatchAndDirections(t *testing.T) {
	doc, err := Parse([]byte(`
name: co-actors
match:
  - pattern:
      - node: { ref: movie, labels: [Movie] }
  - optional: true
    pattern:
      - node: { ref: movie }
      - rel: { ref: role, type: ACTED_IN, direction: in }
      - node: { ref: actor, labels: [Person] }
return:
  items:
    - { expr: actor }
    - { expr: role }
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)

	expected := "MATCH (movie:Movie)\n" +
		"OPTIONAL MATCH (movie:Movie)<-[role:ACTED_IN]-(actor:Person)\n" +
		"RETURN actor, role"
	assert.Equal(t, expected, result.Query)
}

func TestCompileAggregates(t *testing.T) {
	doc, err := Parse([]byte(`
name: movie-count
match:
  - pattern:
      - node: { ref: movie, labels: [Movie] }
return:
  items:
    - { fn: count, expr: "*", as: total }
    - { fn: max, expr: movie.year, as: latest }
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (movie:Movie)\nRETURN count(*) AS total, max(movie.year) AS latest", result.Query)
}

// ============================================================================
// Write documents
// ============================================================================

func TestCompileMergeDocument(t *testing.T) {
	doc, err := Parse([]byte(`
name: upsert-movie
merge:
  pattern:
    - node: { ref: movie, labels: [Movie], props: { title: $title } }
  on_create:
    movie.created: $now
params:
  title: Heat
  now: 1995
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)
	assert.Equal(t, "MERGE (movie:Movie { title: $title })\nON CREATE SET movie.created = $now", result.Query)
	assert.Equal(t, map[string]any{"title": "Heat", "now": 1995}, result.Params)
}

func TestCompileCreateWithSet(t *testing.T) {
	doc, err := Parse([]byte(`
name: new-person
prefix: p_
create:
  pattern:
    - node: { ref: person, labels: [Person] }
  set:
    person.name: Alice
    person.age: 30
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)

	// set keys apply in sorted order
	expected := "CREATE (person:Person)\nSET person.age = $p_param0, person.name = $p_param1"
	assert.Equal(t, expected, result.Query)
	assert.Equal(t, map[string]any{"p_param0": 30, "p_param1": "Alice"}, result.Params)
}

func TestCompileUnwindDocument(t *testing.T) {
	doc, err := Parse([]byte(`
name: expand-rows
unwind:
  list: $rows
  as: row
return:
  items:
    - { expr: row }
params:
  rows: [1, 2, 3]
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)
	assert.Equal(t, "UNWIND $rows AS row\nRETURN row", result.Query)
	assert.Equal(t, []any{1, 2, 3}, result.Params["rows"])
}

// ============================================================================
// Compilation errors
// ============================================================================

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown ref in where",
			yaml: `
match:
  - pattern:
      - node: { ref: person, labels: [Person] }
    where:
      - { field: movie.year, op: gt, value: 1990 }
return:
  items:
    - { expr: person }
`,
			wantErr: `unknown ref "movie"`,
		},
		{
			name: "unknown operator",
			yaml: `
match:
  - pattern:
      - node: { ref: person }
    where:
      - { field: person.name, op: like, value: A }
return:
  items:
    - { expr: person }
`,
			wantErr: `unknown operator "like"`,
		},
		{
			name: "unknown direction",
			yaml: `
match:
  - pattern:
      - node: { ref: a }
      - rel: { type: KNOWS, direction: sideways }
      - node: { ref: b }
return:
  items:
    - { expr: a }
`,
			wantErr: `unknown direction "sideways"`,
		},
		{
			name: "pattern starts with rel",
			yaml: `
match:
  - pattern:
      - rel: { type: KNOWS }
return:
  items:
    - { expr: a }
`,
			wantErr: "must start with a node",
		},
		{
			name: "rel without target",
			yaml: `
match:
  - pattern:
      - node: { ref: a }
      - rel: { type: KNOWS }
return:
  items:
    - { expr: a }
`,
			wantErr: "no target node",
		},
		{
			name: "return without items",
			yaml: `
match:
  - pattern:
      - node: { ref: a }
return:
  distinct: true
`,
			wantErr: "at least one item",
		},
		{
			name: "unknown aggregate",
			yaml: `
match:
  - pattern:
      - node: { ref: a }
return:
  items:
    - { fn: median, expr: a.x }
`,
			wantErr: `unknown aggregate "median"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = Compile(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUnboundDollarValueBindsNil(t *testing.T) {
	doc, err := Parse([]byte(`
name: missing-param
match:
  - pattern:
      - node: { ref: a, props: { id: $missing } }
return:
  items:
    - { expr: a }
`))
	require.NoError(t, err)

	result, err := Compile(doc)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (a { id: $missing })\nRETURN a", result.Query)
	assert.Contains(t, result.Params, "missing")
	assert.Nil(t, result.Params["missing"])
}
