package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/parser"
)

const networkYAML = `
name: egfr
species: [A, B, C]
reactions:
  - id: bind
    reactants: [A, B]
    products: [C]
    classification: Binding
    rate: k1
reactions_text: |
  A -> A_P @Phosphorylation
equivalences:
  Phosphorylation: [[A, A_P]]
sites:
  Phosphorylation: {component: p, state: P}
definitions:
  C: [A, B]
annotations:
  A: {is: ["uniprot:P1"]}
interactions: [[A, B]]
binding:
  seeds: [[A, B]]
  exclusions: [[A, C]]
`

func TestParseYAMLBytes(t *testing.T) {
	s, err := parser.ParseYAMLBytes([]byte(networkYAML))
	require.NoError(t, err)

	assert.Equal(t, "egfr", s.Name)
	assert.Equal(t, []string{"A", "B", "C"}, s.Species)
	require.Len(t, s.Reactions, 1)
	assert.Equal(t, "bind", s.Reactions[0].ID)
	assert.Equal(t, []string{"A", "B"}, s.Reactions[0].Reactants)
	assert.Equal(t, "k1", s.Reactions[0].Rate)
	assert.Contains(t, s.ReactionsText, "A -> A_P")
	assert.Equal(t, [][]string{{"A", "A_P"}}, s.Equivalences["Phosphorylation"])
	assert.Equal(t, parser.SiteSpec{Component: "p", State: "P"}, s.Sites["Phosphorylation"])
	assert.Equal(t, []string{"A", "B"}, s.Definitions["C"])
	assert.Equal(t, []string{"uniprot:P1"}, s.Annotations["A"]["is"])
	assert.Equal(t, [][]string{{"A", "B"}}, s.Interactions)
	assert.Equal(t, [][]string{{"A", "C"}}, s.Binding.Exclusions)
}

func TestParse_DetectsJSON(t *testing.T) {
	s, err := parser.Parse([]byte(`  {"name":"n","species":["A"],"binding":{"seeds":[["A","B"]]}}`))
	require.NoError(t, err)
	assert.Equal(t, "n", s.Name)
	assert.Equal(t, [][]string{{"A", "B"}}, s.Binding.Seeds)

	_, err = parser.Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(networkYAML), 0o644))

	s, err := parser.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "egfr", s.Name)

	_, err = parser.ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseReactionText(t *testing.T) {
	text := `
# binding
A() + B() -> C()  k1  @Binding
0 -> A
A <-> A_P @Phosphorylation; X -> 0
`
	got, err := parser.ParseReactionText(text)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, []string{"A", "B"}, got[0].Reactants)
	assert.Equal(t, []string{"C"}, got[0].Products)
	assert.Equal(t, "k1", got[0].Rate)
	assert.Equal(t, "Binding", got[0].Classification)
	assert.False(t, got[0].Reversible)

	assert.Empty(t, got[1].Reactants)
	assert.Equal(t, []string{"A"}, got[1].Products)

	assert.True(t, got[2].Reversible)
	assert.Equal(t, "Phosphorylation", got[2].Classification)
	assert.Equal(t, []string{"A_P"}, got[2].Products)

	assert.Equal(t, []string{"X"}, got[3].Reactants)
	assert.Empty(t, got[3].Products)
}

func TestParseReactionText_Errors(t *testing.T) {
	got, err := parser.ParseReactionText("   ")
	assert.NoError(t, err)
	assert.Empty(t, got)

	_, err = parser.ParseReactionText("A + -> B")
	assert.Error(t, err)
}
