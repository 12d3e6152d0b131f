package depgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

func ids(s ...string) []domain.SpeciesID {
	out := make([]domain.SpeciesID, len(s))
	for i, v := range s {
		out[i] = domain.SpeciesID(v)
	}
	return out
}

func TestBuild_BindingBothDirections(t *testing.T) {
	g := depgraph.Build(ids("A", "B", "C"), []domain.Reaction{
		{Reactants: ids("A", "B"), Products: ids("C"), Classification: domain.ClassBinding},
		{Reactants: ids("C"), Products: ids("B", "A"), Classification: domain.ClassBinding},
		{Reactants: ids("X"), Products: ids("Y", "Z"), Classification: domain.ClassBinding},
		{Reactants: ids("A"), Products: ids("A_P"), Classification: "Phosphorylation"},
		{Reactants: ids("Trash"), Products: ids("B"), Classification: domain.ClassGeneration},
	})

	assert.Len(t, g.Candidates("C"), 1, "the dissociation repeats the same candidate")
	assert.True(t, g.Candidates("X")[0].Equal(domain.Binding("Y", "Z")))
	assert.True(t, g.Has("A_P"))
	assert.Empty(t, g.Candidates("A_P"), "non-binding reactions only add nodes")
	assert.Equal(t, 8, g.Len())

	zero, ok := g.Primary("Trash")
	require.True(t, ok)
	assert.Equal(t, domain.KindZero, zero.Kind)
}

func TestGraph_SetBumpsVersion(t *testing.T) {
	g := depgraph.New()
	g.Add("C", domain.Binding("A", "B"))
	g.Add("C", domain.Binding("B", "A"))
	v := g.Version()
	require.Len(t, g.Candidates("C"), 1)

	g.Set("C", domain.Elemental())
	assert.Greater(t, g.Version(), v)
	assert.Empty(t, g.Candidates("C"))
	c, ok := g.Primary("C")
	assert.True(t, ok)
	assert.Equal(t, domain.KindElemental, c.Kind)
}

func chainGraph() *depgraph.Graph {
	g := depgraph.New()
	for _, s := range ids("A", "B") {
		g.Ensure(s)
	}
	g.Set("C", domain.Binding("A", "B"))
	g.Set("A_P", domain.Modification("A"))
	g.Set("D", domain.Binding("A_P", "C"))
	return g
}

func TestResolver_Elements(t *testing.T) {
	r := depgraph.NewResolver(chainGraph())
	assert.Equal(t, ids("A", "A", "B"), r.Elements("D"))
	assert.Equal(t, ids("A"), r.Elements("A"))
	assert.Equal(t, ids("Q"), r.Elements("Q"), "absent species resolve to themselves")
}

func TestResolver_ModificationEdges(t *testing.T) {
	r := depgraph.NewResolver(chainGraph())
	edges, err := r.Modifications("D")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, depgraph.Constituent{Species: "A_P", Base: "A"}, edges[0])
	assert.True(t, edges[0].IsModification())

	edges, err = r.Modifications("A")
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestResolver_CycleOnlyFailsWithModifications(t *testing.T) {
	g := depgraph.New()
	g.Set("X", domain.Modification("Y"))
	g.Set("Y", domain.Modification("X"))
	r := depgraph.NewResolver(g)

	_, err := r.Modifications("X")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycle))
	var ce *domain.CycleError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ids("Y", "X", "Y"), ce.Path)

	assert.Equal(t, ids("Y"), r.Elements("X"))
}

func TestResolver_CacheFollowsGraphVersion(t *testing.T) {
	g := chainGraph()
	r := depgraph.NewResolver(g)

	r.Elements("C")
	misses := r.Misses
	r.Elements("C")
	assert.Equal(t, misses, r.Misses)
	assert.GreaterOrEqual(t, r.Hits, 1)

	g.Set("C", domain.Binding("A", "B", "B"))
	assert.Equal(t, ids("A", "B", "B"), r.Elements("C"))
}

func TestWeights_OrderAndMonotonicity(t *testing.T) {
	g := chainGraph()
	order := depgraph.Order(g)

	got := make([]domain.SpeciesID, len(order))
	for i, w := range order {
		got[i] = w.Species
	}
	assert.Equal(t, ids("A", "B", "A_P", "C", "D"), got)
	assert.Equal(t, 6, depgraph.Weigh(g, "D"))

	for _, s := range g.Species() {
		c, _ := g.Primary(s)
		if c.IsTrivial(s) {
			continue
		}
		for _, m := range c.Parts {
			assert.Greater(t, depgraph.Weigh(g, s), depgraph.Weigh(g, m), "%s over %s", s, m)
		}
	}
}

func TestGraph_TableAndDependents(t *testing.T) {
	g := chainGraph()
	table := g.Table()
	assert.Equal(t, []string{"A", "B"}, table["C"])
	assert.Equal(t, []string{}, table["A"])
	assert.Equal(t, ids("A_P", "C"), g.Dependents("A"))
	assert.Len(t, g.Edges(), 5)
}
