package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/mapper"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/parser"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
)

func reaction(reactants, products []domain.SpeciesID) domain.Reaction {
	return domain.Reaction{Reactants: reactants, Products: products}
}

func sp(names ...string) []domain.SpeciesID {
	out := make([]domain.SpeciesID, len(names))
	for i, n := range names {
		out[i] = domain.SpeciesID(n)
	}
	return out
}

func TestClassify(t *testing.T) {
	a := lexical.NewNamingAnalyzer(lexical.NewSites(nil))

	cases := []struct {
		name      string
		reactants []domain.SpeciesID
		products  []domain.SpeciesID
		label     string
	}{
		{"association", sp("A", "B"), sp("C"), domain.ClassBinding},
		{"dissociation", sp("C"), sp("A", "B"), domain.ClassBinding},
		{"synthesis", nil, sp("A"), domain.ClassGeneration},
		{"synthesis from source", sp("Source"), sp("A"), domain.ClassGeneration},
		{"degradation", sp("A"), sp("Trash"), domain.ClassDecay},
		{"phosphorylation", sp("A"), sp("A_P"), "Phosphorylation"},
		{"conversion", sp("A"), sp("B"), domain.ClassTransformation},
		{"catalysed", sp("E", "A"), sp("E", "A_P"), domain.ClassCatalysis},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapper.Classify(reaction(tc.reactants, tc.products), a)
			assert.Equal(t, tc.label, got.Label)
		})
	}

	c := mapper.Classify(reaction(sp("A_P"), sp("A")), a)
	assert.Equal(t, domain.SpeciesID("A"), c.Base, "dephosphorylation keeps the unmodified side as base")
	assert.Equal(t, domain.SpeciesID("A_P"), c.Modified)
	assert.Equal(t, "Phosphorylation", c.Modification)

	cat := mapper.Classify(reaction(sp("E", "A"), sp("E", "A_P")), a)
	assert.Equal(t, "Phosphorylation", mapper.ModificationLabel(cat, ""))
}

func TestModificationLabel(t *testing.T) {
	conv := mapper.Classification{Label: domain.ClassTransformation, Base: "A", Modified: "B"}
	assert.Equal(t, "", mapper.ModificationLabel(conv, ""))
	assert.Equal(t, "Activation", mapper.ModificationLabel(conv, "Activation"))
	assert.Equal(t, "", mapper.ModificationLabel(conv, domain.ClassTransformation))
	assert.Equal(t, "", mapper.ModificationLabel(mapper.Classification{Label: domain.ClassBinding}, "Phosphorylation"))
}

func TestToNetwork(t *testing.T) {
	s := &parser.NetworkSpec{
		Species: []string{"A", "B"},
		Reactions: []parser.ReactionSpec{
			{ID: "phos", Reactants: []string{"A"}, Products: []string{"A_P"}, Classification: "Phosphorylation"},
			{Reactants: []string{"E", "A", "B"}, Products: []string{"E", "C"}},
		},
		ReactionsText: "0 -> E\nC -> X @Activation",
		Sites:         map[string]parser.SiteSpec{"Phosphorylation": {Component: "p", State: "P"}},
		Definitions:   map[string][]string{"C": {"A", "B"}},
		Annotations:   map[string]map[string][]string{"A": {"is": {"uniprot:P1"}}},
		Interactions:  [][]string{{"B", "A"}},
		Binding: parser.BindingSpec{
			Seeds:      [][]string{{"A", "B"}},
			Exclusions: [][]string{{"C", "A"}},
		},
	}

	n, err := mapper.ToNetwork(s, nil)
	require.NoError(t, err)

	assert.Equal(t, "network", n.Name)
	assert.Equal(t, sp("A", "B", "A_P", "E", "C", "X"), n.Species)
	require.Len(t, n.Reactions, 4)
	assert.Equal(t, "phos", n.Reactions[0].ID)
	assert.Equal(t, "r2", n.Reactions[1].ID)
	assert.Equal(t, domain.ClassBinding, n.Reactions[1].Classification)
	assert.Equal(t, sp("A", "B"), n.Reactions[1].Reactants, "catalysts are stripped from binding reactions")
	assert.Equal(t, sp("C"), n.Reactions[1].Products)
	assert.Equal(t, domain.ClassGeneration, n.Reactions[2].Classification)
	assert.Equal(t, "Activation", n.Reactions[3].Classification)

	label, ok := n.Equivalences.LabelFor("A", "A_P")
	require.True(t, ok)
	assert.Equal(t, "Phosphorylation", label)
	label, ok = n.Equivalences.LabelFor("C", "X")
	require.True(t, ok)
	assert.Equal(t, "Activation", label)

	assert.Equal(t, domain.Site{Component: "p", State: "P"}, n.Sites["Phosphorylation"])
	assert.Equal(t, sp("A", "B"), n.Definitions["C"])
	assert.Equal(t, []string{"uniprot:P1"}, n.Annotations["A"]["is"])
	assert.Equal(t, []domain.MoleculePair{{"A", "B"}}, n.Interactions)
	assert.Equal(t, []domain.MoleculePair{{"A", "B"}}, n.BondSeeds)
	assert.Equal(t, []domain.MoleculePair{{"A", "C"}}, n.BondExclusions)
}

func TestToNetwork_BadText(t *testing.T) {
	_, err := mapper.ToNetwork(&parser.NetworkSpec{ReactionsText: "-> ->"}, nil)
	assert.Error(t, err)
}
