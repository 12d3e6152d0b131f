package lexical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
)

func ids(s ...string) []domain.SpeciesID {
	out := make([]domain.SpeciesID, len(s))
	for i, v := range s {
		out[i] = domain.SpeciesID(v)
	}
	return out
}

func TestSites_UserOverridesAndSynthesis(t *testing.T) {
	sites := lexical.NewSites(map[string]domain.Site{"Phosphorylation": {Component: "p", State: "P"}})
	assert.Equal(t, domain.Site{Component: "p", State: "P"}, sites.For("Phosphorylation"))
	assert.Equal(t, domain.Site{Component: "ubiq", State: "Ub"}, sites.For("Ubiquitination"))
	assert.Equal(t, domain.Site{Component: "glycosylation", State: "glycosylation"}, sites.For("Glycosylation"))
	assert.Equal(t, domain.SpeciesID("A_P"), lexical.ConstructedName("A", sites.For("Phosphorylation")))
}

func TestClassifyModification(t *testing.T) {
	a := lexical.NewNamingAnalyzer(lexical.NewSites(nil))
	cases := []struct {
		from, to string
		label    string
		ok       bool
	}{
		{"A", "A_P", "Phosphorylation", true},
		{"A", "pA", "Phosphorylation", true},
		{"EGFR", "EGFR-Ub", "Ubiquitination", true},
		{"Ras", "Ras_active", "Activation", true},
		{"A", "B", "", false},
		{"A", "A_xyz", "", false},
		{"A", "A", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			label, ok := a.ClassifyModification(domain.SpeciesID(tc.from), domain.SpeciesID(tc.to))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.label, label)
		})
	}
}

func TestAnalyzeSpeciesModification(t *testing.T) {
	a := lexical.NewNamingAnalyzer(lexical.NewSites(map[string]domain.Site{"Phosphorylation": {Component: "p", State: "P"}}))

	t.Run("suffix keyword", func(t *testing.T) {
		m, ok := a.AnalyzeSpeciesModification("A_B", "A_P_B", ids("A", "B"))
		require.True(t, ok)
		assert.Equal(t, domain.SpeciesID("A"), m.Constituent)
		assert.Equal(t, "Phosphorylation", m.Label)
		assert.Equal(t, []domain.Pair{{Base: "A", Modified: "A_P"}}, m.Equivalences)
	})

	t.Run("fused prefix", func(t *testing.T) {
		m, ok := a.AnalyzeSpeciesModification("A_B", "pA_B", ids("A", "B"))
		require.True(t, ok)
		assert.Equal(t, domain.SpeciesID("A"), m.Constituent)
	})

	t.Run("two modified constituents are ambiguous", func(t *testing.T) {
		_, ok := a.AnalyzeSpeciesModification("A_B", "A_P_B_P", ids("A", "B"))
		assert.False(t, ok)
	})

	t.Run("no keyword", func(t *testing.T) {
		_, ok := a.AnalyzeSpeciesModification("A_B", "A_B_x", ids("A", "B"))
		assert.False(t, ok)
	})
}

func TestGreedyModificationMatch(t *testing.T) {
	a := lexical.NewNamingAnalyzer(lexical.NewSites(nil))

	c, ok := a.GreedyModificationMatch("EGF_EGFR", ids("EGF", "EGFR", "EGF_EGFR"))
	require.True(t, ok)
	assert.True(t, c.Equal(domain.Binding("EGF", "EGFR")))

	c, ok = a.GreedyModificationMatch("A_P_B", ids("A", "A_P", "B"))
	require.True(t, ok)
	assert.True(t, c.Equal(domain.Binding("A_P", "B")), "longest match first")

	c, ok = a.GreedyModificationMatch("A_P", ids("A"))
	require.True(t, ok)
	assert.Equal(t, domain.Modification("A"), c)

	_, ok = a.GreedyModificationMatch("A_X", ids("A"))
	assert.False(t, ok)
	_, ok = a.GreedyModificationMatch("A_P_B", ids("A", "B"))
	assert.False(t, ok, "modified complexes need an intermediate")
	_, ok = a.GreedyModificationMatch("A", ids("A"))
	assert.False(t, ok)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 3, lexical.LongestCommonSubstring("a_p_b", "a_p"))
	assert.Equal(t, 0, lexical.LongestCommonSubstring("", "a"))
	assert.Greater(t,
		lexical.Similarity("A_P_B", ids("A_P", "B")),
		lexical.Similarity("A_P_B", ids("A", "B_P")))
	assert.Equal(t, []string{"EGFR", "P"}, lexical.Split("EGFR_P"))
	assert.Equal(t, []string{"a", "b", "c"}, lexical.Split("a-b:c"))
}
