package postprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/postprocess"
)

func mol(name string, comps ...*domain.Component) *domain.Molecule {
	return &domain.Molecule{Name: name, Components: comps}
}

func bonded(name string, bonds ...int) *domain.Component {
	c := domain.NewComponent(name)
	c.Bonds = bonds
	return c
}

func site(name, active string, states ...string) *domain.Component {
	c := domain.NewComponent(name, states...)
	c.ActiveState = active
	return c
}

func put(t *domain.Translator, id domain.SpeciesID, mols ...*domain.Molecule) {
	sp := &domain.Species{}
	for _, m := range mols {
		sp.Molecules = append(sp.Molecules, t.Arena().Add(m))
	}
	t.Set(id, sp)
}

func dimerGraph() *depgraph.Graph {
	g := depgraph.New()
	g.Ensure("A")
	g.Ensure("B")
	g.Set("C", domain.Binding("A", "B"))
	return g
}

func TestDeduplicate_DropsLaterIsomorph(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "X", mol("A", bonded("b", 1)), mol("B", bonded("a", 1)))
	put(tr, "Y", mol("B", bonded("a", 7)), mol("A", bonded("b", 7)))
	put(tr, "Z", mol("A"))
	put(tr, "Trash")
	put(tr, "Sink")
	log := assumptions.New(nil)

	got := postprocess.Deduplicate(tr, []domain.SpeciesID{"X", "Y", "Z", "Trash", "Sink"}, log)

	require.Len(t, got, 1)
	assert.Equal(t, domain.SpeciesID("X"), got[0].Kept)
	assert.Equal(t, domain.SpeciesID("Y"), got[0].Dropped)
	assert.False(t, tr.Has("Y"))
	assert.True(t, tr.Has("X"))
	assert.True(t, tr.Has("Trash"))
	assert.True(t, tr.Has("Sink"), "empty species are not collisions")

	entries := log.ByKind(assumptions.KindCollision)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"X", "Y"}, entries[0].Species)
}

func TestPropagate_BaseLearnsFromComplex(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "A", mol("A"))
	put(tr, "B", mol("B"))
	put(tr, "C", mol("A", bonded("b", 1)), mol("B", bonded("a", 1), site("p", "P", "0", "P")))

	n := postprocess.Propagate(dimerGraph(), tr)

	assert.Positive(t, n)
	assert.Equal(t, "A(b)", tr.Render("A"))
	assert.Equal(t, "B(a,p~0)", tr.Render("B"))
	assert.Equal(t, []string{"0", "P"}, tr.Molecules("B")[0].Component("p").States())
	assert.Equal(t, "A(b!1).B(a!1,p~P)", tr.Render("C"))
}

func TestPropagate_ComplexLearnsFromBase(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "A", mol("A", site("p", "0", "0", "P")))
	put(tr, "B", mol("B"))
	put(tr, "C", mol("A", bonded("b", 1)), mol("B", bonded("a", 1)))

	postprocess.Propagate(dimerGraph(), tr)

	assert.Equal(t, "A(b!1,p~0).B(a!1)", tr.Render("C"))
	assert.Equal(t, "A(p~0,b)", tr.Render("A"))
}

func TestPropagate_Idempotent(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "A", mol("A", site("p", "0", "0", "P")))
	put(tr, "B", mol("B"))
	put(tr, "C", mol("A", bonded("b", 1), bonded("b", 2)), mol("B", bonded("a", 1)), mol("B", bonded("a", 2)))
	g := dimerGraph()

	require.Positive(t, postprocess.Propagate(g, tr))
	before := map[domain.SpeciesID]string{}
	for _, id := range tr.IDs() {
		before[id] = tr.Render(id)
	}

	assert.Zero(t, postprocess.Propagate(g, tr))
	for _, id := range tr.IDs() {
		assert.Equal(t, before[id], tr.Render(id))
	}
	assert.Equal(t, 2, tr.Molecules("A")[0].Count("b"), "repeat counts are matched")
}

func TestRename_TrimsUnderscores(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "X", mol("X", site("_p_", "_P", "_P", "0")))

	assert.Positive(t, postprocess.Rename(tr))
	assert.Equal(t, "X(p~P)", tr.Render("X"))
}

func TestRename_RenumbersSelfNamedStates(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "K", mol("K", site("kinase", "0", "0", "kinase")))
	put(tr, "K_kinase", mol("K", site("kinase", "kinase", "0", "kinase")))
	put(tr, "S", mol("S", site("mod", "mod", "0", "mod")))

	postprocess.Rename(tr)

	assert.Equal(t, "K(kinase~0)", tr.Render("K"))
	assert.Equal(t, "K(kinase~1)", tr.Render("K_kinase"))
	assert.Equal(t, []string{"0", "1"}, tr.Molecules("K_kinase")[0].Component("kinase").States())
	assert.Equal(t, "S(mod~mod)", tr.Render("S"), "short names are left alone")
}

func TestRename_SuffixesDuplicates(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "E", mol("E", site("mod", "x", "0", "x"), site("mod", "y", "0", "y"), domain.NewComponent("b")))

	postprocess.Rename(tr)

	assert.Equal(t, "E(mod1~x,mod2~y,b)", tr.Render("E"))
}

func TestRun_Report(t *testing.T) {
	tr := domain.NewTranslator(domain.NewArena())
	put(tr, "A", mol("A"))
	put(tr, "B", mol("B"))
	put(tr, "C", mol("A", bonded("b", 1)), mol("B", bonded("a", 1)))
	put(tr, "C2", mol("B", bonded("a", 3)), mol("A", bonded("b", 3)))
	log := assumptions.New(nil)

	r := postprocess.Run(dimerGraph(), tr, []domain.SpeciesID{"A", "B", "C", "C2"}, log, nil)

	require.Len(t, r.Collisions, 1)
	assert.Equal(t, domain.SpeciesID("C2"), r.Collisions[0].Dropped)
	assert.Equal(t, 2, r.Propagated)
	assert.Equal(t, "A(b)", tr.Render("A"))
}
