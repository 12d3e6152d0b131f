package postprocess

import (
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Propagate reconciles every molecule of a dependency's structure with the
// same-named molecules of the species built from it, repeating until nothing
// changes. It returns the number of edits made.
func Propagate(g *depgraph.Graph, t *domain.Translator) int {
	edges := g.Edges()
	total := 0
	for {
		changed := 0
		for _, e := range edges {
			changed += reconcileSpecies(t, e[0], e[1])
		}
		total += changed
		if changed == 0 {
			return total
		}
	}
}

func reconcileSpecies(t *domain.Translator, base, dependent domain.SpeciesID) int {
	baseMols := t.Molecules(base)
	n := 0
	for _, dm := range t.Molecules(dependent) {
		for _, bm := range baseMols {
			if bm.Name != dm.Name {
				continue
			}
			if bm != dm {
				n += reconcile(bm, dm)
			}
			break
		}
	}
	return n
}

// reconcile gives both molecules the same component multiset and state
// sets.
func reconcile(a, b *domain.Molecule) int {
	n := 0
	for _, name := range componentNames(a, b) {
		ca, cb := a.ComponentsNamed(name), b.ComponentsNamed(name)
		n += pad(a, name, len(cb)-len(ca), ca, cb)
		n += pad(b, name, len(ca)-len(cb), cb, ca)
		n += unionStates(append(a.ComponentsNamed(name), b.ComponentsNamed(name)...))
	}
	return n
}

// pad adds missing copies of name to m, inactive when the other side
// carries states.
func pad(m *domain.Molecule, name string, missing int, own, other []*domain.Component) int {
	if missing <= 0 {
		return 0
	}
	stateful := false
	for _, c := range append(own, other...) {
		if c.HasStates() {
			stateful = true
			break
		}
	}
	for i := 0; i < missing; i++ {
		c := domain.NewComponent(name)
		if stateful {
			c.AddState(domain.InactiveState)
			c.ActiveState = domain.InactiveState
		}
		m.AddComponent(c)
	}
	return missing
}

func unionStates(comps []*domain.Component) int {
	var all []string
	for _, c := range comps {
		all = append(all, c.States()...)
	}
	n := 0
	for _, c := range comps {
		for _, s := range all {
			if c.AddState(s) {
				n++
			}
		}
		if c.HasStates() && c.ActiveState == "" {
			c.ActiveState = domain.InactiveState
			n++
		}
	}
	return n
}

// componentNames lists the distinct component names of a then b in
// first-seen order.
func componentNames(a, b *domain.Molecule) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range []*domain.Molecule{a, b} {
		for _, c := range m.Components {
			if !seen[c.Name] {
				seen[c.Name] = true
				out = append(out, c.Name)
			}
		}
	}
	return out
}
