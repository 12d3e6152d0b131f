package depgraph

import "github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"

// Build seeds the graph from classified reactions. Every mentioned species
// becomes a node; Binding reactions with a 1:N shape add the N side as a
// candidate of the single species, whichever side it sits on.
func Build(species []domain.SpeciesID, reactions []domain.Reaction) *Graph {
	g := New()
	for _, s := range species {
		addNode(g, s)
	}
	for _, r := range reactions {
		for _, s := range r.Reactants {
			addNode(g, s)
		}
		for _, s := range r.Products {
			addNode(g, s)
		}
		if r.Classification != domain.ClassBinding {
			continue
		}
		switch {
		case len(r.Products) == 1 && len(r.Reactants) >= 2:
			g.Add(r.Products[0], domain.NewComposition(r.Reactants))
		case len(r.Reactants) == 1 && len(r.Products) >= 2:
			g.Add(r.Reactants[0], domain.NewComposition(r.Products))
		}
	}
	return g
}

func addNode(g *Graph, s domain.SpeciesID) {
	if domain.IsZeroName(string(s)) && !g.Has(s) {
		g.Add(s, domain.Zero())
		return
	}
	g.Ensure(s)
}
