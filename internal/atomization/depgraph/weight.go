package depgraph

import (
	"sort"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

type Weight struct {
	Species domain.SpeciesID `json:"species" yaml:"species"`
	Value   int              `json:"weight" yaml:"weight"`
}

// Weigh returns 1 plus the weight of each constituent, counting elemental
// or zero constituents as 1.
func Weigh(g *Graph, s domain.SpeciesID) int {
	return weigh(g, s, map[domain.SpeciesID]bool{s: true})
}

func weigh(g *Graph, s domain.SpeciesID, onPath map[domain.SpeciesID]bool) int {
	comp, _ := g.Primary(s)
	if comp.IsTrivial(s) || comp.Kind == domain.KindZero {
		return 1
	}
	total := 1
	for _, m := range comp.Parts {
		mc, _ := g.Primary(m)
		if onPath[m] || mc.IsTrivial(m) || mc.Kind == domain.KindZero {
			total++
			continue
		}
		onPath[m] = true
		total += weigh(g, m, onPath)
		delete(onPath, m)
	}
	return total
}

// Order weighs every species and sorts ascending by weight, then name
// length, then name.
func Order(g *Graph) []Weight {
	out := make([]Weight, 0, g.Len())
	for _, s := range g.Species() {
		out = append(out, Weight{Species: s, Value: Weigh(g, s)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		if len(a.Species) != len(b.Species) {
			return len(a.Species) < len(b.Species)
		}
		return a.Species < b.Species
	})
	return out
}
