package consolidation

import (
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// candidate keeps the three views of one composition the decision rules
// compare.
type candidate struct {
	raw domain.Composition
	// base is the sorted elemental multiset.
	base []domain.SpeciesID
	// final is base with modified forms substituted back in.
	final []domain.SpeciesID
}

func (cd candidate) finalKey() string { return domain.NewComposition(cd.final).Key() }

func (cd candidate) baseKey() string { return domain.NewComposition(cd.base).Key() }

func (c *Consolidator) unroll(s domain.SpeciesID, comp domain.Composition) (candidate, error) {
	var base []domain.SpeciesID
	var edges []depgraph.Constituent
	for _, m := range comp.Parts {
		if m == s {
			base = append(base, m)
			continue
		}
		base = append(base, c.resolver.Elements(m, s)...)
		mods, err := c.resolver.Modifications(m, s)
		if err != nil {
			return candidate{}, err
		}
		edges = append(edges, mods...)
	}
	final := substitute(base, edges)
	domain.SortSpecies(base)
	domain.SortSpecies(final)
	return candidate{raw: comp, base: base, final: final}, nil
}

// substitute replaces each edge's base with its modified species, once per
// edge, until nothing applies.
func substitute(base []domain.SpeciesID, edges []depgraph.Constituent) []domain.SpeciesID {
	out := append([]domain.SpeciesID(nil), base...)
	used := make([]bool, len(edges))
	for changed := true; changed; {
		changed = false
		for i, e := range edges {
			if used[i] {
				continue
			}
			if idx := indexOf(out, e.Base); idx >= 0 {
				out[idx] = e.Species
				used[i] = true
				changed = true
			}
		}
	}
	return out
}

func indexOf(list []domain.SpeciesID, s domain.SpeciesID) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func isZeroOnly(members []domain.SpeciesID) bool {
	return len(members) == 1 && members[0] == domain.ZeroSpecies
}

func distinct(members []domain.SpeciesID) []domain.SpeciesID {
	seen := map[domain.SpeciesID]bool{}
	var out []domain.SpeciesID
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// subMultiset reports whether every element of a occurs in b at least as often.
func subMultiset(a, b []domain.SpeciesID) bool {
	counts := map[domain.SpeciesID]int{}
	for _, v := range b {
		counts[v]++
	}
	for _, v := range a {
		if counts[v] == 0 {
			return false
		}
		counts[v]--
	}
	return true
}
