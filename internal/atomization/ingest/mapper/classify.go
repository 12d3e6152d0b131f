package mapper

import (
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
)

// Classification is the mapper's reading of one reaction. Base and Modified
// are set for single-species conversions; Modification is the lexical label
// found for that conversion, if any.
type Classification struct {
	Label        string
	Modification string
	Base         domain.SpeciesID
	Modified     domain.SpeciesID
}

// Classify labels a reaction from its shape. Species on both sides act as
// catalysts and are removed first; zero-named species count as nothing.
func Classify(r domain.Reaction, a lexical.Analyzer) Classification {
	reactants, products := removeCatalysts(dropZero(r.Reactants), dropZero(r.Products))
	catalysed := len(reactants) < len(dropZero(r.Reactants))

	switch {
	case len(reactants) == 0 && len(products) == 0:
		return Classification{Label: domain.ClassTransformation}
	case len(reactants) == 0:
		return Classification{Label: domain.ClassGeneration}
	case len(products) == 0:
		return Classification{Label: domain.ClassDecay}
	case len(reactants) >= 2 && len(products) == 1, len(reactants) == 1 && len(products) >= 2:
		return Classification{Label: domain.ClassBinding}
	case len(reactants) == 1 && len(products) == 1:
		c := Classification{Base: reactants[0], Modified: products[0]}
		if label, ok := a.ClassifyModification(c.Base, c.Modified); ok {
			c.Modification = label
		} else if label, ok := a.ClassifyModification(c.Modified, c.Base); ok {
			c.Base, c.Modified = c.Modified, c.Base
			c.Modification = label
		}
		switch {
		case catalysed:
			c.Label = domain.ClassCatalysis
		case c.Modification != "":
			c.Label = c.Modification
		default:
			c.Label = domain.ClassTransformation
		}
		return c
	}
	return Classification{Label: domain.ClassTransformation}
}

// ModificationLabel is the label a single-species conversion is recorded
// under. An explicit non-structural classification wins over naming.
func ModificationLabel(c Classification, explicit string) string {
	if c.Base == "" {
		return ""
	}
	switch explicit {
	case "", domain.ClassBinding, domain.ClassGeneration, domain.ClassDecay,
		domain.ClassTransformation, domain.ClassCatalysis:
		return c.Modification
	}
	return explicit
}

func removeCatalysts(reactants, products []domain.SpeciesID) ([]domain.SpeciesID, []domain.SpeciesID) {
	left := map[domain.SpeciesID]int{}
	for _, r := range reactants {
		left[r]++
	}
	shared := map[domain.SpeciesID]int{}
	for _, p := range products {
		if left[p] > 0 {
			left[p]--
			shared[p]++
		}
	}
	return without(reactants, shared), without(products, shared)
}

func without(list []domain.SpeciesID, drop map[domain.SpeciesID]int) []domain.SpeciesID {
	budget := make(map[domain.SpeciesID]int, len(drop))
	for k, v := range drop {
		budget[k] = v
	}
	var out []domain.SpeciesID
	for _, s := range list {
		if budget[s] > 0 {
			budget[s]--
			continue
		}
		out = append(out, s)
	}
	return out
}

func dropZero(list []domain.SpeciesID) []domain.SpeciesID {
	var out []domain.SpeciesID
	for _, s := range list {
		if !domain.IsZeroName(string(s)) {
			out = append(out, s)
		}
	}
	return out
}
