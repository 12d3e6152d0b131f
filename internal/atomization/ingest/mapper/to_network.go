package mapper

import (
	"fmt"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/parser"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
)

const defaultName = "network"

func ids(names []string) []domain.SpeciesID {
	out := make([]domain.SpeciesID, 0, len(names))
	for _, n := range names {
		out = append(out, domain.SpeciesID(strings.TrimSpace(n)))
	}
	return out
}

func pairs(raw [][]string) []domain.MoleculePair {
	out := make([]domain.MoleculePair, 0, len(raw))
	for _, p := range raw {
		if len(p) == 2 {
			out = append(out, domain.NewMoleculePair(strings.TrimSpace(p[0]), strings.TrimSpace(p[1])))
		}
	}
	return out
}

// ToNetwork turns a validated document into the classified network handed
// to the atomizer. Reactions without a classification are labeled by shape
// and naming, and single-species modifications are recorded as equivalences.
func ToNetwork(s *parser.NetworkSpec, a lexical.Analyzer) (*domain.Network, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = defaultName
	}
	n := domain.NewNetwork(name)

	for label, site := range s.Sites {
		n.Sites[label] = domain.Site{Component: site.Component, State: site.State}
	}
	if a == nil {
		a = lexical.NewNamingAnalyzer(lexical.NewSites(n.Sites))
	}

	for _, sp := range ids(s.Species) {
		n.AddSpecies(sp)
	}

	for label, list := range s.Equivalences {
		for _, p := range list {
			if len(p) == 2 {
				n.Equivalences.Add(label, domain.SpeciesID(strings.TrimSpace(p[0])), domain.SpeciesID(strings.TrimSpace(p[1])))
			}
		}
	}

	text, err := parser.ParseReactionText(s.ReactionsText)
	if err != nil {
		return nil, fmt.Errorf("parse reactions_text: %w", err)
	}
	specs := append(append([]parser.ReactionSpec(nil), s.Reactions...), text...)
	for i, rs := range specs {
		r := domain.Reaction{
			ID:             rs.ID,
			Reactants:      ids(rs.Reactants),
			Products:       ids(rs.Products),
			Classification: strings.TrimSpace(rs.Classification),
			Rate:           rs.Rate,
			Reversible:     rs.Reversible,
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("r%d", i+1)
		}
		for _, sp := range r.Reactants {
			n.AddSpecies(sp)
		}
		for _, sp := range r.Products {
			n.AddSpecies(sp)
		}

		c := Classify(r, a)
		if label := ModificationLabel(c, r.Classification); label != "" {
			n.Equivalences.Add(label, c.Base, c.Modified)
		}
		if r.Classification == "" {
			r.Classification = c.Label
		}
		if r.Classification == domain.ClassBinding {
			r.Reactants, r.Products = removeCatalysts(r.Reactants, r.Products)
		}
		n.Reactions = append(n.Reactions, r)
	}

	for sp, members := range s.Definitions {
		n.Definitions[domain.SpeciesID(strings.TrimSpace(sp))] = ids(members)
	}
	for sp, ann := range s.Annotations {
		out := domain.Annotation{}
		for rel, uris := range ann {
			out[rel] = append([]string(nil), uris...)
		}
		n.Annotations[domain.SpeciesID(strings.TrimSpace(sp))] = out
	}
	n.Interactions = pairs(s.Interactions)
	n.BondSeeds = pairs(s.Binding.Seeds)
	n.BondExclusions = pairs(s.Binding.Exclusions)
	return n, nil
}
