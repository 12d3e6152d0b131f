package consolidation

import (
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
)

// CollectHints asks the analyzer for a naming-based composition of every
// species in known.
func CollectHints(a lexical.Analyzer, known []domain.SpeciesID) map[domain.SpeciesID]domain.Composition {
	hints := map[domain.SpeciesID]domain.Composition{}
	for _, s := range known {
		if domain.IsZeroName(string(s)) {
			continue
		}
		if c, ok := a.GreedyModificationMatch(s, known); ok && !c.Contains(s) {
			hints[s] = c
		}
	}
	return hints
}
