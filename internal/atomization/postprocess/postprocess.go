// Package postprocess tidies a finished translator: duplicate structures are
// dropped, molecule changes are pushed along dependency edges and component
// names are made readable.
package postprocess

import (
	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

type Report struct {
	Collisions []Collision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Propagated int         `json:"propagated" yaml:"propagated"`
	Renamed    int         `json:"renamed" yaml:"renamed"`
}

// Run deduplicates, propagates and renames, in that order.
func Run(g *depgraph.Graph, t *domain.Translator, order []domain.SpeciesID, log *assumptions.Log, logger *zap.Logger) Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := Report{Collisions: Deduplicate(t, order, log)}
	r.Propagated = Propagate(g, t)
	r.Renamed = Rename(t)
	logger.Debug("post-processing complete",
		zap.Int("collisions", len(r.Collisions)),
		zap.Int("propagated", r.Propagated),
		zap.Int("renamed", r.Renamed),
	)
	return r
}
