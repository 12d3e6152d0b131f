package service

import (
	"time"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/postprocess"
)

type Unresolved struct {
	Species domain.SpeciesID `json:"species" yaml:"species"`
	Pairs   []string         `json:"pairs" yaml:"pairs"`
}

// Result is everything a run produced. The graph is kept for the DOT writer
// and is not serialized.
type Result struct {
	RunID         string                    `json:"run_id" yaml:"run_id"`
	Network       string                    `json:"network" yaml:"network"`
	CreatedAt     time.Time                 `json:"created_at" yaml:"created_at"`
	SCT           map[string][]string       `json:"sct" yaml:"sct"`
	Weights       []depgraph.Weight         `json:"weights" yaml:"weights"`
	Species       []domain.SpeciesView      `json:"species" yaml:"species"`
	MoleculeTypes []domain.MoleculeTypeView `json:"molecule_types" yaml:"molecule_types"`
	Assumptions   []assumptions.Entry       `json:"assumptions" yaml:"assumptions"`
	Unresolved    []Unresolved              `json:"unresolved" yaml:"unresolved"`
	Constructed   []domain.SpeciesID        `json:"constructed,omitempty" yaml:"constructed,omitempty"`
	Decisions     map[string]int            `json:"decisions,omitempty" yaml:"decisions,omitempty"`
	Kinds         map[string]int            `json:"kinds" yaml:"kinds"`
	Passes        int                       `json:"passes" yaml:"passes"`
	Votes         int                       `json:"votes" yaml:"votes"`
	Postprocess   postprocess.Report        `json:"postprocess" yaml:"postprocess"`

	graph *depgraph.Graph
}

// Pattern returns the rendered structure of id, or "" when it was dropped.
func (r *Result) Pattern(id domain.SpeciesID) string {
	for _, sp := range r.Species {
		if sp.ID == id {
			return sp.Pattern
		}
	}
	return ""
}

// Summary digests r for the durable store.
func (r *Result) Summary() *domain.RunSummary {
	return &domain.RunSummary{
		RunID:         r.RunID,
		Network:       r.Network,
		SpeciesCount:  len(r.Species),
		MoleculeTypes: len(r.MoleculeTypes),
		Assumptions:   len(r.Assumptions),
		Unresolved:    len(r.Unresolved),
		Passes:        r.Passes,
		CreatedAt:     r.CreatedAt,
	}
}
