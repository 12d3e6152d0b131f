package atomizer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// KindUnresolved counts binding species still without evidence after the
// last pass.
const KindUnresolved = "UNRESOLVED"

type Outcome struct {
	Passes     int
	Votes      int
	Unresolved map[domain.SpeciesID][]domain.MoleculePair
	Kinds      map[string]int
}

// UnresolvedIDs returns the unresolved species in sorted order.
func (o *Outcome) UnresolvedIDs() []domain.SpeciesID {
	out := make([]domain.SpeciesID, 0, len(o.Unresolved))
	for id := range o.Unresolved {
		out = append(out, id)
	}
	domain.SortSpecies(out)
	return out
}

// Run atomizes every species in order, repeating the whole sweep while
// binding votes keep adding components, up to MaxPasses.
func (s *Session) Run(ctx context.Context, order []depgraph.Weight) (*Outcome, error) {
	out := &Outcome{Kinds: map[string]int{}}
	var failures map[domain.SpeciesID][]domain.MoleculePair

	for pass := 1; pass <= s.opts.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Passes = pass
		failures = map[domain.SpeciesID][]domain.MoleculePair{}

		for _, w := range order {
			if err := s.atomize(ctx, w.Species); err != nil {
				if !s.handleFailure(w.Species, err, failures) {
					return nil, fmt.Errorf("atomize %s: %w", w.Species, err)
				}
			}
		}

		s.logger.Debug("atomizer pass complete",
			zap.Int("pass", pass),
			zap.Int("species", len(order)),
			zap.Int("binding_failures", len(failures)),
		)
		if len(failures) == 0 {
			break
		}
		applied := s.applyVotes(failures)
		out.Votes += applied
		if applied == 0 {
			break
		}
	}

	out.Unresolved = failures
	s.reportUnresolved(failures, out.Passes)

	for _, w := range order {
		if _, ok := failures[w.Species]; ok {
			out.Kinds[KindUnresolved]++
			continue
		}
		comp, _ := s.graph.Primary(w.Species)
		if comp.IsTrivial(w.Species) && comp.Kind != domain.KindZero {
			out.Kinds[string(domain.KindElemental)]++
			continue
		}
		out.Kinds[string(comp.Kind)]++
	}
	return out, nil
}

func (s *Session) atomize(ctx context.Context, id domain.SpeciesID) error {
	comp, _ := s.graph.Primary(id)
	if comp.Kind == domain.KindZero {
		s.translator.Set(id, &domain.Species{})
		return nil
	}
	if comp.IsTrivial(id) {
		s.elemental(id)
		return nil
	}
	switch comp.Kind {
	case domain.KindModification:
		return s.catalysis(id)
	case domain.KindBinding:
		return s.binding(ctx, id, comp)
	}
	s.elemental(id)
	return nil
}

// handleFailure turns a per-species failure into a placeholder and reports
// whether the run can continue.
func (s *Session) handleFailure(id domain.SpeciesID, err error, failures map[domain.SpeciesID][]domain.MoleculePair) bool {
	var (
		be *domain.BindingError
		ce *domain.CycleError
		ae *domain.AmbiguityError
	)
	switch {
	case errors.As(err, &be):
		failures[id] = be.Pairs
	case errors.As(err, &ce):
		s.log.Record(assumptions.KindCycle, ce.Path, err.Error())
	case errors.As(err, &ae):
		s.log.Record(assumptions.KindAmbiguity, []domain.SpeciesID{id}, err.Error())
	default:
		return false
	}
	s.placeholder(id)
	return true
}

func (s *Session) reportUnresolved(failures map[domain.SpeciesID][]domain.MoleculePair, passes int) {
	for _, id := range sortedFailures(failures) {
		pairs := distinctPairs(failures[id])
		s.log.Add(assumptions.Entry{
			Kind:    assumptions.KindAmbiguity,
			Species: []string{string(id)},
			Message: fmt.Sprintf("no binding evidence for %s after %d passes", id, passes),
			Pairs:   assumptions.PairNames(pairs),
		})
	}
}

func distinctPairs(pairs []domain.MoleculePair) []domain.MoleculePair {
	seen := map[domain.MoleculePair]bool{}
	out := make([]domain.MoleculePair, 0, len(pairs))
	for _, p := range pairs {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	domain.SortPairs(out)
	return out
}

func sortedFailures(failures map[domain.SpeciesID][]domain.MoleculePair) []domain.SpeciesID {
	ids := make([]domain.SpeciesID, 0, len(failures))
	for id := range failures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
