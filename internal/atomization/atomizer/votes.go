package atomizer

import (
	"fmt"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// applyVotes tallies the molecule pairs of every failed complex. Each
// complex whose most voted pair is unique and reaches MinVotes grants the
// binding components on both templates. It returns how many pairs changed a
// template.
func (s *Session) applyVotes(failures map[domain.SpeciesID][]domain.MoleculePair) int {
	tally := map[domain.MoleculePair]int{}
	for _, pairs := range failures {
		for _, p := range distinctPairs(pairs) {
			tally[p]++
		}
	}

	applied := 0
	granted := map[domain.MoleculePair]bool{}
	for _, id := range sortedFailures(failures) {
		best, ok := winner(distinctPairs(failures[id]), tally)
		if !ok || tally[best] < s.opts.MinVotes || granted[best] {
			continue
		}
		granted[best] = true
		if !s.grant(best) {
			continue
		}
		applied++
		s.log.Add(assumptions.Entry{
			Kind:    assumptions.KindVote,
			Species: []string{string(id)},
			Message: fmt.Sprintf("added binding sites for %s with %d votes", best, tally[best]),
			Pairs:   []string{best.String()},
		})
	}
	return applied
}

// winner is the pair with the highest tally; ties have no winner.
func winner(pairs []domain.MoleculePair, tally map[domain.MoleculePair]int) (domain.MoleculePair, bool) {
	var best domain.MoleculePair
	top, tied := 0, false
	for _, p := range pairs {
		switch n := tally[p]; {
		case n > top:
			best, top, tied = p, n, false
		case n == top:
			tied = true
		}
	}
	return best, top > 0 && !tied
}

// grant adds a free component named after the partner to both templates.
func (s *Session) grant(p domain.MoleculePair) bool {
	changed := false
	for _, side := range [][2]string{{p[0], p[1]}, {p[1], p[0]}} {
		id, ok := s.templates[side[0]]
		if !ok {
			continue
		}
		m := s.arena.Get(id)
		name := strings.ToLower(side[1])
		if m.FreeComponent(name) != nil {
			continue
		}
		m.AddComponent(domain.NewComponent(name))
		changed = true
	}
	return changed
}
