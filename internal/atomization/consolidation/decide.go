package consolidation

import (
	"context"
	"fmt"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
)

type hintState struct {
	comp domain.Composition
	ok   bool
}

// rule is one step of the tie-break policy for species with competing
// candidates. Rules run in order and the first one that decides wins.
type rule struct {
	name   string
	decide func(ctx context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, h hintState) (domain.Composition, bool)
}

func defaultRules() []rule {
	return []rule{
		{name: "agreement", decide: agreeingCandidates},
		{name: "lexical-hint", decide: preferHint},
		{name: "modification-site", decide: closestName},
		{name: "constructed-species", decide: avoidConstructed},
		{name: "annotation", decide: annotationOverlap},
		{name: "frequency", decide: networkFrequency},
	}
}

func (c *Consolidator) decideMany(ctx context.Context, s domain.SpeciesID, cands []candidate, h hintState) (domain.Composition, bool) {
	for _, r := range c.rules {
		if comp, ok := r.decide(ctx, c, s, cands, h); ok {
			c.decisions[r.name]++
			return comp, true
		}
	}
	return domain.Composition{}, false
}

func agreeingCandidates(_ context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, _ hintState) (domain.Composition, bool) {
	first := cands[0].finalKey()
	for _, cd := range cands[1:] {
		if cd.finalKey() != first {
			return domain.Composition{}, false
		}
	}
	c.log.Record(assumptions.KindInfo, []domain.SpeciesID{s},
		fmt.Sprintf("%d candidates unroll to the same composition, kept %s", len(cands), cands[0].raw),
		alternatives(cands[1:])...)
	return cands[0].raw, true
}

func preferHint(_ context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, h hintState) (domain.Composition, bool) {
	if !h.ok {
		return domain.Composition{}, false
	}
	if _, err := c.unroll(s, h.comp); err != nil {
		return domain.Composition{}, false
	}
	kind := assumptions.KindConflict
	if !sameBase(cands) {
		kind = assumptions.KindInfo
	}
	c.log.Record(kind, []domain.SpeciesID{s},
		"stoichiometric candidates disagree, preferred naming "+h.comp.String(), alternatives(cands)...)
	return h.comp, true
}

// closestName settles candidates that share a base but place a modification
// differently, by overlap with the species' own name.
func closestName(_ context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, _ hintState) (domain.Composition, bool) {
	if !sameBase(cands) {
		return domain.Composition{}, false
	}
	best, bestScore := 0, -1
	for i, cd := range cands {
		score := lexical.Similarity(s, cd.final)
		if score > bestScore || (score == bestScore && cd.finalKey() < cands[best].finalKey()) {
			best, bestScore = i, score
		}
	}
	rejected := append(append([]candidate(nil), cands[:best]...), cands[best+1:]...)
	c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s},
		"modification site ambiguous, picked "+cands[best].raw.String()+" by name overlap", alternatives(rejected)...)
	return cands[best].raw, true
}

func avoidConstructed(ctx context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, _ hintState) (domain.Composition, bool) {
	var native []candidate
	for _, cd := range cands {
		if !c.usesConstructed(cd.raw) {
			native = append(native, cd)
		}
	}
	switch {
	case len(native) == len(cands):
		return domain.Composition{}, false
	case len(native) == 0:
		best := 0
		for i, cd := range cands {
			if len(cd.final) < len(cands[best].final) ||
				(len(cd.final) == len(cands[best].final) && cd.finalKey() < cands[best].finalKey()) {
				best = i
			}
		}
		c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s},
			"every candidate uses synthetic species, picked shortest "+cands[best].raw.String(), alternatives(cands)...)
		return cands[best].raw, true
	case len(native) == 1:
		c.log.Record(assumptions.KindInfo, []domain.SpeciesID{s},
			"discarded candidates built on synthetic species, kept "+native[0].raw.String())
		return native[0].raw, true
	default:
		return c.decideMany(ctx, s, native, hintState{})
	}
}

func annotationOverlap(_ context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, _ hintState) (domain.Composition, bool) {
	own := c.uris(s)
	if len(own) == 0 {
		return domain.Composition{}, false
	}
	scores := make([]int, len(cands))
	for i, cd := range cands {
		for _, m := range distinct(cd.final) {
			for u := range c.uris(m) {
				if own[u] {
					scores[i]++
				}
			}
		}
	}
	best, ok := uniqueMax(scores)
	if !ok {
		return domain.Composition{}, false
	}
	c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s},
		"picked "+cands[best].raw.String()+" by shared annotations", alternatives(cands)...)
	return cands[best].raw, true
}

func networkFrequency(_ context.Context, c *Consolidator, s domain.SpeciesID, cands []candidate, _ hintState) (domain.Composition, bool) {
	freq := map[domain.SpeciesID]int{}
	for _, id := range c.graph.Species() {
		if id == s {
			continue
		}
		seen := map[domain.SpeciesID]bool{}
		for _, comp := range c.graph.Candidates(id) {
			for _, p := range comp.Parts {
				if !seen[p] {
					seen[p] = true
					freq[p]++
				}
			}
		}
	}
	scores := make([]int, len(cands))
	for i, cd := range cands {
		for _, p := range cd.raw.Parts {
			scores[i] += freq[p]
		}
	}
	best, ok := uniqueMax(scores)
	if !ok {
		return domain.Composition{}, false
	}
	c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s},
		"picked "+cands[best].raw.String()+" by member frequency in the network", alternatives(cands)...)
	return cands[best].raw, true
}

func (c *Consolidator) decideSingle(ctx context.Context, s domain.SpeciesID, cd candidate, hint domain.Composition, hasHint bool) {
	if cd.raw.Kind == domain.KindModification && len(distinct(cd.final)) >= 2 {
		c.splitModifiedComplex(ctx, s, cd)
		return
	}
	if hasHint && !hint.Equal(cd.raw) {
		if hu, err := c.unroll(s, hint); err == nil && hu.finalKey() != cd.finalKey() {
			if !subMultiset(hu.base, cd.base) && !subMultiset(cd.base, hu.base) {
				c.graph.Set(s, hint.Sorted())
				c.log.Record(assumptions.KindConflict, []domain.SpeciesID{s},
					"naming "+hint.String()+" contradicts stoichiometric "+cd.raw.String()+", preferred naming")
				return
			}
			c.log.Record(assumptions.KindInfo, []domain.SpeciesID{s},
				"naming "+hint.String()+" is consistent with stoichiometric "+cd.raw.String()+", kept stoichiometry")
		}
	}
	c.graph.Set(s, cd.raw.Sorted())
}

// splitModifiedComplex handles a species modified from a complex: the
// modification has to sit on one member, which becomes an intermediate.
func (c *Consolidator) splitModifiedComplex(ctx context.Context, s domain.SpeciesID, cd candidate) {
	parent := cd.raw.Parts[0]
	elements := distinct(cd.final)

	if m, ok := c.analyzer.AnalyzeSpeciesModification(parent, s, elements); ok {
		c.synthesize(s, cd, m.Constituent, m.Label, m.Equivalences, "naming keyword")
		return
	}

	label, labelOK := c.analyzer.ClassifyModification(parent, s)
	if !labelOK {
		label = "Modification"
	}
	if labelOK && len(elements) == 2 {
		if e, ok := closestElement(s, elements); ok {
			c.synthesize(s, cd, e, label, nil, "string similarity")
			return
		}
	}
	if e, ok := c.annotatedElement(s, elements); ok {
		c.synthesize(s, cd, e, label, nil, "annotation")
		return
	}
	if e, ok := c.activeSiteElement(ctx, elements); ok {
		c.synthesize(s, cd, e, label, nil, "active site lookup")
		return
	}

	if c.opts.SoftConstraints {
		c.graph.Set(s, cd.raw)
		c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s},
			"could not place the modification of "+string(parent)+" on a member, kept "+cd.raw.String())
		return
	}
	err := &domain.AmbiguityError{
		Species:    s,
		Candidates: []domain.Composition{cd.raw},
		Reason:     "modification of complex " + string(parent) + " cannot be placed on a member",
	}
	c.log.Record(assumptions.KindAmbiguity, []domain.SpeciesID{s}, err.Error())
	c.graph.Set(s, domain.Elemental())
}

// synthesize inserts base -> intermediate -> s for the member e carrying
// the modification.
func (c *Consolidator) synthesize(s domain.SpeciesID, cd candidate, e domain.SpeciesID, label string, extra []domain.Pair, how string) {
	inter := lexical.ConstructedName(e, c.sites.For(label))
	if !c.graph.Has(inter) {
		c.graph.Set(inter, domain.Modification(e))
		c.constructed[inter] = true
	} else if comp, _ := c.graph.Primary(inter); comp.IsTrivial(inter) {
		c.graph.Set(inter, domain.Modification(e))
	}
	c.evidence.Equivalences.Add(label, e, inter)
	for _, p := range extra {
		c.evidence.Equivalences.Add(label, p.Base, p.Modified)
	}

	members := append([]domain.SpeciesID(nil), cd.final...)
	members[indexOf(members, e)] = inter
	comp := domain.NewComposition(members).Sorted()
	c.graph.Set(s, comp)
	c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s, inter},
		fmt.Sprintf("placed %s on %s by %s, composition %s", label, e, how, comp))
}

func closestElement(s domain.SpeciesID, elements []domain.SpeciesID) (domain.SpeciesID, bool) {
	scores := make([]int, len(elements))
	for i, e := range elements {
		scores[i] = lexical.Similarity(s, []domain.SpeciesID{e})
	}
	best, ok := uniqueMax(scores)
	if !ok {
		return "", false
	}
	return elements[best], true
}

func (c *Consolidator) annotatedElement(s domain.SpeciesID, elements []domain.SpeciesID) (domain.SpeciesID, bool) {
	own := c.uris(s)
	if len(own) == 0 {
		return "", false
	}
	var hits []domain.SpeciesID
	for _, e := range elements {
		for u := range c.uris(e) {
			if own[u] {
				hits = append(hits, e)
				break
			}
		}
	}
	if len(hits) != 1 {
		return "", false
	}
	return hits[0], true
}

func (c *Consolidator) activeSiteElement(ctx context.Context, elements []domain.SpeciesID) (domain.SpeciesID, bool) {
	var hits []domain.SpeciesID
	for _, e := range elements {
		if len(c.oracle.ActiveSites(ctx, string(e))) > 0 {
			hits = append(hits, e)
		}
	}
	if len(hits) != 1 {
		return "", false
	}
	return hits[0], true
}

func (c *Consolidator) usesConstructed(comp domain.Composition) bool {
	for _, p := range comp.Parts {
		if c.constructed[p] {
			return true
		}
	}
	return false
}

func (c *Consolidator) uris(s domain.SpeciesID) map[string]bool {
	out := map[string]bool{}
	for _, list := range c.evidence.Annotations[s] {
		for _, u := range list {
			out[u] = true
		}
	}
	return out
}

func sameBase(cands []candidate) bool {
	for _, cd := range cands[1:] {
		if cd.baseKey() != cands[0].baseKey() {
			return false
		}
	}
	return true
}

func uniqueMax(scores []int) (int, bool) {
	best, tie := -1, false
	for i, v := range scores {
		switch {
		case best < 0 || v > scores[best]:
			best, tie = i, false
		case v == scores[best]:
			tie = true
		}
	}
	if best < 0 || tie || scores[best] <= 0 {
		return 0, false
	}
	return best, true
}

func alternatives(cands []candidate) []string {
	out := make([]string, len(cands))
	for i, cd := range cands {
		out[i] = cd.raw.String()
	}
	return out
}
