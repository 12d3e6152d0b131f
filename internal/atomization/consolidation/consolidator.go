package consolidation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/oracle"
)

// Evidence is everything besides stoichiometry that can vote on a species'
// composition.
type Evidence struct {
	Hints        map[domain.SpeciesID]domain.Composition
	Equivalences domain.EquivalenceTranslator
	Definitions  map[domain.SpeciesID][]domain.SpeciesID
	Annotations  map[domain.SpeciesID]domain.Annotation
}

type Options struct {
	// SoftConstraints keeps an unexplained candidate instead of leaving the
	// species elemental.
	SoftConstraints bool
}

type Config struct {
	Analyzer lexical.Analyzer
	Sites    lexical.Sites
	Oracle   oracle.Evidence
	Log      *assumptions.Log
	Evidence Evidence
	Options  Options
}

// Consolidator prunes a dependency graph to at most one candidate per
// species, synthesizing intermediates where naming locates a modification
// inside a complex.
type Consolidator struct {
	graph       *depgraph.Graph
	resolver    *depgraph.Resolver
	analyzer    lexical.Analyzer
	sites       lexical.Sites
	oracle      oracle.Evidence
	log         *assumptions.Log
	evidence    Evidence
	opts        Options
	fixed       map[domain.SpeciesID]bool
	constructed map[domain.SpeciesID]bool
	rules       []rule
	decisions   map[string]int
}

func New(g *depgraph.Graph, cfg Config) *Consolidator {
	if cfg.Sites == nil {
		cfg.Sites = lexical.NewSites(nil)
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = lexical.NewNamingAnalyzer(cfg.Sites)
	}
	if cfg.Oracle == nil {
		cfg.Oracle = oracle.NewEvidence(oracle.None{}, nil, nil)
	}
	if cfg.Log == nil {
		cfg.Log = assumptions.New(nil)
	}
	if cfg.Evidence.Equivalences == nil {
		cfg.Evidence.Equivalences = domain.EquivalenceTranslator{}
	}
	return &Consolidator{
		graph:       g,
		resolver:    depgraph.NewResolver(g),
		analyzer:    cfg.Analyzer,
		sites:       cfg.Sites,
		oracle:      cfg.Oracle,
		log:         cfg.Log,
		evidence:    cfg.Evidence,
		opts:        cfg.Options,
		fixed:       map[domain.SpeciesID]bool{},
		constructed: map[domain.SpeciesID]bool{},
		rules:       defaultRules(),
		decisions:   map[string]int{},
	}
}

// Equivalences includes pairs added for synthesized intermediates.
func (c *Consolidator) Equivalences() domain.EquivalenceTranslator { return c.evidence.Equivalences }

// Constructed lists the synthetic species created during Run.
func (c *Consolidator) Constructed() []domain.SpeciesID {
	out := make([]domain.SpeciesID, 0, len(c.constructed))
	for s := range c.constructed {
		out = append(out, s)
	}
	domain.SortSpecies(out)
	return out
}

// Decisions counts which tie-break rule settled each multi-candidate species.
func (c *Consolidator) Decisions() map[string]int {
	out := make(map[string]int, len(c.decisions))
	for k, v := range c.decisions {
		out[k] = v
	}
	return out
}

func (c *Consolidator) Run(ctx context.Context) error {
	c.applyDefinitions()
	c.mergeEquivalences()
	if c.evidence.Hints == nil {
		c.evidence.Hints = CollectHints(c.analyzer, c.graph.Species())
	}

	order := c.graph.Species()
	sort.SliceStable(order, func(i, j int) bool {
		if len(order[i]) != len(order[j]) {
			return len(order[i]) < len(order[j])
		}
		return order[i] < order[j]
	})
	for _, s := range order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("consolidation interrupted: %w", err)
		}
		if c.fixed[s] {
			continue
		}
		c.consolidate(ctx, s)
	}
	c.breakCycles()
	return nil
}

// applyDefinitions pins user-declared compositions; nothing overrides them.
func (c *Consolidator) applyDefinitions() {
	ids := make([]domain.SpeciesID, 0, len(c.evidence.Definitions))
	for s := range c.evidence.Definitions {
		ids = append(ids, s)
	}
	domain.SortSpecies(ids)
	for _, s := range ids {
		parts := c.evidence.Definitions[s]
		for _, p := range parts {
			c.graph.Ensure(p)
		}
		comp := domain.NewComposition(parts).Sorted()
		c.graph.Set(s, comp)
		c.fixed[s] = true
		c.log.Record(assumptions.KindInfo, []domain.SpeciesID{s}, "composition "+comp.String()+" taken from user definition")
	}
}

func (c *Consolidator) mergeEquivalences() {
	for _, label := range c.evidence.Equivalences.Labels() {
		for _, p := range c.evidence.Equivalences[label] {
			if p.Base == p.Modified || c.fixed[p.Modified] {
				continue
			}
			c.graph.Ensure(p.Base)
			c.graph.Add(p.Modified, domain.Modification(p.Base))
		}
	}
}

func (c *Consolidator) hint(s domain.SpeciesID) (domain.Composition, bool) {
	h, ok := c.evidence.Hints[s]
	if !ok || h.IsTrivial(s) || h.Contains(s) {
		return domain.Composition{}, false
	}
	return h, true
}

func (c *Consolidator) consolidate(ctx context.Context, s domain.SpeciesID) {
	var raw []domain.Composition
	for _, comp := range c.graph.Candidates(s) {
		if comp.Kind == domain.KindZero {
			c.graph.Set(s, comp)
			return
		}
		if !comp.IsTrivial(s) {
			raw = append(raw, comp)
		}
	}
	hint, hasHint := c.hint(s)

	if len(raw) == 0 {
		if hasHint {
			c.graph.Set(s, hint.Sorted())
			c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s}, "composition "+hint.String()+" inferred from naming convention")
		}
		return
	}

	var cands []candidate
	for _, comp := range raw {
		cd, err := c.unroll(s, comp)
		if err != nil {
			path := []domain.SpeciesID{s}
			var ce *domain.CycleError
			if errors.As(err, &ce) {
				path = ce.Path
			}
			c.log.Record(assumptions.KindCycle, path, fmt.Sprintf("dropped candidate %s of %s: %v", comp, s, err))
			continue
		}
		if isZeroOnly(cd.final) {
			continue
		}
		cands = append(cands, cd)
	}
	if len(cands) == 0 {
		c.graph.Set(s, domain.Elemental())
		return
	}

	if len(cands) == 1 {
		c.decideSingle(ctx, s, cands[0], hint, hasHint)
		return
	}

	h := hintState{comp: hint, ok: hasHint}
	if comp, ok := c.decideMany(ctx, s, cands, h); ok {
		c.graph.Set(s, comp.Sorted())
		return
	}
	c.unresolved(s, cands)
}

func (c *Consolidator) unresolved(s domain.SpeciesID, cands []candidate) {
	comps := make([]domain.Composition, len(cands))
	alts := make([]string, len(cands))
	for i, cd := range cands {
		comps[i] = cd.raw
		alts[i] = cd.raw.String()
	}
	if c.opts.SoftConstraints {
		c.graph.Set(s, cands[0].raw.Sorted())
		c.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{s},
			"no rule separated the candidates, kept highest-priority "+cands[0].raw.String(), alts...)
		return
	}
	err := &domain.AmbiguityError{Species: s, Candidates: comps, Reason: "consolidation exhausted every rule"}
	c.log.Record(assumptions.KindAmbiguity, []domain.SpeciesID{s}, err.Error(), alts...)
	c.graph.Set(s, domain.Elemental())
}

// breakCycles leaves elemental any species whose resolution revisits a node,
// one at a time until the graph resolves cleanly.
func (c *Consolidator) breakCycles() {
	for guard := 0; guard <= c.graph.Len(); guard++ {
		cut := false
		for _, s := range c.graph.Species() {
			_, err := c.resolver.Modifications(s)
			var ce *domain.CycleError
			if !errors.As(err, &ce) {
				continue
			}
			c.log.Record(assumptions.KindCycle, ce.Path, fmt.Sprintf("%v, leaving %s elemental", err, s))
			c.graph.Set(s, domain.Elemental())
			cut = true
			break
		}
		if !cut {
			return
		}
	}
}
