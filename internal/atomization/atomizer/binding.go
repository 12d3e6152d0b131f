package atomizer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// member is one molecule of a complex being assembled, with the species it
// was cloned from.
type member struct {
	mol    *domain.Molecule
	origin domain.SpeciesID
}

func (s *Session) binding(ctx context.Context, id domain.SpeciesID, comp domain.Composition) error {
	var (
		ids     []domain.MoleculeID
		members []member
		groups  [][]int
	)
	for _, part := range comp.Parts {
		if !s.translator.Has(part) {
			s.elemental(part)
		}
		clone := s.translator.CloneSpecies(part, s.bonds)
		if clone.IsEmpty() {
			continue
		}
		group := make([]int, 0, len(clone.Molecules))
		for _, mid := range clone.Molecules {
			group = append(group, len(members))
			members = append(members, member{mol: s.arena.Get(mid), origin: part})
			ids = append(ids, mid)
		}
		groups = append(groups, group)
	}
	if len(members) == 0 {
		s.translator.Set(id, &domain.Species{})
		return nil
	}

	r := newBondResolver(s, id, members, groups)
	pairs, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	mols := make([]*domain.Molecule, len(members))
	for i, m := range members {
		mols[i] = m.mol
	}
	for _, p := range pairs {
		s.bond(mols, p[0], p[1])
	}
	s.translator.Set(id, &domain.Species{Molecules: ids})
	return nil
}

// bond joins mols[i] and mols[j], reusing free components named after the
// partner and adding them where missing.
func (s *Session) bond(mols []*domain.Molecule, i, j int) {
	a, b := mols[i], mols[j]
	ca := a.FreeComponent(strings.ToLower(b.Name))
	if ca == nil {
		ca = a.AddComponent(domain.NewComponent(strings.ToLower(b.Name)))
	}
	cb := b.FreeComponent(strings.ToLower(a.Name))
	if cb == nil {
		cb = b.AddComponent(domain.NewComponent(strings.ToLower(a.Name)))
	}
	n := s.bonds.Assign(
		domain.BondEndpoint{Molecule: a.Name, Occurrence: domain.Occurrence(mols, i)},
		domain.BondEndpoint{Molecule: b.Name, Occurrence: domain.Occurrence(mols, j)},
	)
	ca.Bonds = append(ca.Bonds, n)
	cb.Bonds = append(cb.Bonds, n)
}

// bondResolver decides which molecule pairs of one complex get a bond.
type bondResolver struct {
	s       *Session
	species domain.SpeciesID
	members []member
	uf      *unionFind
	claims  []map[string]int
	chosen  [][2]int
}

func newBondResolver(s *Session, id domain.SpeciesID, members []member, groups [][]int) *bondResolver {
	r := &bondResolver{
		s:       s,
		species: id,
		members: members,
		uf:      newUnionFind(len(members)),
		claims:  make([]map[string]int, len(members)),
	}
	for i := range r.claims {
		r.claims[i] = map[string]int{}
	}
	for _, g := range groups {
		for _, i := range g[1:] {
			r.uf.union(g[0], i)
		}
	}
	return r
}

func (r *bondResolver) name(i int) string { return r.members[i].mol.Name }

func (r *bondResolver) pair(i, j int) domain.MoleculePair {
	return domain.NewMoleculePair(r.name(i), r.name(j))
}

func (r *bondResolver) excluded(i, j int) bool { return r.s.excluded(r.name(i), r.name(j)) }

// available counts free components on i named after partner that no chosen
// bond has claimed yet.
func (r *bondResolver) available(i int, partner string) int {
	key := strings.ToLower(partner)
	return r.members[i].mol.FreeCount(key) - r.claims[i][key]
}

func (r *bondResolver) reciprocal(i, j int) bool {
	return r.available(i, r.name(j)) > 0 && r.available(j, r.name(i)) > 0
}

func (r *bondResolver) choose(i, j int) {
	if r.available(i, r.name(j)) > 0 {
		r.claims[i][strings.ToLower(r.name(j))]++
	}
	if r.available(j, r.name(i)) > 0 {
		r.claims[j][strings.ToLower(r.name(i))]++
	}
	r.chosen = append(r.chosen, [2]int{i, j})
	r.uf.union(i, j)
}

func (r *bondResolver) resolve(ctx context.Context) ([][2]int, error) {
	r.seeds()
	r.reciprocalBonds()
	r.orphans()
	for {
		sets := r.uf.sets()
		if len(sets) < 2 {
			break
		}
		a, b := sets[0], sets[1]
		if len(a) == 1 && len(b) == 1 && r.s.opts.PairSingletons && !r.excluded(a[0], b[0]) {
			r.choose(a[0], b[0])
			continue
		}
		p, err := r.solveComplexBinding(ctx, a, b)
		if err != nil {
			return nil, err
		}
		r.choose(p[0], p[1])
	}
	return r.chosen, nil
}

// seeds applies user-provided bonds first, at most one bond per seed.
func (r *bondResolver) seeds() {
	for _, seed := range r.s.seeds {
		r.firstPair(func(i, j int) bool { return r.pair(i, j) == seed })
	}
}

func (r *bondResolver) firstPair(match func(i, j int) bool) bool {
	n := len(r.members)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.uf.find(i) == r.uf.find(j) || r.excluded(i, j) || !match(i, j) {
				continue
			}
			r.choose(i, j)
			return true
		}
	}
	return false
}

// reciprocalBonds bonds pairs that each carry a free component named after
// the other. Pairs already connected are dropped as redundant.
func (r *bondResolver) reciprocalBonds() {
	var redundant []domain.MoleculePair
	n := len(r.members)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.excluded(i, j) || !r.reciprocal(i, j) {
				continue
			}
			if r.uf.find(i) == r.uf.find(j) {
				redundant = append(redundant, r.pair(i, j))
				continue
			}
			r.choose(i, j)
		}
	}
	if len(redundant) == 0 {
		return
	}
	redundant = distinctPairs(redundant)
	r.s.log.Add(assumptions.Entry{
		Kind:    assumptions.KindRedundant,
		Species: []string{string(r.species)},
		Message: fmt.Sprintf("dropped bonds of %s already implied by the complex", r.species),
		Pairs:   assumptions.PairNames(redundant),
	})
}

// orphans pairs a lone molecule with the single partner that names it, or
// that it names, through a free component.
func (r *bondResolver) orphans() {
	for i := range r.members {
		if r.uf.size(i) > 1 {
			continue
		}
		var cands []int
		for j := range r.members {
			if j == i || r.uf.find(i) == r.uf.find(j) || r.excluded(i, j) {
				continue
			}
			if r.available(j, r.name(i)) > 0 || r.available(i, r.name(j)) > 0 {
				cands = append(cands, j)
			}
		}
		if len(cands) == 1 {
			r.choose(i, cands[0])
		}
	}
}

// solveComplexBinding asks the oracle about every cross pair between two
// sets, falling back to the raw species names the molecules came from.
func (r *bondResolver) solveComplexBinding(ctx context.Context, a, b []int) ([2]int, error) {
	var (
		cross []domain.MoleculePair
		hits  [][2]int
	)
	answers := map[domain.MoleculePair]bool{}
	for _, i := range a {
		for _, j := range b {
			if r.excluded(i, j) {
				continue
			}
			p := r.pair(i, j)
			ok, asked := answers[p]
			if !asked {
				ok = r.s.oracle.Binds(ctx, r.name(i), r.name(j))
				answers[p] = ok
				cross = append(cross, p)
			}
			if ok {
				hits = append(hits, [2]int{i, j})
			}
		}
	}

	if len(hits) == 0 {
		raw := map[domain.MoleculePair]bool{}
		for _, i := range a {
			for _, j := range b {
				if r.excluded(i, j) {
					continue
				}
				oi, oj := string(r.members[i].origin), string(r.members[j].origin)
				p := domain.NewMoleculePair(oi, oj)
				if _, ok := answers[p]; ok {
					continue
				}
				ok, asked := raw[p]
				if !asked {
					ok = r.s.oracle.Binds(ctx, oi, oj)
					raw[p] = ok
				}
				if ok {
					hits = append(hits, [2]int{i, j})
				}
			}
		}
	}

	if len(hits) == 0 {
		cross = distinctPairs(cross)
		return [2]int{}, &domain.BindingError{Species: r.species, Pairs: cross}
	}

	filtered := make([][2]int, 0, len(hits))
	for _, h := range hits {
		if !r.overlaps(h) {
			filtered = append(filtered, h)
		}
	}
	if len(filtered) == 0 {
		filtered = hits
	}
	if len(filtered) > 1 {
		sort.SliceStable(filtered, func(x, y int) bool { return r.preferred(filtered[x], filtered[y]) })
		r.s.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{r.species},
			fmt.Sprintf("several supported bonds for %s, picked %s", r.species, r.pair(filtered[0][0], filtered[0][1])),
			r.pairNames(filtered[1:])...)
	}
	return filtered[0], nil
}

// overlaps reports whether either side of h is already bonded to a molecule
// of the other side's type.
func (r *bondResolver) overlaps(h [2]int) bool {
	for _, c := range r.chosen {
		for _, x := range [][2]int{{c[0], c[1]}, {c[1], c[0]}} {
			if x[0] == h[0] && r.name(x[1]) == r.name(h[1]) {
				return true
			}
			if x[0] == h[1] && r.name(x[1]) == r.name(h[0]) {
				return true
			}
		}
	}
	return false
}

// preferred orders candidate bonds by component count, then rendered size,
// then name.
func (r *bondResolver) preferred(x, y [2]int) bool {
	cx, cy := r.components(x), r.components(y)
	if cx != cy {
		return cx > cy
	}
	lx, ly := r.rendered(x), r.rendered(y)
	if lx != ly {
		return lx > ly
	}
	return r.pair(x[0], x[1]).String() < r.pair(y[0], y[1]).String()
}

func (r *bondResolver) components(p [2]int) int {
	a, b := len(r.members[p[0]].mol.Components), len(r.members[p[1]].mol.Components)
	if a > b {
		return a
	}
	return b
}

func (r *bondResolver) rendered(p [2]int) int {
	return len(r.members[p[0]].mol.String()) + len(r.members[p[1]].mol.String())
}

func (r *bondResolver) pairNames(ps [][2]int) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = r.pair(p[0], p[1]).String()
	}
	return out
}
