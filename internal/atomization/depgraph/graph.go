package depgraph

import (
	"sort"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Graph maps each species to its candidate compositions. Candidate order is
// evidence priority; after consolidation every species holds at most one.
// Every mutation bumps the version, which keys the resolver cache.
type Graph struct {
	entries map[domain.SpeciesID][]domain.Composition
	order   []domain.SpeciesID
	version uint64
}

func New() *Graph {
	return &Graph{entries: map[domain.SpeciesID][]domain.Composition{}}
}

// Ensure makes s a node without adding candidates.
func (g *Graph) Ensure(s domain.SpeciesID) {
	if _, ok := g.entries[s]; ok {
		return
	}
	g.entries[s] = nil
	g.order = append(g.order, s)
	g.version++
}

// Add appends a candidate for s. Elemental candidates only register the node
// and exact duplicates are skipped.
func (g *Graph) Add(s domain.SpeciesID, c domain.Composition) {
	g.Ensure(s)
	if c.Kind == domain.KindElemental {
		return
	}
	for _, existing := range g.entries[s] {
		if existing.Equal(c) {
			return
		}
	}
	g.entries[s] = append(g.entries[s], c)
	g.version++
}

// Set replaces all candidates of s with c (none for Elemental).
func (g *Graph) Set(s domain.SpeciesID, c domain.Composition) {
	g.Ensure(s)
	if c.Kind == domain.KindElemental {
		g.entries[s] = nil
	} else {
		g.entries[s] = []domain.Composition{c}
	}
	g.version++
}

func (g *Graph) Has(s domain.SpeciesID) bool {
	_, ok := g.entries[s]
	return ok
}

func (g *Graph) Candidates(s domain.SpeciesID) []domain.Composition {
	return append([]domain.Composition(nil), g.entries[s]...)
}

// Primary is the highest-priority candidate of s, Elemental when it has none.
// The bool reports whether s is a node at all.
func (g *Graph) Primary(s domain.SpeciesID) (domain.Composition, bool) {
	cands, ok := g.entries[s]
	if !ok || len(cands) == 0 {
		return domain.Elemental(), ok
	}
	return cands[0], true
}

// Species returns every node sorted by name.
func (g *Graph) Species() []domain.SpeciesID {
	out := append([]domain.SpeciesID(nil), g.order...)
	domain.SortSpecies(out)
	return out
}

// InsertionOrder returns nodes in the order they were first seen.
func (g *Graph) InsertionOrder() []domain.SpeciesID {
	return append([]domain.SpeciesID(nil), g.order...)
}

func (g *Graph) Version() uint64 { return g.version }

func (g *Graph) Len() int { return len(g.entries) }

// Dependents returns species whose primary candidate names s, sorted.
func (g *Graph) Dependents(s domain.SpeciesID) []domain.SpeciesID {
	var out []domain.SpeciesID
	for _, id := range g.order {
		c, _ := g.Primary(id)
		if id != s && !c.IsTrivial(id) && c.Contains(s) {
			out = append(out, id)
		}
	}
	domain.SortSpecies(out)
	return out
}

// Table is the species composition table: species -> sorted member names,
// empty for elemental species.
func (g *Graph) Table() map[string][]string {
	out := make(map[string][]string, len(g.entries))
	for _, id := range g.order {
		members := []string{}
		if c, _ := g.Primary(id); !c.IsTrivial(id) {
			for _, p := range c.Sorted().Parts {
				members = append(members, string(p))
			}
		}
		out[string(id)] = members
	}
	return out
}

func (g *Graph) Clone() *Graph {
	cp := New()
	for _, id := range g.order {
		cp.Ensure(id)
		cp.entries[id] = append([]domain.Composition(nil), g.entries[id]...)
	}
	cp.version = g.version
	return cp
}

// Edges lists (member, species) dependency edges sorted for stable output.
func (g *Graph) Edges() [][2]domain.SpeciesID {
	var out [][2]domain.SpeciesID
	for _, id := range g.order {
		c, _ := g.Primary(id)
		if c.IsTrivial(id) {
			continue
		}
		for _, p := range c.Parts {
			out = append(out, [2]domain.SpeciesID{p, id})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}
