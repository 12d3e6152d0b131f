package depgraph

import (
	"sort"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Constituent is one item of a resolution: an elemental species, or with
// Base set, a 1:1 modification edge Base -> Species.
type Constituent struct {
	Species domain.SpeciesID
	Base    domain.SpeciesID
}

func (c Constituent) IsModification() bool { return c.Base != "" }

type resolveKey struct {
	version uint64
	species domain.SpeciesID
	visited string
	mods    bool
}

type resolveEntry struct {
	out []Constituent
	err error
}

// Resolver unrolls species into elemental constituents, memoized per graph
// version.
type Resolver struct {
	graph   *Graph
	version uint64
	cache   map[resolveKey]resolveEntry

	Hits   int
	Misses int
}

func NewResolver(g *Graph) *Resolver {
	return &Resolver{graph: g, version: g.Version(), cache: map[resolveKey]resolveEntry{}}
}

// Resolve expands s through its primary candidate. Without modifications it
// returns the elemental multiset, short-circuiting revisits. With
// modifications it returns only the 1:1 edges found along the way and fails
// with *domain.CycleError on a revisit.
func (r *Resolver) Resolve(s domain.SpeciesID, visited []domain.SpeciesID, withModifications bool) ([]Constituent, error) {
	if r.version != r.graph.Version() {
		r.cache = map[resolveKey]resolveEntry{}
		r.version = r.graph.Version()
	}
	key := resolveKey{version: r.graph.Version(), species: s, visited: visitedKey(visited), mods: withModifications}
	if e, ok := r.cache[key]; ok {
		r.Hits++
		return append([]Constituent(nil), e.out...), e.err
	}
	r.Misses++
	out, err := r.resolve(s, visited, withModifications)
	r.cache[key] = resolveEntry{out: out, err: err}
	return append([]Constituent(nil), out...), err
}

func (r *Resolver) resolve(s domain.SpeciesID, visited []domain.SpeciesID, mods bool) ([]Constituent, error) {
	comp, _ := r.graph.Primary(s)
	if comp.IsTrivial(s) {
		if mods {
			return nil, nil
		}
		return []Constituent{{Species: s}}, nil
	}

	var out []Constituent
	for _, m := range comp.Parts {
		if contains(visited, m) {
			if !mods {
				out = append(out, Constituent{Species: m})
				continue
			}
			return nil, &domain.CycleError{Path: appendPath(visited, m)}
		}
		sub, err := r.Resolve(m, appendPath(visited, m), mods)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	if mods && comp.Kind == domain.KindModification {
		out = append(out, Constituent{Species: s, Base: comp.Parts[0]})
	}
	return out, nil
}

// Elements returns the sorted elemental multiset of s.
func (r *Resolver) Elements(s domain.SpeciesID, visited ...domain.SpeciesID) []domain.SpeciesID {
	cs, _ := r.Resolve(s, visited, false)
	out := make([]domain.SpeciesID, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Species)
	}
	domain.SortSpecies(out)
	return out
}

// Modifications returns the 1:1 edges under s.
func (r *Resolver) Modifications(s domain.SpeciesID, visited ...domain.SpeciesID) ([]Constituent, error) {
	return r.Resolve(s, visited, true)
}

func visitedKey(visited []domain.SpeciesID) string {
	parts := make([]string, len(visited))
	for i, v := range visited {
		parts[i] = string(v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x00")
}

func contains(list []domain.SpeciesID, s domain.SpeciesID) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func appendPath(path []domain.SpeciesID, s domain.SpeciesID) []domain.SpeciesID {
	out := make([]domain.SpeciesID, len(path), len(path)+1)
	copy(out, path)
	return append(out, s)
}
