package domain

import (
	"sort"
	"strings"
)

type SpeciesID string

func (s SpeciesID) String() string { return string(s) }

// IsZeroName reports whether a species name denotes the empty species.
func IsZeroName(name string) bool {
	_, ok := zeroNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Composition is one candidate decomposition of a species.
type Composition struct {
	Kind  CompositionKind
	Parts []SpeciesID
}

func Elemental() Composition { return Composition{Kind: KindElemental} }

func Zero() Composition {
	return Composition{Kind: KindZero, Parts: []SpeciesID{ZeroSpecies}}
}

func Modification(parent SpeciesID) Composition {
	return Composition{Kind: KindModification, Parts: []SpeciesID{parent}}
}

func Binding(parts ...SpeciesID) Composition {
	return Composition{Kind: KindBinding, Parts: append([]SpeciesID(nil), parts...)}
}

// NewComposition classifies a raw member list by its shape.
func NewComposition(parts []SpeciesID) Composition {
	switch {
	case len(parts) == 0:
		return Elemental()
	case len(parts) == 1 && parts[0] == ZeroSpecies:
		return Zero()
	case len(parts) == 1:
		return Modification(parts[0])
	default:
		return Binding(parts...)
	}
}

func (c Composition) Members() []SpeciesID {
	return append([]SpeciesID(nil), c.Parts...)
}

// IsTrivial reports whether c carries no structure for self: elemental, or
// the self-referential [self].
func (c Composition) IsTrivial(self SpeciesID) bool {
	if c.Kind == KindElemental || len(c.Parts) == 0 {
		return true
	}
	return len(c.Parts) == 1 && c.Parts[0] == self
}

func (c Composition) Contains(s SpeciesID) bool {
	for _, p := range c.Parts {
		if p == s {
			return true
		}
	}
	return false
}

func (c Composition) Sorted() Composition {
	out := Composition{Kind: c.Kind, Parts: append([]SpeciesID(nil), c.Parts...)}
	SortSpecies(out.Parts)
	return out
}

// Key is an order-independent identity for the member multiset.
func (c Composition) Key() string {
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = string(p)
	}
	sort.Strings(parts)
	return strings.Join(parts, "+")
}

func (c Composition) Equal(o Composition) bool {
	return c.Kind == o.Kind && c.Key() == o.Key()
}

func (c Composition) String() string {
	if c.Kind == KindElemental {
		return "[]"
	}
	return "[" + strings.ReplaceAll(c.Key(), "+", ", ") + "]"
}

func SortSpecies(ids []SpeciesID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

type Reaction struct {
	ID             string
	Reactants      []SpeciesID
	Products       []SpeciesID
	Classification string
	Rate           string
	Reversible     bool
}

// Pair is a (base, modified) equivalence.
type Pair struct {
	Base     SpeciesID `json:"base" yaml:"base"`
	Modified SpeciesID `json:"modified" yaml:"modified"`
}

// EquivalenceTranslator maps a modification label to its (base, modified) pairs.
type EquivalenceTranslator map[string][]Pair

// Add records a pair under label; duplicates are ignored.
func (e EquivalenceTranslator) Add(label string, base, modified SpeciesID) bool {
	p := Pair{Base: base, Modified: modified}
	for _, existing := range e[label] {
		if existing == p {
			return false
		}
	}
	e[label] = append(e[label], p)
	return true
}

// LabelFor returns the first label, in name order, recording base -> modified.
func (e EquivalenceTranslator) LabelFor(base, modified SpeciesID) (string, bool) {
	for _, label := range e.Labels() {
		for _, p := range e[label] {
			if p.Base == base && p.Modified == modified {
				return label, true
			}
		}
	}
	return "", false
}

func (e EquivalenceTranslator) Labels() []string {
	labels := make([]string, 0, len(e))
	for l := range e {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Site is the component/state pair that encodes a modification label.
type Site struct {
	Component string `json:"component" yaml:"component"`
	State     string `json:"state" yaml:"state"`
}

// Annotation maps a relation kind (is, hasPart, ...) to uris.
type Annotation map[string][]string

// MoleculePair is an unordered pair of molecule names stored sorted.
type MoleculePair [2]string

func NewMoleculePair(a, b string) MoleculePair {
	if b < a {
		a, b = b, a
	}
	return MoleculePair{a, b}
}

func (p MoleculePair) String() string { return p[0] + "-" + p[1] }

func (p MoleculePair) Has(a, b string) bool {
	return p == NewMoleculePair(a, b)
}

func SortPairs(pairs []MoleculePair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
}

// Network is the classified flat model handed to the atomizer.
type Network struct {
	Name           string
	Species        []SpeciesID
	Reactions      []Reaction
	Equivalences   EquivalenceTranslator
	Sites          map[string]Site
	Definitions    map[SpeciesID][]SpeciesID
	Annotations    map[SpeciesID]Annotation
	Interactions   []MoleculePair
	BondSeeds      []MoleculePair
	BondExclusions []MoleculePair
}

func NewNetwork(name string) *Network {
	return &Network{
		Name:         name,
		Equivalences: EquivalenceTranslator{},
		Sites:        map[string]Site{},
		Definitions:  map[SpeciesID][]SpeciesID{},
		Annotations:  map[SpeciesID]Annotation{},
	}
}

func (n *Network) HasSpecies(id SpeciesID) bool {
	for _, s := range n.Species {
		if s == id {
			return true
		}
	}
	return false
}

// AddSpecies appends id unless already declared.
func (n *Network) AddSpecies(id SpeciesID) {
	if !n.HasSpecies(id) {
		n.Species = append(n.Species, id)
	}
}
