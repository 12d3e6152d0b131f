package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/emirpasic/gods/sets/treeset"
)

// Component is a named site on a molecule.
type Component struct {
	Name        string
	ActiveState string
	Bonds       []int
	states      *treeset.Set
}

func NewComponent(name string, states ...string) *Component {
	c := &Component{Name: name, states: treeset.NewWithStringComparator()}
	for _, s := range states {
		c.AddState(s)
	}
	return c
}

func (c *Component) AddState(state string) bool {
	if state == "" || c.states.Contains(state) {
		return false
	}
	c.states.Add(state)
	return true
}

func (c *Component) HasState(state string) bool { return c.states.Contains(state) }

func (c *Component) HasStates() bool { return !c.states.Empty() }

// States returns the state set in sorted order.
func (c *Component) States() []string {
	vals := c.states.Values()
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(string))
	}
	return out
}

func (c *Component) SetStates(states []string) {
	c.states.Clear()
	for _, s := range states {
		c.AddState(s)
	}
}

func (c *Component) IsFree() bool { return len(c.Bonds) == 0 }

// IsInactive reports whether the component can still take a modification.
func (c *Component) IsInactive() bool {
	return c.ActiveState == "" || c.ActiveState == InactiveState
}

func (c *Component) Clone() *Component {
	cp := NewComponent(c.Name, c.States()...)
	cp.ActiveState = c.ActiveState
	cp.Bonds = append([]int(nil), c.Bonds...)
	return cp
}

type Molecule struct {
	Name       string
	Components []*Component
}

func NewMolecule(name string) *Molecule { return &Molecule{Name: name} }

// Component returns the first component called name.
func (m *Molecule) Component(name string) *Component {
	for _, c := range m.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (m *Molecule) ComponentsNamed(name string) []*Component {
	var out []*Component
	for _, c := range m.Components {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// FreeComponent returns the first unbonded component called name.
func (m *Molecule) FreeComponent(name string) *Component {
	for _, c := range m.Components {
		if c.Name == name && c.IsFree() {
			return c
		}
	}
	return nil
}

func (m *Molecule) FreeCount(name string) int {
	n := 0
	for _, c := range m.Components {
		if c.Name == name && c.IsFree() {
			n++
		}
	}
	return n
}

// InactiveComponent returns the first component called name still at its
// inactive state.
func (m *Molecule) InactiveComponent(name string) *Component {
	for _, c := range m.Components {
		if c.Name == name && c.IsInactive() {
			return c
		}
	}
	return nil
}

func (m *Molecule) Count(name string) int { return len(m.ComponentsNamed(name)) }

func (m *Molecule) AddComponent(c *Component) *Component {
	m.Components = append(m.Components, c)
	return c
}

func (m *Molecule) Clone() *Molecule {
	cp := &Molecule{Name: m.Name, Components: make([]*Component, len(m.Components))}
	for i, c := range m.Components {
		cp.Components[i] = c.Clone()
	}
	return cp
}

func (m *Molecule) String() string { return renderMolecule(m, nil) }

// MoleculeName turns a species id into a valid molecule type name.
func MoleculeName(id SpeciesID) string {
	var b strings.Builder
	for _, r := range string(id) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		return "M"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "M" + name
	}
	return name
}

type MoleculeID int

// Arena owns every molecule instance of one run; species refer to molecules
// by id and clone before diverging.
type Arena struct {
	molecules []*Molecule
}

func NewArena() *Arena { return &Arena{} }

func (a *Arena) New(name string) MoleculeID { return a.Add(NewMolecule(name)) }

func (a *Arena) Add(m *Molecule) MoleculeID {
	a.molecules = append(a.molecules, m)
	return MoleculeID(len(a.molecules) - 1)
}

func (a *Arena) Get(id MoleculeID) *Molecule {
	if int(id) < 0 || int(id) >= len(a.molecules) {
		return nil
	}
	return a.molecules[id]
}

func (a *Arena) Clone(id MoleculeID) MoleculeID { return a.Add(a.Get(id).Clone()) }

func (a *Arena) Len() int { return len(a.molecules) }

// Species is the structured form of one flat species.
type Species struct {
	Molecules []MoleculeID
}

func (s *Species) IsEmpty() bool { return s == nil || len(s.Molecules) == 0 }

// BondEndpoint identifies a bonded molecule by name and occurrence index
// within its species.
type BondEndpoint struct {
	Molecule   string
	Occurrence int
}

func (e BondEndpoint) String() string { return fmt.Sprintf("%s#%d", e.Molecule, e.Occurrence) }

// BondCounter hands out run-unique bond ids.
type BondCounter struct {
	next  int
	bonds map[int][2]BondEndpoint
}

func NewBondCounter() *BondCounter {
	return &BondCounter{bonds: map[int][2]BondEndpoint{}}
}

func (b *BondCounter) Assign(x, y BondEndpoint) int {
	b.next++
	b.bonds[b.next] = [2]BondEndpoint{x, y}
	return b.next
}

func (b *BondCounter) Endpoints(id int) ([2]BondEndpoint, bool) {
	e, ok := b.bonds[id]
	return e, ok
}

func (b *BondCounter) Issued() int { return b.next }
