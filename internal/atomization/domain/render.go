package domain

import (
	"sort"
	"strconv"
	"strings"
)

// RenderSpecies renders molecules as "A(b!1,p~P).B(a!1)" with bonds
// renumbered from 1 in order of appearance. No molecules renders as "0".
func RenderSpecies(mols []*Molecule) string {
	if len(mols) == 0 {
		return string(ZeroSpecies)
	}
	bonds := map[int]int{}
	parts := make([]string, len(mols))
	for i, m := range mols {
		parts[i] = renderMolecule(m, bonds)
	}
	return strings.Join(parts, ".")
}

func renderMolecule(m *Molecule, bonds map[int]int) string {
	comps := make([]string, len(m.Components))
	for i, c := range m.Components {
		comps[i] = renderComponent(c, bonds)
	}
	return m.Name + "(" + strings.Join(comps, ",") + ")"
}

func renderComponent(c *Component, bonds map[int]int) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.HasStates() {
		state := c.ActiveState
		if state == "" {
			state = InactiveState
		}
		b.WriteString("~" + state)
	}
	for _, id := range c.Bonds {
		b.WriteString("!")
		if bonds == nil {
			b.WriteString(strconv.Itoa(id))
			continue
		}
		n, ok := bonds[id]
		if !ok {
			n = len(bonds) + 1
			bonds[id] = n
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// CanonicalSpecies renders mols independent of molecule and component order.
func CanonicalSpecies(mols []*Molecule) string {
	if len(mols) == 0 {
		return string(ZeroSpecies)
	}
	type entry struct {
		sig   string
		comps []*Component
		name  string
	}
	entries := make([]entry, len(mols))
	for i, m := range mols {
		comps := append([]*Component(nil), m.Components...)
		sort.SliceStable(comps, func(a, b int) bool {
			return componentSignature(comps[a]) < componentSignature(comps[b])
		})
		sigs := make([]string, len(comps))
		for k, c := range comps {
			sigs[k] = componentSignature(c)
		}
		entries[i] = entry{sig: m.Name + "(" + strings.Join(sigs, ",") + ")", comps: comps, name: m.Name}
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].sig < entries[b].sig })

	bonds := map[int]int{}
	parts := make([]string, len(entries))
	for i, e := range entries {
		comps := make([]string, len(e.comps))
		for k, c := range e.comps {
			comps[k] = renderComponent(c, bonds)
		}
		parts[i] = e.name + "(" + strings.Join(comps, ",") + ")"
	}
	return strings.Join(parts, ".")
}

func componentSignature(c *Component) string {
	sig := c.Name
	if c.HasStates() {
		state := c.ActiveState
		if state == "" {
			state = InactiveState
		}
		sig += "~" + state
	}
	if !c.IsFree() {
		sig += "!+"
	}
	return sig
}
