package postprocess

import (
	"sort"
	"strconv"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// selfNamedMin is the length above which a state equal to its component's
// name gets renumbered.
const selfNamedMin = 5

// Rename tidies component and state names on every molecule reachable from
// t and returns the number of names changed.
func Rename(t *domain.Translator) int {
	mols := distinctMolecules(t)
	n := 0
	for _, m := range mols {
		n += trimNames(m)
	}
	n += renumberSelfNamed(mols)
	for _, m := range mols {
		n += suffixDuplicates(m)
	}
	return n
}

func distinctMolecules(t *domain.Translator) []*domain.Molecule {
	seen := map[*domain.Molecule]bool{}
	var out []*domain.Molecule
	for _, id := range t.IDs() {
		for _, m := range t.Molecules(id) {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func trim(s string) string {
	if t := strings.Trim(s, "_"); t != "" {
		return t
	}
	return s
}

func trimNames(m *domain.Molecule) int {
	n := 0
	for _, c := range m.Components {
		if name := trim(c.Name); name != c.Name {
			c.Name = name
			n++
		}
		states := c.States()
		renamed := make([]string, len(states))
		dirty := false
		for i, s := range states {
			renamed[i] = trim(s)
			if renamed[i] != s {
				dirty = true
			}
		}
		if dirty {
			c.SetStates(renamed)
			n++
		}
		c.ActiveState = trim(c.ActiveState)
	}
	return n
}

// renumberSelfNamed replaces the states of components that carry their own
// name as a state with integers, consistently per molecule and component
// name.
func renumberSelfNamed(mols []*domain.Molecule) int {
	type key struct{ molecule, component string }
	states := map[key][]string{}
	for _, m := range mols {
		for _, c := range m.Components {
			if len(c.Name) > selfNamedMin && c.HasState(c.Name) {
				states[key{m.Name, c.Name}] = nil
			}
		}
	}
	if len(states) == 0 {
		return 0
	}
	for _, m := range mols {
		for _, c := range m.Components {
			k := key{m.Name, c.Name}
			if _, ok := states[k]; ok {
				states[k] = append(states[k], c.States()...)
			}
		}
	}
	numbering := map[key]map[string]string{}
	for k, list := range states {
		sort.Strings(list)
		table := map[string]string{domain.InactiveState: domain.InactiveState}
		next := 1
		for _, s := range list {
			if _, ok := table[s]; ok {
				continue
			}
			table[s] = strconv.Itoa(next)
			next++
		}
		numbering[k] = table
	}

	n := 0
	for _, m := range mols {
		for _, c := range m.Components {
			table, ok := numbering[key{m.Name, c.Name}]
			if !ok {
				continue
			}
			old := c.States()
			renamed := make([]string, len(old))
			for i, s := range old {
				renamed[i] = table[s]
			}
			c.SetStates(renamed)
			if c.ActiveState != "" {
				c.ActiveState = table[c.ActiveState]
			}
			n++
		}
	}
	return n
}

// suffixDuplicates numbers repeated component names in first-seen order.
func suffixDuplicates(m *domain.Molecule) int {
	counts := map[string]int{}
	for _, c := range m.Components {
		counts[c.Name]++
	}
	next := map[string]int{}
	n := 0
	for _, c := range m.Components {
		if counts[c.Name] < 2 {
			continue
		}
		base := c.Name
		next[base]++
		c.Name = base + strconv.Itoa(next[base])
		n++
	}
	return n
}
