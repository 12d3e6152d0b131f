package domain

import (
	"sort"
	"time"
)

type ComponentView struct {
	Name   string   `json:"name" yaml:"name"`
	States []string `json:"states,omitempty" yaml:"states,omitempty"`
	State  string   `json:"state,omitempty" yaml:"state,omitempty"`
	Bonds  []int    `json:"bonds,omitempty" yaml:"bonds,omitempty"`
}

type MoleculeView struct {
	Name       string          `json:"name" yaml:"name"`
	Components []ComponentView `json:"components" yaml:"components"`
}

type SpeciesView struct {
	ID        SpeciesID      `json:"id" yaml:"id"`
	Pattern   string         `json:"pattern" yaml:"pattern"`
	Molecules []MoleculeView `json:"molecules" yaml:"molecules"`
}

type ComponentTypeView struct {
	Name   string   `json:"name" yaml:"name"`
	States []string `json:"states,omitempty" yaml:"states,omitempty"`
}

type MoleculeTypeView struct {
	Name       string              `json:"name" yaml:"name"`
	Components []ComponentTypeView `json:"components" yaml:"components"`
}

func (t *Translator) View(id SpeciesID) SpeciesView {
	v := SpeciesView{ID: id, Pattern: t.Render(id)}
	for _, m := range t.Molecules(id) {
		mv := MoleculeView{Name: m.Name, Components: make([]ComponentView, 0, len(m.Components))}
		for _, c := range m.Components {
			cv := ComponentView{Name: c.Name, States: c.States(), Bonds: append([]int(nil), c.Bonds...)}
			if c.HasStates() {
				cv.State = c.ActiveState
				if cv.State == "" {
					cv.State = InactiveState
				}
			}
			mv.Components = append(mv.Components, cv)
		}
		v.Molecules = append(v.Molecules, mv)
	}
	return v
}

// MoleculeTypes summarizes every molecule name in the translator: the
// largest per-name component count seen on any instance and the union of
// their states.
func (t *Translator) MoleculeTypes() []MoleculeTypeView {
	type compType struct {
		name   string
		count  int
		states map[string]struct{}
	}
	types := map[string][]*compType{}
	for _, id := range t.order {
		for _, m := range t.Molecules(id) {
			list := types[m.Name]
			counts := map[string]int{}
			for _, c := range m.Components {
				counts[c.Name]++
			}
			for _, c := range m.Components {
				var ct *compType
				for _, existing := range list {
					if existing.name == c.Name {
						ct = existing
						break
					}
				}
				if ct == nil {
					ct = &compType{name: c.Name, states: map[string]struct{}{}}
					list = append(list, ct)
				}
				if counts[c.Name] > ct.count {
					ct.count = counts[c.Name]
				}
				for _, s := range c.States() {
					ct.states[s] = struct{}{}
				}
			}
			types[m.Name] = list
		}
	}

	names := make([]string, 0, len(types))
	for n := range types {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]MoleculeTypeView, 0, len(names))
	for _, n := range names {
		mt := MoleculeTypeView{Name: n, Components: []ComponentTypeView{}}
		for _, ct := range types[n] {
			states := make([]string, 0, len(ct.states))
			for s := range ct.states {
				states = append(states, s)
			}
			sort.Strings(states)
			for i := 0; i < ct.count; i++ {
				mt.Components = append(mt.Components, ComponentTypeView{Name: ct.name, States: states})
			}
		}
		out = append(out, mt)
	}
	return out
}

// RunRecord is a stored atomization run.
type RunRecord struct {
	RunID     string    `json:"run_id"`
	Network   string    `json:"network"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Result    []byte    `json:"result,omitempty"`
}

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunSummary is the durable digest of a run.
type RunSummary struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	Network       string    `json:"network"`
	SpeciesCount  int       `json:"species_count"`
	MoleculeTypes int       `json:"molecule_types"`
	Assumptions   int       `json:"assumptions"`
	Unresolved    int       `json:"unresolved"`
	Passes        int       `json:"passes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
