package domain

import "sort"

// Translator maps flat species to their structured form.
type Translator struct {
	arena   *Arena
	entries map[SpeciesID]*Species
	order   []SpeciesID
}

func NewTranslator(arena *Arena) *Translator {
	return &Translator{arena: arena, entries: map[SpeciesID]*Species{}}
}

func (t *Translator) Arena() *Arena { return t.arena }

// Set stores or replaces the entry for id.
func (t *Translator) Set(id SpeciesID, sp *Species) {
	if _, ok := t.entries[id]; !ok {
		t.order = append(t.order, id)
	}
	t.entries[id] = sp
}

func (t *Translator) Get(id SpeciesID) (*Species, bool) {
	sp, ok := t.entries[id]
	return sp, ok
}

func (t *Translator) Has(id SpeciesID) bool {
	_, ok := t.entries[id]
	return ok
}

func (t *Translator) Delete(id SpeciesID) {
	if _, ok := t.entries[id]; !ok {
		return
	}
	delete(t.entries, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// IDs returns entries in first-insertion order.
func (t *Translator) IDs() []SpeciesID { return append([]SpeciesID(nil), t.order...) }

func (t *Translator) SortedIDs() []SpeciesID {
	ids := t.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *Translator) Len() int { return len(t.entries) }

func (t *Translator) Molecules(id SpeciesID) []*Molecule {
	sp, ok := t.entries[id]
	if !ok || sp == nil {
		return nil
	}
	out := make([]*Molecule, 0, len(sp.Molecules))
	for _, mid := range sp.Molecules {
		out = append(out, t.arena.Get(mid))
	}
	return out
}

// Render is the display form, e.g. "A(b!1).B(a!1)".
func (t *Translator) Render(id SpeciesID) string { return RenderSpecies(t.Molecules(id)) }

// Canonical is the order-independent form used for duplicate detection.
func (t *Translator) Canonical(id SpeciesID) string { return CanonicalSpecies(t.Molecules(id)) }

// CloneSpecies deep-copies the molecules of id into fresh arena slots,
// renumbering internal bonds with ids from bonds.
func (t *Translator) CloneSpecies(id SpeciesID, bonds *BondCounter) *Species {
	return t.Clone(t.entries[id], bonds)
}

// Clone deep-copies sp the same way CloneSpecies does.
func (t *Translator) Clone(sp *Species, bonds *BondCounter) *Species {
	var src []*Molecule
	if sp != nil {
		for _, mid := range sp.Molecules {
			src = append(src, t.arena.Get(mid))
		}
	}
	out := &Species{Molecules: make([]MoleculeID, 0, len(src))}
	clones := make([]*Molecule, 0, len(src))
	for _, m := range src {
		cp := m.Clone()
		clones = append(clones, cp)
		out.Molecules = append(out.Molecules, t.arena.Add(cp))
	}
	remap := map[int]int{}
	ends := map[int][]BondEndpoint{}
	for i, m := range clones {
		for _, c := range m.Components {
			for _, b := range c.Bonds {
				ends[b] = append(ends[b], BondEndpoint{Molecule: m.Name, Occurrence: Occurrence(clones, i)})
			}
		}
	}
	for _, m := range clones {
		for _, c := range m.Components {
			for k, b := range c.Bonds {
				nb, ok := remap[b]
				if !ok {
					e := ends[b]
					if len(e) < 2 {
						e = append(e, e...)
					}
					nb = bonds.Assign(e[0], e[1])
					remap[b] = nb
				}
				c.Bonds[k] = nb
			}
		}
	}
	return out
}

// Occurrence is the index of mols[i] among molecules with the same name.
func Occurrence(mols []*Molecule, i int) int {
	n := 0
	for j := 0; j < i; j++ {
		if mols[j].Name == mols[i].Name {
			n++
		}
	}
	return n
}
