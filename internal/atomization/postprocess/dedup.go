package postprocess

import (
	"fmt"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Collision records a species dropped because its structure rendered the
// same as an earlier one.
type Collision struct {
	Kept      domain.SpeciesID `json:"kept" yaml:"kept"`
	Dropped   domain.SpeciesID `json:"dropped" yaml:"dropped"`
	Canonical string           `json:"canonical" yaml:"canonical"`
}

// Deduplicate keeps the first species, in order, for every canonical
// rendering and deletes the rest from t. Empty species are never merged.
func Deduplicate(t *domain.Translator, order []domain.SpeciesID, log *assumptions.Log) []Collision {
	seen := map[string]domain.SpeciesID{}
	var out []Collision
	for _, id := range order {
		sp, ok := t.Get(id)
		if !ok || sp.IsEmpty() {
			continue
		}
		key := t.Canonical(id)
		first, dup := seen[key]
		if !dup {
			seen[key] = id
			continue
		}
		t.Delete(id)
		out = append(out, Collision{Kept: first, Dropped: id, Canonical: key})
		if log != nil {
			log.Record(assumptions.KindCollision, []domain.SpeciesID{first, id},
				fmt.Sprintf("%s and %s translate to the same structure %s", first, id, key))
		}
	}
	return out
}
