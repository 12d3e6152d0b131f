package export

import (
	"fmt"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// ToBNGL writes the molecule types and the structured species as the
// corresponding blocks of a rule-based model. Seed amounts are left at 0.
func ToBNGL(name string, types []domain.MoleculeTypeView, species []domain.SpeciesView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\nbegin model\n", name)

	b.WriteString("begin molecule types\n")
	for _, mt := range types {
		fmt.Fprintf(&b, "  %s\n", MoleculeType(mt))
	}
	b.WriteString("end molecule types\n")

	b.WriteString("begin seed species\n")
	for _, sp := range species {
		if len(sp.Molecules) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s\t0\t# %s\n", sp.Pattern, sp.ID)
	}
	b.WriteString("end seed species\n")

	b.WriteString("end model\n")
	return b.String()
}

// MoleculeType renders "A(b,p~0~P)".
func MoleculeType(mt domain.MoleculeTypeView) string {
	comps := make([]string, len(mt.Components))
	for i, c := range mt.Components {
		comps[i] = c.Name
		for _, s := range c.States {
			comps[i] += "~" + s
		}
	}
	return mt.Name + "(" + strings.Join(comps, ",") + ")"
}
