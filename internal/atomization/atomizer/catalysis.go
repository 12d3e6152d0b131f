package atomizer

import (
	"fmt"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// forcedComponent names the site invented for unlabeled modifications.
const forcedComponent = "mod"

type link struct {
	from, to domain.SpeciesID
}

// chain walks modification links from id down to its unmodified base and
// returns them base first.
func (s *Session) chain(id domain.SpeciesID) (domain.SpeciesID, []link, error) {
	cur := id
	path := []domain.SpeciesID{id}
	seen := map[domain.SpeciesID]bool{id: true}
	var links []link
	for {
		comp, _ := s.graph.Primary(cur)
		if comp.Kind != domain.KindModification || comp.IsTrivial(cur) {
			break
		}
		parent := comp.Parts[0]
		path = append(path, parent)
		if seen[parent] {
			return "", nil, &domain.CycleError{Path: path}
		}
		seen[parent] = true
		links = append(links, link{from: parent, to: cur})
		cur = parent
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return cur, links, nil
}

// catalysis builds id by cloning its base and applying one site per
// modification link. The base molecule learns the inactive state of every
// site applied to it.
func (s *Session) catalysis(id domain.SpeciesID) error {
	base, links, err := s.chain(id)
	if err != nil {
		return err
	}
	sites, err := s.linkSites(links)
	if err != nil {
		return err
	}
	if !s.translator.Has(base) {
		s.elemental(base)
	}
	baseMols := s.translator.Molecules(base)
	cur := s.translator.CloneSpecies(base, s.bonds)
	if cur.IsEmpty() {
		return &domain.AmbiguityError{
			Species: id,
			Reason:  fmt.Sprintf("modification of empty species %s", base),
		}
	}

	for i, l := range links {
		mols := s.molecules(cur)
		target := targetMolecule(mols, l.to)
		if len(mols) > 1 {
			s.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{l.to},
				fmt.Sprintf("modification %s applied to molecule %s of %s", sites[i].State, target.Name, base))
		}
		for _, m := range baseMols {
			if m.Name == target.Name {
				markInactive(m, sites[i])
				break
			}
		}
		if applySite(target, sites[i]) {
			s.log.Record(assumptions.KindHeuristic, []domain.SpeciesID{l.to},
				fmt.Sprintf("second %s component on %s", sites[i].Component, target.Name))
		}
		if i == len(links)-1 {
			s.translator.Set(l.to, cur)
		} else {
			s.translator.Set(l.to, s.translator.Clone(cur, s.bonds))
		}
	}
	return nil
}

func (s *Session) linkSites(links []link) ([]domain.Site, error) {
	sites := make([]domain.Site, len(links))
	forced := false
	for i, l := range links {
		label, ok := s.equivalences.LabelFor(l.from, l.to)
		if !ok {
			label, ok = s.analyzer.ClassifyModification(l.from, l.to)
		}
		if ok {
			sites[i] = s.sites.For(label)
			continue
		}
		if !s.opts.ForceModification {
			return nil, &domain.AmbiguityError{
				Species:    l.to,
				Candidates: []domain.Composition{domain.Modification(l.from)},
				Reason:     fmt.Sprintf("no modification label for %s -> %s", l.from, l.to),
			}
		}
		if !forced {
			forced = true
			s.log.Record(assumptions.KindForcedSite, []domain.SpeciesID{l.to},
				fmt.Sprintf("forced component %s for unlabeled modification %s -> %s", forcedComponent, l.from, l.to))
		}
		sites[i] = domain.Site{Component: forcedComponent, State: suffixState(l.from, l.to)}
	}
	return sites, nil
}

// suffixState is the part of to's name that from does not account for.
func suffixState(from, to domain.SpeciesID) string {
	f, t := string(from), string(to)
	rest := t
	switch {
	case strings.HasPrefix(t, f):
		rest = t[len(f):]
	case strings.HasSuffix(t, f):
		rest = t[:len(t)-len(f)]
	}
	return domain.MoleculeName(domain.SpeciesID(strings.Trim(rest, "_-:.")))
}

// targetMolecule picks the molecule whose name best matches the modified
// species name.
func targetMolecule(mols []*domain.Molecule, to domain.SpeciesID) *domain.Molecule {
	best, bestLen := mols[0], -1
	name := strings.ToLower(string(to))
	for _, m := range mols {
		n := strings.ToLower(m.Name)
		if strings.Contains(name, n) && len(n) > bestLen {
			best, bestLen = m, len(n)
		}
	}
	return best
}

func markInactive(m *domain.Molecule, site domain.Site) {
	comps := m.ComponentsNamed(site.Component)
	if len(comps) == 0 {
		c := domain.NewComponent(site.Component, domain.InactiveState, site.State)
		c.ActiveState = domain.InactiveState
		m.AddComponent(c)
		return
	}
	for _, c := range comps {
		c.AddState(domain.InactiveState)
		c.AddState(site.State)
		if c.ActiveState == "" {
			c.ActiveState = domain.InactiveState
		}
	}
}

// applySite activates an inactive component or adds a new one, and reports
// whether the molecule now carries a twin of an already active site.
func applySite(m *domain.Molecule, site domain.Site) bool {
	if c := m.InactiveComponent(site.Component); c != nil {
		c.AddState(domain.InactiveState)
		c.AddState(site.State)
		c.ActiveState = site.State
		return false
	}
	twin := m.Count(site.Component) > 0
	c := domain.NewComponent(site.Component, domain.InactiveState, site.State)
	c.ActiveState = site.State
	m.AddComponent(c)
	return twin
}
