package oracle

import (
	"context"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Static answers from a fixed interaction table, case-insensitively.
type Static struct {
	pairs map[domain.MoleculePair]bool
	sites map[string][]string
}

func NewStatic(pairs []domain.MoleculePair, sites map[string][]string) *Static {
	s := &Static{pairs: map[domain.MoleculePair]bool{}, sites: map[string][]string{}}
	for _, p := range pairs {
		s.pairs[domain.NewMoleculePair(strings.ToLower(p[0]), strings.ToLower(p[1]))] = true
	}
	for name, list := range sites {
		s.sites[strings.ToLower(name)] = append([]string(nil), list...)
	}
	return s
}

func (s *Static) QueryBinding(_ context.Context, a, b string) (bool, error) {
	return s.pairs[domain.NewMoleculePair(strings.ToLower(a), strings.ToLower(b))], nil
}

func (s *Static) ActiveSites(_ context.Context, name string) ([]string, error) {
	return append([]string(nil), s.sites[strings.ToLower(name)]...), nil
}
