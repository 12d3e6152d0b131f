package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/parser"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/validator"
)

func valid() *parser.NetworkSpec {
	return &parser.NetworkSpec{
		Name:    "n",
		Species: []string{"A", "B", "C"},
		Reactions: []parser.ReactionSpec{
			{Reactants: []string{"A", "B"}, Products: []string{"C"}},
		},
		Sites:        map[string]parser.SiteSpec{"Phosphorylation": {Component: "p", State: "P"}},
		Interactions: [][]string{{"A", "B"}},
	}
}

func TestValidate_Accepts(t *testing.T) {
	assert.NoError(t, validator.Validate(valid()))

	textOnly := &parser.NetworkSpec{ReactionsText: "A + B -> C"}
	assert.NoError(t, validator.Validate(textOnly))
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(s *parser.NetworkSpec){
		"duplicate species": func(s *parser.NetworkSpec) { s.Species = append(s.Species, "A") },
		"blank species":     func(s *parser.NetworkSpec) { s.Species = append(s.Species, "  ") },
		"empty reaction":    func(s *parser.NetworkSpec) { s.Reactions = append(s.Reactions, parser.ReactionSpec{ID: "r9"}) },
		"short pair":        func(s *parser.NetworkSpec) { s.Interactions = [][]string{{"A"}} },
		"site state":        func(s *parser.NetworkSpec) { s.Sites["X"] = parser.SiteSpec{Component: "x"} },
		"bad text":          func(s *parser.NetworkSpec) { s.ReactionsText = "A + -> B" },
		"empty network": func(s *parser.NetworkSpec) {
			*s = parser.NetworkSpec{Name: "empty"}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid()
			mutate(s)
			err := validator.Validate(s)
			assert.ErrorIs(t, err, validator.ErrInvalidNetwork)
		})
	}

	assert.ErrorIs(t, validator.Validate(nil), validator.ErrInvalidNetwork)
}
