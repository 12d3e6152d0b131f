package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Reaction lines look like
//
//	A() + B() -> C()  k1  @Binding
//	A <-> A_P @Phosphorylation
//	0 -> A
//
// one per line or separated by ';'.
type reactionList struct {
	Lines []*reactionLine `parser:"Newline* (@@ Newline*)*"`
}

type reactionLine struct {
	Reactants []string `parser:"@Species (\"+\" @Species)*"`
	Arrow     string   `parser:"@Arrow"`
	Products  []string `parser:"@Species (\"+\" @Species)*"`
	Rate      string   `parser:"@Species?"`
	Label     string   `parser:"@Label?"`
}

var reactionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "Arrow", Pattern: `<->|->`},
	{Name: "Label", Pattern: `@[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Species", Pattern: `[A-Za-z0-9_][A-Za-z0-9_:.]*(\(\))?`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Newline", Pattern: `[\n;]+`},
	{Name: "whitespace", Pattern: `[ \t\r]+`},
})

var parseReactions = participle.MustBuild[reactionList](
	participle.Lexer(reactionLexer),
)

// ParseReactionText reads the compact reaction notation. A side written as
// the single species 0 is empty.
func ParseReactionText(text string) ([]ReactionSpec, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	list, err := parseReactions.ParseString("reactions_text", text)
	if err != nil {
		return nil, err
	}
	out := make([]ReactionSpec, 0, len(list.Lines))
	for _, l := range list.Lines {
		out = append(out, ReactionSpec{
			Reactants:      side(l.Reactants),
			Products:       side(l.Products),
			Classification: strings.TrimPrefix(l.Label, "@"),
			Rate:           l.Rate,
			Reversible:     l.Arrow == "<->",
		})
	}
	return out, nil
}

func side(names []string) []string {
	if len(names) == 1 && strings.TrimSuffix(names[0], "()") == "0" {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSuffix(n, "()")
	}
	return out
}
