package export

import (
	"fmt"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// ToDOT draws the species composition table: one node per species and an
// edge from every member to the species built from it.
func ToDOT(g *depgraph.Graph, title string) string {
	var b strings.Builder
	b.WriteString("digraph SCT {\n  rankdir=BT;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, title))
		b.WriteString("\n")
	}

	for _, s := range g.InsertionOrder() {
		c, _ := g.Primary(s)
		style := `shape=box,style="rounded,filled",fillcolor="#eef6ff"`
		switch {
		case c.Kind == domain.KindZero:
			style = `shape=point`
		case c.IsTrivial(s):
			style = `shape=box,style="filled",fillcolor="#d4edda"`
		case c.Kind == domain.KindModification:
			style = `shape=ellipse,style="filled",fillcolor="#fff3cd"`
		}
		b.WriteString(fmt.Sprintf(`  "%s" [label="%s", %s];`+"\n", s, s, style))
	}

	for i, e := range g.Edges() {
		c, _ := g.Primary(e[1])
		if c.Kind == domain.KindZero {
			continue
		}
		lbl := "binds"
		if c.Kind == domain.KindModification {
			lbl = "modifies"
		}
		b.WriteString(fmt.Sprintf(`  "%s" -> "%s" [label="%s", tooltip="edge#%d"];`+"\n",
			e[0], e[1], lbl, i))
	}

	b.WriteString("}\n")
	return b.String()
}
