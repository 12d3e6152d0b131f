package lexical

import (
	"sort"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

var defaultSites = map[string]domain.Site{
	"Phosphorylation": {Component: "phospho", State: "P"},
	"Ubiquitination":  {Component: "ubiq", State: "Ub"},
	"Activation":      {Component: "act", State: "Act"},
	"Methylation":     {Component: "me", State: "Me"},
	"Acetylation":     {Component: "ac", State: "Ac"},
}

var defaultKeywords = map[string][]string{
	"Phosphorylation": {"p", "phos", "phospho", "phosphorylated"},
	"Ubiquitination":  {"ub", "ubi", "ubiq", "ubiquitinated"},
	"Activation":      {"act", "active", "activated", "star"},
	"Methylation":     {"me", "meth", "methyl", "methylated"},
	"Acetylation":     {"ac", "acetyl", "acetylated"},
}

// Sites maps a modification label to the component/state pair encoding it.
type Sites map[string]domain.Site

// NewSites layers user definitions over the built-in table.
func NewSites(user map[string]domain.Site) Sites {
	out := Sites{}
	for l, s := range defaultSites {
		out[l] = s
	}
	for l, s := range user {
		out[l] = s
	}
	return out
}

// For returns the site of label, synthesizing {label, label} lower-cased
// for labels nobody defined.
func (s Sites) For(label string) domain.Site {
	if site, ok := s[label]; ok {
		return site
	}
	name := strings.ToLower(domain.MoleculeName(domain.SpeciesID(label)))
	return domain.Site{Component: name, State: name}
}

func (s Sites) Labels() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// ConstructedName names the synthetic intermediate for base under site.
func ConstructedName(base domain.SpeciesID, site domain.Site) domain.SpeciesID {
	return domain.SpeciesID(string(base) + "_" + site.State)
}
