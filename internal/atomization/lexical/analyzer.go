package lexical

import (
	"sort"
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Analyzer proposes structure from species names.
type Analyzer interface {
	// ClassifyModification returns the modification label turning from into to.
	ClassifyModification(from, to domain.SpeciesID) (string, bool)
	// AnalyzeSpeciesModification locates which constituent of derived carries
	// the modification keyword that distinguishes it from base.
	AnalyzeSpeciesModification(base, derived domain.SpeciesID, constituents []domain.SpeciesID) (Match, bool)
	// GreedyModificationMatch decomposes species into known species names.
	GreedyModificationMatch(species domain.SpeciesID, known []domain.SpeciesID) (domain.Composition, bool)
}

type Match struct {
	Constituent  domain.SpeciesID
	Label        string
	Equivalences []domain.Pair
}

// NamingAnalyzer works from separator-delimited naming conventions such as
// "EGFR_P" or "pERK".
type NamingAnalyzer struct {
	sites    Sites
	keywords map[string]string
}

func NewNamingAnalyzer(sites Sites) *NamingAnalyzer {
	a := &NamingAnalyzer{sites: sites, keywords: map[string]string{}}
	labels := make([]string, 0, len(defaultKeywords))
	for l := range defaultKeywords {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		for _, kw := range defaultKeywords[l] {
			a.register(kw, l)
		}
	}
	for _, l := range sites.Labels() {
		a.register(l, l)
		a.register(sites[l].State, l)
	}
	return a
}

func (a *NamingAnalyzer) register(keyword, label string) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return
	}
	if _, ok := a.keywords[kw]; !ok {
		a.keywords[kw] = label
	}
}

// Label returns the modification label a name token stands for.
func (a *NamingAnalyzer) Label(token string) (string, bool) {
	l, ok := a.keywords[strings.ToLower(token)]
	return l, ok
}

func (a *NamingAnalyzer) Sites() Sites { return a.sites }

func (a *NamingAnalyzer) ClassifyModification(from, to domain.SpeciesID) (string, bool) {
	f, t := string(from), string(to)
	if f == "" || f == t {
		return "", false
	}
	var tokens []string
	prefix := false
	switch {
	case strings.HasPrefix(t, f):
		tokens = Split(t[len(f):])
		prefix = true
	case strings.HasSuffix(t, f):
		tokens = Split(t[:len(t)-len(f)])
	default:
		return "", false
	}
	if len(tokens) == 0 {
		return "", false
	}
	// the token next to the base names the modification
	if prefix {
		return a.Label(tokens[0])
	}
	return a.Label(tokens[len(tokens)-1])
}

func (a *NamingAnalyzer) AnalyzeSpeciesModification(base, derived domain.SpeciesID, constituents []domain.SpeciesID) (Match, bool) {
	if base == derived {
		return Match{}, false
	}
	tokens := Split(string(derived))
	seen := map[domain.SpeciesID]bool{}
	var after, before []Match
	for _, c := range constituents {
		if seen[c] {
			continue
		}
		seen[c] = true
		ct := Split(string(c))
		if len(ct) == 0 {
			continue
		}
		for i := 0; i+len(ct) <= len(tokens); i++ {
			if !equalFold(tokens[i:i+len(ct)], ct) {
				continue
			}
			if j := i + len(ct); j < len(tokens) {
				if label, ok := a.Label(tokens[j]); ok {
					after = append(after, Match{Constituent: c, Label: label})
					break
				}
			}
			if i > 0 {
				if label, ok := a.Label(tokens[i-1]); ok {
					before = append(before, Match{Constituent: c, Label: label})
					break
				}
			}
		}
		if label, ok := a.fused(tokens, string(c)); ok {
			before = append(before, Match{Constituent: c, Label: label})
		}
	}

	var m Match
	switch {
	case len(after) == 1:
		m = after[0]
	case len(after) == 0 && len(before) == 1:
		m = before[0]
	default:
		return Match{}, false
	}
	m.Equivalences = []domain.Pair{{Base: m.Constituent, Modified: ConstructedName(m.Constituent, a.sites.For(m.Label))}}
	return m, true
}

// fused finds a keyword glued in front of name inside one token ("pERK").
func (a *NamingAnalyzer) fused(tokens []string, name string) (string, bool) {
	for _, tok := range tokens {
		lt := strings.ToLower(tok)
		ln := strings.ToLower(name)
		if len(lt) <= len(ln) || !strings.HasSuffix(lt, ln) {
			continue
		}
		if label, ok := a.keywords[lt[:len(lt)-len(ln)]]; ok {
			return label, true
		}
	}
	return "", false
}

func (a *NamingAnalyzer) GreedyModificationMatch(species domain.SpeciesID, known []domain.SpeciesID) (domain.Composition, bool) {
	name := string(species)
	spans := tokenSpans(name)
	if len(spans) < 2 {
		return domain.Composition{}, false
	}
	index := make(map[string]domain.SpeciesID, len(known))
	for _, k := range known {
		if k != species {
			index[string(k)] = k
		}
	}

	var parts []domain.SpeciesID
	keywords := 0
	for i := 0; i < len(spans); {
		matched := false
		for j := len(spans); j > i; j-- {
			if i == 0 && j == len(spans) {
				continue
			}
			if id, ok := index[name[spans[i][0]:spans[j-1][1]]]; ok {
				parts = append(parts, id)
				i = j
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if _, ok := a.Label(name[spans[i][0]:spans[i][1]]); !ok {
			return domain.Composition{}, false
		}
		keywords++
		i++
	}

	switch {
	case len(parts) >= 2 && keywords == 0:
		return domain.NewComposition(parts).Sorted(), true
	case len(parts) == 1 && keywords > 0:
		return domain.Modification(parts[0]), true
	}
	return domain.Composition{}, false
}

func equalFold(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
