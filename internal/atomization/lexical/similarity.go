package lexical

import (
	"strings"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

const separators = "_-:."

func isSeparator(r rune) bool { return strings.ContainsRune(separators, r) }

// Split breaks a species name on separators.
func Split(name string) []string {
	return strings.FieldsFunc(name, isSeparator)
}

// tokenSpans returns [start, end) byte offsets of each token of name.
func tokenSpans(name string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range name {
		if isSeparator(r) {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(name)})
	}
	return spans
}

func LongestCommonSubstring(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// Similarity scores how much of name is shared with each member name.
func Similarity(name domain.SpeciesID, members []domain.SpeciesID) int {
	n := strings.ToLower(string(name))
	score := 0
	for _, m := range members {
		score += LongestCommonSubstring(n, strings.ToLower(string(m)))
	}
	return score
}
