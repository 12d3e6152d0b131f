package assumptions

import (
	"strings"

	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

type Kind string

const (
	KindHeuristic  Kind = "heuristic"
	KindConflict   Kind = "conflict"
	KindInfo       Kind = "info"
	KindAmbiguity  Kind = "ambiguity"
	KindRedundant  Kind = "redundant_bonds"
	KindCollision  Kind = "collision"
	KindCycle      Kind = "cycle"
	KindVote       Kind = "binding_vote"
	KindForcedSite Kind = "forced_modification"
)

// Entry is one recorded decision or unresolved case.
type Entry struct {
	Kind         Kind     `json:"kind" yaml:"kind"`
	Species      []string `json:"species" yaml:"species"`
	Message      string   `json:"message" yaml:"message"`
	Pairs        []string `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

func (e Entry) key() string {
	return strings.Join([]string{
		string(e.Kind),
		strings.Join(e.Species, ","),
		e.Message,
		strings.Join(e.Pairs, ","),
		strings.Join(e.Alternatives, ","),
	}, "|")
}

// Log is the append-only record of one atomization run. Identical entries
// are kept once, so stages that revisit a species every pass do not repeat
// themselves.
type Log struct {
	entries []Entry
	seen    map[string]struct{}
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{seen: map[string]struct{}{}, logger: logger}
}

// Add appends e and reports whether it was new.
func (l *Log) Add(e Entry) bool {
	k := e.key()
	if _, dup := l.seen[k]; dup {
		return false
	}
	l.seen[k] = struct{}{}
	l.entries = append(l.entries, e)

	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.Strings("species", e.Species),
	}
	if len(e.Pairs) > 0 {
		fields = append(fields, zap.Strings("pairs", e.Pairs))
	}
	if len(e.Alternatives) > 0 {
		fields = append(fields, zap.Strings("alternatives", e.Alternatives))
	}
	switch e.Kind {
	case KindConflict, KindAmbiguity, KindCycle, KindForcedSite:
		l.logger.Warn(e.Message, fields...)
	case KindInfo:
		l.logger.Debug(e.Message, fields...)
	default:
		l.logger.Info(e.Message, fields...)
	}
	return true
}

// Record is Add for the common single-message case.
func (l *Log) Record(kind Kind, species []domain.SpeciesID, msg string, alternatives ...string) bool {
	return l.Add(Entry{Kind: kind, Species: Names(species), Message: msg, Alternatives: alternatives})
}

func (l *Log) Entries() []Entry { return append([]Entry(nil), l.entries...) }

func (l *Log) ByKind(k Kind) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) Counts() map[Kind]int {
	out := map[Kind]int{}
	for _, e := range l.entries {
		out[e.Kind]++
	}
	return out
}

func Names(ids []domain.SpeciesID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func PairNames(pairs []domain.MoleculePair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.String()
	}
	return out
}
