package assumptions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

func TestLog_DeduplicatesIdenticalEntries(t *testing.T) {
	log := assumptions.New(nil)
	assert.True(t, log.Record(assumptions.KindHeuristic, []domain.SpeciesID{"C"}, "picked [A, B]"))
	assert.False(t, log.Record(assumptions.KindHeuristic, []domain.SpeciesID{"C"}, "picked [A, B]"))
	assert.True(t, log.Record(assumptions.KindConflict, []domain.SpeciesID{"C"}, "picked [A, B]"))

	assert.Equal(t, 2, log.Len())
	assert.Len(t, log.ByKind(assumptions.KindConflict), 1)
	assert.Equal(t, map[assumptions.Kind]int{assumptions.KindHeuristic: 1, assumptions.KindConflict: 1}, log.Counts())
}

func TestLog_MirrorsToLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := assumptions.New(zap.New(core))

	log.Add(assumptions.Entry{
		Kind:    assumptions.KindAmbiguity,
		Species: []string{"C"},
		Message: "no binding evidence",
		Pairs:   assumptions.PairNames([]domain.MoleculePair{domain.NewMoleculePair("B", "A")}),
	})
	log.Record(assumptions.KindInfo, []domain.SpeciesID{"D"}, "collapsed")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	}
	assert.Equal(t, []string{"A-B"}, log.Entries()[0].Pairs)
}
