package domain

type CompositionKind string

const (
	KindElemental    CompositionKind = "ELEMENTAL"
	KindZero         CompositionKind = "ZERO"
	KindModification CompositionKind = "MODIFICATION"
	KindBinding      CompositionKind = "BINDING"
)

// Reaction classification labels produced by the mapper. Modification labels
// (Phosphorylation, ...) are free-form and come from the lexical tables.
const (
	ClassBinding        = "Binding"
	ClassCatalysis      = "Catalysis"
	ClassGeneration     = "Generation"
	ClassDecay          = "Decay"
	ClassTransformation = "Transformation"
)

const (
	// ZeroSpecies is the placeholder member of a Zero composition.
	ZeroSpecies SpeciesID = "0"
	// InactiveState is the default state of a modification site.
	InactiveState = "0"
)

var zeroNames = map[string]struct{}{
	"0":        {},
	"null":     {},
	"trash":    {},
	"sink":     {},
	"source":   {},
	"emptyset": {},
}
