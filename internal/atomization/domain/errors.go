package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCycle          = errors.New("dependency cycle")
	ErrBinding        = errors.New("no binding evidence")
	ErrAmbiguous      = errors.New("unresolved ambiguity")
	ErrUnknownSpecies = errors.New("unknown species")

	ErrRunNotFound      = errors.New("atomization run not found")
	ErrRunAlreadyExists = errors.New("atomization run already exists")
	ErrSummaryNotFound  = errors.New("run summary not found")
)

// CycleError carries the visited path that closed a loop.
type CycleError struct {
	Path []SpeciesID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = string(p)
	}
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(parts, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// BindingError lists every molecule pair that was tried without evidence.
type BindingError struct {
	Species SpeciesID
	Pairs   []MoleculePair
}

func (e *BindingError) Error() string {
	parts := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%v for %s: [%s]", ErrBinding, e.Species, strings.Join(parts, ", "))
}

func (e *BindingError) Is(target error) bool { return target == ErrBinding }

type AmbiguityError struct {
	Species    SpeciesID
	Candidates []Composition
	Reason     string
}

func (e *AmbiguityError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%v for %s: %s", ErrAmbiguous, e.Species, e.Reason)
	}
	cands := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		cands[i] = c.String()
	}
	return fmt.Sprintf("%v for %s: %s %s", ErrAmbiguous, e.Species, e.Reason, strings.Join(cands, " "))
}

func (e *AmbiguityError) Is(target error) bool { return target == ErrAmbiguous }
