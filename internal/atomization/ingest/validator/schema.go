package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/parser"
)

var ErrInvalidNetwork = errors.New("invalid network")

var validate = validator.New()

// Validate checks tag constraints on the document and then the structural
// rules tags cannot express.
func Validate(s *parser.NetworkSpec) error {
	if s == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidNetwork)
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNetwork, formatValidationError(err))
	}

	seen := map[string]bool{}
	for _, sp := range s.Species {
		n := strings.TrimSpace(sp)
		if n == "" {
			return fmt.Errorf("%w: species name is empty", ErrInvalidNetwork)
		}
		if seen[n] {
			return fmt.Errorf("%w: duplicate species: %q", ErrInvalidNetwork, n)
		}
		seen[n] = true
	}

	for i, r := range s.Reactions {
		if len(r.Reactants) == 0 && len(r.Products) == 0 {
			return fmt.Errorf("%w: reaction %s has neither reactants nor products", ErrInvalidNetwork, reactionName(r, i))
		}
	}

	if len(s.Species) == 0 && len(s.Reactions) == 0 && strings.TrimSpace(s.ReactionsText) == "" {
		return fmt.Errorf("%w: network has no species and no reactions", ErrInvalidNetwork)
	}

	if _, err := parser.ParseReactionText(s.ReactionsText); err != nil {
		return fmt.Errorf("%w: reactions_text: %v", ErrInvalidNetwork, err)
	}
	return nil
}

func reactionName(r parser.ReactionSpec, i int) string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("#%d", i+1)
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
