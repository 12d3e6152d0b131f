package atomizer

import (
	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/oracle"
)

type Options struct {
	MaxPasses int
	// MinVotes is the tally a molecule pair needs before the missing binding
	// components are added to both templates.
	MinVotes int
	// PairSingletons bonds two lone molecules directly without asking the
	// oracle.
	PairSingletons bool
	// ForceModification invents a component for modifications that naming
	// and equivalences cannot label.
	ForceModification bool
}

func DefaultOptions() Options {
	return Options{MaxPasses: 10, MinVotes: 1, PairSingletons: true}
}

type Config struct {
	Equivalences domain.EquivalenceTranslator
	Sites        lexical.Sites
	Analyzer     lexical.Analyzer
	Oracle       oracle.Evidence
	Log          *assumptions.Log
	Logger       *zap.Logger
	Seeds        []domain.MoleculePair
	Exclusions   []domain.MoleculePair
	Options      Options
}

// Session owns the mutable state of one atomization: the molecule arena, the
// translator being filled, the bond counter and the per-name templates that
// accumulate components across passes.
type Session struct {
	graph        *depgraph.Graph
	arena        *domain.Arena
	translator   *domain.Translator
	bonds        *domain.BondCounter
	log          *assumptions.Log
	logger       *zap.Logger
	equivalences domain.EquivalenceTranslator
	sites        lexical.Sites
	analyzer     lexical.Analyzer
	oracle       oracle.Evidence
	seeds        []domain.MoleculePair
	exclusions   []domain.MoleculePair
	opts         Options
	templates    map[string]domain.MoleculeID
}

func NewSession(g *depgraph.Graph, cfg Config) *Session {
	if cfg.Sites == nil {
		cfg.Sites = lexical.NewSites(nil)
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = lexical.NewNamingAnalyzer(cfg.Sites)
	}
	if cfg.Oracle == nil {
		cfg.Oracle = oracle.NewEvidence(oracle.None{}, nil, nil)
	}
	if cfg.Log == nil {
		cfg.Log = assumptions.New(cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Equivalences == nil {
		cfg.Equivalences = domain.EquivalenceTranslator{}
	}
	def := DefaultOptions()
	if cfg.Options == (Options{}) {
		cfg.Options = def
	}
	if cfg.Options.MaxPasses <= 0 {
		cfg.Options.MaxPasses = def.MaxPasses
	}
	if cfg.Options.MinVotes <= 0 {
		cfg.Options.MinVotes = def.MinVotes
	}

	arena := domain.NewArena()
	return &Session{
		graph:        g,
		arena:        arena,
		translator:   domain.NewTranslator(arena),
		bonds:        domain.NewBondCounter(),
		log:          cfg.Log,
		logger:       cfg.Logger,
		equivalences: cfg.Equivalences,
		sites:        cfg.Sites,
		analyzer:     cfg.Analyzer,
		oracle:       cfg.Oracle,
		seeds:        cfg.Seeds,
		exclusions:   cfg.Exclusions,
		opts:         cfg.Options,
		templates:    map[string]domain.MoleculeID{},
	}
}

func (s *Session) Translator() *domain.Translator { return s.translator }

func (s *Session) Bonds() *domain.BondCounter { return s.bonds }

func (s *Session) Log() *assumptions.Log { return s.log }

func (s *Session) Graph() *depgraph.Graph { return s.graph }

// Template returns the shared molecule for name, creating it on first use.
func (s *Session) Template(name string) *domain.Molecule {
	return s.arena.Get(s.template(name))
}

func (s *Session) template(name string) domain.MoleculeID {
	if id, ok := s.templates[name]; ok {
		return id
	}
	id := s.arena.New(name)
	s.templates[name] = id
	return id
}

// elemental points id at its template unless it already has an entry.
func (s *Session) elemental(id domain.SpeciesID) {
	if s.translator.Has(id) {
		return
	}
	s.translator.Set(id, &domain.Species{Molecules: []domain.MoleculeID{s.template(domain.MoleculeName(id))}})
}

// placeholder stands in for a species that could not be built this pass so
// complexes containing it still see a molecule.
func (s *Session) placeholder(id domain.SpeciesID) {
	s.translator.Set(id, &domain.Species{Molecules: []domain.MoleculeID{s.template(domain.MoleculeName(id))}})
}

func (s *Session) molecules(sp *domain.Species) []*domain.Molecule {
	out := make([]*domain.Molecule, 0, len(sp.Molecules))
	for _, mid := range sp.Molecules {
		out = append(out, s.arena.Get(mid))
	}
	return out
}

func (s *Session) excluded(a, b string) bool {
	for _, p := range s.exclusions {
		if p.Has(a, b) {
			return true
		}
	}
	return false
}
