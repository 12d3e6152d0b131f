package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/atomizer"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/consolidation"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/depgraph"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/graph/export"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/mapper"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/parser"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/validator"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/lexical"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/oracle"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/postprocess"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

var (
	ErrEmptyNetwork      = errors.New("network has no species")
	ErrMalformedDocument = errors.New("malformed network document")
)

// Options configure one pipeline run. The zero value runs with the default
// atomizer options, no external oracle and no logging.
type Options struct {
	Atomizer        atomizer.Options
	SoftConstraints bool
	// Oracle is consulted after the interactions declared in the network.
	Oracle  oracle.Oracle
	Logger  *zap.Logger
	Metrics *observability.Collector
}

// Atomize runs the whole pipeline over n: graph construction, consolidation,
// weighting, atomization and post-processing.
func Atomize(ctx context.Context, n *domain.Network, opts Options) (res *Result, err error) {
	if n == nil || len(n.Species) == 0 {
		return nil, ErrEmptyNetwork
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	defer func() {
		status := domain.RunStatusCompleted
		if err != nil {
			status = domain.RunStatusFailed
		}
		opts.Metrics.RecordRun(status, time.Since(start))
	}()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID), zap.String("network", n.Name))
	logger.Info("atomization started",
		zap.Int("species", len(n.Species)),
		zap.Int("reactions", len(n.Reactions)),
	)

	g := depgraph.Build(n.Species, n.Reactions)
	sites := lexical.NewSites(n.Sites)
	analyzer := lexical.NewNamingAnalyzer(sites)

	chain := oracle.Chain{oracle.NewStatic(n.Interactions, nil)}
	if opts.Oracle != nil {
		chain = append(chain, opts.Oracle)
	}
	evidence := oracle.NewEvidence(chain, logger, opts.Metrics)
	log := assumptions.New(logger)

	cons := consolidation.New(g, consolidation.Config{
		Analyzer: analyzer,
		Sites:    sites,
		Oracle:   evidence,
		Log:      log,
		Evidence: consolidation.Evidence{
			Equivalences: n.Equivalences,
			Definitions:  n.Definitions,
			Annotations:  n.Annotations,
		},
		Options: consolidation.Options{SoftConstraints: opts.SoftConstraints},
	})
	if err := cons.Run(ctx); err != nil {
		return nil, err
	}

	weights := depgraph.Order(g)
	session := atomizer.NewSession(g, atomizer.Config{
		Equivalences: cons.Equivalences(),
		Sites:        sites,
		Analyzer:     analyzer,
		Oracle:       evidence,
		Log:          log,
		Logger:       logger,
		Seeds:        n.BondSeeds,
		Exclusions:   n.BondExclusions,
		Options:      opts.Atomizer,
	})
	outcome, err := session.Run(ctx, weights)
	if err != nil {
		return nil, fmt.Errorf("atomize %s: %w", n.Name, err)
	}

	t := session.Translator()
	report := postprocess.Run(g, t, inputOrder(n.Species, weights), log, logger)

	res = &Result{
		RunID:         runID,
		Network:       n.Name,
		CreatedAt:     time.Now().UTC(),
		SCT:           g.Table(),
		Weights:       weights,
		Species:       make([]domain.SpeciesView, 0, t.Len()),
		MoleculeTypes: t.MoleculeTypes(),
		Assumptions:   log.Entries(),
		Unresolved:    make([]Unresolved, 0, len(outcome.Unresolved)),
		Constructed:   cons.Constructed(),
		Decisions:     cons.Decisions(),
		Kinds:         outcome.Kinds,
		Passes:        outcome.Passes,
		Votes:         outcome.Votes,
		Postprocess:   report,
		graph:         g,
	}
	for _, id := range t.IDs() {
		res.Species = append(res.Species, t.View(id))
	}
	for _, id := range outcome.UnresolvedIDs() {
		res.Unresolved = append(res.Unresolved, Unresolved{
			Species: id,
			Pairs:   assumptions.PairNames(outcome.Unresolved[id]),
		})
	}

	for kind, count := range outcome.Kinds {
		opts.Metrics.RecordSpecies(kind, count)
	}
	for kind, count := range log.Counts() {
		opts.Metrics.RecordAssumptions(string(kind), count)
	}
	opts.Metrics.RecordBindingFailures(len(res.Unresolved))
	opts.Metrics.RecordVotes(outcome.Votes)

	logger.Info("atomization finished",
		zap.Int("passes", res.Passes),
		zap.Int("votes", res.Votes),
		zap.Int("unresolved", len(res.Unresolved)),
		zap.Int("assumptions", len(res.Assumptions)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// inputOrder lists the declared species first, then species that only the
// pipeline introduced, in processing order.
func inputOrder(declared []domain.SpeciesID, weights []depgraph.Weight) []domain.SpeciesID {
	order := make([]domain.SpeciesID, 0, len(weights))
	seen := make(map[domain.SpeciesID]bool, len(weights))
	for _, id := range declared {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, w := range weights {
		if !seen[w.Species] {
			seen[w.Species] = true
			order = append(order, w.Species)
		}
	}
	return order
}

// AtomizeSpec validates and maps a parsed document before running it.
func AtomizeSpec(ctx context.Context, s *parser.NetworkSpec, opts Options) (*Result, error) {
	if err := validator.Validate(s); err != nil {
		return nil, err
	}
	n, err := mapper.ToNetwork(s, nil)
	if err != nil {
		return nil, err
	}
	return Atomize(ctx, n, opts)
}

// AtomizeYAMLBytes accepts a YAML or JSON network document.
func AtomizeYAMLBytes(ctx context.Context, b []byte, opts Options) (*Result, error) {
	s, err := parser.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return AtomizeSpec(ctx, s, opts)
}

// AtomizeFile runs the document at path and writes the outputs into outDir.
func AtomizeFile(ctx context.Context, path, outDir string, opts Options) (*Result, error) {
	s, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	res, err := AtomizeSpec(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteOutputs(res, outDir); err != nil {
		return nil, err
	}
	return res, nil
}

// AtomizeYAMLBytesToRun writes the outputs into a fresh run folder under
// outBaseDir/runs/<run id>.
func AtomizeYAMLBytesToRun(ctx context.Context, b []byte, outBaseDir string, opts Options) (*Result, string, error) {
	if outBaseDir == "" {
		outBaseDir = "out"
	}
	res, err := AtomizeYAMLBytes(ctx, b, opts)
	if err != nil {
		return nil, "", err
	}
	runDir := filepath.Join(outBaseDir, "runs", res.RunID)
	if err := WriteOutputs(res, runDir); err != nil {
		return nil, "", err
	}
	return res, runDir, nil
}

// WriteOutputs persists result.json, result.yaml, sct.dot and model.bngl.
func WriteOutputs(res *Result, outDir string) error {
	if outDir == "" {
		outDir = "out"
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	if err := export.WriteJSON(filepath.Join(outDir, "result.json"), res); err != nil {
		return err
	}
	if err := export.WriteYAML(filepath.Join(outDir, "result.yaml"), res); err != nil {
		return err
	}
	if res.graph != nil {
		if err := export.WriteFile(filepath.Join(outDir, "sct.dot"), export.ToDOT(res.graph, res.Network)); err != nil {
			return err
		}
	}
	return export.WriteFile(filepath.Join(outDir, "model.bngl"), export.ToBNGL(res.Network, res.MoleculeTypes, res.Species))
}

// RenderSVG turns the sct.dot of outDir into sct.svg with graphviz.
func RenderSVG(outDir, dotBin string) (string, error) {
	svg := filepath.Join(outDir, "sct.svg")
	if err := export.DotTo(filepath.Join(outDir, "sct.dot"), svg, "svg", dotBin); err != nil {
		return "", fmt.Errorf("graphviz render: %w", err)
	}
	return svg, nil
}
