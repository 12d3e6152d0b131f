package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/assumptions"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/atomizer"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/validator"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

const dimerYAML = `
name: dimer
reactions:
  - id: bind
    reactants: [A, B]
    products: [C]
    classification: Binding
`

const phosphoYAML = `
name: phospho
species: [A, A_P]
reactions:
  - reactants: [A]
    products: [A_P]
    classification: Phosphorylation
sites:
  Phosphorylation: {component: p, state: P}
`

func atomize(t *testing.T, doc string, opts service.Options) *service.Result {
	t.Helper()
	res, err := service.AtomizeYAMLBytes(context.Background(), []byte(doc), opts)
	require.NoError(t, err)
	return res
}

func TestAtomize_PureBinding(t *testing.T) {
	res := atomize(t, dimerYAML, service.Options{Metrics: observability.NewCollector("test")})

	_, err := uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "dimer", res.Network)
	assert.Equal(t, "A(b!1).B(a!1)", res.Pattern("C"))
	assert.Equal(t, []string{"A", "B"}, res.SCT["C"])
	assert.Empty(t, res.Unresolved)
	assert.Equal(t, 1, res.Passes)
	require.Len(t, res.Weights, 3)
	assert.Equal(t, domain.SpeciesID("C"), res.Weights[2].Species)
}

func TestAtomize_CatalysisChain(t *testing.T) {
	res := atomize(t, phosphoYAML, service.Options{})

	assert.Equal(t, "A(p~P)", res.Pattern("A_P"))
	assert.Equal(t, "A(p~0)", res.Pattern("A"))
	require.Len(t, res.MoleculeTypes, 1)
	assert.Equal(t, "A", res.MoleculeTypes[0].Name)
	assert.Equal(t, []string{"0", "P"}, res.MoleculeTypes[0].Components[0].States)
}

func TestAtomize_UnresolvedBinding(t *testing.T) {
	res := atomize(t, dimerYAML, service.Options{
		Atomizer: atomizer.Options{MaxPasses: 10, MinVotes: 2},
	})

	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, domain.SpeciesID("C"), res.Unresolved[0].Species)
	assert.Equal(t, []string{"A-B"}, res.Unresolved[0].Pairs)
	assert.Equal(t, "C()", res.Pattern("C"))

	var amb []assumptions.Entry
	for _, e := range res.Assumptions {
		if e.Kind == assumptions.KindAmbiguity {
			amb = append(amb, e)
		}
	}
	require.Len(t, amb, 1)
	assert.Equal(t, []string{"A-B"}, amb[0].Pairs)
}

func TestAtomize_DuplicateStructures(t *testing.T) {
	res := atomize(t, `
name: twins
reactions:
  - {reactants: [A, B], products: [C], classification: Binding}
  - {reactants: [A, B], products: [D], classification: Binding}
`, service.Options{})

	require.Len(t, res.Postprocess.Collisions, 1)
	assert.Equal(t, domain.SpeciesID("C"), res.Postprocess.Collisions[0].Kept)
	assert.Equal(t, domain.SpeciesID("D"), res.Postprocess.Collisions[0].Dropped)
	assert.Equal(t, "", res.Pattern("D"))
	assert.NotEmpty(t, res.Pattern("C"))
}

func TestAtomize_DuplicateKeepsDeclarationOrder(t *testing.T) {
	res := atomize(t, `
name: twins
species: [A, B, Complex, D]
reactions:
  - {reactants: [A, B], products: [Complex], classification: Binding}
  - {reactants: [A, B], products: [D], classification: Binding}
`, service.Options{})

	require.Len(t, res.Postprocess.Collisions, 1)
	assert.Equal(t, domain.SpeciesID("Complex"), res.Postprocess.Collisions[0].Kept)
	assert.Equal(t, domain.SpeciesID("D"), res.Postprocess.Collisions[0].Dropped)
	assert.Equal(t, "A(b!1).B(a!1)", res.Pattern("Complex"))
	assert.Equal(t, "", res.Pattern("D"))
}

func TestAtomize_Errors(t *testing.T) {
	_, err := service.AtomizeYAMLBytes(context.Background(), []byte("name: empty\n"), service.Options{})
	assert.ErrorIs(t, err, validator.ErrInvalidNetwork)

	_, err = service.Atomize(context.Background(), domain.NewNetwork("none"), service.Options{})
	assert.ErrorIs(t, err, service.ErrEmptyNetwork)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.AtomizeYAMLBytes(ctx, []byte(dimerYAML), service.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteOutputs(t *testing.T) {
	res := atomize(t, dimerYAML, service.Options{})
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, service.WriteOutputs(res, dir))
	for _, f := range []string{"result.json", "result.yaml", "sct.dot", "model.bngl"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "result.json"))
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, res.RunID, back["run_id"])

	bngl, err := os.ReadFile(filepath.Join(dir, "model.bngl"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(bngl), "A(b!1).B(a!1)"))
}

func TestAtomizeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(phosphoYAML), 0644))

	res, err := service.AtomizeFile(context.Background(), path, filepath.Join(dir, "out"), service.Options{})
	require.NoError(t, err)
	assert.Equal(t, "phospho", res.Network)
	_, err = os.Stat(filepath.Join(dir, "out", "sct.dot"))
	assert.NoError(t, err)

	res, runDir, err := service.AtomizeYAMLBytesToRun(context.Background(), []byte(dimerYAML), dir, service.Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "runs", res.RunID), runDir)
}

type memRuns struct{ recs map[string]*domain.RunRecord }

func (m *memRuns) Save(_ context.Context, r *domain.RunRecord) error {
	m.recs[r.RunID] = r
	return nil
}

func (m *memRuns) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	r, ok := m.recs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return r, nil
}

func (m *memRuns) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	var out []domain.RunRecord
	for _, r := range m.recs {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memRuns) Delete(_ context.Context, id string) error {
	delete(m.recs, id)
	return nil
}

type memSummaries struct {
	rows   map[string]*domain.RunSummary
	cutoff time.Time
}

func (m *memSummaries) Upsert(_ context.Context, s *domain.RunSummary) (*domain.RunSummary, error) {
	m.rows[s.RunID] = s
	return s, nil
}

func (m *memSummaries) GetByRunID(_ context.Context, id string) (*domain.RunSummary, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	return s, nil
}

func (m *memSummaries) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	return int64(len(m.rows)), nil
}

func TestRunService(t *testing.T) {
	runs := &memRuns{recs: map[string]*domain.RunRecord{}}
	sums := &memSummaries{rows: map[string]*domain.RunSummary{}}
	svc := service.NewRunService(runs, sums, service.Options{})
	ctx := context.Background()

	res, err := svc.Create(ctx, []byte(dimerYAML))
	require.NoError(t, err)

	rec, err := svc.Get(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, rec.Status)
	assert.Equal(t, "dimer", rec.Network)
	assert.Contains(t, string(rec.Result), `"A(b!1).B(a!1)"`)

	sum, err := svc.Summary(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.SpeciesCount)
	assert.Equal(t, 2, sum.MoleculeTypes)

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := svc.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), sums.cutoff, time.Minute)

	require.NoError(t, svc.Delete(ctx, res.RunID))
	_, err = svc.Get(ctx, res.RunID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	_, err = svc.Create(ctx, []byte("not: [valid"))
	assert.ErrorIs(t, err, service.ErrMalformedDocument)
}

func TestRunService_WithoutSummaries(t *testing.T) {
	svc := service.NewRunService(&memRuns{recs: map[string]*domain.RunRecord{}}, nil, service.Options{})

	_, err := svc.Summary(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)
	n, err := svc.Sweep(context.Background(), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
