package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// RunStore keeps full run results for a bounded time.
type RunStore interface {
	Save(ctx context.Context, rec *domain.RunRecord) error
	Get(ctx context.Context, runID string) (*domain.RunRecord, error)
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
	Delete(ctx context.Context, runID string) error
}

// SummaryStore keeps run digests durably.
type SummaryStore interface {
	Upsert(ctx context.Context, s *domain.RunSummary) (*domain.RunSummary, error)
	GetByRunID(ctx context.Context, runID string) (*domain.RunSummary, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunService runs networks and records the results.
type RunService struct {
	runs      RunStore
	summaries SummaryStore
	opts      Options
	logger    *zap.Logger
}

// NewRunService creates a run service. summaries may be nil when no
// database is configured.
func NewRunService(runs RunStore, summaries SummaryStore, opts Options) *RunService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunService{runs: runs, summaries: summaries, opts: opts, logger: logger}
}

// Create atomizes a YAML or JSON document and stores the result.
func (s *RunService) Create(ctx context.Context, doc []byte) (*Result, error) {
	res, err := AtomizeYAMLBytes(ctx, doc, s.opts)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	rec := &domain.RunRecord{
		RunID:     res.RunID,
		Network:   res.Network,
		Status:    domain.RunStatusCompleted,
		CreatedAt: res.CreatedAt,
		Result:    body,
	}
	if err := s.runs.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	if s.summaries != nil {
		if _, err := s.summaries.Upsert(ctx, res.Summary()); err != nil {
			s.logger.Warn("failed to store run summary", zap.String("run_id", res.RunID), zap.Error(err))
		}
	}
	return res, nil
}

// Get returns a stored run
func (s *RunService) Get(ctx context.Context, runID string) (*domain.RunRecord, error) {
	return s.runs.Get(ctx, runID)
}

// List returns the most recent runs first
func (s *RunService) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runs.List(ctx, limit)
}

func (s *RunService) Summary(ctx context.Context, runID string) (*domain.RunSummary, error) {
	if s.summaries == nil {
		return nil, domain.ErrSummaryNotFound
	}
	return s.summaries.GetByRunID(ctx, runID)
}

func (s *RunService) Delete(ctx context.Context, runID string) error {
	return s.runs.Delete(ctx, runID)
}

// Sweep removes summaries older than maxAge.
func (s *RunService) Sweep(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.summaries == nil {
		return 0, nil
	}
	n, err := s.summaries.DeleteOlderThan(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	s.logger.Info("run summaries swept", zap.Int64("deleted", n), zap.Duration("max_age", maxAge))
	return n, nil
}
