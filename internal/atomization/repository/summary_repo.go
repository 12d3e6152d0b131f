package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

// Schema creates the summaries table when it does not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS atomization_summaries (
	id             UUID PRIMARY KEY,
	run_id         TEXT NOT NULL UNIQUE,
	network        TEXT NOT NULL,
	species_count  INTEGER NOT NULL DEFAULT 0,
	molecule_types INTEGER NOT NULL DEFAULT 0,
	assumptions    INTEGER NOT NULL DEFAULT 0,
	unresolved     INTEGER NOT NULL DEFAULT 0,
	passes         INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// SummaryRepository handles PostgreSQL operations for run summaries
type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Migrate applies Schema.
func (r *SummaryRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate summaries: %w", err)
	}
	return nil
}

// Upsert creates or replaces the summary of s.RunID.
func (r *SummaryRepository) Upsert(ctx context.Context, s *domain.RunSummary) (*domain.RunSummary, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	const q = `
INSERT INTO atomization_summaries (
	id, run_id, network, species_count, molecule_types, assumptions, unresolved, passes
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id) DO UPDATE SET
	network = EXCLUDED.network,
	species_count = EXCLUDED.species_count,
	molecule_types = EXCLUDED.molecule_types,
	assumptions = EXCLUDED.assumptions,
	unresolved = EXCLUDED.unresolved,
	passes = EXCLUDED.passes,
	updated_at = NOW()
RETURNING id, created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		s.ID, s.RunID, s.Network, s.SpeciesCount, s.MoleculeTypes, s.Assumptions, s.Unresolved, s.Passes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert summary: %w", err)
	}
	return s, nil
}

// GetByRunID retrieves a summary by run ID
func (r *SummaryRepository) GetByRunID(ctx context.Context, runID string) (*domain.RunSummary, error) {
	const q = `
SELECT id, run_id, network, species_count, molecule_types, assumptions, unresolved, passes, created_at, updated_at
FROM atomization_summaries
WHERE run_id = $1;
`
	var s domain.RunSummary
	err := r.db.QueryRowContext(ctx, q, runID).Scan(
		&s.ID, &s.RunID, &s.Network, &s.SpeciesCount, &s.MoleculeTypes,
		&s.Assumptions, &s.Unresolved, &s.Passes, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSummaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &s, nil
}

// DeleteOlderThan removes summaries created before cutoff.
func (r *SummaryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM atomization_summaries WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete summaries: %w", err)
	}
	return res.RowsAffected()
}
