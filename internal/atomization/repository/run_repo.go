package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
)

const (
	runKeyPrefix  = "atomizer:run:"      // atomizer:run:{run_id}
	runIndexKey   = "atomizer:runs"      // sorted set of run ids scored by creation time
	defaultRunTTL = 7 * 24 * time.Hour
)

// RunRepository keeps run results in Redis with a TTL.
type RunRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRunRepository(client *redis.Client, ttl time.Duration) *RunRepository {
	if ttl <= 0 {
		ttl = defaultRunTTL
	}
	return &RunRepository{client: client, ttl: ttl}
}

// Save stores rec, refusing to overwrite an existing run.
func (r *RunRepository) Save(ctx context.Context, rec *domain.RunRecord) error {
	if rec.RunID == "" {
		return fmt.Errorf("run id required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.runKey(rec.RunID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	if !ok {
		return domain.ErrRunAlreadyExists
	}

	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, runIndexKey, redis.Z{Score: float64(rec.CreatedAt.UnixNano()), Member: rec.RunID})
	pipe.Expire(ctx, runIndexKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index run: %w", err)
	}
	return nil
}

// Get retrieves a run by its ID
func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.RunRecord, error) {
	data, err := r.client.Get(ctx, r.runKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var rec domain.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &rec, nil
}

// List returns up to limit runs, newest first. Index entries whose run
// already expired are pruned on the way.
func (r *RunRepository) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	ids, err := r.client.ZRevRange(ctx, runIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]domain.RunRecord, 0, len(ids))
	var stale []any
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		rec.Result = nil
		out = append(out, *rec)
	}
	if len(stale) > 0 {
		r.client.ZRem(ctx, runIndexKey, stale...)
	}
	return out, nil
}

func (r *RunRepository) Delete(ctx context.Context, runID string) error {
	n, err := r.client.Del(ctx, r.runKey(runID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return domain.ErrRunNotFound
	}
	r.client.ZRem(ctx, runIndexKey, runID)
	return nil
}

func (r *RunRepository) runKey(runID string) string {
	return runKeyPrefix + runID
}
