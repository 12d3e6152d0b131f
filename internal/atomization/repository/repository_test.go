package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/repository"
)

func setupRunRepo(t *testing.T) (*repository.RunRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewRunRepository(client, time.Hour), mr
}

func TestRunRepository_SaveGet(t *testing.T) {
	repo, mr := setupRunRepo(t)
	ctx := context.Background()

	rec := &domain.RunRecord{RunID: "r1", Network: "dimer", Status: domain.RunStatusCompleted, Result: []byte(`{"passes":1}`)}
	require.NoError(t, repo.Save(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, time.Hour, mr.TTL("atomizer:run:r1"))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "dimer", got.Network)
	assert.JSONEq(t, `{"passes":1}`, string(got.Result))

	assert.ErrorIs(t, repo.Save(ctx, rec), domain.ErrRunAlreadyExists)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	assert.Error(t, repo.Save(ctx, &domain.RunRecord{}))
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	repo, mr := setupRunRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Save(ctx, &domain.RunRecord{
			RunID:     id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Result:    []byte(`{}`),
		}))
	}

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].RunID)
	assert.Equal(t, "mid", list[1].RunID)
	assert.Nil(t, list[0].Result, "listing omits result bodies")

	mr.Del("atomizer:run:new")
	list, err = repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mid", list[0].RunID)

	members, err := mr.ZMembers("atomizer:runs")
	require.NoError(t, err)
	assert.NotContains(t, members, "new", "expired runs are pruned from the index")
}

func TestRunRepository_Delete(t *testing.T) {
	repo, _ := setupRunRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.RunRecord{RunID: "r1"}))
	require.NoError(t, repo.Delete(ctx, "r1"))
	_, err := repo.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "r1"), domain.ErrRunNotFound)
}

func setupSummaryRepo(t *testing.T) (*repository.SummaryRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return repository.NewSummaryRepository(db), mock, db
}

func TestSummaryRepository_Upsert(t *testing.T) {
	repo, mock, db := setupSummaryRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO atomization_summaries`).
		WithArgs(sqlmock.AnyArg(), "r1", "dimer", 3, 2, 0, 0, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("7b0c4f0e-0000-4000-8000-000000000001", now, now))

	s, err := repo.Upsert(context.Background(), &domain.RunSummary{
		RunID: "r1", Network: "dimer", SpeciesCount: 3, MoleculeTypes: 2, Passes: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "7b0c4f0e-0000-4000-8000-000000000001", s.ID)
	assert.False(t, s.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepository_GetByRunID(t *testing.T) {
	repo, mock, db := setupSummaryRepo(t)
	defer db.Close()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM atomization_summaries WHERE run_id = \$1`).
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "run_id", "network", "species_count", "molecule_types",
				"assumptions", "unresolved", "passes", "created_at", "updated_at",
			}).AddRow("id-1", "r1", "dimer", 3, 2, 1, 0, 1, now, now))

		s, err := repo.GetByRunID(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "dimer", s.Network)
		assert.Equal(t, 3, s.SpeciesCount)
		assert.Equal(t, 1, s.Assumptions)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM atomization_summaries`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByRunID(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrSummaryNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepository_DeleteOlderThan(t *testing.T) {
	repo, mock, db := setupSummaryRepo(t)
	defer db.Close()

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec(`DELETE FROM atomization_summaries WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepository_Migrate(t *testing.T) {
	repo, mock, db := setupSummaryRepo(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS atomization_summaries`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
