package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/config"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/repository"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/storage/postgres"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/storage/redis"
)

// Stores holds whatever backing stores the configuration enables. Nil
// fields are disabled.
type Stores struct {
	DB        *sql.DB
	Redis     *goredis.Client
	Summaries *repository.SummaryRepository
}

// OpenStores connects to postgres and redis as configured and migrates the
// summaries table.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{}

	if cfg.Database.Enabled {
		db, err := postgres.NewConnection(ctx, &cfg.Database, 5*time.Second)
		if err != nil {
			return nil, err
		}
		s.DB = db
		s.Summaries = repository.NewSummaryRepository(db)
		if err := s.Summaries.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		logger.Info("postgres connected", zap.String("db", postgres.URL(&cfg.Database)))
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, &cfg.Redis, 5*time.Second)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Redis = client
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	return s, nil
}

func (s *Stores) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

// RequireRedis fails when the run store is unavailable.
func (s *Stores) RequireRedis() error {
	if s.Redis == nil {
		return fmt.Errorf("redis is required for the run store (set REDIS_ENABLED=true)")
	}
	return nil
}
