package bootstrap

import (
	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/config"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/atomizer"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/oracle"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

// NewOracle builds the memoized HTTP interaction oracle, or returns nil
// when no URL is configured.
func NewOracle(cfg config.OracleConfig, cache oracle.Cache, logger *zap.Logger, metrics *observability.Collector) oracle.Oracle {
	if cfg.URL == "" {
		return nil
	}
	client := oracle.NewHTTPClient(oracle.ClientConfig{
		BaseURL:       cfg.URL,
		Organism:      cfg.Organism,
		Timeout:       cfg.Timeout,
		Retries:       cfg.Retries,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}, logger)
	return oracle.NewMemoized(client, cache, cfg.CacheTTL,
		oracle.WithLogger(logger),
		oracle.WithMetrics(metrics),
		oracle.WithScope(cfg.Organism),
	)
}

// PipelineOptions maps the configuration onto service options.
func PipelineOptions(cfg *config.Config, o oracle.Oracle, logger *zap.Logger, metrics *observability.Collector) service.Options {
	return service.Options{
		Atomizer: atomizer.Options{
			MaxPasses:         cfg.Atomizer.MaxPasses,
			MinVotes:          cfg.Atomizer.MinVotes,
			PairSingletons:    cfg.Atomizer.PairSingletons,
			ForceModification: cfg.Atomizer.ForceModification,
		},
		SoftConstraints: cfg.Atomizer.SoftConstraints,
		Oracle:          o,
		Logger:          logger,
		Metrics:         metrics,
	}
}
