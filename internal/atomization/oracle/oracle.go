package oracle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

var ErrUnavailable = errors.New("interaction oracle unavailable")

// Oracle is a fallible biological interaction lookup.
type Oracle interface {
	QueryBinding(ctx context.Context, a, b string) (bool, error)
	ActiveSites(ctx context.Context, name string) ([]string, error)
}

// Evidence is what the atomizer consumes: lookups that never fail, only
// come back empty.
type Evidence interface {
	Binds(ctx context.Context, a, b string) bool
	ActiveSites(ctx context.Context, name string) []string
}

// None answers every query with no evidence.
type None struct{}

func (None) QueryBinding(context.Context, string, string) (bool, error) { return false, nil }

func (None) ActiveSites(context.Context, string) ([]string, error) { return nil, nil }

type guarded struct {
	oracle  Oracle
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewEvidence wraps o so that failures degrade to "no evidence". Each
// failed call is logged once.
func NewEvidence(o Oracle, logger *zap.Logger, metrics *observability.Collector) Evidence {
	if o == nil {
		o = None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &guarded{oracle: o, logger: logger, metrics: metrics}
}

func (g *guarded) Binds(ctx context.Context, a, b string) bool {
	ok, err := g.oracle.QueryBinding(ctx, a, b)
	if err != nil {
		g.metrics.RecordOracle("binds", "error")
		g.logger.Warn("interaction oracle failed, treating as no evidence",
			zap.String("a", a), zap.String("b", b), zap.Error(err))
		return false
	}
	g.metrics.RecordOracle("binds", outcome(ok))
	return ok
}

func (g *guarded) ActiveSites(ctx context.Context, name string) []string {
	sites, err := g.oracle.ActiveSites(ctx, name)
	if err != nil {
		g.metrics.RecordOracle("active_sites", "error")
		g.logger.Warn("active site oracle failed, treating as no evidence",
			zap.String("name", name), zap.Error(err))
		return nil
	}
	g.metrics.RecordOracle("active_sites", outcome(len(sites) > 0))
	return sites
}

func outcome(found bool) string {
	if found {
		return "hit"
	}
	return "miss"
}

// Chain asks each oracle in turn and returns the first positive answer.
// An error surfaces only when no oracle could answer at all.
type Chain []Oracle

func (c Chain) QueryBinding(ctx context.Context, a, b string) (bool, error) {
	var errs []error
	for _, o := range c {
		ok, err := o.QueryBinding(ctx, a, b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return true, nil
		}
	}
	if len(errs) == len(c) && len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return false, nil
}

func (c Chain) ActiveSites(ctx context.Context, name string) ([]string, error) {
	var errs []error
	for _, o := range c {
		sites, err := o.ActiveSites(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(sites) > 0 {
			return sites, nil
		}
	}
	if len(errs) == len(c) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
