package oracle

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

// Memoized caches answers of an inner oracle by argument tuple. Concurrent
// identical lookups share one upstream call; failures are never cached.
type Memoized struct {
	inner   Oracle
	cache   Cache
	ttl     time.Duration
	scope   string
	group   singleflight.Group
	logger  *zap.Logger
	metrics *observability.Collector
}

type MemoOption func(*Memoized)

func WithLogger(l *zap.Logger) MemoOption { return func(m *Memoized) { m.logger = l } }

func WithMetrics(c *observability.Collector) MemoOption { return func(m *Memoized) { m.metrics = c } }

// WithScope namespaces keys, e.g. by organism.
func WithScope(scope string) MemoOption { return func(m *Memoized) { m.scope = scope } }

func NewMemoized(inner Oracle, cache Cache, ttl time.Duration, opts ...MemoOption) *Memoized {
	if cache == nil {
		cache = NewMemoryCache()
	}
	m := &Memoized{inner: inner, cache: cache, ttl: ttl, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memoized) QueryBinding(ctx context.Context, a, b string) (bool, error) {
	p := domain.NewMoleculePair(strings.ToLower(a), strings.ToLower(b))
	var out bool
	err := m.lookup(ctx, "bind:"+m.scope+":"+p[0]+":"+p[1], &out, func() (any, error) {
		return m.inner.QueryBinding(ctx, a, b)
	})
	return out, err
}

func (m *Memoized) ActiveSites(ctx context.Context, name string) ([]string, error) {
	var out []string
	err := m.lookup(ctx, "sites:"+m.scope+":"+strings.ToLower(name), &out, func() (any, error) {
		return m.inner.ActiveSites(ctx, name)
	})
	return out, err
}

func (m *Memoized) lookup(ctx context.Context, key string, out any, call func() (any, error)) error {
	raw, err, _ := m.group.Do(key, func() (interface{}, error) {
		cached, ok, err := m.cache.Get(ctx, key)
		if err != nil {
			m.logger.Warn("oracle cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			m.metrics.RecordCache(true)
			return cached, nil
		}
		m.metrics.RecordCache(false)

		v, err := call()
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := m.cache.Set(ctx, key, encoded, m.ttl); err != nil {
			m.logger.Warn("oracle cache write failed", zap.String("key", key), zap.Error(err))
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), out)
}
