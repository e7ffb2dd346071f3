package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	configmetrics "crmkit/internal/instanceconfig/metrics"
	"crmkit/internal/instanceconfig/models"
	"crmkit/pkg/platform/sentinel"
)

// Store is the narrow record-store surface the resolver depends on. All
// lookups are literal equality matches; absent rows surface as
// sentinel.ErrNotFound (wrapped), other errors are collaborator failures.
type Store interface {
	FindInstanceByName(ctx context.Context, name string) (*models.Instance, error)
	FindOverride(ctx context.Context, instanceID uuid.UUID, key string) (string, error)
	FindDefault(ctx context.Context, key string) (string, error)
}

// ValueCache caches resolved values per (instance, key). Implementations
// must treat failures as misses; the resolver never depends on the cache
// for correctness.
type ValueCache interface {
	Get(ctx context.Context, instance, key string) (string, bool)
	Set(ctx context.Context, instance, key, value string)
}

// Resolution sources reported to metrics.
const (
	sourceCache    = "cache"
	sourceOverride = "override"
	sourceDefault  = "default"
	sourceMiss     = "miss"
)

// Resolver serves two-tier configuration lookups: an instance-specific
// override when one exists, else the global default, else not-found.
//
// The instance is loaded once at construction and never mutated afterwards,
// so a single Resolver is safe for concurrent use.
type Resolver struct {
	store    Store
	instance *models.Instance // nil when the configured name matched nothing
	cache    ValueCache
	logger   *slog.Logger
	metrics  *configmetrics.Metrics
	tracer   trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithCache attaches a resolved-value cache.
func WithCache(cache ValueCache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithMetrics attaches module metrics.
func WithMetrics(m *configmetrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver loads the instance matching instanceName and returns a
// resolver scoped to it. No instance matching the name is not an error:
// the resolver degrades to serving defaults only and Name reports
// not-found. A store failure during the load propagates.
func NewResolver(ctx context.Context, store Store, instanceName string, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("config store is required")
	}

	r := &Resolver{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("crmkit/instanceconfig"),
	}
	for _, opt := range opts {
		opt(r)
	}

	instance, err := store.FindInstanceByName(ctx, instanceName)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("load instance: %w", err)
		}
		r.logger.WarnContext(ctx, "no instance matches configured name, serving defaults only",
			"instance_name", instanceName,
		)
		return r, nil
	}

	r.instance = instance
	return r, nil
}

// Name returns the loaded instance's name. ok is false when no instance
// matched at construction.
func (r *Resolver) Name() (name string, ok bool) {
	if r.instance == nil {
		return "", false
	}
	return r.instance.Name, true
}

// Resolve returns the value for key: the instance override when one exists,
// else the global default. found is false when neither row exists — that is
// a result, not an error. err carries store failures only, unhandled per
// the record-store contract.
//
// The key is matched literally: an empty key resolves only against rows
// whose key is the empty string.
func (r *Resolver) Resolve(ctx context.Context, key string) (value string, found bool, err error) {
	ctx, span := r.tracer.Start(ctx, "instanceconfig.Resolve")
	defer span.End()
	start := time.Now()

	if r.cache != nil && r.instance != nil {
		if cached, ok := r.cache.Get(ctx, r.instance.Name, key); ok {
			r.observe(sourceCache, start)
			return cached, true, nil
		}
	}

	// Override tier. With no instance context there are no override rows to
	// match, so resolution falls straight through to defaults.
	if r.instance != nil {
		value, err = r.store.FindOverride(ctx, r.instance.ID, key)
		switch {
		case err == nil:
			r.cacheSet(ctx, key, value)
			r.observe(sourceOverride, start)
			return value, true, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			return "", false, fmt.Errorf("resolve override: %w", err)
		}
	}

	// Default tier.
	value, err = r.store.FindDefault(ctx, key)
	switch {
	case err == nil:
		r.cacheSet(ctx, key, value)
		r.observe(sourceDefault, start)
		return value, true, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return "", false, fmt.Errorf("resolve default: %w", err)
	}

	r.observe(sourceMiss, start)
	return "", false, nil
}

func (r *Resolver) cacheSet(ctx context.Context, key, value string) {
	if r.cache != nil && r.instance != nil {
		r.cache.Set(ctx, r.instance.Name, key, value)
	}
}

func (r *Resolver) observe(source string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveResolution(source, start)
	}
}
