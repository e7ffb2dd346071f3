package instanceconfig

import (
	"context"
	"log/slog"

	"crmkit/internal/instanceconfig/handler"
	"crmkit/internal/instanceconfig/service"
)

// Resolver serves two-tier configuration lookups.
type Resolver = service.Resolver

// Handler wires HTTP endpoints to the resolver.
type Handler = handler.Handler

// Store is the record-store surface the resolver depends on.
type Store = service.Store

// Option configures the resolver.
type Option = service.Option

// Re-exported options so callers wire dependencies through the facade.
var (
	WithLogger  = service.WithLogger
	WithCache   = service.WithCache
	WithMetrics = service.WithMetrics
)

// NewResolver constructs the resolver scoped to the named instance.
func NewResolver(ctx context.Context, store service.Store, instanceName string, opts ...Option) (*Resolver, error) {
	return service.NewResolver(ctx, store, instanceName, opts...)
}

// NewHandler constructs an HTTP handler for configuration routes.
func NewHandler(r *Resolver, logger *slog.Logger) *Handler {
	return handler.New(r, logger)
}
