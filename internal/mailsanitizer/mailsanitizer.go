package mailsanitizer

import (
	"log/slog"

	"crmkit/internal/mailsanitizer/handler"
	"crmkit/internal/mailsanitizer/models"
	"crmkit/internal/mailsanitizer/service"
)

// Sanitizer rewrites outbound recipient addresses in non-production
// environments.
type Sanitizer = service.Sanitizer

// Handler wires HTTP endpoints to the sanitizer.
type Handler = handler.Handler

// Policy captures the sanitization exemptions.
type Policy = models.Policy

// DirectoryStore is the directory surface the sanitizer depends on.
type DirectoryStore = service.DirectoryStore

// Option configures the sanitizer.
type Option = service.Option

// Re-exported options so callers wire dependencies through the facade.
var (
	WithLogger  = service.WithLogger
	WithMetrics = service.WithMetrics
)

// New constructs the sanitizer with required dependencies.
func New(directory service.DirectoryStore, policy Policy, opts ...Option) (*Sanitizer, error) {
	return service.New(directory, policy, opts...)
}

// NewHandler constructs an HTTP handler for mail routes.
func NewHandler(s *Sanitizer, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
