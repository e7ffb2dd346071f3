package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "crmkit/pkg/domain-errors"
	"crmkit/pkg/platform/httputil"
	"crmkit/pkg/requestcontext"
)

// Resolver defines the configuration operations exposed over HTTP.
type Resolver interface {
	Name() (string, bool)
	Resolve(ctx context.Context, key string) (string, bool, error)
}

// Handler wires configuration endpoints to the resolver.
type Handler struct {
	resolver Resolver
	logger   *slog.Logger
}

// New constructs a configuration handler with its dependencies.
func New(resolver Resolver, logger *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger,
	}
}

// Register mounts configuration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/config/name", h.HandleName)
	r.Get("/config/value", h.HandleResolve)
}

// HandleName handles GET /config/name requests.
func (h *Handler) HandleName(w http.ResponseWriter, r *http.Request) {
	name, ok := h.resolver.Name()
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no instance loaded"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nameResponse{Name: name})
}

// HandleResolve handles GET /config/value?key=... requests. The key is taken
// from the query string so the empty-string key stays expressible; it is
// matched literally against configuration rows.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.URL.Query().Get("key")

	value, found, err := h.resolver.Resolve(ctx, key)
	if err != nil {
		h.logger.ErrorContext(ctx, "config resolution failed",
			"request_id", requestcontext.RequestID(ctx),
			"key", key,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "config resolution failed"))
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no value for key"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, valueResponse{Key: key, Value: value})
}

type nameResponse struct {
	Name string `json:"name"`
}

type valueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
