package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "crmkit/pkg/domain-errors"
	"crmkit/pkg/platform/httputil"
	"crmkit/pkg/requestcontext"
)

// Sanitizer defines the mail operations exposed over HTTP.
type Sanitizer interface {
	Sanitize(ctx context.Context, recipients []string) (string, error)
}

// Handler wires mail sanitization endpoints to the sanitizer service.
type Handler struct {
	sanitizer Sanitizer
	logger    *slog.Logger
}

// New constructs a mail handler with its dependencies.
func New(sanitizer Sanitizer, logger *slog.Logger) *Handler {
	return &Handler{
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// Register mounts mail endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/mail/sanitize", h.HandleSanitize)
}

// SanitizeRequest is the wire shape for sanitize requests.
type SanitizeRequest struct {
	Recipients []string `json:"recipients"`
}

// SanitizeResponse carries the comma-joined, possibly rewritten recipients.
type SanitizeResponse struct {
	Recipients string `json:"recipients"`
}

// HandleSanitize handles POST /mail/sanitize requests.
func (h *Handler) HandleSanitize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, err := httputil.Decode[SanitizeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.sanitizer.Sanitize(ctx, req.Recipients)
	if err != nil {
		h.logger.ErrorContext(ctx, "recipient sanitization failed",
			"request_id", requestcontext.RequestID(ctx),
			"recipient_count", len(req.Recipients),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "sanitization failed"))
		return
	}

	h.logger.InfoContext(ctx, "recipients sanitized",
		"request_id", requestcontext.RequestID(ctx),
		"recipient_count", len(req.Recipients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, SanitizeResponse{Recipients: result})
}
