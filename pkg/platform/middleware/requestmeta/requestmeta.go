// Package requestmeta stamps request-scoped metadata into the context so
// services and handlers read it through pkg/requestcontext instead of
// net/http.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"crmkit/pkg/requestcontext"
)

// Middleware injects a request ID and the request arrival time into the
// request context. An inbound X-Request-ID header is honored when present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
